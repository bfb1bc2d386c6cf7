package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes de venta.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, tenantID, orderID string) (*entity.Order, error)
	GetByNumber(ctx context.Context, tenantID, orderNumber string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Order, error)
}
