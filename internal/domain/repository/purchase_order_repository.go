package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, tenantID, poID string) (*entity.PurchaseOrder, error)
	GetByNumber(ctx context.Context, tenantID, poNumber string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
