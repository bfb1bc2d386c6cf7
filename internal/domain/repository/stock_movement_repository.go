package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del ledger de
// movimientos. Append-only: solo Create y lecturas; sin Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListBySKU(ctx context.Context, tenantID, skuID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(ctx context.Context, tenantID, reference string) ([]*entity.StockMovement, error)
}
