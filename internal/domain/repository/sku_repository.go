package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// SKURepository define el puerto de persistencia para SKU.
// CompareAndSwapStock es la ÚNICA vía de escritura de Stock: compara la versión
// y, si coincide, escribe el nuevo stock e incrementa la versión en la misma
// operación atómica (patrón de documento versionado). Devuelve false sin error
// cuando la versión no coincide (conflicto optimista, el caller reintenta).
// Update nunca toca Stock ni Version.
type SKURepository interface {
	Create(ctx context.Context, sku *entity.SKU) error
	GetByID(ctx context.Context, tenantID, skuID string) (*entity.SKU, error)
	GetByCode(ctx context.Context, tenantID, code string) (*entity.SKU, error)
	ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.SKU, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.SKU, error)
	Update(ctx context.Context, sku *entity.SKU) error
	CompareAndSwapStock(ctx context.Context, tenantID, skuID string, expectedVersion, newStock int64) (bool, error)
}
