package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.SKURepository = (*SKURepo)(nil)

// SKURepo implementación de SKURepository sobre PostgreSQL (usable con pool o tx).
type SKURepo struct {
	q Querier
}

// NewSKURepository construye el adaptador de SKU. Pasar pool o tx (Querier).
func NewSKURepository(q Querier) *SKURepo {
	return &SKURepo{q: q}
}

const skuColumns = `id, tenant_id, product_id, code, name, price, stock, low_stock_threshold, version, is_active, created_at, updated_at`

// Create inserta un SKU nuevo (stock 0 o el que traiga, versión inicial 1).
func (r *SKURepo) Create(ctx context.Context, sku *entity.SKU) error {
	query := `
		INSERT INTO skus (` + skuColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		sku.ID, sku.TenantID, sku.ProductID, sku.Code, sku.Name, sku.Price,
		sku.Stock, sku.LowStockThreshold, sku.Version, sku.IsActive,
		sku.CreatedAt, sku.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create sku: %w", err)
	}
	return nil
}

// GetByID obtiene un SKU del tenant. Devuelve nil si no existe.
func (r *SKURepo) GetByID(ctx context.Context, tenantID, skuID string) (*entity.SKU, error) {
	query := `SELECT ` + skuColumns + ` FROM skus WHERE tenant_id = $1 AND id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, tenantID, skuID))
}

// GetByCode obtiene un SKU por su código único dentro del tenant.
func (r *SKURepo) GetByCode(ctx context.Context, tenantID, code string) (*entity.SKU, error) {
	query := `SELECT ` + skuColumns + ` FROM skus WHERE tenant_id = $1 AND code = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, tenantID, code))
}

// ListByProduct lista los SKUs de un producto.
func (r *SKURepo) ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.SKU, error) {
	query := `SELECT ` + skuColumns + ` FROM skus
		WHERE tenant_id = $1 AND product_id = $2 ORDER BY code`
	rows, err := r.q.Query(ctx, query, tenantID, productID)
	if err != nil {
		return nil, fmt.Errorf("list skus by product: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListByTenant lista los SKUs del tenant, paginados.
func (r *SKURepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.SKU, error) {
	query := `SELECT ` + skuColumns + ` FROM skus
		WHERE tenant_id = $1 ORDER BY code LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Update actualiza los campos editables del SKU. Nunca toca stock ni version:
// esa escritura es exclusiva de CompareAndSwapStock.
func (r *SKURepo) Update(ctx context.Context, sku *entity.SKU) error {
	query := `
		UPDATE skus
		SET name = $3, price = $4, low_stock_threshold = $5, is_active = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		sku.TenantID, sku.ID, sku.Name, sku.Price, sku.LowStockThreshold,
		sku.IsActive, sku.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sku: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CompareAndSwapStock escribe el nuevo stock solo si la versión no cambió,
// incrementando la versión en la misma sentencia (update condicional sobre el
// documento versionado). RowsAffected 0 = la versión ya no coincide.
func (r *SKURepo) CompareAndSwapStock(ctx context.Context, tenantID, skuID string, expectedVersion, newStock int64) (bool, error) {
	query := `
		UPDATE skus
		SET stock = $4, version = version + 1, updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND version = $3`
	tag, err := r.q.Exec(ctx, query, tenantID, skuID, expectedVersion, newStock)
	if err != nil {
		return false, fmt.Errorf("compare-and-swap stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SKURepo) scanOne(row pgx.Row) (*entity.SKU, error) {
	var s entity.SKU
	err := row.Scan(
		&s.ID, &s.TenantID, &s.ProductID, &s.Code, &s.Name, &s.Price,
		&s.Stock, &s.LowStockThreshold, &s.Version, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sku: %w", err)
	}
	return &s, nil
}

func (r *SKURepo) scanAll(rows pgx.Rows) ([]*entity.SKU, error) {
	var list []*entity.SKU
	for rows.Next() {
		var s entity.SKU
		if err := rows.Scan(
			&s.ID, &s.TenantID, &s.ProductID, &s.Code, &s.Name, &s.Price,
			&s.Stock, &s.LowStockThreshold, &s.Version, &s.IsActive,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sku: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
