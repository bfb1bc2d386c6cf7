package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo adaptador del ledger sobre PostgreSQL (usable con pool o tx).
// La tabla stock_movements es append-only: solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, tenant_id, sku_id, product_id, type, quantity, balance_before, balance_after, reference, reference_type, created_at, created_by`

// Create persiste un movimiento. Nunca hay UPDATE ni DELETE sobre esta tabla.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TenantID, m.SKUID, m.ProductID, m.Type, m.Quantity,
		m.BalanceBefore, m.BalanceAfter, m.Reference, m.ReferenceType,
		m.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListBySKU lista los movimientos de un SKU, más recientes primero.
func (r *StockMovementRepo) ListBySKU(ctx context.Context, tenantID, skuID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE tenant_id = $1 AND sku_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, skuID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by sku: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListByReference lista los movimientos asociados a una orden u orden de compra.
func (r *StockMovementRepo) ListByReference(ctx context.Context, tenantID, reference string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE tenant_id = $1 AND reference = $2
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, reference)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *StockMovementRepo) scanAll(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var createdBy *string
		if err := rows.Scan(
			&m.ID, &m.TenantID, &m.SKUID, &m.ProductID, &m.Type, &m.Quantity,
			&m.BalanceBefore, &m.BalanceAfter, &m.Reference, &m.ReferenceType,
			&m.CreatedAt, &createdBy,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
