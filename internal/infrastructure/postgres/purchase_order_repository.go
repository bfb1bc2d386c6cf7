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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
// Cabecera en purchase_orders, líneas en purchase_order_items.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, tenant_id, po_number, supplier_id, status, notes, created_by, created_at, updated_at, sent_at, confirmed_at, received_at, cancelled_at`

// Create inserta la orden de compra y sus líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + poColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.TenantID, po.PONumber, po.SupplierID, po.Status.String(),
		po.Notes, po.CreatedBy, po.CreatedAt, po.UpdatedAt,
		po.SentAt, po.ConfirmedAt, po.ReceivedAt, po.CancelledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase order: %w", err)
	}
	for _, it := range po.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_items (po_id, sku_id, product_id, sku_code, ordered_quantity, received_quantity, ordered_price, received_price, price_variance)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			po.ID, it.SKUID, it.ProductID, it.SKUCode, it.OrderedQuantity,
			it.ReceivedQuantity, it.OrderedPrice, it.ReceivedPrice, it.PriceVariance,
		)
		if err != nil {
			return fmt.Errorf("create purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden de compra del tenant con sus líneas. Devuelve nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, tenantID, poID string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE tenant_id = $1 AND id = $2`
	return r.getOne(ctx, r.q.QueryRow(ctx, query, tenantID, poID))
}

// GetByNumber obtiene una orden de compra por su número único dentro del tenant.
func (r *PurchaseOrderRepo) GetByNumber(ctx context.Context, tenantID, poNumber string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE tenant_id = $1 AND po_number = $2`
	return r.getOne(ctx, r.q.QueryRow(ctx, query, tenantID, poNumber))
}

// Update actualiza la cabecera y el avance de recepción de las líneas.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET status = $3, notes = $4, updated_at = $5, sent_at = $6, confirmed_at = $7, received_at = $8, cancelled_at = $9
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		po.TenantID, po.ID, po.Status.String(), po.Notes, po.UpdatedAt,
		po.SentAt, po.ConfirmedAt, po.ReceivedAt, po.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for _, it := range po.Items {
		_, err := r.q.Exec(ctx, `
			UPDATE purchase_order_items
			SET received_quantity = $3, received_price = $4, price_variance = $5
			WHERE po_id = $1 AND sku_id = $2`,
			po.ID, it.SKUID, it.ReceivedQuantity, it.ReceivedPrice, it.PriceVariance,
		)
		if err != nil {
			return fmt.Errorf("update purchase order item: %w", err)
		}
	}
	return nil
}

// ListByTenant lista las órdenes de compra del tenant con sus líneas.
func (r *PurchaseOrderRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders
		WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, po := range list {
		if err := r.loadItems(ctx, po); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PurchaseOrderRepo) getOne(ctx context.Context, row pgx.Row) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadItems(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) loadItems(ctx context.Context, po *entity.PurchaseOrder) error {
	rows, err := r.q.Query(ctx, `
		SELECT sku_id, product_id, sku_code, ordered_quantity, received_quantity, ordered_price, received_price, price_variance
		FROM purchase_order_items WHERE po_id = $1 ORDER BY sku_code`, po.ID)
	if err != nil {
		return fmt.Errorf("load purchase order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.SKUID, &it.ProductID, &it.SKUCode,
			&it.OrderedQuantity, &it.ReceivedQuantity,
			&it.OrderedPrice, &it.ReceivedPrice, &it.PriceVariance); err != nil {
			return fmt.Errorf("scan purchase order item: %w", err)
		}
		po.Items = append(po.Items, it)
	}
	return rows.Err()
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var status string
	var notes, createdBy *string
	err := row.Scan(
		&po.ID, &po.TenantID, &po.PONumber, &po.SupplierID, &status,
		&notes, &createdBy, &po.CreatedAt, &po.UpdatedAt,
		&po.SentAt, &po.ConfirmedAt, &po.ReceivedAt, &po.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	po.Status = entity.PurchaseOrderStatus(status)
	if notes != nil {
		po.Notes = *notes
	}
	if createdBy != nil {
		po.CreatedBy = *createdBy
	}
	return &po, nil
}
