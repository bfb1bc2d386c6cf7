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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
// Cabecera en orders, líneas en order_items.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, tenant_id, order_number, status, subtotal, tax, discount, total_amount, customer_name, customer_email, created_by, created_at, updated_at, cancelled_at, cancellation_reason`

// Create inserta la orden y sus líneas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.TenantID, o.OrderNumber, o.Status, o.Subtotal, o.Tax, o.Discount,
		o.TotalAmount, o.CustomerName, o.CustomerEmail, o.CreatedBy,
		o.CreatedAt, o.UpdatedAt, o.CancelledAt, o.CancellationReason,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create order: %w", err)
	}
	for _, it := range o.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (order_id, sku_id, product_id, sku_code, quantity, fulfilled_quantity, price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			o.ID, it.SKUID, it.ProductID, it.SKUCode, it.Quantity,
			it.FulfilledQuantity, it.Price, it.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden del tenant con sus líneas. Devuelve nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, tenantID, orderID string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND id = $2`
	return r.getOne(ctx, r.q.QueryRow(ctx, query, tenantID, orderID))
}

// GetByNumber obtiene una orden por su número único dentro del tenant.
func (r *OrderRepo) GetByNumber(ctx context.Context, tenantID, orderNumber string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND order_number = $2`
	return r.getOne(ctx, r.q.QueryRow(ctx, query, tenantID, orderNumber))
}

// Update actualiza la cabecera y las cantidades despachadas de las líneas.
// Las líneas en sí son inmutables salvo fulfilled_quantity.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $3, updated_at = $4, cancelled_at = $5, cancellation_reason = $6
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		o.TenantID, o.ID, o.Status, o.UpdatedAt, o.CancelledAt, o.CancellationReason,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for _, it := range o.Items {
		_, err := r.q.Exec(ctx, `
			UPDATE order_items SET fulfilled_quantity = $3
			WHERE order_id = $1 AND sku_id = $2`,
			o.ID, it.SKUID, it.FulfilledQuantity,
		)
		if err != nil {
			return fmt.Errorf("update order item: %w", err)
		}
	}
	return nil
}

// ListByTenant lista las órdenes del tenant con sus líneas, más recientes primero.
func (r *OrderRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *OrderRepo) getOne(ctx context.Context, row pgx.Row) (*entity.Order, error) {
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, o *entity.Order) error {
	rows, err := r.q.Query(ctx, `
		SELECT sku_id, product_id, sku_code, quantity, fulfilled_quantity, price, line_total
		FROM order_items WHERE order_id = $1 ORDER BY sku_code`, o.ID)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.SKUID, &it.ProductID, &it.SKUCode, &it.Quantity,
			&it.FulfilledQuantity, &it.Price, &it.LineTotal); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var customerName, customerEmail, createdBy, reason *string
	err := row.Scan(
		&o.ID, &o.TenantID, &o.OrderNumber, &o.Status, &o.Subtotal, &o.Tax,
		&o.Discount, &o.TotalAmount, &customerName, &customerEmail, &createdBy,
		&o.CreatedAt, &o.UpdatedAt, &o.CancelledAt, &reason,
	)
	if err != nil {
		return nil, err
	}
	if customerName != nil {
		o.CustomerName = *customerName
	}
	if customerEmail != nil {
		o.CustomerEmail = *customerEmail
	}
	if createdBy != nil {
		o.CreatedBy = *createdBy
	}
	if reason != nil {
		o.CancellationReason = *reason
	}
	return &o, nil
}
