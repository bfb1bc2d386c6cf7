package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// OrderLineRequest línea solicitada al crear una orden.
type OrderLineRequest struct {
	SKUID    string `json:"sku_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Items         []OrderLineRequest `json:"items" validate:"required,min=1"`
	Tax           decimal.Decimal    `json:"tax"`
	Discount      decimal.Decimal    `json:"discount"`
}

// FulfillLineRequest cantidad despachada ahora para una línea.
type FulfillLineRequest struct {
	SKUID    string `json:"sku_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,min=1"`
}

// FulfillLinesRequest body para POST /api/orders/:id/fulfill-lines.
type FulfillLinesRequest struct {
	Lines []FulfillLineRequest `json:"lines" validate:"required,min=1"`
}

// CancelOrderRequest body para POST /api/orders/:id/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// StorefrontOrderRequest body para POST /api/storefront/:tenant/orders.
// El comprador no está autenticado: se identifica por nombre y correo.
type StorefrontOrderRequest struct {
	CustomerName  string             `json:"customer_name" validate:"required"`
	CustomerEmail string             `json:"customer_email" validate:"required,email"`
	Items         []OrderLineRequest `json:"items" validate:"required,min=1"`
}

// OrderItemResponse línea de la orden en respuestas.
type OrderItemResponse struct {
	SKUID             string          `json:"sku_id"`
	SKUCode           string          `json:"sku_code"`
	ProductID         string          `json:"product_id"`
	Quantity          int64           `json:"quantity"`
	FulfilledQuantity int64           `json:"fulfilled_quantity"`
	Price             decimal.Decimal `json:"price"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID                 string              `json:"id"`
	OrderNumber        string              `json:"order_number"`
	Status             string              `json:"status"`
	Items              []OrderItemResponse `json:"items"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	Tax                decimal.Decimal     `json:"tax"`
	Discount           decimal.Decimal     `json:"discount"`
	TotalAmount        decimal.Decimal     `json:"total_amount"`
	CustomerName       string              `json:"customer_name,omitempty"`
	CustomerEmail      string              `json:"customer_email,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	CancelledAt        *time.Time          `json:"cancelled_at,omitempty"`
	CancellationReason string              `json:"cancellation_reason,omitempty"`
}

// OrderToResponse mapea la entidad a su DTO de salida.
func OrderToResponse(o *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			SKUID:             it.SKUID,
			SKUCode:           it.SKUCode,
			ProductID:         it.ProductID,
			Quantity:          it.Quantity,
			FulfilledQuantity: it.FulfilledQuantity,
			Price:             it.Price,
			LineTotal:         it.LineTotal,
		})
	}
	return OrderResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		Status:             o.Status,
		Items:              items,
		Subtotal:           o.Subtotal,
		Tax:                o.Tax,
		Discount:           o.Discount,
		TotalAmount:        o.TotalAmount,
		CustomerName:       o.CustomerName,
		CustomerEmail:      o.CustomerEmail,
		CreatedAt:          o.CreatedAt,
		CancelledAt:        o.CancelledAt,
		CancellationReason: o.CancellationReason,
	}
}
