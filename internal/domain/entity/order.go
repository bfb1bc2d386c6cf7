package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de venta.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPartial   = "PARTIAL"
	OrderStatusFulfilled = "FULFILLED"
	OrderStatusCancelled = "CANCELLED"
)

// OrderItem es una línea de la orden. El precio se congela al crear la orden;
// cambios posteriores de precio del SKU no la afectan.
type OrderItem struct {
	SKUID             string
	ProductID         string
	SKUCode           string
	Quantity          int64
	FulfilledQuantity int64 // 0 <= FulfilledQuantity <= Quantity
	Price             decimal.Decimal
	LineTotal         decimal.Decimal // Price * Quantity
}

// Order representa una orden de venta multi-línea. El stock se descuenta al
// crearla (modelo reserva-al-crear); Fulfilled es un marcador operativo y no
// vuelve a mover stock. Cancelled restaura el remanente no despachado de cada
// línea y es terminal.
// Invariante: TotalAmount = Subtotal + Tax - Discount.
type Order struct {
	ID                 string
	TenantID           string
	OrderNumber        string // único por tenant
	Status             string
	Items              []OrderItem
	Subtotal           decimal.Decimal
	Tax                decimal.Decimal
	Discount           decimal.Decimal
	TotalAmount        decimal.Decimal
	CustomerName       string
	CustomerEmail      string
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CancelledAt        *time.Time
	CancellationReason string
}

// IsCancelled indica si la orden ya fue cancelada (estado terminal).
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// FulfilledUnits suma las cantidades despachadas de todas las líneas.
func (o *Order) FulfilledUnits() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.FulfilledQuantity
	}
	return total
}

// TotalUnits suma las cantidades pedidas de todas las líneas.
func (o *Order) TotalUnits() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.Quantity
	}
	return total
}

// DeriveFulfillmentStatus recalcula el estado según las cantidades despachadas:
// todo despachado → FULFILLED, algo despachado → PARTIAL, nada → PENDING.
// No aplica sobre órdenes canceladas.
func (o *Order) DeriveFulfillmentStatus() string {
	fulfilled := o.FulfilledUnits()
	switch {
	case fulfilled == 0:
		return OrderStatusPending
	case fulfilled >= o.TotalUnits():
		return OrderStatusFulfilled
	default:
		return OrderStatusPartial
	}
}
