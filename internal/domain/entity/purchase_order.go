package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus es el estado de una orden de compra (value object).
type PurchaseOrderStatus string

// Estados de una orden de compra.
const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusSent      PurchaseOrderStatus = "SENT"
	PurchaseOrderStatusConfirmed PurchaseOrderStatus = "CONFIRMED"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// String devuelve la representación textual del estado.
func (s PurchaseOrderStatus) String() string { return string(s) }

// IsTerminal indica si el estado no admite más transiciones.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// CanTransitionTo valida la transición Draft→Sent→Confirmed→Received,
// con Cancelled alcanzable desde cualquier estado no terminal.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	if target == PurchaseOrderStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusSent
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusSent:
		return target == PurchaseOrderStatusConfirmed
	}
	return false
}

// CanReceive indica si se pueden recibir mercancías en este estado.
// Las recepciones parciales dejan la orden en CONFIRMED, recibible de nuevo.
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusConfirmed
}

// PurchaseOrderItem es una línea de la orden de compra. La recepción parcial
// está permitida: ReceivedQuantity crece por incrementos hasta OrderedQuantity.
type PurchaseOrderItem struct {
	SKUID            string
	ProductID        string
	SKUCode          string
	OrderedQuantity  int64
	ReceivedQuantity int64 // <= OrderedQuantity
	OrderedPrice     decimal.Decimal
	ReceivedPrice    decimal.Decimal
	PriceVariance    decimal.Decimal // ReceivedPrice - OrderedPrice
}

// Remaining devuelve la cantidad pendiente de recibir.
func (it *PurchaseOrderItem) Remaining() int64 {
	return it.OrderedQuantity - it.ReceivedQuantity
}

// PurchaseOrder representa una orden de compra a un proveedor. El stock se
// acredita solo al recibir (type=purchase), una vez por cantidad recibida;
// Draft/Sent/Confirmed/Cancelled no tienen efecto sobre el stock.
type PurchaseOrder struct {
	ID          string
	TenantID    string
	PONumber    string // único por tenant
	SupplierID  string
	Status      PurchaseOrderStatus
	Items       []PurchaseOrderItem
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SentAt      *time.Time
	ConfirmedAt *time.Time
	ReceivedAt  *time.Time
	CancelledAt *time.Time
}

// FullyReceived indica si todas las líneas completaron su cantidad pedida.
func (po *PurchaseOrder) FullyReceived() bool {
	for _, it := range po.Items {
		if it.ReceivedQuantity < it.OrderedQuantity {
			return false
		}
	}
	return true
}

// ItemBySKU devuelve la línea del SKU o nil si no existe.
func (po *PurchaseOrder) ItemBySKU(skuID string) *PurchaseOrderItem {
	for i := range po.Items {
		if po.Items[i].SKUID == skuID {
			return &po.Items[i]
		}
	}
	return nil
}
