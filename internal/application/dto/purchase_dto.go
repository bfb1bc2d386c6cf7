package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// POLineRequest línea pedida al crear una orden de compra.
type POLineRequest struct {
	SKUID    string          `json:"sku_id" validate:"required"`
	Quantity int64           `json:"quantity" validate:"required,min=1"`
	Price    decimal.Decimal `json:"price"`
}

// CreatePORequest body para POST /api/purchase-orders.
type CreatePORequest struct {
	SupplierID string          `json:"supplier_id" validate:"required"`
	Notes      string          `json:"notes"`
	Items      []POLineRequest `json:"items" validate:"required,min=1"`
}

// ReceiveLineRequest línea recibida en una recepción (parcial o total).
type ReceiveLineRequest struct {
	SKUID    string          `json:"sku_id" validate:"required"`
	Quantity int64           `json:"quantity" validate:"required,min=1"`
	Price    decimal.Decimal `json:"price"` // precio real; cero = usar el pactado
}

// ReceivePORequest body para POST /api/purchase-orders/:id/receive.
type ReceivePORequest struct {
	Lines []ReceiveLineRequest `json:"lines" validate:"required,min=1"`
}

// CancelPORequest body para POST /api/purchase-orders/:id/cancel.
type CancelPORequest struct {
	Reason string `json:"reason"`
}

// POItemResponse línea de la orden de compra en respuestas.
type POItemResponse struct {
	SKUID            string          `json:"sku_id"`
	SKUCode          string          `json:"sku_code"`
	ProductID        string          `json:"product_id"`
	OrderedQuantity  int64           `json:"ordered_quantity"`
	ReceivedQuantity int64           `json:"received_quantity"`
	OrderedPrice     decimal.Decimal `json:"ordered_price"`
	ReceivedPrice    decimal.Decimal `json:"received_price"`
	PriceVariance    decimal.Decimal `json:"price_variance"`
}

// POResponse salida de una orden de compra.
type POResponse struct {
	ID          string           `json:"id"`
	PONumber    string           `json:"po_number"`
	SupplierID  string           `json:"supplier_id"`
	Status      string           `json:"status"`
	Items       []POItemResponse `json:"items"`
	Notes       string           `json:"notes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	SentAt      *time.Time       `json:"sent_at,omitempty"`
	ConfirmedAt *time.Time       `json:"confirmed_at,omitempty"`
	ReceivedAt  *time.Time       `json:"received_at,omitempty"`
	CancelledAt *time.Time       `json:"cancelled_at,omitempty"`
}

// POToResponse mapea la entidad a su DTO de salida.
func POToResponse(po *entity.PurchaseOrder) POResponse {
	items := make([]POItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, POItemResponse{
			SKUID:            it.SKUID,
			SKUCode:          it.SKUCode,
			ProductID:        it.ProductID,
			OrderedQuantity:  it.OrderedQuantity,
			ReceivedQuantity: it.ReceivedQuantity,
			OrderedPrice:     it.OrderedPrice,
			ReceivedPrice:    it.ReceivedPrice,
			PriceVariance:    it.PriceVariance,
		})
	}
	return POResponse{
		ID:          po.ID,
		PONumber:    po.PONumber,
		SupplierID:  po.SupplierID,
		Status:      po.Status.String(),
		Items:       items,
		Notes:       po.Notes,
		CreatedAt:   po.CreatedAt,
		SentAt:      po.SentAt,
		ConfirmedAt: po.ConfirmedAt,
		ReceivedAt:  po.ReceivedAt,
		CancelledAt: po.CancelledAt,
	}
}
