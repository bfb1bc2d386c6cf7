package dto

import "time"

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Quantity lleva signo: positivo suma, negativo resta.
type AdjustStockRequest struct {
	SKUID    string `json:"sku_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required"`
	Note     string `json:"note"`
}

// MovementResponse una entrada del ledger de movimientos.
type MovementResponse struct {
	ID            string    `json:"id"`
	SKUID         string    `json:"sku_id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	Reference     string    `json:"reference"`
	ReferenceType string    `json:"reference_type"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
}

// LowStockItemDTO un SKU en o bajo su umbral, con sugerencia de reposición.
type LowStockItemDTO struct {
	SKUID             string `json:"sku_id"`
	SKUCode           string `json:"sku_code"`
	Name              string `json:"name"`
	ProductID         string `json:"product_id"`
	Stock             int64  `json:"stock"`
	LowStockThreshold int64  `json:"low_stock_threshold"`
	SuggestedOrderQty int64  `json:"suggested_order_qty"` // reponer hasta 2x el umbral
	Priority          int    `json:"priority"`            // 1 = más urgente
}
