package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypePurchase   = "purchase"   // recepción de orden de compra
	MovementTypeSale       = "sale"       // salida por orden de venta
	MovementTypeReturn     = "return"     // restauración por cancelación
	MovementTypeAdjustment = "adjustment" // ajuste manual / stock inicial
)

// Tipos de referencia de un movimiento.
const (
	ReferenceTypeOrder         = "order"
	ReferenceTypePurchaseOrder = "purchase_order"
	ReferenceTypeAdjustment    = "adjustment"
)

// IsValidMovementType valida el tipo de movimiento.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypePurchase, MovementTypeSale, MovementTypeReturn, MovementTypeAdjustment:
		return true
	}
	return false
}

// StockMovement es el registro inmutable de un cambio de cantidad sobre un SKU,
// con los saldos antes y después. Se crea exactamente una vez por mutación
// aceptada; nunca se actualiza ni se borra (ledger append-only).
// Invariante: BalanceAfter = BalanceBefore + Quantity.
type StockMovement struct {
	ID            string
	TenantID      string
	SKUID         string
	ProductID     string
	Type          string // purchase, sale, return, adjustment
	Quantity      int64  // delta con signo
	BalanceBefore int64
	BalanceAfter  int64
	Reference     string // número de orden / orden de compra / nota de ajuste
	ReferenceType string
	CreatedAt     time.Time
	CreatedBy     string // UserID
}
