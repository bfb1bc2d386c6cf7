package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SKU es la variante vendible de un producto y la unidad de control de stock.
// Stock nunca es negativo. Version es el contador de concurrencia optimista:
// solo el motor de stock lo incrementa, exactamente una vez por escritura
// aceptada. Code es único dentro del tenant.
type SKU struct {
	ID                string
	TenantID          string
	ProductID         string
	Code              string
	Name              string
	Price             decimal.Decimal
	Stock             int64
	LowStockThreshold int64
	Version           int64
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BelongsTo indica si el SKU pertenece al tenant.
func (s *SKU) BelongsTo(tenantID string) bool {
	return s.TenantID == tenantID
}

// IsLowStock indica si el stock está en o por debajo del umbral.
func (s *SKU) IsLowStock() bool {
	return s.Stock <= s.LowStockThreshold
}
