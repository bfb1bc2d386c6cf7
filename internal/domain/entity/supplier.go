package entity

import "time"

// Supplier representa un proveedor de órdenes de compra. La relación
// orden de compra → proveedor es por id, validada en el servicio.
type Supplier struct {
	ID          string
	TenantID    string
	Name        string
	ContactName string
	Email       string
	Phone       string
	TaxID       string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
