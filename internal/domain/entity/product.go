package entity

import "time"

// Product representa un producto del catálogo. El stock y el precio viven en
// sus SKUs (variantes); el producto agrupa y pertenece a un tenant.
type Product struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	Category    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
