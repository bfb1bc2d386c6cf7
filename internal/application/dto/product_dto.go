package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// SKURequest variante al crear o ampliar un producto.
type SKURequest struct {
	Code              string          `json:"code" validate:"required,min=1,max=100"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	InitialStock      int64           `json:"initial_stock" validate:"min=0"`
	LowStockThreshold int64           `json:"low_stock_threshold" validate:"min=0"`
}

// CreateProductRequest entrada para crear un producto con sus variantes.
type CreateProductRequest struct {
	Name        string       `json:"name" validate:"required,min=1,max=200"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	SKUs        []SKURequest `json:"skus" validate:"required,min=1"`
}

// UpdateSKURequest entrada para actualizar un SKU (nunca el stock).
type UpdateSKURequest struct {
	Name              string           `json:"name"`
	Price             *decimal.Decimal `json:"price"`
	LowStockThreshold *int64           `json:"low_stock_threshold"`
	IsActive          *bool            `json:"is_active"`
}

// SKUResponse salida de un SKU.
type SKUResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Stock             int64           `json:"stock"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	Version           int64           `json:"version"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductResponse salida de un producto con sus variantes.
type ProductResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	IsActive    bool          `json:"is_active"`
	SKUs        []SKUResponse `json:"skus,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// SKUToResponse mapea la entidad a su DTO de salida.
func SKUToResponse(s *entity.SKU) SKUResponse {
	return SKUResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		Code:              s.Code,
		Name:              s.Name,
		Price:             s.Price,
		Stock:             s.Stock,
		LowStockThreshold: s.LowStockThreshold,
		Version:           s.Version,
		IsActive:          s.IsActive,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// ProductToResponse mapea la entidad y sus SKUs al DTO de salida.
func ProductToResponse(p *entity.Product, skus []*entity.SKU) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, s := range skus {
		resp.SKUs = append(resp.SKUs, SKUToResponse(s))
	}
	return resp
}

// StorefrontSKUDTO variante pública: precio y disponibilidad, sin cantidades.
type StorefrontSKUDTO struct {
	SKUID   string          `json:"sku_id"`
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	InStock bool            `json:"in_stock"`
}

// StorefrontProductDTO producto público con sus variantes activas.
type StorefrontProductDTO struct {
	ProductID   string             `json:"product_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	SKUs        []StorefrontSKUDTO `json:"skus"`
}
