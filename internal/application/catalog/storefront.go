package catalog

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
)

// Storefront devuelve el catálogo público del tenant: productos activos con
// sus SKUs activos, precio y disponibilidad. No expone cantidades exactas,
// solo el flag de disponibilidad.
func (uc *UseCase) Storefront(ctx context.Context, tenantID string, limit, offset int) ([]dto.StorefrontProductDTO, error) {
	products, err := uc.productRepo.ListActive(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	result := make([]dto.StorefrontProductDTO, 0, len(products))
	for _, p := range products {
		skus, err := uc.skuRepo.ListByProduct(ctx, tenantID, p.ID)
		if err != nil {
			return nil, err
		}
		variants := make([]dto.StorefrontSKUDTO, 0, len(skus))
		for _, sku := range skus {
			if !sku.IsActive {
				continue
			}
			variants = append(variants, dto.StorefrontSKUDTO{
				SKUID:   sku.ID,
				Code:    sku.Code,
				Name:    sku.Name,
				Price:   sku.Price,
				InStock: sku.Stock > 0,
			})
		}
		if len(variants) == 0 {
			continue
		}
		result = append(result, dto.StorefrontProductDTO{
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			SKUs:        variants,
		})
	}
	return result, nil
}
