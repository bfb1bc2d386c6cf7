package catalog

import (
	"context"
	"sort"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
)

// listPageSize tamaño de página usado al recorrer los SKUs del tenant.
const listPageSize = 500

// LowStockReport devuelve los SKUs activos en o por debajo de su umbral, con
// la cantidad sugerida de pedido, ordenados por déficit (los más urgentes
// primero). Sugerencia: reponer hasta el doble del umbral.
func (uc *UseCase) LowStockReport(ctx context.Context, tenantID string) ([]dto.LowStockItemDTO, error) {
	items := []dto.LowStockItemDTO{}
	offset := 0
	for {
		skus, err := uc.skuRepo.ListByTenant(ctx, tenantID, listPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, sku := range skus {
			if !sku.IsActive || !sku.IsLowStock() {
				continue
			}
			suggested := sku.LowStockThreshold*2 - sku.Stock
			if suggested < 0 {
				suggested = 0
			}
			items = append(items, dto.LowStockItemDTO{
				SKUID:             sku.ID,
				SKUCode:           sku.Code,
				Name:              sku.Name,
				ProductID:         sku.ProductID,
				Stock:             sku.Stock,
				LowStockThreshold: sku.LowStockThreshold,
				SuggestedOrderQty: suggested,
			})
		}
		if len(skus) < listPageSize {
			break
		}
		offset += listPageSize
	}

	// Mayor déficit absoluto primero; empate por código para orden estable.
	sort.SliceStable(items, func(i, j int) bool {
		defI := items[i].LowStockThreshold - items[i].Stock
		defJ := items[j].LowStockThreshold - items[j].Stock
		if defI != defJ {
			return defI > defJ
		}
		return items[i].SKUCode < items[j].SKUCode
	})

	for i := range items {
		items[i].Priority = i + 1
	}
	return items, nil
}
