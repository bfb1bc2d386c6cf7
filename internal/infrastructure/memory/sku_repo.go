package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

type skuRepo struct {
	s    *Store
	note func(k string) // undo log del TxRunner; se invoca con s.mu tomado
}

func (r *skuRepo) Create(ctx context.Context, sku *entity.SKU) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(sku.TenantID, sku.ID)
	if _, ok := r.s.skus[k]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.skus {
		if existing.TenantID == sku.TenantID && existing.Code == sku.Code {
			return domain.ErrDuplicate
		}
	}
	if r.note != nil {
		r.note(k)
	}
	cp := *sku
	r.s.skus[k] = &cp
	return nil
}

func (r *skuRepo) GetByID(ctx context.Context, tenantID, skuID string) (*entity.SKU, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sku, ok := r.s.skus[key(tenantID, skuID)]
	if !ok {
		return nil, nil
	}
	cp := *sku
	return &cp, nil
}

func (r *skuRepo) GetByCode(ctx context.Context, tenantID, code string) (*entity.SKU, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, sku := range r.s.skus {
		if sku.TenantID == tenantID && sku.Code == code {
			cp := *sku
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *skuRepo) ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.SKU, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.SKU
	for _, sku := range r.s.skus {
		if sku.TenantID == tenantID && sku.ProductID == productID {
			cp := *sku
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

func (r *skuRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.SKU, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.SKU
	for _, sku := range r.s.skus {
		if sku.TenantID == tenantID {
			cp := *sku
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return page(list, limit, offset), nil
}

// Update nunca toca Stock ni Version (misma regla que el adaptador de Postgres).
func (r *skuRepo) Update(ctx context.Context, sku *entity.SKU) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.skus[key(sku.TenantID, sku.ID)]
	if !ok {
		return domain.ErrNotFound
	}
	if r.note != nil {
		r.note(key(sku.TenantID, sku.ID))
	}
	cur.Name = sku.Name
	cur.Price = sku.Price
	cur.LowStockThreshold = sku.LowStockThreshold
	cur.IsActive = sku.IsActive
	cur.UpdatedAt = sku.UpdatedAt
	return nil
}

func (r *skuRepo) CompareAndSwapStock(ctx context.Context, tenantID, skuID string, expectedVersion, newStock int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.skus[key(tenantID, skuID)]
	if !ok {
		return false, nil
	}
	if cur.Version != expectedVersion {
		return false, nil
	}
	if r.note != nil {
		r.note(key(tenantID, skuID))
	}
	cur.Stock = newStock
	cur.Version++
	return true, nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
