package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

type purchaseOrderRepo struct {
	s *Store
}

func clonePO(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	cp := *po
	cp.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	return &cp
}

func (r *purchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(po.TenantID, po.ID)
	if _, ok := r.s.pos[k]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.pos {
		if existing.TenantID == po.TenantID && existing.PONumber == po.PONumber {
			return domain.ErrDuplicate
		}
	}
	r.s.pos[k] = clonePO(po)
	return nil
}

func (r *purchaseOrderRepo) GetByID(ctx context.Context, tenantID, poID string) (*entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	po, ok := r.s.pos[key(tenantID, poID)]
	if !ok {
		return nil, nil
	}
	return clonePO(po), nil
}

func (r *purchaseOrderRepo) GetByNumber(ctx context.Context, tenantID, poNumber string) (*entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, po := range r.s.pos {
		if po.TenantID == tenantID && po.PONumber == poNumber {
			return clonePO(po), nil
		}
	}
	return nil, nil
}

func (r *purchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(po.TenantID, po.ID)
	if _, ok := r.s.pos[k]; !ok {
		return domain.ErrNotFound
	}
	r.s.pos[k] = clonePO(po)
	return nil
}

func (r *purchaseOrderRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.PurchaseOrder
	for _, po := range r.s.pos {
		if po.TenantID == tenantID {
			list = append(list, clonePO(po))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, offset), nil
}
