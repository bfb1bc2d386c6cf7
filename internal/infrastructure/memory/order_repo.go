package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

type orderRepo struct {
	s *Store
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp
}

func (r *orderRepo) Create(ctx context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(o.TenantID, o.ID)
	if _, ok := r.s.orders[k]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.orders {
		if existing.TenantID == o.TenantID && existing.OrderNumber == o.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.orders[k] = cloneOrder(o)
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, tenantID, orderID string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[key(tenantID, orderID)]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *orderRepo) GetByNumber(ctx context.Context, tenantID, orderNumber string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.orders {
		if o.TenantID == tenantID && o.OrderNumber == orderNumber {
			return cloneOrder(o), nil
		}
	}
	return nil, nil
}

func (r *orderRepo) Update(ctx context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(o.TenantID, o.ID)
	if _, ok := r.s.orders[k]; !ok {
		return domain.ErrNotFound
	}
	r.s.orders[k] = cloneOrder(o)
	return nil
}

func (r *orderRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Order
	for _, o := range r.s.orders {
		if o.TenantID == tenantID {
			list = append(list, cloneOrder(o))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, offset), nil
}
