package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

type productRepo struct {
	s *Store
}

func (r *productRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(p.TenantID, p.ID)
	if _, ok := r.s.products[k]; ok {
		return domain.ErrDuplicate
	}
	cp := *p
	r.s.products[k] = &cp
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, tenantID, productID string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[key(tenantID, productID)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) Update(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(p.TenantID, p.ID)
	if _, ok := r.s.products[k]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.s.products[k] = &cp
	return nil
}

func (r *productRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	return r.list(tenantID, limit, offset, false)
}

func (r *productRepo) ListActive(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	return r.list(tenantID, limit, offset, true)
}

func (r *productRepo) list(tenantID string, limit, offset int, onlyActive bool) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.TenantID != tenantID || (onlyActive && !p.IsActive) {
			continue
		}
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

type supplierRepo struct {
	s *Store
}

func (r *supplierRepo) Create(ctx context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(sup.TenantID, sup.ID)
	if _, ok := r.s.suppliers[k]; ok {
		return domain.ErrDuplicate
	}
	cp := *sup
	r.s.suppliers[k] = &cp
	return nil
}

func (r *supplierRepo) GetByID(ctx context.Context, tenantID, supplierID string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sup, ok := r.s.suppliers[key(tenantID, supplierID)]
	if !ok {
		return nil, nil
	}
	cp := *sup
	return &cp, nil
}

func (r *supplierRepo) Update(ctx context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(sup.TenantID, sup.ID)
	if _, ok := r.s.suppliers[k]; !ok {
		return domain.ErrNotFound
	}
	cp := *sup
	r.s.suppliers[k] = &cp
	return nil
}

func (r *supplierRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Supplier
	for _, sup := range r.s.suppliers {
		if sup.TenantID == tenantID {
			cp := *sup
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}
