package memory

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

type movementRepo struct {
	s    *Store
	note func(id string) // undo log del TxRunner; se invoca con s.mu tomado
}

// Create agrega al ledger. Append-only: nada lo modifica después.
func (r *movementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.note != nil {
		r.note(m.ID)
	}
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

// ListBySKU devuelve los movimientos de un SKU, más recientes primero.
func (r *movementRepo) ListBySKU(ctx context.Context, tenantID, skuID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.TenantID == tenantID && m.SKUID == skuID {
			cp := *m
			list = append(list, &cp)
		}
	}
	return page(list, limit, offset), nil
}

// ListByReference devuelve los movimientos de una referencia en orden de inserción.
func (r *movementRepo) ListByReference(ctx context.Context, tenantID, reference string) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.TenantID == tenantID && m.Reference == reference {
			cp := *m
			list = append(list, &cp)
		}
	}
	return list, nil
}
