// Package memory ofrece repositorios en memoria con la misma semántica que los
// adaptadores de PostgreSQL. Se usan en tests y para correr la API sin base de
// datos (modo demo).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Comercio-api/internal/application/stock"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// Store guarda todo el estado bajo un RWMutex compartido. Las claves de los
// mapas son tenantID + "/" + id para aislar tenants igual que las tablas.
type Store struct {
	mu        sync.RWMutex
	skus      map[string]*entity.SKU
	movements []*entity.StockMovement
	orders    map[string]*entity.Order
	pos       map[string]*entity.PurchaseOrder
	products  map[string]*entity.Product
	suppliers map[string]*entity.Supplier

	// txMu serializa las transacciones del TxRunner (una a la vez, como
	// serializaría la base las escrituras en conflicto).
	txMu sync.Mutex
}

func NewStore() *Store {
	return &Store{
		skus:      make(map[string]*entity.SKU),
		orders:    make(map[string]*entity.Order),
		pos:       make(map[string]*entity.PurchaseOrder),
		products:  make(map[string]*entity.Product),
		suppliers: make(map[string]*entity.Supplier),
	}
}

func key(tenantID, id string) string { return tenantID + "/" + id }

// SKUs devuelve el repositorio de SKUs sobre este store.
func (s *Store) SKUs() repository.SKURepository { return &skuRepo{s: s} }

// Movements devuelve el repositorio del ledger sobre este store.
func (s *Store) Movements() repository.StockMovementRepository { return &movementRepo{s: s} }

// Orders devuelve el repositorio de órdenes sobre este store.
func (s *Store) Orders() repository.OrderRepository { return &orderRepo{s: s} }

// PurchaseOrders devuelve el repositorio de órdenes de compra sobre este store.
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository { return &purchaseOrderRepo{s: s} }

// Products devuelve el repositorio de productos sobre este store.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

// Suppliers devuelve el repositorio de proveedores sobre este store.
func (s *Store) Suppliers() repository.SupplierRepository { return &supplierRepo{s: s} }

var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner emula la transacción swap + movimiento: serializa las escrituras y
// lleva un undo log de lo que fn escribe. Si fn falla revierte solo eso;
// escrituras ajenas que entren mientras tanto no se tocan.
type TxRunner struct {
	s *Store
}

func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

func (r *TxRunner) Run(ctx context.Context, fn func(
	skuRepo repository.SKURepository,
	movRepo repository.StockMovementRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	undo := &txUndo{s: r.s, prior: make(map[string]*entity.SKU)}
	skus := &skuRepo{s: r.s, note: undo.noteSKU}
	movs := &movementRepo{s: r.s, note: undo.noteMovement}
	if err := fn(skus, movs); err != nil {
		undo.rollback()
		return err
	}
	return nil
}

// txUndo registra el estado previo de cada SKU escrito y los IDs de los
// movimientos insertados dentro de la transacción. Los note* se invocan con
// s.mu ya tomado por el repositorio que escribe.
type txUndo struct {
	s      *Store
	prior  map[string]*entity.SKU // nil: la clave no existía
	movIDs []string
}

func (u *txUndo) noteSKU(k string) {
	if _, seen := u.prior[k]; seen {
		return
	}
	if cur, ok := u.s.skus[k]; ok {
		cp := *cur
		u.prior[k] = &cp
		return
	}
	u.prior[k] = nil
}

func (u *txUndo) noteMovement(id string) {
	u.movIDs = append(u.movIDs, id)
}

func (u *txUndo) rollback() {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for k, prev := range u.prior {
		if prev == nil {
			delete(u.s.skus, k)
			continue
		}
		cp := *prev
		u.s.skus[k] = &cp
	}
	if len(u.movIDs) == 0 {
		return
	}
	inserted := make(map[string]bool, len(u.movIDs))
	for _, id := range u.movIDs {
		inserted[id] = true
	}
	kept := u.s.movements[:0]
	for _, m := range u.s.movements {
		if !inserted[m.ID] {
			kept = append(kept, m)
		}
	}
	u.s.movements = kept
}
