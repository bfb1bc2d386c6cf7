package stock_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercio-api/internal/application/notify"
	"github.com/jhoicas/Comercio-api/internal/application/stock"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

const (
	testTenant = "tenant-1"
	testSKUID  = "sku-1"
)

// captureNotifier acumula los eventos publicados para inspección en tests.
type captureNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *captureNotifier) Publish(_ context.Context, ev notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *captureNotifier) byName(name string) []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notify.Event
	for _, ev := range n.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

// newTestEngine arma un motor sobre el store en memoria con un SKU sembrado.
func newTestEngine(t *testing.T, initialStock, threshold int64, maxRetries int) (*stock.Engine, *memory.Store, *captureNotifier) {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	err := store.SKUs().Create(context.Background(), &entity.SKU{
		ID:                testSKUID,
		TenantID:          testTenant,
		ProductID:         "prod-1",
		Code:              "SKU-001",
		Name:              "Camiseta M",
		Price:             decimal.NewFromInt(10),
		Stock:             initialStock,
		LowStockThreshold: threshold,
		Version:           1,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	require.NoError(t, err)
	notifier := &captureNotifier{}
	engine := stock.NewEngine(memory.NewTxRunner(store), store.SKUs(), notifier, logger.Nop(), maxRetries)
	return engine, store, notifier
}

func saleInput(delta int64) stock.MovementInput {
	return stock.MovementInput{
		TenantID:      testTenant,
		SKUID:         testSKUID,
		Delta:         delta,
		Type:          entity.MovementTypeSale,
		Reference:     "ORD-TEST0001",
		ReferenceType: entity.ReferenceTypeOrder,
		UserID:        "user-1",
	}
}

// La mutación aceptada actualiza stock y versión y deja el movimiento con los
// saldos antes/después correctos.
func TestApplyMovement_VentaDescuentaYRegistraSaldos(t *testing.T) {
	engine, store, _ := newTestEngine(t, 10, 2, 0)
	ctx := context.Background()

	mov, err := engine.ApplyMovement(ctx, saleInput(-3))
	require.NoError(t, err)

	assert.Equal(t, int64(-3), mov.Quantity)
	assert.Equal(t, int64(10), mov.BalanceBefore)
	assert.Equal(t, int64(7), mov.BalanceAfter)
	assert.Equal(t, entity.MovementTypeSale, mov.Type)
	assert.Equal(t, "ORD-TEST0001", mov.Reference)

	sku, err := store.SKUs().GetByID(ctx, testTenant, testSKUID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sku.Stock)
	assert.Equal(t, int64(2), sku.Version, "exactamente un incremento de versión por escritura aceptada")
}

// Un delta que dejaría el stock negativo se rechaza sin efecto alguno:
// ni stock, ni versión, ni ledger.
func TestApplyMovement_StockInsuficienteSinEfectos(t *testing.T) {
	engine, store, _ := newTestEngine(t, 5, 2, 0)
	ctx := context.Background()

	_, err := engine.ApplyMovement(ctx, saleInput(-6))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficientErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, int64(6), insufficientErr.Requested)
	assert.Equal(t, int64(5), insufficientErr.Available)

	sku, err := store.SKUs().GetByID(ctx, testTenant, testSKUID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sku.Stock)
	assert.Equal(t, int64(1), sku.Version)

	movs, err := store.Movements().ListBySKU(ctx, testTenant, testSKUID, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

// Reducir el stock exactamente a cero es válido.
func TestApplyMovement_VentaHastaCero(t *testing.T) {
	engine, store, _ := newTestEngine(t, 4, 0, 0)
	ctx := context.Background()

	mov, err := engine.ApplyMovement(ctx, saleInput(-4))
	require.NoError(t, err)
	assert.Equal(t, int64(0), mov.BalanceAfter)

	sku, _ := store.SKUs().GetByID(ctx, testTenant, testSKUID)
	assert.Equal(t, int64(0), sku.Stock)
}

// Entradas inválidas: delta cero, tipo desconocido, SKU inexistente.
func TestApplyMovement_EntradasInvalidas(t *testing.T) {
	engine, _, _ := newTestEngine(t, 10, 2, 0)
	ctx := context.Background()

	_, err := engine.ApplyMovement(ctx, stock.MovementInput{
		TenantID: testTenant, SKUID: testSKUID, Delta: 0, Type: entity.MovementTypeSale,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "delta cero")

	in := saleInput(-1)
	in.Type = "TRANSFER"
	_, err = engine.ApplyMovement(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo de movimiento desconocido")

	in = saleInput(-1)
	in.SKUID = "sku-fantasma"
	_, err = engine.ApplyMovement(ctx, in)
	assert.ErrorIs(t, err, domain.ErrNotFound, "sku inexistente")
}

// Otro tenant no puede mutar el SKU aunque conozca su id.
func TestApplyMovement_AisladoPorTenant(t *testing.T) {
	engine, _, _ := newTestEngine(t, 10, 2, 0)

	in := saleInput(-1)
	in.TenantID = "tenant-2"
	_, err := engine.ApplyMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Escenario de sobreventa: 10 compradores concurrentes por 1 unidad con stock 6.
// Exactamente 6 ventas aceptadas, 4 rechazadas por stock insuficiente y el
// stock final en cero. maxRetries alto para que la contención no agote el ciclo.
func TestApplyMovement_ConcurrenciaSinSobreventa(t *testing.T) {
	engine, store, _ := newTestEngine(t, 6, 0, 100)
	ctx := context.Background()

	const buyers = 10
	var wg sync.WaitGroup
	errs := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.ApplyMovement(ctx, saleInput(-1))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, insufficient int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, domain.ErrInsufficientStock)
		insufficient++
	}
	assert.Equal(t, 6, ok, "ventas aceptadas")
	assert.Equal(t, 4, insufficient, "ventas rechazadas")

	sku, err := store.SKUs().GetByID(ctx, testTenant, testSKUID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sku.Stock)
	assert.Equal(t, int64(7), sku.Version, "una versión por escritura aceptada")

	movs, err := store.Movements().ListBySKU(ctx, testTenant, testSKUID, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 6)
}

// La cadena del ledger es consistente: cada BalanceAfter = BalanceBefore +
// Quantity, y el BalanceBefore de cada movimiento coincide con el BalanceAfter
// del anterior.
func TestApplyMovement_CadenaDelLedgerConsistente(t *testing.T) {
	engine, store, _ := newTestEngine(t, 20, 2, 0)
	ctx := context.Background()

	deltas := []int64{-5, 3, -2, -6, 10}
	types := []string{
		entity.MovementTypeSale,
		entity.MovementTypeReturn,
		entity.MovementTypeSale,
		entity.MovementTypeSale,
		entity.MovementTypePurchase,
	}
	for i, d := range deltas {
		in := saleInput(d)
		in.Type = types[i]
		_, err := engine.ApplyMovement(ctx, in)
		require.NoError(t, err)
	}

	movs, err := store.Movements().ListBySKU(ctx, testTenant, testSKUID, 100, 0)
	require.NoError(t, err)
	require.Len(t, movs, len(deltas))

	// ListBySKU devuelve más recientes primero; invertir para recorrer en orden.
	var sum int64
	prevAfter := int64(20)
	for i := len(movs) - 1; i >= 0; i-- {
		m := movs[i]
		assert.Equal(t, m.BalanceBefore+m.Quantity, m.BalanceAfter)
		assert.Equal(t, prevAfter, m.BalanceBefore)
		prevAfter = m.BalanceAfter
		sum += m.Quantity
	}

	sku, _ := store.SKUs().GetByID(ctx, testTenant, testSKUID)
	assert.Equal(t, int64(20)+sum, sku.Stock, "stock actual = inicial + suma de deltas")
}

// Cruzar el umbral hacia abajo emite stock.low una sola vez; moverse por
// debajo del umbral sin cruzarlo no lo vuelve a emitir.
func TestApplyMovement_EventoStockBajoSoloAlCruzar(t *testing.T) {
	engine, _, notifier := newTestEngine(t, 10, 5, 0)
	ctx := context.Background()

	_, err := engine.ApplyMovement(ctx, saleInput(-4)) // 10 → 6, sin cruzar
	require.NoError(t, err)
	assert.Empty(t, notifier.byName(notify.EventStockLow))

	_, err = engine.ApplyMovement(ctx, saleInput(-2)) // 6 → 4, cruza
	require.NoError(t, err)
	assert.Len(t, notifier.byName(notify.EventStockLow), 1)

	_, err = engine.ApplyMovement(ctx, saleInput(-1)) // 4 → 3, ya estaba abajo
	require.NoError(t, err)
	assert.Len(t, notifier.byName(notify.EventStockLow), 1)

	// Cada mutación aceptada emite stock.adjusted.
	assert.Len(t, notifier.byName(notify.EventStockAdjusted), 3)
}

// casDesactualizado hace que el swap nunca aplique, como si otro escritor
// ganara la carrera en cada intento.
type casDesactualizado struct {
	repository.SKURepository
}

func (casDesactualizado) CompareAndSwapStock(context.Context, string, string, int64, int64) (bool, error) {
	return false, nil
}

type txRunnerContencion struct{ inner stock.TxRunner }

func (r txRunnerContencion) Run(ctx context.Context, fn func(repository.SKURepository, repository.StockMovementRepository) error) error {
	return r.inner.Run(ctx, func(skus repository.SKURepository, movs repository.StockMovementRepository) error {
		return fn(casDesactualizado{skus}, movs)
	})
}

// Contención permanente: el ciclo agota maxRetries y devuelve el conflicto de
// versión con el número de intentos, sin tocar stock, versión ni ledger.
func TestApplyMovement_ReintentosAgotados(t *testing.T) {
	_, store, _ := newTestEngine(t, 10, 2, 0)
	engine := stock.NewEngine(
		txRunnerContencion{memory.NewTxRunner(store)},
		store.SKUs(), &captureNotifier{}, logger.Nop(), 3,
	)
	ctx := context.Background()

	_, err := engine.ApplyMovement(ctx, saleInput(-1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	var conflictErr *domain.VersionConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, testSKUID, conflictErr.SKUID)
	assert.Equal(t, 3, conflictErr.Attempts)

	sku, err := store.SKUs().GetByID(ctx, testTenant, testSKUID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), sku.Stock)
	assert.Equal(t, int64(1), sku.Version)

	movs, err := store.Movements().ListBySKU(ctx, testTenant, testSKUID, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

var errLedgerCaido = errors.New("insert del ledger falló")

// ledgerQueFalla rechaza todo insert, simulando el ledger caído a mitad de la
// transacción.
type ledgerQueFalla struct {
	repository.StockMovementRepository
}

func (ledgerQueFalla) Create(context.Context, *entity.StockMovement) error {
	return errLedgerCaido
}

type txRunnerLedgerRoto struct{ inner stock.TxRunner }

func (r txRunnerLedgerRoto) Run(ctx context.Context, fn func(repository.SKURepository, repository.StockMovementRepository) error) error {
	return r.inner.Run(ctx, func(skus repository.SKURepository, movs repository.StockMovementRepository) error {
		return fn(skus, ledgerQueFalla{movs})
	})
}

// Si el insert del ledger falla después de un swap exitoso, el rollback de la
// transacción revierte también el cambio de stock: ambos quedan o ninguno.
func TestApplyMovement_SwapSinLedgerSeRevierte(t *testing.T) {
	_, store, _ := newTestEngine(t, 10, 2, 0)
	engine := stock.NewEngine(
		txRunnerLedgerRoto{memory.NewTxRunner(store)},
		store.SKUs(), &captureNotifier{}, logger.Nop(), 0,
	)
	ctx := context.Background()

	_, err := engine.ApplyMovement(ctx, saleInput(-3))
	require.ErrorIs(t, err, errLedgerCaido)

	sku, err := store.SKUs().GetByID(ctx, testTenant, testSKUID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), sku.Stock, "el swap se revirtió con la transacción")
	assert.Equal(t, int64(1), sku.Version)

	movs, err := store.Movements().ListBySKU(ctx, testTenant, testSKUID, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}
