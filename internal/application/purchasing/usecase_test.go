package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercio-api/internal/application/notify"
	"github.com/jhoicas/Comercio-api/internal/application/purchasing"
	"github.com/jhoicas/Comercio-api/internal/application/stock"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

const testTenant = "tenant-1"

type testEnv struct {
	store *memory.Store
	uc    *purchasing.UseCase
}

// newTestEnv arma el caso de uso con un proveedor activo y dos SKUs con stock 0.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{
		ID:        "sup-1",
		TenantID:  testTenant,
		Name:      "Distribuidora Norte",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}))
	for _, id := range []string{"sku-a", "sku-b"} {
		require.NoError(t, store.SKUs().Create(ctx, &entity.SKU{
			ID:                id,
			TenantID:          testTenant,
			ProductID:         "prod-1",
			Code:              "C-" + id,
			Price:             decimal.NewFromInt(10),
			Stock:             0,
			LowStockThreshold: 2,
			Version:           1,
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}))
	}

	log := logger.Nop()
	engine := stock.NewEngine(memory.NewTxRunner(store), store.SKUs(), notify.NewLogNotifier(log), log, 0)
	uc := purchasing.NewUseCase(engine, store.PurchaseOrders(), store.Suppliers(), store.SKUs(), notify.NewLogNotifier(log), log)
	return &testEnv{store: store, uc: uc}
}

func (e *testEnv) stockOf(t *testing.T, skuID string) int64 {
	t.Helper()
	sku, err := e.store.SKUs().GetByID(context.Background(), testTenant, skuID)
	require.NoError(t, err)
	require.NotNil(t, sku)
	return sku.Stock
}

// newDraft crea una orden Draft con sku-a x10 ($7) y sku-b x4 ($12).
func (e *testEnv) newDraft(t *testing.T) *entity.PurchaseOrder {
	t.Helper()
	po, err := e.uc.CreatePurchaseOrder(context.Background(), purchasing.CreateInput{
		TenantID:   testTenant,
		UserID:     "user-1",
		SupplierID: "sup-1",
		Lines: []purchasing.LineInput{
			{SKUID: "sku-a", Quantity: 10, Price: decimal.NewFromInt(7)},
			{SKUID: "sku-b", Quantity: 4, Price: decimal.NewFromInt(12)},
		},
	})
	require.NoError(t, err)
	return po
}

// toConfirmed lleva una orden recién creada hasta Confirmed.
func (e *testEnv) toConfirmed(t *testing.T) *entity.PurchaseOrder {
	t.Helper()
	ctx := context.Background()
	po := e.newDraft(t)
	_, err := e.uc.SendPurchaseOrder(ctx, testTenant, po.ID)
	require.NoError(t, err)
	po2, err := e.uc.ConfirmPurchaseOrder(ctx, testTenant, po.ID)
	require.NoError(t, err)
	return po2
}

// La creación deja la orden en Draft, sin tocar el stock.
func TestCreatePurchaseOrder_DraftSinEfectoEnStock(t *testing.T) {
	env := newTestEnv(t)

	po := env.newDraft(t)
	assert.Equal(t, entity.PurchaseOrderStatusDraft, po.Status)
	assert.Len(t, po.Items, 2)
	assert.Equal(t, int64(0), env.stockOf(t, "sku-a"))
	assert.Equal(t, int64(0), env.stockOf(t, "sku-b"))
}

// Proveedor inexistente o inactivo rechaza la creación.
func TestCreatePurchaseOrder_ProveedorInvalido(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.CreatePurchaseOrder(ctx, purchasing.CreateInput{
		TenantID:   testTenant,
		SupplierID: "sup-fantasma",
		Lines:      []purchasing.LineInput{{SKUID: "sku-a", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sup, _ := env.store.Suppliers().GetByID(ctx, testTenant, "sup-1")
	sup.IsActive = false
	require.NoError(t, env.store.Suppliers().Update(ctx, sup))
	_, err = env.uc.CreatePurchaseOrder(ctx, purchasing.CreateInput{
		TenantID:   testTenant,
		SupplierID: "sup-1",
		Lines:      []purchasing.LineInput{{SKUID: "sku-a", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "proveedor inactivo no acepta órdenes")
}

// Draft → Sent → Confirmed en orden; los saltos y retrocesos se rechazan.
func TestTransiciones_OrdenEstricto(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	po := env.newDraft(t)

	// Draft no puede confirmarse directo.
	_, err := env.uc.ConfirmPurchaseOrder(ctx, testTenant, po.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	sent, err := env.uc.SendPurchaseOrder(ctx, testTenant, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusSent, sent.Status)
	assert.NotNil(t, sent.SentAt)

	// Sent no puede volver a enviarse.
	_, err = env.uc.SendPurchaseOrder(ctx, testTenant, po.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	confirmed, err := env.uc.ConfirmPurchaseOrder(ctx, testTenant, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusConfirmed, confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)
}

// Recibir antes de Confirmed es conflicto; el stock no se mueve.
func TestReceive_SoloDesdeConfirmed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	po := env.newDraft(t)
	_, err := env.uc.ReceivePurchaseOrder(ctx, testTenant, "user-1", po.ID, []purchasing.ReceiptLine{
		{SKUID: "sku-a", Quantity: 1},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(0), env.stockOf(t, "sku-a"))
}

// Recepción incremental: la primera parcial acredita stock y deja la orden
// Confirmed; la que completa todas las líneas la vuelve Received (terminal).
func TestReceive_IncrementalHastaCompletar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	po := env.toConfirmed(t)

	// Primera recepción: 6 de 10 de sku-a.
	got, err := env.uc.ReceivePurchaseOrder(ctx, testTenant, "user-1", po.ID, []purchasing.ReceiptLine{
		{SKUID: "sku-a", Quantity: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusConfirmed, got.Status, "parcial: sigue recibible")
	assert.Nil(t, got.ReceivedAt)
	assert.Equal(t, int64(6), env.stockOf(t, "sku-a"))
	assert.Equal(t, int64(6), got.ItemBySKU("sku-a").ReceivedQuantity)

	// Segunda recepción completa ambas líneas.
	got, err = env.uc.ReceivePurchaseOrder(ctx, testTenant, "user-1", po.ID, []purchasing.ReceiptLine{
		{SKUID: "sku-a", Quantity: 4},
		{SKUID: "sku-b", Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusReceived, got.Status)
	assert.NotNil(t, got.ReceivedAt)
	assert.Equal(t, int64(10), env.stockOf(t, "sku-a"))
	assert.Equal(t, int64(4), env.stockOf(t, "sku-b"))

	// Terminal: ninguna recepción ni transición más.
	_, err = env.uc.ReceivePurchaseOrder(ctx, testTenant, "user-1", po.ID, []purchasing.ReceiptLine{
		{SKUID: "sku-a", Quantity: 1},
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)
	_, err = env.uc.CancelPurchaseOrder(ctx, testTenant, po.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)
}

// Recibir más de lo pendiente se rechaza de plano, sin ningún movimiento.
func TestReceive_SobreRecepcionRechazada(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	po := env.toConfirmed(t)

	_, err := env.uc.ReceivePurchaseOrder(ctx, testTenant, "user-1", po.ID, []purchasing.ReceiptLine{
		{SKUID: "sku-a", Quantity: 3},
		{SKUID: "sku-b", Quantity: 5}, // pedidas 4
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(0), env.stockOf(t, "sku-a"), "validación completa antes del primer movimiento")
	assert.Equal(t, int64(0), env.stockOf(t, "sku-b"))

	movs, err := env.store.Movements().ListByReference(ctx, testTenant, po.PONumber)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

// El precio real de recepción y su varianza quedan registrados por línea;
// precio cero usa el pactado.
func TestReceive_PrecioRealYVarianza(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	po := env.toConfirmed(t)

	got, err := env.uc.ReceivePurchaseOrder(ctx, testTenant, "user-1", po.ID, []purchasing.ReceiptLine{
		{SKUID: "sku-a", Quantity: 10, Price: decimal.NewFromFloat(7.50)}, // pactado 7
		{SKUID: "sku-b", Quantity: 4},                                    // cero → pactado 12
	})
	require.NoError(t, err)

	lineA := got.ItemBySKU("sku-a")
	assert.True(t, lineA.ReceivedPrice.Equal(decimal.NewFromFloat(7.50)))
	assert.True(t, lineA.PriceVariance.Equal(decimal.NewFromFloat(0.50)))

	lineB := got.ItemBySKU("sku-b")
	assert.True(t, lineB.ReceivedPrice.Equal(decimal.NewFromInt(12)))
	assert.True(t, lineB.PriceVariance.IsZero())
}

// Cancelar vale desde cualquier estado no terminal y lo recibido se queda.
func TestCancel_DesdeNoTerminalConservaLoRecibido(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Desde Draft.
	po := env.newDraft(t)
	cancelled, err := env.uc.CancelPurchaseOrder(ctx, testTenant, po.ID, "cambio de proveedor")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Contains(t, cancelled.Notes, "cambio de proveedor")

	// Desde Confirmed con recepción parcial previa.
	po2 := env.toConfirmed(t)
	_, err = env.uc.ReceivePurchaseOrder(ctx, testTenant, "user-1", po2.ID, []purchasing.ReceiptLine{
		{SKUID: "sku-a", Quantity: 3},
	})
	require.NoError(t, err)

	_, err = env.uc.CancelPurchaseOrder(ctx, testTenant, po2.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), env.stockOf(t, "sku-a"), "lo ya recibido no se revierte")

	// Terminal después de cancelar.
	_, err = env.uc.SendPurchaseOrder(ctx, testTenant, po2.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)
}
