package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercio-api/internal/application/catalog"
	"github.com/jhoicas/Comercio-api/internal/application/notify"
	"github.com/jhoicas/Comercio-api/internal/application/stock"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

const (
	testTenant      = "tenant-1"
	defaultLowStock = int64(5)
)

type testEnv struct {
	store *memory.Store
	uc    *catalog.UseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	engine := stock.NewEngine(memory.NewTxRunner(store), store.SKUs(), notify.NewLogNotifier(log), log, 0)
	uc := catalog.NewUseCase(store.Products(), store.SKUs(), store.Movements(), engine, log, defaultLowStock)
	return &testEnv{store: store, uc: uc}
}

func productInput(skus ...catalog.SKUInput) catalog.ProductInput {
	return catalog.ProductInput{
		Name:     "Camiseta",
		Category: "ropa",
		SKUs:     skus,
	}
}

// Crear un producto con stock inicial deja el stock aplicado vía ledger:
// el SKU nace en 0/versión 1 y el ajuste inicial lo lleva al valor pedido.
func TestCreateProduct_StockInicialPorLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product, skus, err := env.uc.CreateProduct(ctx, testTenant, "user-1", productInput(
		catalog.SKUInput{Code: "CAM-M", Price: decimal.NewFromInt(15), InitialStock: 25, LowStockThreshold: 3},
		catalog.SKUInput{Code: "CAM-L", Price: decimal.NewFromInt(15)},
	))
	require.NoError(t, err)
	require.Len(t, skus, 2)
	assert.True(t, product.IsActive)

	withStock := skus[0]
	assert.Equal(t, int64(25), withStock.Stock)
	assert.Equal(t, int64(2), withStock.Version, "el ajuste inicial es una escritura versionada")
	assert.Equal(t, int64(3), withStock.LowStockThreshold)

	empty := skus[1]
	assert.Equal(t, int64(0), empty.Stock)
	assert.Equal(t, int64(1), empty.Version)
	assert.Equal(t, defaultLowStock, empty.LowStockThreshold, "umbral por defecto")

	movs, err := env.store.Movements().ListBySKU(ctx, testTenant, withStock.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeAdjustment, movs[0].Type)
	assert.Equal(t, int64(0), movs[0].BalanceBefore)
	assert.Equal(t, int64(25), movs[0].BalanceAfter)
}

// El código de SKU es único por tenant.
func TestAddSKU_CodigoDuplicado(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product, _, err := env.uc.CreateProduct(ctx, testTenant, "user-1", productInput(
		catalog.SKUInput{Code: "CAM-M", Price: decimal.NewFromInt(15)},
	))
	require.NoError(t, err)

	_, err = env.uc.AddSKU(ctx, testTenant, "user-1", product.ID, catalog.SKUInput{
		Code:  "CAM-M",
		Price: decimal.NewFromInt(18),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// UpdateSKU edita precio, umbral y estado pero jamás el stock ni la versión.
func TestUpdateSKU_NuncaTocaElStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, skus, err := env.uc.CreateProduct(ctx, testTenant, "user-1", productInput(
		catalog.SKUInput{Code: "CAM-M", Price: decimal.NewFromInt(15), InitialStock: 10},
	))
	require.NoError(t, err)
	skuID := skus[0].ID

	newPrice := decimal.NewFromInt(18)
	inactive := false
	updated, err := env.uc.UpdateSKU(ctx, testTenant, skuID, catalog.SKUUpdateInput{
		Price:    &newPrice,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.False(t, updated.IsActive)
	assert.Equal(t, int64(10), updated.Stock, "el stock no cambia por edición de catálogo")
	assert.Equal(t, int64(2), updated.Version)
}

// El ajuste manual respeta el piso de cero.
func TestAdjustStock_NuncaNegativo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, skus, err := env.uc.CreateProduct(ctx, testTenant, "user-1", productInput(
		catalog.SKUInput{Code: "CAM-M", Price: decimal.NewFromInt(15), InitialStock: 4},
	))
	require.NoError(t, err)
	skuID := skus[0].ID

	mov, err := env.uc.AdjustStock(ctx, testTenant, "user-1", skuID, -3, "conteo físico")
	require.NoError(t, err)
	assert.Equal(t, int64(1), mov.BalanceAfter)

	_, err = env.uc.AdjustStock(ctx, testTenant, "user-1", skuID, -2, "merma")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// El reporte de stock bajo ordena por déficit y sugiere reponer hasta 2x umbral.
func TestLowStockReport_OrdenYSugerencia(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.uc.CreateProduct(ctx, testTenant, "user-1", productInput(
		catalog.SKUInput{Code: "OK", Price: decimal.NewFromInt(1), InitialStock: 50, LowStockThreshold: 5},
		catalog.SKUInput{Code: "BAJO", Price: decimal.NewFromInt(1), InitialStock: 4, LowStockThreshold: 5},
		catalog.SKUInput{Code: "CRITICO", Price: decimal.NewFromInt(1), InitialStock: 1, LowStockThreshold: 5},
	))
	require.NoError(t, err)

	items, err := env.uc.LowStockReport(ctx, testTenant)
	require.NoError(t, err)
	require.Len(t, items, 2, "solo los que están en o bajo el umbral")

	assert.Equal(t, "CRITICO", items[0].SKUCode, "mayor déficit primero")
	assert.Equal(t, 1, items[0].Priority)
	assert.Equal(t, int64(9), items[0].SuggestedOrderQty, "2*5 - 1")
	assert.Equal(t, "BAJO", items[1].SKUCode)
	assert.Equal(t, int64(6), items[1].SuggestedOrderQty)
}

// La vitrina pública expone disponibilidad booleana, nunca cantidades, y
// omite variantes inactivas.
func TestStorefront_SinCantidades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, skus, err := env.uc.CreateProduct(ctx, testTenant, "user-1", productInput(
		catalog.SKUInput{Code: "CAM-M", Price: decimal.NewFromInt(15), InitialStock: 7},
		catalog.SKUInput{Code: "CAM-L", Price: decimal.NewFromInt(15)},
		catalog.SKUInput{Code: "CAM-XL", Price: decimal.NewFromInt(15), InitialStock: 3},
	))
	require.NoError(t, err)

	inactive := false
	_, err = env.uc.UpdateSKU(ctx, testTenant, skus[2].ID, catalog.SKUUpdateInput{IsActive: &inactive})
	require.NoError(t, err)

	products, err := env.uc.Storefront(ctx, testTenant, 20, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Len(t, products[0].SKUs, 2, "la variante inactiva no aparece")

	byCode := map[string]bool{}
	for _, s := range products[0].SKUs {
		byCode[s.Code] = s.InStock
	}
	assert.True(t, byCode["CAM-M"])
	assert.False(t, byCode["CAM-L"], "stock cero → no disponible")
}
