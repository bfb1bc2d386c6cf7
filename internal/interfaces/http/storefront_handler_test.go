package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercio-api/internal/application/catalog"
	"github.com/jhoicas/Comercio-api/internal/application/notify"
	"github.com/jhoicas/Comercio-api/internal/application/orders"
	"github.com/jhoicas/Comercio-api/internal/application/purchasing"
	"github.com/jhoicas/Comercio-api/internal/application/stock"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Comercio-api/internal/interfaces/http"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

// newStorefrontApp arma la app completa (router real) sobre el store en
// memoria, con un producto de una variante sembrado para tenant-1.
func newStorefrontApp(t *testing.T) (*fiber.App, *memory.Store, string) {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	engine := stock.NewEngine(memory.NewTxRunner(store), store.SKUs(), notify.NewLogNotifier(log), log, 0)
	catalogUC := catalog.NewUseCase(store.Products(), store.SKUs(), store.Movements(), engine, log, 5)
	orderUC := orders.NewUseCase(engine, store.Orders(), store.SKUs(), notify.NewLogNotifier(log), log)
	purchaseUC := purchasing.NewUseCase(engine, store.PurchaseOrders(), store.Suppliers(), store.SKUs(), notify.NewLogNotifier(log), log)
	supplierUC := purchasing.NewSupplierUseCase(store.Suppliers())

	_, skus, err := catalogUC.CreateProduct(context.Background(), "tenant-1", "user-1", catalog.ProductInput{
		Name:     "Camiseta",
		Category: "ropa",
		SKUs: []catalog.SKUInput{
			{Code: "CAM-M", Price: decimal.NewFromInt(15), InitialStock: 10},
		},
	})
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CatalogUC:  catalogUC,
		OrderUC:    orderUC,
		PurchaseUC: purchaseUC,
		SupplierUC: supplierUC,
		JWTSecret:  testJWTSecret,
	})
	return app, store, skus[0].ID
}

func postStorefrontOrder(t *testing.T, app *fiber.App, tenant string, body map[string]any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/storefront/"+tenant+"/orders", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// La vitrina coloca órdenes sin token: el tenant sale de la ruta, el stock se
// descuenta y la orden queda Pending con los precios congelados.
func TestStorefront_ColocarOrdenSinAuth(t *testing.T) {
	app, store, skuID := newStorefrontApp(t)

	resp := postStorefrontOrder(t, app, "tenant-1", map[string]any{
		"customer_name":  "Ana Gómez",
		"customer_email": "ana@example.com",
		"items":          []map[string]any{{"sku_id": skuID, "quantity": 3}},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, entity.OrderStatusPending, out["status"])
	assert.Equal(t, "Ana Gómez", out["customer_name"])
	assert.NotEmpty(t, out["order_number"])

	sku, err := store.SKUs().GetByID(context.Background(), "tenant-1", skuID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sku.Stock, "la orden pública descuenta stock al crearse")
}

// Sin nombre o correo del comprador la orden pública se rechaza con 400.
func TestStorefront_OrdenSinDatosDelComprador(t *testing.T) {
	app, _, skuID := newStorefrontApp(t)

	resp := postStorefrontOrder(t, app, "tenant-1", map[string]any{
		"customer_email": "ana@example.com",
		"items":          []map[string]any{{"sku_id": skuID, "quantity": 1}},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Un SKU inexistente (u otro tenant en la ruta) devuelve 404.
func TestStorefront_OrdenConSkuDeOtroTenant(t *testing.T) {
	app, _, skuID := newStorefrontApp(t)

	resp := postStorefrontOrder(t, app, "tenant-2", map[string]any{
		"customer_name":  "Ana Gómez",
		"customer_email": "ana@example.com",
		"items":          []map[string]any{{"sku_id": skuID, "quantity": 1}},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// Pedir más de lo disponible devuelve 409 sin descontar nada.
func TestStorefront_OrdenSinStockSuficiente(t *testing.T) {
	app, store, skuID := newStorefrontApp(t)

	resp := postStorefrontOrder(t, app, "tenant-1", map[string]any{
		"customer_name":  "Ana Gómez",
		"customer_email": "ana@example.com",
		"items":          []map[string]any{{"sku_id": skuID, "quantity": 99}},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	sku, err := store.SKUs().GetByID(context.Background(), "tenant-1", skuID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), sku.Stock)
}
