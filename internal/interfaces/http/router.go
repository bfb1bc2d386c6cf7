package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/catalog"
	"github.com/jhoicas/Comercio-api/internal/application/orders"
	"github.com/jhoicas/Comercio-api/internal/application/purchasing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC  *catalog.UseCase
	OrderUC    *orders.UseCase
	PurchaseUC *purchasing.UseCase
	SupplierUC *purchasing.SupplierUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Vitrina pública (sin auth)
	storefrontHandler := NewStorefrontHandler(deps.CatalogUC, deps.OrderUC)
	api.Get("/storefront/:tenant/products", storefrontHandler.Products)
	api.Post("/storefront/:tenant/orders", storefrontHandler.PlaceOrder)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo (protegido)
	productHandler := NewProductHandler(deps.CatalogUC)
	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/:id/skus", productHandler.AddSKU)
	protected.Put("/skus/:id", productHandler.UpdateSKU)

	// Inventario: ajustes, ledger, stock bajo (protegido)
	inventoryHandler := NewInventoryHandler(deps.CatalogUC)
	inv := protected.Group("/inventory")
	inv.Post("/adjustments", inventoryHandler.Adjust)
	inv.Get("/skus/:id/movements", inventoryHandler.Movements)
	inv.Get("/references/:ref/movements", inventoryHandler.MovementsByReference)
	inv.Get("/low-stock", inventoryHandler.LowStock)

	// Órdenes de venta (protegido)
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/:id/fulfill", orderHandler.Fulfill)
	ordersGroup.Post("/:id/fulfill-lines", orderHandler.FulfillLines)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)

	// Órdenes de compra (protegido)
	poHandler := NewPurchaseOrderHandler(deps.PurchaseUC)
	pos := protected.Group("/purchase-orders")
	pos.Post("/", poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/:id", poHandler.GetByID)
	pos.Post("/:id/send", poHandler.Send)
	pos.Post("/:id/confirm", poHandler.Confirm)
	pos.Post("/:id/receive", poHandler.Receive)
	pos.Post("/:id/cancel", poHandler.Cancel)

	// Proveedores (protegido)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Disable)
}
