package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/catalog"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/orders"
)

// StorefrontHandler expone la vitrina pública: catálogo activo con precio y
// disponibilidad (sin cantidades) y colocación de órdenes, todo sin
// autenticación.
type StorefrontHandler struct {
	uc      *catalog.UseCase
	orderUC *orders.UseCase
}

// NewStorefrontHandler construye el handler.
func NewStorefrontHandler(uc *catalog.UseCase, orderUC *orders.UseCase) *StorefrontHandler {
	return &StorefrontHandler{uc: uc, orderUC: orderUC}
}

// Products godoc
// @Summary      Catálogo público de un tenant
// @Description  Solo productos y variantes activos. Expone in_stock (booleano),
//               nunca la cantidad.
// @Tags         storefront
// @Produce      json
// @Param        tenant  path   string  true   "Tenant ID"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.StorefrontProductDTO
// @Router       /api/storefront/{tenant}/products [get]
func (h *StorefrontHandler) Products(c *fiber.Ctx) error {
	tenantID := c.Params("tenant")
	if tenantID == "" {
		return badBody(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	products, err := h.uc.Storefront(c.Context(), tenantID, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"products": products, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// PlaceOrder godoc
// @Summary      Colocar una orden desde la vitrina
// @Description  Orden pública sin autenticación: descuenta el stock de todas
//               las líneas todo-o-nada, igual que /api/orders. El comprador se
//               identifica por nombre y correo.
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        tenant  path  string                      true  "Tenant ID"
// @Param        body    body  dto.StorefrontOrderRequest  true  "customer_name, customer_email, items (sku_id, quantity)"
// @Success      201  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/storefront/{tenant}/orders [post]
func (h *StorefrontHandler) PlaceOrder(c *fiber.Ctx) error {
	tenantID := c.Params("tenant")
	if tenantID == "" {
		return badBody(c)
	}
	var in dto.StorefrontOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.CustomerName == "" || in.CustomerEmail == "" {
		return badBody(c)
	}
	input := orders.CreateOrderInput{
		TenantID:      tenantID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
	}
	for _, it := range in.Items {
		input.Lines = append(input.Lines, orders.LineInput{SKUID: it.SKUID, Quantity: it.Quantity})
	}
	order, err := h.orderUC.CreateOrder(c.Context(), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OrderToResponse(order))
}
