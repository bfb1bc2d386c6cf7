package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/orders"
)

// OrderHandler maneja las peticiones HTTP de órdenes de venta (protegido).
type OrderHandler struct {
	uc *orders.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de venta
// @Description  Descuenta el stock de todas las líneas de forma atómica
//               (todo o nada). Si alguna línea no alcanza, no se descuenta nada.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "items (sku_id, quantity), customer, tax, discount"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := orders.CreateOrderInput{
		TenantID:      tenantID,
		UserID:        userID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Tax:           in.Tax,
		Discount:      in.Discount,
	}
	for _, it := range in.Items {
		input.Lines = append(input.Lines, orders.LineInput{SKUID: it.SKUID, Quantity: it.Quantity})
	}
	order, err := h.uc.CreateOrder(c.Context(), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OrderToResponse(order))
}

// GetByID godoc
// @Summary      Obtener orden con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	order, err := h.uc.GetOrder(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OrderToResponse(order))
}

// List godoc
// @Summary      Listar órdenes del tenant
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.ListOrders(c.Context(), tenantID, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.OrderToResponse(o))
	}
	return c.JSON(fiber.Map{"orders": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// Fulfill godoc
// @Summary      Despachar la orden completa
// @Description  Marca todas las líneas como despachadas. No mueve stock: ya se
//               descontó al crear la orden.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/fulfill [post]
func (h *OrderHandler) Fulfill(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	order, err := h.uc.FulfillOrder(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OrderToResponse(order))
}

// FulfillLines godoc
// @Summary      Despacho parcial por líneas
// @Description  Acumula cantidades despachadas por línea y deriva el estado:
//               todo → FULFILLED, algo → PARTIAL.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Order ID"
// @Param        body  body  dto.FulfillLinesRequest  true  "lines (sku_id, quantity)"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/fulfill-lines [post]
func (h *OrderHandler) FulfillLines(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.FulfillLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]orders.LineFulfillment, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, orders.LineFulfillment{SKUID: l.SKUID, Quantity: l.Quantity})
	}
	order, err := h.uc.FulfillOrderLines(c.Context(), tenantID, c.Params("id"), lines)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OrderToResponse(order))
}

// Cancel godoc
// @Summary      Cancelar orden y restaurar el stock no despachado
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Order ID"
// @Param        body  body  dto.CancelOrderRequest  false  "reason"
// @Success      200   {object}  dto.OrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CancelOrderRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return badBody(c)
	}
	order, err := h.uc.CancelOrder(c.Context(), tenantID, userID, c.Params("id"), in.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OrderToResponse(order))
}
