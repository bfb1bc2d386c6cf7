package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/purchasing"
)

// PurchaseOrderHandler maneja las peticiones HTTP de órdenes de compra (protegido).
type PurchaseOrderHandler struct {
	uc *purchasing.UseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *purchasing.UseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra en borrador
// @Description  No afecta el stock. El stock entra al recibir.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePORequest  true  "supplier_id, items (sku_id, quantity, price)"
// @Success      201   {object}  dto.POResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreatePORequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := purchasing.CreateInput{
		TenantID:   tenantID,
		UserID:     userID,
		SupplierID: in.SupplierID,
		Notes:      in.Notes,
	}
	for _, it := range in.Items {
		input.Lines = append(input.Lines, purchasing.LineInput{
			SKUID:    it.SKUID,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	po, err := h.uc.CreatePurchaseOrder(c.Context(), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.POToResponse(po))
}

// GetByID godoc
// @Summary      Obtener orden de compra con sus líneas
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Purchase Order ID"
// @Success      200  {object}  dto.POResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	po, err := h.uc.GetPurchaseOrder(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.POToResponse(po))
}

// List godoc
// @Summary      Listar órdenes de compra del tenant
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.POResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.ListPurchaseOrders(c.Context(), tenantID, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.POResponse, 0, len(list))
	for _, po := range list {
		out = append(out, dto.POToResponse(po))
	}
	return c.JSON(fiber.Map{"purchase_orders": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// Send godoc
// @Summary      Enviar la orden al proveedor (Draft → Sent)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Purchase Order ID"
// @Success      200  {object}  dto.POResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/send [post]
func (h *PurchaseOrderHandler) Send(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	po, err := h.uc.SendPurchaseOrder(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.POToResponse(po))
}

// Confirm godoc
// @Summary      Confirmación del proveedor (Sent → Confirmed)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Purchase Order ID"
// @Success      200  {object}  dto.POResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/confirm [post]
func (h *PurchaseOrderHandler) Confirm(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	po, err := h.uc.ConfirmPurchaseOrder(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.POToResponse(po))
}

// Receive godoc
// @Summary      Registrar recepción de mercadería (parcial o total)
// @Description  Acredita el stock de cada línea recibida y registra precio real
//               y varianza. La orden pasa a Received cuando todas las líneas
//               completan lo pedido; mientras tanto permanece Confirmed.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "Purchase Order ID"
// @Param        body  body  dto.ReceivePORequest  true  "lines (sku_id, quantity, price)"
// @Success      200   {object}  dto.POResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ReceivePORequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]purchasing.ReceiptLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, purchasing.ReceiptLine{SKUID: l.SKUID, Quantity: l.Quantity, Price: l.Price})
	}
	po, err := h.uc.ReceivePurchaseOrder(c.Context(), tenantID, userID, c.Params("id"), lines)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.POToResponse(po))
}

// Cancel godoc
// @Summary      Cancelar orden de compra
// @Description  Válido desde cualquier estado no terminal. Lo ya recibido no
//               se revierte.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "Purchase Order ID"
// @Param        body  body  dto.CancelPORequest  false  "reason"
// @Success      200   {object}  dto.POResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.CancelPORequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return badBody(c)
	}
	po, err := h.uc.CancelPurchaseOrder(c.Context(), tenantID, c.Params("id"), in.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.POToResponse(po))
}
