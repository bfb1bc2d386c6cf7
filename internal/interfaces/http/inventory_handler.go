package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/catalog"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
)

// InventoryHandler maneja ajustes manuales, historial de movimientos y el
// reporte de stock bajo (protegido).
type InventoryHandler struct {
	uc *catalog.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *catalog.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Adjust godoc
// @Summary      Ajuste manual de stock (conteo físico, merma, corrección)
// @Description  Quantity con signo: positivo suma, negativo resta. Nunca deja
//               el stock negativo. Queda registrado en el ledger como adjustment.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "sku_id, quantity, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mov, err := h.uc.AdjustStock(c.Context(), tenantID, userID, in.SKUID, in.Quantity, in.Note)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementToResponse(mov))
}

// Movements godoc
// @Summary      Historial de movimientos de un SKU
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "SKU ID"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/skus/{id}/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	movs, err := h.uc.MovementHistory(c.Context(), tenantID, c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"movements": movementsToResponse(movs), "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// MovementsByReference godoc
// @Summary      Movimientos asociados a una orden u orden de compra
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        ref  path  string  true  "Número de orden (ORD-xxx, PO-xxx, ADJ-xxx)"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/references/{ref}/movements [get]
func (h *InventoryHandler) MovementsByReference(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	movs, err := h.uc.MovementsByReference(c.Context(), tenantID, c.Params("ref"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"movements": movementsToResponse(movs)})
}

// LowStock godoc
// @Summary      Reporte de SKUs en o bajo su umbral de stock
// @Description  Ordenado por urgencia (mayor déficit primero) con cantidad
//               sugerida de reposición.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	items, err := h.uc.LowStockReport(c.Context(), tenantID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}
