package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/catalog"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
)

// ProductHandler maneja las peticiones HTTP del catálogo (protegido).
type ProductHandler struct {
	uc *catalog.UseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.UseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto con sus variantes
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "name, skus (code, price, initial_stock, low_stock_threshold)"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := catalog.ProductInput{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
	}
	for _, s := range in.SKUs {
		input.SKUs = append(input.SKUs, catalog.SKUInput{
			Code:              s.Code,
			Name:              s.Name,
			Price:             s.Price,
			InitialStock:      s.InitialStock,
			LowStockThreshold: s.LowStockThreshold,
		})
	}
	product, skus, err := h.uc.CreateProduct(c.Context(), tenantID, userID, input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProductToResponse(product, skus))
}

// GetByID godoc
// @Summary      Obtener producto con sus variantes
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	product, skus, err := h.uc.GetProduct(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.ProductToResponse(product, skus))
}

// List godoc
// @Summary      Listar productos del tenant
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	products, err := h.uc.ListProducts(c.Context(), tenantID, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ProductToResponse(p, nil))
	}
	return c.JSON(fiber.Map{"products": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// AddSKU godoc
// @Summary      Agregar una variante a un producto existente
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "Product ID"
// @Param        body  body  dto.SKURequest  true  "code, price, initial_stock, low_stock_threshold"
// @Success      201   {object}  dto.SKUResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/skus [post]
func (h *ProductHandler) AddSKU(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.SKURequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sku, err := h.uc.AddSKU(c.Context(), tenantID, userID, c.Params("id"), catalog.SKUInput{
		Code:              in.Code,
		Name:              in.Name,
		Price:             in.Price,
		InitialStock:      in.InitialStock,
		LowStockThreshold: in.LowStockThreshold,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SKUToResponse(sku))
}

// UpdateSKU godoc
// @Summary      Editar una variante (precio, umbral, estado). Nunca el stock.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "SKU ID"
// @Param        body  body  dto.UpdateSKURequest  true  "name, price, low_stock_threshold, is_active"
// @Success      200   {object}  dto.SKUResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/skus/{id} [put]
func (h *ProductHandler) UpdateSKU(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateSKURequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sku, err := h.uc.UpdateSKU(c.Context(), tenantID, c.Params("id"), catalog.SKUUpdateInput{
		Name:              in.Name,
		Price:             in.Price,
		LowStockThreshold: in.LowStockThreshold,
		IsActive:          in.IsActive,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SKUToResponse(sku))
}
