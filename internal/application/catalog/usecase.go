package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/application/stock"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

// UseCase administra el catálogo: productos y sus SKUs. Toda cantidad entra al
// sistema por el motor de stock, incluido el stock inicial de un SKU nuevo
// (movimiento adjustment), para que el ledger reconstruya el saldo completo.
type UseCase struct {
	productRepo repository.ProductRepository
	skuRepo     repository.SKURepository
	movRepo     repository.StockMovementRepository
	engine      *stock.Engine
	log         *logger.Logger

	defaultLowStock int64
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	productRepo repository.ProductRepository,
	skuRepo repository.SKURepository,
	movRepo repository.StockMovementRepository,
	engine *stock.Engine,
	log *logger.Logger,
	defaultLowStock int64,
) *UseCase {
	return &UseCase{
		productRepo:     productRepo,
		skuRepo:         skuRepo,
		movRepo:         movRepo,
		engine:          engine,
		log:             log,
		defaultLowStock: defaultLowStock,
	}
}

// SKUInput datos de alta de un SKU.
type SKUInput struct {
	Code              string
	Name              string
	Price             decimal.Decimal
	InitialStock      int64
	LowStockThreshold int64
}

// ProductInput datos de alta de un producto con sus variantes.
type ProductInput struct {
	Name        string
	Description string
	Category    string
	SKUs        []SKUInput
}

// CreateProduct crea el producto y sus SKUs. Cada SKU nace con stock 0 y
// versión 1; el stock inicial se aplica como movimiento adjustment para dejar
// rastro en el ledger.
func (uc *UseCase) CreateProduct(ctx context.Context, tenantID, userID string, input ProductInput) (*entity.Product, []*entity.SKU, error) {
	if tenantID == "" || input.Name == "" || len(input.SKUs) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, nil, err
	}

	skus := make([]*entity.SKU, 0, len(input.SKUs))
	for _, in := range input.SKUs {
		sku, err := uc.addSKU(ctx, tenantID, userID, product.ID, in)
		if err != nil {
			return nil, nil, err
		}
		skus = append(skus, sku)
	}
	return product, skus, nil
}

// AddSKU agrega una variante a un producto existente.
func (uc *UseCase) AddSKU(ctx context.Context, tenantID, userID, productID string, input SKUInput) (*entity.SKU, error) {
	product, err := uc.productRepo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.addSKU(ctx, tenantID, userID, productID, input)
}

func (uc *UseCase) addSKU(ctx context.Context, tenantID, userID, productID string, input SKUInput) (*entity.SKU, error) {
	if input.Code == "" || input.Price.IsNegative() || input.InitialStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if existing, err := uc.skuRepo.GetByCode(ctx, tenantID, input.Code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	threshold := input.LowStockThreshold
	if threshold <= 0 {
		threshold = uc.defaultLowStock
	}
	now := time.Now()
	sku := &entity.SKU{
		ID:                uuid.New().String(),
		TenantID:          tenantID,
		ProductID:         productID,
		Code:              input.Code,
		Name:              input.Name,
		Price:             input.Price,
		Stock:             0,
		LowStockThreshold: threshold,
		Version:           1,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.skuRepo.Create(ctx, sku); err != nil {
		return nil, err
	}
	if input.InitialStock > 0 {
		if _, err := uc.engine.ApplyMovement(ctx, stock.MovementInput{
			TenantID:      tenantID,
			SKUID:         sku.ID,
			Delta:         input.InitialStock,
			Type:          entity.MovementTypeAdjustment,
			Reference:     newAdjustmentRef(),
			ReferenceType: entity.ReferenceTypeAdjustment,
			UserID:        userID,
		}); err != nil {
			return nil, err
		}
		// Releer para devolver el stock y la versión ya actualizados
		sku, err := uc.skuRepo.GetByID(ctx, tenantID, sku.ID)
		if err != nil {
			return nil, err
		}
		return sku, nil
	}
	return sku, nil
}

// SKUUpdateInput campos editables de un SKU. Nunca incluye el stock: esa
// escritura es exclusiva del motor.
type SKUUpdateInput struct {
	Name              string
	Price             *decimal.Decimal
	LowStockThreshold *int64
	IsActive          *bool
}

// UpdateSKU edita precio, umbral y estado activo del SKU.
func (uc *UseCase) UpdateSKU(ctx context.Context, tenantID, skuID string, input SKUUpdateInput) (*entity.SKU, error) {
	sku, err := uc.skuRepo.GetByID(ctx, tenantID, skuID)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, domain.ErrNotFound
	}
	if input.Name != "" {
		sku.Name = input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		sku.Price = *input.Price
	}
	if input.LowStockThreshold != nil {
		sku.LowStockThreshold = *input.LowStockThreshold
	}
	if input.IsActive != nil {
		sku.IsActive = *input.IsActive
	}
	sku.UpdatedAt = time.Now()
	if err := uc.skuRepo.Update(ctx, sku); err != nil {
		return nil, err
	}
	return sku, nil
}

// AdjustStock aplica un ajuste manual con signo (corrección de inventario
// físico) a través del motor de stock.
func (uc *UseCase) AdjustStock(ctx context.Context, tenantID, userID, skuID string, delta int64, note string) (*entity.StockMovement, error) {
	reference := newAdjustmentRef()
	if note != "" {
		reference = reference + " " + note
	}
	return uc.engine.ApplyMovement(ctx, stock.MovementInput{
		TenantID:      tenantID,
		SKUID:         skuID,
		Delta:         delta,
		Type:          entity.MovementTypeAdjustment,
		Reference:     reference,
		ReferenceType: entity.ReferenceTypeAdjustment,
		UserID:        userID,
	})
}

// GetProduct devuelve el producto con sus SKUs.
func (uc *UseCase) GetProduct(ctx context.Context, tenantID, productID string) (*entity.Product, []*entity.SKU, error) {
	product, err := uc.productRepo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	skus, err := uc.skuRepo.ListByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, nil, err
	}
	return product, skus, nil
}

// ListProducts lista productos del tenant, paginados.
func (uc *UseCase) ListProducts(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.ListByTenant(ctx, tenantID, limit, offset)
}

// MovementHistory lista los movimientos del ledger de un SKU, paginados.
func (uc *UseCase) MovementHistory(ctx context.Context, tenantID, skuID string, limit, offset int) ([]*entity.StockMovement, error) {
	sku, err := uc.skuRepo.GetByID(ctx, tenantID, skuID)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, domain.ErrNotFound
	}
	return uc.movRepo.ListBySKU(ctx, tenantID, skuID, limit, offset)
}

// MovementsByReference lista los movimientos asociados a una orden u orden de compra.
func (uc *UseCase) MovementsByReference(ctx context.Context, tenantID, reference string) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByReference(ctx, tenantID, reference)
}

// newAdjustmentRef genera la referencia de una nota de ajuste (ADJ-XXXXXXXX).
func newAdjustmentRef() string {
	return "ADJ-" + strings.ToUpper(uuid.New().String()[:8])
}
