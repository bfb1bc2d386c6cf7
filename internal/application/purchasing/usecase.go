package purchasing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/application/notify"
	"github.com/jhoicas/Comercio-api/internal/application/stock"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

// compensationRetries reintentos de cada reverso de recepción antes de escalar.
const compensationRetries = 3

// UseCase orquesta el ciclo de vida de órdenes de compra:
// Draft → Sent → Confirmed → Received (acredita stock) o Cancelled.
// La recepción puede hacerse en varios incrementos; la orden queda Received
// solo cuando todas las líneas completan su cantidad pedida.
type UseCase struct {
	engine       *stock.Engine
	poRepo       repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	skuRepo      repository.SKURepository
	notifier     notify.Notifier
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	engine *stock.Engine,
	poRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	skuRepo repository.SKURepository,
	notifier notify.Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		engine:       engine,
		poRepo:       poRepo,
		supplierRepo: supplierRepo,
		skuRepo:      skuRepo,
		notifier:     notifier,
		log:          log,
	}
}

// LineInput línea pedida al crear una orden de compra.
type LineInput struct {
	SKUID    string
	Quantity int64
	Price    decimal.Decimal // precio pactado por unidad
}

// CreateInput entrada para CreatePurchaseOrder.
type CreateInput struct {
	TenantID   string
	UserID     string
	SupplierID string
	Notes      string
	Lines      []LineInput
}

// CreatePurchaseOrder crea la orden en Draft. Ningún efecto sobre el stock.
func (uc *UseCase) CreatePurchaseOrder(ctx context.Context, input CreateInput) (*entity.PurchaseOrder, error) {
	if input.TenantID == "" || input.SupplierID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, input.TenantID, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || !supplier.IsActive {
		return nil, domain.ErrNotFound
	}

	seen := make(map[string]bool, len(input.Lines))
	items := make([]entity.PurchaseOrderItem, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.SKUID == "" || line.Quantity <= 0 || line.Price.IsNegative() || seen[line.SKUID] {
			return nil, domain.ErrInvalidInput
		}
		seen[line.SKUID] = true
		sku, err := uc.skuRepo.GetByID(ctx, input.TenantID, line.SKUID)
		if err != nil {
			return nil, err
		}
		if sku == nil {
			return nil, domain.ErrNotFound
		}
		items = append(items, entity.PurchaseOrderItem{
			SKUID:           sku.ID,
			ProductID:       sku.ProductID,
			SKUCode:         sku.Code,
			OrderedQuantity: line.Quantity,
			OrderedPrice:    line.Price,
		})
	}

	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		TenantID:   input.TenantID,
		PONumber:   newPONumber(),
		SupplierID: input.SupplierID,
		Status:     entity.PurchaseOrderStatusDraft,
		Items:      items,
		Notes:      input.Notes,
		CreatedBy:  input.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.poRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// SendPurchaseOrder transición Draft → Sent.
func (uc *UseCase) SendPurchaseOrder(ctx context.Context, tenantID, poID string) (*entity.PurchaseOrder, error) {
	return uc.transition(ctx, tenantID, poID, entity.PurchaseOrderStatusSent, notify.EventPOSent)
}

// ConfirmPurchaseOrder transición Sent → Confirmed (el proveedor aceptó).
func (uc *UseCase) ConfirmPurchaseOrder(ctx context.Context, tenantID, poID string) (*entity.PurchaseOrder, error) {
	return uc.transition(ctx, tenantID, poID, entity.PurchaseOrderStatusConfirmed, notify.EventPOConfirmed)
}

// CancelPurchaseOrder cancela desde cualquier estado no terminal. Sin efecto
// sobre el stock: lo ya recibido en recepciones parciales previas se queda.
func (uc *UseCase) CancelPurchaseOrder(ctx context.Context, tenantID, poID, reason string) (*entity.PurchaseOrder, error) {
	po, err := uc.transition(ctx, tenantID, poID, entity.PurchaseOrderStatusCancelled, notify.EventPOCancelled)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		po.Notes = strings.TrimSpace(po.Notes + "\ncancelada: " + reason)
		if err := uc.poRepo.Update(ctx, po); err != nil {
			return nil, err
		}
	}
	return po, nil
}

// ReceiptLine cantidad recibida ahora para una línea, con el precio real de
// recepción (cero = usar el precio pactado).
type ReceiptLine struct {
	SKUID    string
	Quantity int64
	Price    decimal.Decimal
}

// ReceivePurchaseOrder acredita el stock de las líneas recibidas
// (type=purchase, una mutación por línea), registra precio recibido y
// varianza (recibido - pactado), y acumula receivedQuantity. Recepción
// incremental: la orden permanece Confirmed mientras alguna línea esté
// incompleta y pasa a Received (terminal) cuando todas completan.
// Las cantidades se validan completas antes de mover stock; recibir de más
// falla con ErrInvalidInput sin efecto alguno.
func (uc *UseCase) ReceivePurchaseOrder(ctx context.Context, tenantID, userID, poID string, lines []ReceiptLine) (*entity.PurchaseOrder, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	po, err := uc.poRepo.GetByID(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.Status.IsTerminal() {
		return nil, domain.ErrAlreadyTerminal
	}
	if !po.Status.CanReceive() {
		return nil, domain.ErrConflict
	}

	// Validación completa antes del primer movimiento.
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 || line.Price.IsNegative() || seen[line.SKUID] {
			return nil, domain.ErrInvalidInput
		}
		seen[line.SKUID] = true
		item := po.ItemBySKU(line.SKUID)
		if item == nil {
			return nil, domain.ErrNotFound
		}
		if line.Quantity > item.Remaining() {
			return nil, domain.ErrInvalidInput
		}
	}

	// Acreditar stock línea a línea; si alguna falla, revertir las ya
	// acreditadas para que la recepción sea todo-o-nada y reintentable.
	credited := make([]ReceiptLine, 0, len(lines))
	for _, line := range lines {
		_, err := uc.engine.ApplyMovement(ctx, stock.MovementInput{
			TenantID:      tenantID,
			SKUID:         line.SKUID,
			Delta:         line.Quantity,
			Type:          entity.MovementTypePurchase,
			Reference:     po.PONumber,
			ReferenceType: entity.ReferenceTypePurchaseOrder,
			UserID:        userID,
		})
		if err != nil {
			uc.revertReceipts(ctx, tenantID, userID, po.PONumber, credited)
			return nil, err
		}
		credited = append(credited, line)
	}

	now := time.Now()
	for _, line := range lines {
		item := po.ItemBySKU(line.SKUID)
		item.ReceivedQuantity += line.Quantity
		price := line.Price
		if price.IsZero() {
			price = item.OrderedPrice
		}
		item.ReceivedPrice = price
		item.PriceVariance = price.Sub(item.OrderedPrice)
	}
	partial := !po.FullyReceived()
	if !partial {
		po.Status = entity.PurchaseOrderStatusReceived
		po.ReceivedAt = &now
	}
	po.UpdatedAt = now
	if err := uc.poRepo.Update(ctx, po); err != nil {
		uc.revertReceipts(ctx, tenantID, userID, po.PONumber, credited)
		return nil, err
	}

	uc.notifier.Publish(ctx, notify.Event{
		Name:     notify.EventPOReceived,
		TenantID: tenantID,
		At:       now,
		Payload: map[string]any{
			"po_id":     po.ID,
			"po_number": po.PONumber,
			"partial":   partial,
		},
	})
	return po, nil
}

// GetPurchaseOrder devuelve una orden de compra del tenant.
func (uc *UseCase) GetPurchaseOrder(ctx context.Context, tenantID, poID string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return po, nil
}

// ListPurchaseOrders lista las órdenes de compra del tenant, paginadas.
func (uc *UseCase) ListPurchaseOrders(ctx context.Context, tenantID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	return uc.poRepo.ListByTenant(ctx, tenantID, limit, offset)
}

// transition aplica una transición de estado validada por el value object.
// Estado terminal → ErrAlreadyTerminal; transición fuera de orden → ErrConflict.
func (uc *UseCase) transition(ctx context.Context, tenantID, poID string, target entity.PurchaseOrderStatus, eventName string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.Status.IsTerminal() {
		return nil, domain.ErrAlreadyTerminal
	}
	if !po.Status.CanTransitionTo(target) {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	po.Status = target
	po.UpdatedAt = now
	switch target {
	case entity.PurchaseOrderStatusSent:
		po.SentAt = &now
	case entity.PurchaseOrderStatusConfirmed:
		po.ConfirmedAt = &now
	case entity.PurchaseOrderStatusCancelled:
		po.CancelledAt = &now
	}
	if err := uc.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}

	uc.notifier.Publish(ctx, notify.Event{
		Name:     eventName,
		TenantID: tenantID,
		At:       now,
		Payload:  map[string]any{"po_id": po.ID, "po_number": po.PONumber},
	})
	return po, nil
}

// revertReceipts deshace los créditos de stock de una recepción abortada
// (delta negativo, type=adjustment). Reintenta cada línea; un fallo final se
// registra como error de consistencia que requiere intervención manual.
func (uc *UseCase) revertReceipts(ctx context.Context, tenantID, userID, poNumber string, credited []ReceiptLine) {
	for _, line := range credited {
		var lastErr error
		for attempt := 1; attempt <= compensationRetries; attempt++ {
			_, err := uc.engine.ApplyMovement(ctx, stock.MovementInput{
				TenantID:      tenantID,
				SKUID:         line.SKUID,
				Delta:         -line.Quantity,
				Type:          entity.MovementTypeAdjustment,
				Reference:     poNumber,
				ReferenceType: entity.ReferenceTypePurchaseOrder,
				UserID:        userID,
			})
			if err == nil {
				lastErr = nil
				break
			}
			lastErr = err
		}
		if lastErr != nil {
			uc.log.Error().
				Err(lastErr).
				Str("tenant_id", tenantID).
				Str("sku_id", line.SKUID).
				Int64("delta", -line.Quantity).
				Str("reference", poNumber).
				Msg("fallo al revertir recepción: requiere intervención manual")
		}
	}
}

// newPONumber genera un número de orden de compra corto y único (PO-XXXXXXXX).
func newPONumber() string {
	return "PO-" + strings.ToUpper(uuid.New().String()[:8])
}
