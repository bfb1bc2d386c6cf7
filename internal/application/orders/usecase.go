package orders

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

// compensationRetries reintentos de cada movimiento de compensación antes de
// escalar a intervención manual. Cada intento ya lleva dentro el ciclo
// optimista del motor.
const compensationRetries = 3

// UseCase orquesta el ciclo de vida de órdenes de venta multi-línea:
// creación con descuento de stock todo-o-nada, despacho (total o por líneas)
// y cancelación con restauración del remanente.
type UseCase struct {
	engine    *stock.Engine
	orderRepo repository.OrderRepository
	skuRepo   repository.SKURepository
	notifier  notify.Notifier
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	engine *stock.Engine,
	orderRepo repository.OrderRepository,
	skuRepo repository.SKURepository,
	notifier notify.Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		engine:    engine,
		orderRepo: orderRepo,
		skuRepo:   skuRepo,
		notifier:  notifier,
		log:       log,
	}
}

// LineInput línea solicitada al crear una orden.
type LineInput struct {
	SKUID    string
	Quantity int64
}

// CreateOrderInput entrada para CreateOrder. Tax y Discount son opcionales
// (cero por defecto).
type CreateOrderInput struct {
	TenantID      string
	UserID        string
	CustomerName  string
	CustomerEmail string
	Lines         []LineInput
	Tax           decimal.Decimal
	Discount      decimal.Decimal
}

// appliedLine delta ya aplicado sobre un SKU, pendiente de compensar si la
// operación aborta.
type appliedLine struct {
	skuID string
	delta int64
}

// CreateOrder crea una orden Pending descontando el stock de todas las líneas
// en el momento de creación (reserva-al-crear). Todo-o-nada: si cualquier
// línea falla, las ya descontadas se compensan con el movimiento inverso antes
// de devolver el error. Los precios se congelan con el snapshot del SKU.
func (uc *UseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*entity.Order, error) {
	if input.TenantID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(input.Lines))
	for _, line := range input.Lines {
		if line.SKUID == "" || line.Quantity <= 0 || seen[line.SKUID] {
			return nil, domain.ErrInvalidInput
		}
		seen[line.SKUID] = true
	}

	// Resolver SKUs: deben existir, estar activos y pertenecer al tenant.
	skus := make([]*entity.SKU, 0, len(input.Lines))
	for _, line := range input.Lines {
		sku, err := uc.skuRepo.GetByID(ctx, input.TenantID, line.SKUID)
		if err != nil {
			return nil, err
		}
		if sku == nil || !sku.IsActive || !sku.BelongsTo(input.TenantID) {
			return nil, domain.ErrNotFound
		}
		skus = append(skus, sku)
	}

	orderNumber := newOrderNumber()

	// Descontar cada línea; cada mutación es independiente, la atomicidad de
	// cara al caller la da la compensación.
	applied := make([]appliedLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		_, err := uc.engine.ApplyMovement(ctx, stock.MovementInput{
			TenantID:      input.TenantID,
			SKUID:         line.SKUID,
			Delta:         -line.Quantity,
			Type:          entity.MovementTypeSale,
			Reference:     orderNumber,
			ReferenceType: entity.ReferenceTypeOrder,
			UserID:        input.UserID,
		})
		if err != nil {
			uc.compensate(ctx, input.TenantID, input.UserID, orderNumber, entity.MovementTypeReturn, applied)
			return nil, err
		}
		applied = append(applied, appliedLine{skuID: line.SKUID, delta: -line.Quantity})
	}

	now := time.Now()
	items := make([]entity.OrderItem, 0, len(input.Lines))
	subtotal := decimal.Zero
	for i, line := range input.Lines {
		sku := skus[i]
		lineTotal := sku.Price.Mul(decimal.NewFromInt(line.Quantity))
		items = append(items, entity.OrderItem{
			SKUID:             sku.ID,
			ProductID:         sku.ProductID,
			SKUCode:           sku.Code,
			Quantity:          line.Quantity,
			FulfilledQuantity: 0,
			Price:             sku.Price,
			LineTotal:         lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	order := &entity.Order{
		ID:            uuid.New().String(),
		TenantID:      input.TenantID,
		OrderNumber:   orderNumber,
		Status:        entity.OrderStatusPending,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           input.Tax,
		Discount:      input.Discount,
		TotalAmount:   subtotal.Add(input.Tax).Sub(input.Discount),
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CreatedBy:     input.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		// El stock ya se descontó: sin la orden persistida hay que devolverlo.
		uc.compensate(ctx, input.TenantID, input.UserID, orderNumber, entity.MovementTypeReturn, applied)
		return nil, err
	}

	uc.notifier.Publish(ctx, notify.Event{
		Name:     notify.EventOrderCreated,
		TenantID: input.TenantID,
		At:       now,
		Payload: map[string]any{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"total":        order.TotalAmount.String(),
			"lines":        len(order.Items),
		},
	})
	return order, nil
}

// FulfillOrder marca todas las líneas como despachadas y la orden como
// Fulfilled. No mueve stock: el descuento ocurrió al crearla; esto es solo el
// marcador operativo de entrega.
func (uc *UseCase) FulfillOrder(ctx context.Context, tenantID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.IsCancelled() || order.Status == entity.OrderStatusFulfilled {
		return nil, domain.ErrAlreadyTerminal
	}

	for i := range order.Items {
		order.Items[i].FulfilledQuantity = order.Items[i].Quantity
	}
	order.Status = entity.OrderStatusFulfilled
	order.UpdatedAt = time.Now()
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	uc.notifier.Publish(ctx, notify.Event{
		Name:     notify.EventOrderDone,
		TenantID: tenantID,
		At:       order.UpdatedAt,
		Payload:  map[string]any{"order_id": order.ID, "order_number": order.OrderNumber},
	})
	return order, nil
}

// LineFulfillment cantidad despachada ahora para una línea.
type LineFulfillment struct {
	SKUID    string
	Quantity int64
}

// FulfillOrderLines registra despachos parciales por línea y deriva el estado
// desde las cantidades acumuladas: todo → Fulfilled, algo → Partial. Tampoco
// mueve stock.
func (uc *UseCase) FulfillOrderLines(ctx context.Context, tenantID, orderID string, lines []LineFulfillment) (*entity.Order, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.IsCancelled() || order.Status == entity.OrderStatusFulfilled {
		return nil, domain.ErrAlreadyTerminal
	}

	// Validar todas las líneas antes de tocar la orden.
	for _, lf := range lines {
		if lf.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		item := itemBySKU(order, lf.SKUID)
		if item == nil {
			return nil, domain.ErrNotFound
		}
		if item.FulfilledQuantity+lf.Quantity > item.Quantity {
			return nil, domain.ErrInvalidInput
		}
	}
	for _, lf := range lines {
		item := itemBySKU(order, lf.SKUID)
		item.FulfilledQuantity += lf.Quantity
	}

	order.Status = order.DeriveFulfillmentStatus()
	order.UpdatedAt = time.Now()
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	eventName := notify.EventOrderPartial
	if order.Status == entity.OrderStatusFulfilled {
		eventName = notify.EventOrderDone
	}
	uc.notifier.Publish(ctx, notify.Event{
		Name:     eventName,
		TenantID: tenantID,
		At:       order.UpdatedAt,
		Payload:  map[string]any{"order_id": order.ID, "order_number": order.OrderNumber},
	})
	return order, nil
}

// CancelOrder restaura el remanente no despachado de cada línea
// (quantity - fulfilledQuantity, type=return) y marca la orden Cancelled
// (terminal). Una segunda cancelación devuelve ErrAlreadyTerminal sin volver a
// restaurar. Si una restauración falla a mitad, las ya aplicadas se revierten
// para que la cancelación sea reintentable sin doble restauración.
func (uc *UseCase) CancelOrder(ctx context.Context, tenantID, userID, orderID, reason string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.IsCancelled() {
		return nil, domain.ErrAlreadyTerminal
	}

	restored := make([]appliedLine, 0, len(order.Items))
	for _, item := range order.Items {
		remainder := item.Quantity - item.FulfilledQuantity
		if remainder == 0 {
			continue
		}
		_, err := uc.engine.ApplyMovement(ctx, stock.MovementInput{
			TenantID:      tenantID,
			SKUID:         item.SKUID,
			Delta:         remainder,
			Type:          entity.MovementTypeReturn,
			Reference:     order.OrderNumber,
			ReferenceType: entity.ReferenceTypeOrder,
			UserID:        userID,
		})
		if err != nil {
			uc.compensate(ctx, tenantID, userID, order.OrderNumber, entity.MovementTypeSale, restored)
			return nil, err
		}
		restored = append(restored, appliedLine{skuID: item.SKUID, delta: remainder})
	}

	now := time.Now()
	order.Status = entity.OrderStatusCancelled
	order.CancelledAt = &now
	order.CancellationReason = reason
	order.UpdatedAt = now
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		uc.compensate(ctx, tenantID, userID, order.OrderNumber, entity.MovementTypeSale, restored)
		return nil, err
	}

	uc.notifier.Publish(ctx, notify.Event{
		Name:     notify.EventOrderCancel,
		TenantID: tenantID,
		At:       now,
		Payload: map[string]any{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"reason":       reason,
		},
	})
	return order, nil
}

// GetOrder devuelve una orden del tenant.
func (uc *UseCase) GetOrder(ctx context.Context, tenantID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// ListOrders lista las órdenes del tenant, paginadas.
func (uc *UseCase) ListOrders(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Order, error) {
	return uc.orderRepo.ListByTenant(ctx, tenantID, limit, offset)
}

// compensate aplica el movimiento inverso de cada delta ya aplicado. Reintenta
// cada línea; si aun así falla, lo registra como error de consistencia: stock y
// ledger pueden quedar desalineados con la orden y alguien debe intervenir.
// Nunca se descarta en silencio.
func (uc *UseCase) compensate(ctx context.Context, tenantID, userID, reference, movType string, applied []appliedLine) {
	for _, line := range applied {
		var lastErr error
		for attempt := 1; attempt <= compensationRetries; attempt++ {
			_, err := uc.engine.ApplyMovement(ctx, stock.MovementInput{
				TenantID:      tenantID,
				SKUID:         line.skuID,
				Delta:         -line.delta,
				Type:          movType,
				Reference:     reference,
				ReferenceType: entity.ReferenceTypeOrder,
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
				Str("sku_id", line.skuID).
				Int64("delta", -line.delta).
				Str("reference", reference).
				Msg("fallo de compensación de stock: requiere intervención manual")
		}
	}
}

func itemBySKU(order *entity.Order, skuID string) *entity.OrderItem {
	for i := range order.Items {
		if order.Items[i].SKUID == skuID {
			return &order.Items[i]
		}
	}
	return nil
}

// newOrderNumber genera un número de orden corto y único (ORD-XXXXXXXX).
func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}
