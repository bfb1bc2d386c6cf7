package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comercio-api/internal/application/notify"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

// DefaultMaxRetries intentos del ciclo leer-calcular-swap ante conflicto de versión.
const DefaultMaxRetries = 5

// errCASMiss señal interna: el swap no aplicó porque la versión cambió; se
// reintenta el ciclo completo desde la lectura.
var errCASMiss = errors.New("cas: versión desactualizada")

// Engine es el único escritor de cantidades de SKU. Aplica deltas con control
// de concurrencia optimista por versión y registra cada mutación aceptada como
// un movimiento inmutable, en la misma transacción que el cambio de stock.
// No toma ningún lock global: SKUs distintos mutan en paralelo sin contención y
// los escritores del mismo SKU se serializan por el check de versión.
type Engine struct {
	txRunner   TxRunner
	skuRepo    repository.SKURepository
	notifier   notify.Notifier
	log        *logger.Logger
	maxRetries int
}

// NewEngine construye el motor. maxRetries <= 0 usa DefaultMaxRetries.
func NewEngine(
	txRunner TxRunner,
	skuRepo repository.SKURepository,
	notifier notify.Notifier,
	log *logger.Logger,
	maxRetries int,
) *Engine {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Engine{
		txRunner:   txRunner,
		skuRepo:    skuRepo,
		notifier:   notifier,
		log:        log,
		maxRetries: maxRetries,
	}
}

// MovementInput entrada para aplicar un delta de stock sobre un SKU.
type MovementInput struct {
	TenantID      string
	SKUID         string
	Delta         int64 // con signo; nunca cero
	Type          string
	Reference     string
	ReferenceType string
	UserID        string
}

// ApplyMovement aplica el delta con el ciclo optimista:
//  1. lee el snapshot (stock, version) del SKU,
//  2. calcula newStock y rechaza con InsufficientStockError si quedaría negativo,
//  3. intenta CompareAndSwapStock con la versión leída y, en la misma
//     transacción, persiste el movimiento con los saldos antes/después,
//  4. si la versión cambió, repite desde la lectura hasta maxRetries.
//
// Exactamente un incremento de versión y una entrada del ledger por llamada
// aceptada. NO es idempotente: dos llamadas con el mismo delta lo aplican dos
// veces; el deduplicado por referencia es responsabilidad del ciclo de vida
// de la orden que llama.
func (e *Engine) ApplyMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if input.TenantID == "" || input.SKUID == "" || input.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidMovementType(input.Type) {
		return nil, domain.ErrInvalidInput
	}

	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		sku, err := e.skuRepo.GetByID(ctx, input.TenantID, input.SKUID)
		if err != nil {
			return nil, err
		}
		if sku == nil {
			return nil, domain.ErrNotFound
		}

		newStock := sku.Stock + input.Delta
		if newStock < 0 {
			return nil, &domain.InsufficientStockError{
				SKUID:     input.SKUID,
				Requested: -input.Delta,
				Available: sku.Stock,
			}
		}

		now := time.Now()
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			TenantID:      input.TenantID,
			SKUID:         sku.ID,
			ProductID:     sku.ProductID,
			Type:          input.Type,
			Quantity:      input.Delta,
			BalanceBefore: sku.Stock,
			BalanceAfter:  newStock,
			Reference:     input.Reference,
			ReferenceType: input.ReferenceType,
			CreatedAt:     now,
			CreatedBy:     input.UserID,
		}

		// Swap + movimiento en una sola transacción: si el insert del ledger
		// falla, el cambio de stock se revierte con el rollback.
		err = e.txRunner.Run(ctx, func(
			skuRepo repository.SKURepository,
			movRepo repository.StockMovementRepository,
		) error {
			swapped, err := skuRepo.CompareAndSwapStock(ctx, input.TenantID, sku.ID, sku.Version, newStock)
			if err != nil {
				return err
			}
			if !swapped {
				return errCASMiss
			}
			return movRepo.Create(ctx, mov)
		})
		if errors.Is(err, errCASMiss) {
			e.log.Debug().
				Str("sku_id", sku.ID).
				Int("attempt", attempt).
				Msg("conflicto de versión, reintentando")
			continue
		}
		if err != nil {
			return nil, err
		}

		e.afterApply(ctx, sku, mov)
		return mov, nil
	}

	return nil, &domain.VersionConflictError{SKUID: input.SKUID, Attempts: e.maxRetries}
}

// afterApply emite los hooks post-commit: ajuste aplicado y, si el saldo cruzó
// el umbral hacia abajo, stock bajo.
func (e *Engine) afterApply(ctx context.Context, sku *entity.SKU, mov *entity.StockMovement) {
	e.notifier.Publish(ctx, notify.Event{
		Name:     notify.EventStockAdjusted,
		TenantID: mov.TenantID,
		At:       mov.CreatedAt,
		Payload: map[string]any{
			"sku_id":         mov.SKUID,
			"movement_id":    mov.ID,
			"type":           mov.Type,
			"quantity":       mov.Quantity,
			"balance_after":  mov.BalanceAfter,
			"reference":      mov.Reference,
			"reference_type": mov.ReferenceType,
		},
	})
	if mov.BalanceBefore > sku.LowStockThreshold && mov.BalanceAfter <= sku.LowStockThreshold {
		e.notifier.Publish(ctx, notify.Event{
			Name:     notify.EventStockLow,
			TenantID: mov.TenantID,
			At:       mov.CreatedAt,
			Payload: map[string]any{
				"sku_id":    mov.SKUID,
				"stock":     mov.BalanceAfter,
				"threshold": sku.LowStockThreshold,
			},
		})
	}
}
