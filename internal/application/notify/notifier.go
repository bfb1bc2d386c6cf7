package notify

import (
	"context"
	"time"
)

// Nombres de evento publicados por el núcleo. El transporte (pub/sub, push en
// tiempo real) es un colaborador externo; aquí solo se emiten los hooks.
const (
	EventStockAdjusted = "stock.adjusted"
	EventStockLow      = "stock.low"
	EventOrderCreated  = "order.created"
	EventOrderPartial  = "order.partially_fulfilled"
	EventOrderDone     = "order.fulfilled"
	EventOrderCancel   = "order.cancelled"
	EventPOSent        = "po.sent"
	EventPOConfirmed   = "po.confirmed"
	EventPOReceived    = "po.received"
	EventPOCancelled   = "po.cancelled"
)

// Event es la notificación emitida tras una mutación o transición de estado
// confirmada. Payload lleva los datos mínimos para el consumidor.
type Event struct {
	Name     string         `json:"name"`
	TenantID string         `json:"tenant_id"`
	Payload  map[string]any `json:"payload,omitempty"`
	At       time.Time      `json:"at"`
}

// Notifier es el puerto de salida de eventos. La publicación es best-effort:
// un fallo del notificador no revierte la mutación ya confirmada.
type Notifier interface {
	Publish(ctx context.Context, ev Event)
}
