package notify

import (
	"context"

	"github.com/jhoicas/Comercio-api/pkg/logger"
)

var _ Notifier = (*LogNotifier)(nil)

// LogNotifier escribe los eventos en el log estructurado. Es el notificador
// por defecto cuando no hay pub/sub configurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador de log.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Publish registra el evento con sus campos.
func (n *LogNotifier) Publish(_ context.Context, ev Event) {
	n.log.Info().
		Str("event", ev.Name).
		Str("tenant_id", ev.TenantID).
		Interface("payload", ev.Payload).
		Time("at", ev.At).
		Msg("evento emitido")
}
