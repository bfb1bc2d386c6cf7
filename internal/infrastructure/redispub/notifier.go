// Package redispub publica los eventos del dominio en un canal de Redis
// (pub/sub) para consumidores externos: paneles en tiempo real, alertas de
// stock bajo, integraciones.
package redispub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Comercio-api/internal/application/notify"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

const publishTimeout = 2 * time.Second

var _ notify.Notifier = (*Notifier)(nil)

// Notifier publica eventos serializados como JSON en <channel>.<tenant_id>,
// un canal por tenant. La publicación es best-effort: un fallo se loguea y no
// se propaga.
type Notifier struct {
	client  *redis.Client
	channel string
	log     *logger.Logger
}

// New construye el notificador sobre un cliente de Redis ya conectado.
func New(client *redis.Client, channel string, log *logger.Logger) *Notifier {
	return &Notifier{client: client, channel: channel, log: log}
}

// Publish serializa y publica el evento. No devuelve error por contrato del
// puerto: la mutación que originó el evento ya está confirmada.
func (n *Notifier) Publish(ctx context.Context, ev notify.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		n.log.Error().Err(err).Str("event", ev.Name).Msg("no se pudo serializar el evento")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	channel := n.channel
	if ev.TenantID != "" {
		channel += "." + ev.TenantID
	}
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		n.log.Error().Err(err).
			Str("event", ev.Name).
			Str("channel", channel).
			Msg("no se pudo publicar el evento en redis")
	}
}
