// Package notify publica eventos de dominio en un canal Redis Pub/Sub para que
// las pantallas de caja y el panel de administración se refresquen en tiempo real.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crismard/ventapos-api/internal/application/sales"
	"github.com/crismard/ventapos-api/pkg/logger"
)

var _ sales.Notifier = (*RedisNotifier)(nil)

const publishTimeout = 2 * time.Second

// envelope es el sobre JSON publicado en el canal.
type envelope struct {
	Event      string `json:"event"`
	OccurredAt string `json:"occurred_at"`
	Payload    any    `json:"payload,omitempty"`
}

// RedisNotifier implementa sales.Notifier sobre Redis Pub/Sub. La publicación es
// best-effort: un Redis caído nunca debe impedir cerrar una venta, así que los
// errores solo se registran.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	log     *logger.Logger
}

// NewRedisNotifier construye el notificador sobre un cliente ya conectado.
func NewRedisNotifier(client *redis.Client, channel string, log *logger.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel, log: log}
}

// Publish serializa el evento y lo publica en el canal. No devuelve error.
func (n *RedisNotifier) Publish(ctx context.Context, event string, payload any) {
	body, err := json.Marshal(envelope{
		Event:      event,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Payload:    payload,
	})
	if err != nil {
		n.log.Warn().Err(err).Str("event", event).Msg("notify: no se pudo serializar el evento")
		return
	}

	// Desacoplado del contexto de la petición: la venta ya se confirmó.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := n.client.Publish(pubCtx, n.channel, body).Err(); err != nil {
		n.log.Warn().Err(err).Str("event", event).Msg("notify: no se pudo publicar el evento")
	}
}
