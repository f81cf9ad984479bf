package ws

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const relayChannel = "ws:relay"

type relayEnvelope struct {
	Origin         string `json:"origin"`
	ConversationID string `json:"conversation_id"`
	Payload        []byte `json:"payload"`
}

// RedisRelay reenvia broadcasts entre instancias via Redis pub/sub. Cada
// relay se identifica con un origin aleatorio para ignorar sus propias
// publicaciones al consumir.
type RedisRelay struct {
	logger *zap.Logger
	client *redis.Client
	origin string
	pubsub *redis.PubSub
	cancel context.CancelFunc
}

// NewRedisRelay se suscribe al canal de relay y entrega los payloads de
// otras instancias al handler (tipicamente Hub.DeliverLocal).
func NewRedisRelay(logger *zap.Logger, client *redis.Client, handler func(conversationID string, payload []byte)) *RedisRelay {
	ctx, cancel := context.WithCancel(context.Background())
	r := &RedisRelay{
		logger: logger,
		client: client,
		origin: uuid.NewString(),
		pubsub: client.Subscribe(ctx, relayChannel),
		cancel: cancel,
	}

	go func() {
		for msg := range r.pubsub.Channel() {
			var env relayEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				logger.Warn("relay: invalid envelope", zap.Error(err))
				continue
			}
			if env.Origin == r.origin {
				continue
			}
			handler(env.ConversationID, env.Payload)
		}
	}()

	return r
}

func (r *RedisRelay) Publish(ctx context.Context, conversationID string, payload []byte) error {
	data, err := json.Marshal(relayEnvelope{
		Origin:         r.origin,
		ConversationID: conversationID,
		Payload:        payload,
	})
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, relayChannel, data).Err()
}

func (r *RedisRelay) Close() error {
	r.cancel()
	return r.pubsub.Close()
}
