package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher appends events to a redis stream so downstream consumers
// (notifications, ledger export) can read them at their own pace.
type RedisPublisher struct {
	client *redis.Client
	stream string
	log    *zap.Logger
}

func NewRedisPublisher(client *redis.Client, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		stream: StreamInvoices,
		log:    log.Named("events.redis"),
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_type": eventType,
			"payload":    string(body),
		},
	}).Err()
	if err != nil {
		return err
	}
	p.log.Debug("event published", zap.String("event_type", eventType))
	return nil
}
