package events

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("events",
	fx.Provide(NewPublisher),
)

// NewPublisher returns the redis-backed publisher when a redis client is
// available and a log-only publisher otherwise, so local setups run without
// a broker.
func NewPublisher(client *redis.Client, log *zap.Logger) Publisher {
	if client == nil {
		log.Warn("invoice events are log-only")
		return &LogPublisher{log: log.Named("events.log")}
	}
	return NewRedisPublisher(client, log)
}

// LogPublisher records events in the application log only.
type LogPublisher struct {
	log *zap.Logger
}

func (p *LogPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.log.Info("event published", zap.String("event_type", eventType))
	return nil
}
