// Package events publishes workflow transition events. Publishing is
// best-effort: a failed publish is logged and never fails the transition.
package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel is the Redis pub/sub channel for application transition events.
const Channel = "EVENT_APPLICATION_MOVED"

// Event describes one state change of a candidate application.
type Event struct {
	ApplicationID string `json:"application_id"`
	Role          string `json:"role"`
	From          string `json:"from"`
	To            string `json:"to"`
	Input         string `json:"input"`
	At            string `json:"at"`
}

// Publisher emits transition events.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// RedisPublisher publishes events on a Redis channel.
type RedisPublisher struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, log: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) {
	payload, _ := json.Marshal(e)
	if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		p.log.Warn("publish transition event failed",
			zap.String("application_id", e.ApplicationID),
			zap.Error(err),
		)
	}
}

// NopPublisher discards all events; used when Redis is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, e Event) {}
