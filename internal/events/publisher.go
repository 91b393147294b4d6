// Package events publishes chat outcome events.
package events

import (
	"context"
	"encoding/json"

	"github.com/apex/log"
	"github.com/redis/go-redis/v9"

	"medchat-backend/internal/models"
)

// Publisher sends a ChatEvent somewhere. Failures are logged, never returned.
type Publisher interface {
	Publish(ctx context.Context, ev models.ChatEvent)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, models.ChatEvent) {}

// RedisPublisher publishes events as JSON on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Channel() string { return p.channel }

func (p *RedisPublisher) Publish(ctx context.Context, ev models.ChatEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).Error("failed to encode chat event")
		return
	}
	if err := p.client.Publish(ctx, p.channel, string(data)).Err(); err != nil {
		log.WithError(err).WithField("channel", p.channel).Warn("failed to publish chat event")
	}
}
