package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes events on a redis pub/sub channel.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

// NewRedis returns a publisher on channel using client.
func NewRedis(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := e.encode()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
