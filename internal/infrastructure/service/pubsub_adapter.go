package service

import (
	"context"

	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/messaging"
	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/persistence/redis"
)

// ══════════════════════════════════════════════════════════════════════════════
// REDIS PUB/SUB ADAPTER
// ══════════════════════════════════════════════════════════════════════════════

// RedisPubSubAdapter exposes the cache connection as the transport the
// distributed event bus expects. The bus hands over payloads that are
// already serialized, so Publish writes them to the channel as-is
// instead of going through the cache's JSON marshaling.
type RedisPubSubAdapter struct {
	cache *redis.Cache
}

var _ messaging.RedisClient = (*RedisPubSubAdapter)(nil)

// NewRedisPubSubAdapter creates an adapter over an established cache
// connection. The adapter does not own the connection; closing it is
// the caller's responsibility.
func NewRedisPubSubAdapter(cache *redis.Cache) *RedisPubSubAdapter {
	return &RedisPubSubAdapter{cache: cache}
}

// Publish sends an already-serialized message to a Pub/Sub channel.
func (a *RedisPubSubAdapter) Publish(ctx context.Context, channel string, message interface{}) error {
	return a.cache.Client().Publish(ctx, channel, message).Err()
}

// Subscribe opens a subscription and converts it into the bus message
// stream. The goroutine exits and the subscription closes when ctx is
// cancelled or the underlying connection goes away.
func (a *RedisPubSubAdapter) Subscribe(ctx context.Context, channels ...string) (<-chan messaging.RedisMessage, error) {
	sub := a.cache.Subscribe(ctx, channels...)

	// Confirm the subscription before handing the stream to the bus.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan messaging.RedisMessage)
	go func() {
		defer close(out)
		defer sub.Close()

		in := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- messaging.RedisMessage{Channel: msg.Channel, Payload: msg.Payload}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Close satisfies the transport contract. Subscriptions are bound to
// their contexts and the cache connection is closed by its owner.
func (a *RedisPubSubAdapter) Close() error {
	return nil
}
