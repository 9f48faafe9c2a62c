package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER - Fixed window counter over Redis
// ══════════════════════════════════════════════════════════════════════════════

// RateLimiterConfig contains configuration for the rate limiter.
type RateLimiterConfig struct {
	// MaxRequests is the number of requests allowed per window.
	MaxRequests int64

	// Window is the length of the counting window.
	Window time.Duration
}

// DefaultRateLimiterConfig returns defaults suitable for request-type
// commands: ten requests per minute per actor.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		MaxRequests: 10,
		Window:      TTLRateLimitWindow,
	}
}

// RateLimiter throttles operations per actor using a fixed window counter.
// The counter key expires with the window, so no cleanup is needed.
type RateLimiter struct {
	cache  *Cache
	config RateLimiterConfig
}

// NewRateLimiter creates a new RateLimiter.
func NewRateLimiter(cache *Cache, config RateLimiterConfig) *RateLimiter {
	if config.MaxRequests <= 0 {
		config = DefaultRateLimiterConfig()
	}
	return &RateLimiter{cache: cache, config: config}
}

// Allow returns nil if the actor may proceed, shared.ErrRateLimited if the
// window is exhausted. Redis errors fail open: a broken limiter must not
// take the write path down with it.
func (l *RateLimiter) Allow(ctx context.Context, actorID string, op string) error {
	key := RateLimitKey(actorID, op)

	count, err := l.cache.Incr(ctx, key)
	if err != nil {
		return nil
	}

	if count == 1 {
		if err := l.cache.Expire(ctx, key, l.config.Window); err != nil {
			return nil
		}
	}

	if count > l.config.MaxRequests {
		return fmt.Errorf("%w: %s exceeded %d requests per %s",
			shared.ErrRateLimited, op, l.config.MaxRequests, l.config.Window)
	}

	return nil
}

// Remaining returns how many requests the actor has left in the window.
func (l *RateLimiter) Remaining(ctx context.Context, actorID string, op string) (int64, error) {
	val, err := l.cache.GetString(ctx, RateLimitKey(actorID, op))
	if err != nil {
		if err == ErrCacheMiss {
			return l.config.MaxRequests, nil
		}
		return 0, err
	}

	var used int64
	if _, err := fmt.Sscanf(val, "%d", &used); err != nil {
		return 0, fmt.Errorf("rate limiter: malformed counter: %w", err)
	}

	remaining := l.config.MaxRequests - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
