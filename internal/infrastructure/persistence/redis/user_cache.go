package redis

import (
	"context"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// UserCache implements identity.Cache using the generic Redis Cache.
// Directory lookups hit this before PostgreSQL; a miss is reported as
// shared.ErrUserNotFound wrapped in ErrCacheMiss semantics by the caller.
type UserCache struct {
	cache *Cache
}

// NewUserCache creates a new UserCache.
func NewUserCache(cache *Cache) *UserCache {
	return &UserCache{cache: cache}
}

// Get returns a user from cache. Returns ErrCacheMiss when absent.
func (c *UserCache) Get(ctx context.Context, id shared.UserID) (*identity.User, error) {
	var u identity.User
	if err := c.cache.Get(ctx, UserKey(string(id)), &u); err != nil {
		return nil, err
	}
	// Cached payloads may predate gender normalization.
	u.Gender = identity.NewGender(u.Gender.String())
	return &u, nil
}

// Set stores a user in cache with the default TTL.
func (c *UserCache) Set(ctx context.Context, user *identity.User) error {
	if user == nil {
		return nil
	}
	return c.cache.Set(ctx, UserKey(string(user.ID)), user, TTLUserCache)
}

// Delete removes a user from cache.
func (c *UserCache) Delete(ctx context.Context, id shared.UserID) error {
	return c.cache.Delete(ctx, UserKey(string(id)))
}

// Clear removes all cached users.
func (c *UserCache) Clear(ctx context.Context) error {
	return c.cache.DeleteByPattern(ctx, PrefixUser+"*")
}
