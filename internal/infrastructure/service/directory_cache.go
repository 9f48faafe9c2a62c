package service

import (
	"context"
	"log/slog"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CACHED DIRECTORY
// ══════════════════════════════════════════════════════════════════════════════

// CachedDirectory wraps an identity.Directory with a read-through cache
// for single-user lookups. ID lookups dominate the notification path
// (every event handler and reminder job resolves recipients by ID), so
// only GetByID and GetByIDs consult the cache. Listing, search and
// count operations always go to the underlying directory.
//
// Cache errors are logged and treated as misses. The directory is the
// source of truth; the cache only saves round trips.
type CachedDirectory struct {
	directory identity.Directory
	cache     identity.Cache
	logger    *slog.Logger
}

// NewCachedDirectory creates a caching wrapper around a directory.
func NewCachedDirectory(directory identity.Directory, cache identity.Cache, logger *slog.Logger) *CachedDirectory {
	if logger == nil {
		logger = slog.Default()
	}

	return &CachedDirectory{
		directory: directory,
		cache:     cache,
		logger:    logger.With("component", "cached_directory"),
	}
}

// GetByID returns a user by ID, consulting the cache first.
func (d *CachedDirectory) GetByID(ctx context.Context, id shared.UserID) (*identity.User, error) {
	if u, err := d.cache.Get(ctx, id); err == nil && u != nil {
		return u, nil
	}

	u, err := d.directory.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.cache.Set(ctx, u); err != nil {
		d.logger.Debug("user cache write failed",
			"user_id", id.String(),
			"error", err,
		)
	}

	return u, nil
}

// GetByIDs returns users by a list of IDs. Cached users are served from
// the cache; the rest are fetched in one directory call. Missing IDs
// are silently skipped, matching the underlying directory contract.
func (d *CachedDirectory) GetByIDs(ctx context.Context, ids []shared.UserID) ([]*identity.User, error) {
	users := make([]*identity.User, 0, len(ids))
	missing := make([]shared.UserID, 0, len(ids))

	for _, id := range ids {
		if u, err := d.cache.Get(ctx, id); err == nil && u != nil {
			users = append(users, u)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return users, nil
	}

	fetched, err := d.directory.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	for _, u := range fetched {
		if err := d.cache.Set(ctx, u); err != nil {
			d.logger.Debug("user cache write failed",
				"user_id", u.ID.String(),
				"error", err,
			)
		}
		users = append(users, u)
	}

	return users, nil
}

// GetByEmail returns a user by email address.
func (d *CachedDirectory) GetByEmail(ctx context.Context, email identity.Email) (*identity.User, error) {
	return d.directory.GetByEmail(ctx, email)
}

// List returns users with pagination.
func (d *CachedDirectory) List(ctx context.Context, opts identity.ListOptions) ([]*identity.User, error) {
	return d.directory.List(ctx, opts)
}

// ListByRole returns users holding the given role.
func (d *CachedDirectory) ListByRole(ctx context.Context, role identity.Role, opts identity.ListOptions) ([]*identity.User, error) {
	return d.directory.ListByRole(ctx, role, opts)
}

// SearchMentors returns matching mentors for a mentee.
func (d *CachedDirectory) SearchMentors(ctx context.Context, menteeID shared.UserID, gender identity.Gender, opts identity.ListOptions) ([]*identity.User, error) {
	return d.directory.SearchMentors(ctx, menteeID, gender, opts)
}

// Exists reports whether a user exists.
func (d *CachedDirectory) Exists(ctx context.Context, id shared.UserID) (bool, error) {
	return d.directory.Exists(ctx, id)
}

// Count returns the total number of users.
func (d *CachedDirectory) Count(ctx context.Context) (int64, error) {
	return d.directory.Count(ctx)
}

// CountByRole returns the number of users holding the given role.
func (d *CachedDirectory) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	return d.directory.CountByRole(ctx, role)
}

// Invalidate drops a user from the cache. Callers that change profile
// data should invalidate so the notification path sees fresh names and
// addresses.
func (d *CachedDirectory) Invalidate(ctx context.Context, id shared.UserID) {
	if err := d.cache.Delete(ctx, id); err != nil {
		d.logger.Debug("user cache invalidation failed",
			"user_id", id.String(),
			"error", err,
		)
	}
}
