// Package activity contains the audit trail domain model.
package activity

import (
	"context"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// Repository defines the interface for audit trail persistence.
// This interface is implemented by the infrastructure layer.
// The domain layer has no knowledge of the actual storage mechanism.
type Repository interface {
	// Write operations

	// Record persists a new audit entry. Entries are append-only and
	// are never updated after creation.
	Record(ctx context.Context, entry *Entry) error

	// RecordBatch persists multiple entries in one round trip.
	RecordBatch(ctx context.Context, entries []*Entry) error

	// Read operations

	// GetByID returns a single entry.
	GetByID(ctx context.Context, id string) (*Entry, error)

	// ListByEntity returns entries for one aggregate, ordered by
	// occurrence time (most recent first).
	ListByEntity(ctx context.Context, entityType EntityType, entityID string, limit int) ([]*Entry, error)

	// ListByActor returns entries produced by one actor within a time range.
	ListByActor(ctx context.Context, actorID shared.UserID, rng shared.TimeRange, limit int) ([]*Entry, error)

	// CountByAction returns how many entries exist for an action within
	// a time range. Used by operational reports.
	CountByAction(ctx context.Context, action Action, rng shared.TimeRange) (int64, error)

	// Retention

	// DeleteOlderThan removes entries older than the cutoff and returns
	// how many were deleted. Used by the retention job.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
