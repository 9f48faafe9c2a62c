package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/activity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const activityColumns = `id, actor_id, action, entity_type, entity_id, details, occurred_at`

// ActivityRepository implements activity.Repository for PostgreSQL.
// Entries are append-only; there is no update path.
type ActivityRepository struct {
	q Querier
}

// NewActivityRepository creates a new ActivityRepository backed by the
// connection pool.
func NewActivityRepository(conn *Connection) *ActivityRepository {
	return &ActivityRepository{q: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Writes
// ─────────────────────────────────────────────────────────────────────────────

// Record persists a new audit entry.
func (r *ActivityRepository) Record(ctx context.Context, entry *activity.Entry) error {
	query := `
		INSERT INTO activity_log (id, actor_id, action, entity_type, entity_id, details, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	detailsJSON, err := marshalDetails(entry.Details)
	if err != nil {
		return err
	}

	_, err = r.q.Exec(ctx, query,
		entry.ID,
		string(entry.ActorID),
		string(entry.Action),
		string(entry.EntityType),
		entry.EntityID,
		detailsJSON,
		entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record activity entry: %w", err)
	}

	return nil
}

// RecordBatch persists multiple entries in one round trip.
func (r *ActivityRepository) RecordBatch(ctx context.Context, entries []*activity.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	values := make([]string, len(entries))
	args := make([]interface{}, 0, len(entries)*7)
	for i, entry := range entries {
		detailsJSON, err := marshalDetails(entry.Details)
		if err != nil {
			return err
		}
		base := i * 7
		values[i] = fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args,
			entry.ID,
			string(entry.ActorID),
			string(entry.Action),
			string(entry.EntityType),
			entry.EntityID,
			detailsJSON,
			entry.OccurredAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO activity_log (id, actor_id, action, entity_type, entity_id, details, occurred_at)
		VALUES %s
	`, strings.Join(values, ", "))

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record activity batch: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────────────────

// GetByID returns a single entry.
func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*activity.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM activity_log WHERE id = $1`, activityColumns)

	row := r.q.QueryRow(ctx, query, id)
	return scanActivityEntry(row)
}

// ListByEntity returns entries for one aggregate, most recent first.
func (r *ActivityRepository) ListByEntity(ctx context.Context, entityType activity.EntityType, entityID string, limit int) ([]*activity.Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM activity_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY occurred_at DESC
		LIMIT $3
	`, activityColumns)

	rows, err := r.q.Query(ctx, query, string(entityType), entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity by entity: %w", err)
	}
	defer rows.Close()

	return scanActivityEntries(rows)
}

// ListByActor returns entries produced by one actor within a time range.
func (r *ActivityRepository) ListByActor(ctx context.Context, actorID shared.UserID, rng shared.TimeRange, limit int) ([]*activity.Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM activity_log
		WHERE actor_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at DESC
		LIMIT $4
	`, activityColumns)

	rows, err := r.q.Query(ctx, query, string(actorID), rng.From, rng.To, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity by actor: %w", err)
	}
	defer rows.Close()

	return scanActivityEntries(rows)
}

// CountByAction returns how many entries exist for an action within a range.
func (r *ActivityRepository) CountByAction(ctx context.Context, action activity.Action, rng shared.TimeRange) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM activity_log
		WHERE action = $1 AND occurred_at >= $2 AND occurred_at < $3
	`, string(action), rng.From, rng.To).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count activity by action: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Retention
// ─────────────────────────────────────────────────────────────────────────────

// DeleteOlderThan removes entries older than the cutoff.
func (r *ActivityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.q.Exec(ctx,
		"DELETE FROM activity_log WHERE occurred_at < $1",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old activity entries: %w", err)
	}
	return result.RowsAffected(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanActivityEntry scans a single entry from a row.
func scanActivityEntry(row pgx.Row) (*activity.Entry, error) {
	var e activity.Entry
	var actorID, action, entityType string
	var detailsJSON []byte

	err := row.Scan(
		&e.ID,
		&actorID,
		&action,
		&entityType,
		&e.EntityID,
		&detailsJSON,
		&e.OccurredAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan activity entry: %w", err)
	}

	e.ActorID = shared.UserID(actorID)
	e.Action = activity.Action(action)
	e.EntityType = activity.EntityType(entityType)
	if len(detailsJSON) > 0 {
		_ = json.Unmarshal(detailsJSON, &e.Details)
	}

	return &e, nil
}

// scanActivityEntries scans multiple entries from rows.
func scanActivityEntries(rows pgx.Rows) ([]*activity.Entry, error) {
	var entries []*activity.Entry

	for rows.Next() {
		e, err := scanActivityEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// marshalDetails serializes the details map for the JSONB column.
func marshalDetails(details map[string]interface{}) ([]byte, error) {
	if details == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal activity details: %w", err)
	}
	return data, nil
}
