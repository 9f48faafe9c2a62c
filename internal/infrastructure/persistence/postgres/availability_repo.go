package postgres

import (
	"context"
	"fmt"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/availability"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AVAILABILITY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AvailabilityRepository implements availability.Repository for PostgreSQL.
type AvailabilityRepository struct {
	q Querier
}

// NewAvailabilityRepository creates a new AvailabilityRepository backed by
// the connection pool.
func NewAvailabilityRepository(conn *Connection) *AvailabilityRepository {
	return &AvailabilityRepository{q: conn}
}

// Create persists a new availability slot.
func (r *AvailabilityRepository) Create(ctx context.Context, slot *availability.Slot) error {
	query := `
		INSERT INTO mentor_availability (
			id, mentor_id, weekday, start_time, end_time, is_recurring, created_at
		) VALUES ($1, $2, $3, $4::time, $5::time, $6, $7)
	`

	_, err := r.q.Exec(ctx, query,
		slot.ID,
		string(slot.MentorID),
		string(slot.Weekday),
		slot.StartTime,
		slot.EndTime,
		slot.Recurring,
		slot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create availability slot: %w", err)
	}

	return nil
}

// DeleteByOwner removes a slot only when it belongs to the given mentor.
// The owner condition is part of the statement, so one mentor can never
// remove another mentor's slot.
func (r *AvailabilityRepository) DeleteByOwner(ctx context.Context, id string, mentorID shared.UserID) error {
	query := `DELETE FROM mentor_availability WHERE id = $1 AND mentor_id = $2`

	tag, err := r.q.Exec(ctx, query, id, string(mentorID))
	if err != nil {
		return fmt.Errorf("failed to delete availability slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSlotNotFound
	}

	return nil
}

// ListByMentor returns the mentor's slots ordered by weekday starting
// from Monday, then by start time.
func (r *AvailabilityRepository) ListByMentor(ctx context.Context, mentorID shared.UserID) ([]*availability.Slot, error) {
	query := `
		SELECT id, mentor_id, weekday,
		       to_char(start_time, 'HH24:MI'),
		       to_char(end_time, 'HH24:MI'),
		       is_recurring, created_at
		FROM mentor_availability
		WHERE mentor_id = $1
		ORDER BY array_position(ARRAY['monday','tuesday','wednesday','thursday','friday','saturday','sunday'], weekday),
		         start_time
	`

	rows, err := r.q.Query(ctx, query, string(mentorID))
	if err != nil {
		return nil, fmt.Errorf("failed to list availability slots: %w", err)
	}
	defer rows.Close()

	var slots []*availability.Slot
	for rows.Next() {
		var (
			s       availability.Slot
			mentor  string
			weekday string
		)
		if err := rows.Scan(&s.ID, &mentor, &weekday, &s.StartTime, &s.EndTime, &s.Recurring, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan availability slot: %w", err)
		}
		s.MentorID = shared.UserID(mentor)
		s.Weekday = availability.Weekday(weekday)
		slots = append(slots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read availability slots: %w", err)
	}

	return slots, nil
}
