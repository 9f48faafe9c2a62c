package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const sessionColumns = `id, mentorship_id, requested_by, starts_at, duration_minutes, topic, description, meeting_link, status, cancelled_by, cancellation_reason, created_at, updated_at`

// SessionRepository implements session.Repository for PostgreSQL.
type SessionRepository struct {
	q Querier
}

// NewSessionRepository creates a new SessionRepository backed by the
// connection pool.
func NewSessionRepository(conn *Connection) *SessionRepository {
	return &SessionRepository{q: conn}
}

// newTxSessionRepository binds the repository to a transaction.
func newTxSessionRepository(tx pgx.Tx) *SessionRepository {
	return &SessionRepository{q: tx}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create persists a new session.
func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	query := `
		INSERT INTO sessions (
			id, mentorship_id, requested_by, starts_at, duration_minutes, topic,
			description, meeting_link, status, cancelled_by, cancellation_reason,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.q.Exec(ctx, query,
		string(s.ID),
		string(s.MentorshipID),
		string(s.RequestedBy),
		s.StartsAt,
		s.DurationMinutes,
		s.Topic,
		s.Description,
		s.MeetingLink,
		string(s.Status),
		userIDPtr(s.CancelledBy),
		s.CancellationReason,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID returns a session by ID.
func (r *SessionRepository) GetByID(ctx context.Context, id shared.SessionID) (*session.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, sessionColumns)

	row := r.q.QueryRow(ctx, query, string(id))
	return scanSession(row)
}

// Update persists a modified session. The write is scoped to the
// status the transition started from, so a concurrent transition that
// already changed the row cannot be silently overwritten.
func (r *SessionRepository) Update(ctx context.Context, s *session.Session) error {
	query := `
		UPDATE sessions SET
			starts_at = $1,
			duration_minutes = $2,
			topic = $3,
			description = $4,
			meeting_link = $5,
			status = $6,
			cancelled_by = $7,
			cancellation_reason = $8,
			updated_at = $9
		WHERE id = $10 AND status = $11
	`

	result, err := r.q.Exec(ctx, query,
		s.StartsAt,
		s.DurationMinutes,
		s.Topic,
		s.Description,
		s.MeetingLink,
		string(s.Status),
		userIDPtr(s.CancelledBy),
		s.CancellationReason,
		time.Now().UTC(),
		string(s.ID),
		string(s.PreviousStatus()),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`
		if err := r.q.QueryRow(ctx, checkQuery, string(s.ID)).Scan(&exists); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		if !exists {
			return shared.ErrSessionNotFound
		}
		// The row exists but its status no longer matches: another
		// transition won the race.
		return shared.ErrSessionState
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Overlap Check
// ─────────────────────────────────────────────────────────────────────────────

// HasOverlap checks whether the interval intersects any slot-reserving
// session of the mentorship. Intervals are half-open, so back-to-back
// sessions do not count as overlapping.
func (r *SessionRepository) HasOverlap(ctx context.Context, mentorshipID shared.MentorshipID, interval shared.TimeRange) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM sessions
			WHERE mentorship_id = $1
			  AND status IN ('pending', 'scheduled')
			  AND starts_at < $3
			  AND starts_at + (duration_minutes * interval '1 minute') > $2
		)
	`, string(mentorshipID), interval.From, interval.To).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check session overlap: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing
// ─────────────────────────────────────────────────────────────────────────────

// ListByMentorship returns the sessions of a mentorship.
func (r *SessionRepository) ListByMentorship(ctx context.Context, mentorshipID shared.MentorshipID, opts session.ListOptions) ([]*session.Session, error) {
	return r.list(ctx, "mentorship_id = $1", []interface{}{string(mentorshipID)}, opts)
}

// ListByUser returns sessions of all mentorships where the user is a party.
func (r *SessionRepository) ListByUser(ctx context.Context, userID shared.UserID, opts session.ListOptions) ([]*session.Session, error) {
	condition := `mentorship_id IN (
		SELECT id FROM mentorships WHERE mentor_id = $1 OR mentee_id = $1
	)`
	return r.list(ctx, condition, []interface{}{string(userID)}, opts)
}

// ListInRange returns the user's sessions starting within the interval.
func (r *SessionRepository) ListInRange(ctx context.Context, userID shared.UserID, rng shared.TimeRange, opts session.ListOptions) ([]*session.Session, error) {
	condition := `mentorship_id IN (
		SELECT id FROM mentorships WHERE mentor_id = $1 OR mentee_id = $1
	) AND starts_at >= $2 AND starts_at < $3`
	return r.list(ctx, condition, []interface{}{string(userID), rng.From, rng.To}, opts)
}

// ListUpcoming returns scheduled sessions starting within the window.
func (r *SessionRepository) ListUpcoming(ctx context.Context, within time.Duration, opts session.ListOptions) ([]*session.Session, error) {
	now := time.Now().UTC()

	query := fmt.Sprintf(`
		SELECT %s FROM sessions
		WHERE status = 'scheduled' AND starts_at >= $1 AND starts_at < $2
		ORDER BY starts_at ASC
		LIMIT $3 OFFSET $4
	`, sessionColumns)

	rows, err := r.q.Query(ctx, query, now, now.Add(within), opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Statistics
// ─────────────────────────────────────────────────────────────────────────────

// CountByStatus returns the number of sessions in a status.
func (r *SessionRepository) CountByStatus(ctx context.Context, status session.Status) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		"SELECT COUNT(*) FROM sessions WHERE status = $1",
		string(status),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions by status: %w", err)
	}
	return count, nil
}

// CountForUser returns the number of the user's sessions in the given
// statuses. A non-zero after bound additionally requires a later start.
func (r *SessionRepository) CountForUser(ctx context.Context, userID shared.UserID, statuses []session.Status, after time.Time) (int64, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	query := `
		SELECT COUNT(*) FROM sessions
		WHERE mentorship_id IN (
			SELECT id FROM mentorships WHERE mentor_id = $1 OR mentee_id = $1
		) AND status = ANY($2)`
	args := []interface{}{string(userID), values}

	if !after.IsZero() {
		query += " AND starts_at > $3"
		args = append(args, after)
	}

	var count int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sessions for user: %w", err)
	}
	return count, nil
}

// CountByMentorship returns the number of sessions of a mentorship.
func (r *SessionRepository) CountByMentorship(ctx context.Context, mentorshipID shared.MentorshipID) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		"SELECT COUNT(*) FROM sessions WHERE mentorship_id = $1",
		string(mentorshipID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions by mentorship: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// list executes a filtered listing query. The condition may reference the
// provided args by position.
func (r *SessionRepository) list(ctx context.Context, condition string, args []interface{}, opts session.ListOptions) ([]*session.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE %s`, sessionColumns, condition)

	if len(opts.Statuses) > 0 {
		placeholders := make([]string, len(opts.Statuses))
		for i, s := range opts.Statuses {
			args = append(args, string(s))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += " AND status IN (" + strings.Join(placeholders, ", ") + ")"
	}

	query += buildSessionOrderBy(opts)

	args = append(args, opts.Limit, opts.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// buildSessionOrderBy builds the ORDER BY clause.
func buildSessionOrderBy(opts session.ListOptions) string {
	orderField := "starts_at"
	validFields := map[string]string{
		"starts_at":  "starts_at",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}

	if field, ok := validFields[opts.SortBy]; ok {
		orderField = field
	}

	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}

	return fmt.Sprintf(" ORDER BY %s %s", orderField, direction)
}

// scanSession scans a single session from a row.
func scanSession(row pgx.Row) (*session.Session, error) {
	var s session.Session
	var id, mentorshipID, requestedBy, status string
	var cancelledBy *string

	err := row.Scan(
		&id,
		&mentorshipID,
		&requestedBy,
		&s.StartsAt,
		&s.DurationMinutes,
		&s.Topic,
		&s.Description,
		&s.MeetingLink,
		&status,
		&cancelledBy,
		&s.CancellationReason,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	s.ID = shared.SessionID(id)
	s.MentorshipID = shared.MentorshipID(mentorshipID)
	s.RequestedBy = shared.UserID(requestedBy)
	s.Status = session.Status(status)
	if cancelledBy != nil {
		uid := shared.UserID(*cancelledBy)
		s.CancelledBy = &uid
	}

	return &s, nil
}

// scanSessions scans multiple sessions from rows.
func scanSessions(rows pgx.Rows) ([]*session.Session, error) {
	var sessions []*session.Session

	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return sessions, nil
}
