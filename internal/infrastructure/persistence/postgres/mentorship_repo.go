package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MENTORSHIP REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const mentorshipColumns = `id, mentor_id, mentee_id, status, notes, closed_by, created_at, updated_at, accepted_at, closed_at`

// MentorshipRepository implements mentorship.Repository for PostgreSQL.
type MentorshipRepository struct {
	q Querier
}

// NewMentorshipRepository creates a new MentorshipRepository backed by the
// connection pool.
func NewMentorshipRepository(conn *Connection) *MentorshipRepository {
	return &MentorshipRepository{q: conn}
}

// newTxMentorshipRepository binds the repository to a transaction.
func newTxMentorshipRepository(tx pgx.Tx) *MentorshipRepository {
	return &MentorshipRepository{q: tx}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create persists a new mentorship. The partial unique index on open pairs
// turns a concurrent duplicate into a unique violation.
func (r *MentorshipRepository) Create(ctx context.Context, m *mentorship.Mentorship) error {
	query := `
		INSERT INTO mentorships (
			id, mentor_id, mentee_id, status, notes, closed_by,
			created_at, updated_at, accepted_at, closed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.Exec(ctx, query,
		string(m.ID),
		string(m.MentorID),
		string(m.MenteeID),
		string(m.Status),
		m.Notes,
		userIDPtr(m.ClosedBy),
		m.CreatedAt,
		m.UpdatedAt,
		m.AcceptedAt,
		m.ClosedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicatePair
		}
		return fmt.Errorf("failed to create mentorship: %w", err)
	}

	return nil
}

// GetByID returns a mentorship by ID.
func (r *MentorshipRepository) GetByID(ctx context.Context, id shared.MentorshipID) (*mentorship.Mentorship, error) {
	query := fmt.Sprintf(`SELECT %s FROM mentorships WHERE id = $1`, mentorshipColumns)

	row := r.q.QueryRow(ctx, query, string(id))
	return scanMentorship(row)
}

// Update persists a modified mentorship. The write is scoped to the
// status the transition started from, so a concurrent transition that
// already changed the row cannot be silently overwritten.
func (r *MentorshipRepository) Update(ctx context.Context, m *mentorship.Mentorship) error {
	query := `
		UPDATE mentorships SET
			status = $1,
			notes = $2,
			closed_by = $3,
			updated_at = $4,
			accepted_at = $5,
			closed_at = $6
		WHERE id = $7 AND status = $8
	`

	result, err := r.q.Exec(ctx, query,
		string(m.Status),
		m.Notes,
		userIDPtr(m.ClosedBy),
		time.Now().UTC(),
		m.AcceptedAt,
		m.ClosedAt,
		string(m.ID),
		string(m.PreviousStatus()),
	)
	if err != nil {
		return fmt.Errorf("failed to update mentorship: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM mentorships WHERE id = $1)`
		if err := r.q.QueryRow(ctx, checkQuery, string(m.ID)).Scan(&exists); err != nil {
			return fmt.Errorf("failed to update mentorship: %w", err)
		}
		if !exists {
			return shared.ErrMentorshipNotFound
		}
		// The row exists but its status no longer matches: another
		// transition won the race.
		return shared.ErrMentorshipState
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Pair Queries
// ─────────────────────────────────────────────────────────────────────────────

// FindOpenByPair returns the open (pending or active) mentorship for a pair.
func (r *MentorshipRepository) FindOpenByPair(ctx context.Context, mentorID, menteeID shared.UserID) (*mentorship.Mentorship, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM mentorships
		WHERE mentor_id = $1 AND mentee_id = $2 AND status IN ('pending', 'active')
	`, mentorshipColumns)

	row := r.q.QueryRow(ctx, query, string(mentorID), string(menteeID))
	return scanMentorship(row)
}

// HasOpenPair checks whether an open mentorship exists for a pair.
func (r *MentorshipRepository) HasOpenPair(ctx context.Context, mentorID, menteeID shared.UserID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM mentorships
			WHERE mentor_id = $1 AND mentee_id = $2 AND status IN ('pending', 'active')
		)
	`, string(mentorID), string(menteeID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check open pair: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing
// ─────────────────────────────────────────────────────────────────────────────

// ListByUser returns mentorships where the user is either party.
func (r *MentorshipRepository) ListByUser(ctx context.Context, userID shared.UserID, opts mentorship.ListOptions) ([]*mentorship.Mentorship, error) {
	return r.list(ctx, "(mentor_id = $1 OR mentee_id = $1)", []interface{}{string(userID)}, opts)
}

// ListByMentor returns mentorships where the user is the mentor.
func (r *MentorshipRepository) ListByMentor(ctx context.Context, mentorID shared.UserID, opts mentorship.ListOptions) ([]*mentorship.Mentorship, error) {
	return r.list(ctx, "mentor_id = $1", []interface{}{string(mentorID)}, opts)
}

// ListByMentee returns mentorships where the user is the mentee.
func (r *MentorshipRepository) ListByMentee(ctx context.Context, menteeID shared.UserID, opts mentorship.ListOptions) ([]*mentorship.Mentorship, error) {
	return r.list(ctx, "mentee_id = $1", []interface{}{string(menteeID)}, opts)
}

// ListOpenMentorIDs returns mentor IDs the mentee has an open mentorship with.
func (r *MentorshipRepository) ListOpenMentorIDs(ctx context.Context, menteeID shared.UserID) ([]shared.UserID, error) {
	query := `
		SELECT mentor_id FROM mentorships
		WHERE mentee_id = $1 AND status IN ('pending', 'active')
	`

	rows, err := r.q.Query(ctx, query, string(menteeID))
	if err != nil {
		return nil, fmt.Errorf("failed to list open mentor ids: %w", err)
	}
	defer rows.Close()

	var ids []shared.UserID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan mentor id: %w", err)
		}
		ids = append(ids, shared.UserID(id))
	}

	return ids, rows.Err()
}

// ListStaleRequests returns pending requests created before the given moment.
func (r *MentorshipRepository) ListStaleRequests(ctx context.Context, olderThan time.Time, opts mentorship.ListOptions) ([]*mentorship.Mentorship, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM mentorships
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`, mentorshipColumns)

	rows, err := r.q.Query(ctx, query, olderThan, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale requests: %w", err)
	}
	defer rows.Close()

	return scanMentorships(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Statistics
// ─────────────────────────────────────────────────────────────────────────────

// CountByStatus returns the number of mentorships in a status.
func (r *MentorshipRepository) CountByStatus(ctx context.Context, status mentorship.Status) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		"SELECT COUNT(*) FROM mentorships WHERE status = $1",
		string(status),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count mentorships by status: %w", err)
	}
	return count, nil
}

// GetStatistics returns aggregated mentorship statistics for a user.
func (r *MentorshipRepository) GetStatistics(ctx context.Context, userID shared.UserID) (*mentorship.Statistics, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE mentor_id = $1),
			COUNT(*) FILTER (WHERE mentee_id = $1),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'declined'),
			COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM mentorships
		WHERE mentor_id = $1 OR mentee_id = $1
	`

	var stats mentorship.Statistics
	err := r.q.QueryRow(ctx, query, string(userID)).Scan(
		&stats.TotalAsMentor,
		&stats.TotalAsMentee,
		&stats.Active,
		&stats.Completed,
		&stats.Declined,
		&stats.Cancelled,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get mentorship statistics: %w", err)
	}

	return &stats, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// list executes a filtered listing query. The condition may only reference $1.
func (r *MentorshipRepository) list(ctx context.Context, condition string, args []interface{}, opts mentorship.ListOptions) ([]*mentorship.Mentorship, error) {
	query := fmt.Sprintf(`SELECT %s FROM mentorships WHERE %s`, mentorshipColumns, condition)

	if len(opts.Statuses) > 0 {
		placeholders := make([]string, len(opts.Statuses))
		for i, s := range opts.Statuses {
			args = append(args, string(s))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += " AND status IN (" + strings.Join(placeholders, ", ") + ")"
	}

	query += buildMentorshipOrderBy(opts)

	args = append(args, opts.Limit, opts.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentorships: %w", err)
	}
	defer rows.Close()

	return scanMentorships(rows)
}

// buildMentorshipOrderBy builds the ORDER BY clause.
func buildMentorshipOrderBy(opts mentorship.ListOptions) string {
	orderField := "created_at"
	validFields := map[string]string{
		"created_at":  "created_at",
		"updated_at":  "updated_at",
		"accepted_at": "accepted_at",
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

// scanMentorship scans a single mentorship from a row.
func scanMentorship(row pgx.Row) (*mentorship.Mentorship, error) {
	var m mentorship.Mentorship
	var id, mentorID, menteeID, status string
	var closedBy *string

	err := row.Scan(
		&id,
		&mentorID,
		&menteeID,
		&status,
		&m.Notes,
		&closedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.AcceptedAt,
		&m.ClosedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrMentorshipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan mentorship: %w", err)
	}

	m.ID = shared.MentorshipID(id)
	m.MentorID = shared.UserID(mentorID)
	m.MenteeID = shared.UserID(menteeID)
	m.Status = mentorship.Status(status)
	if closedBy != nil {
		uid := shared.UserID(*closedBy)
		m.ClosedBy = &uid
	}

	return &m, nil
}

// scanMentorships scans multiple mentorships from rows.
func scanMentorships(rows pgx.Rows) ([]*mentorship.Mentorship, error) {
	var mentorships []*mentorship.Mentorship

	for rows.Next() {
		m, err := scanMentorship(rows)
		if err != nil {
			return nil, err
		}
		mentorships = append(mentorships, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return mentorships, nil
}

// userIDPtr converts an optional user ID into a nullable column value.
func userIDPtr(id *shared.UserID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}
