package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER DIRECTORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const userColumns = `id, display_name, email, gender, roles, status, bio, created_at, updated_at`

// UserDirectory implements identity.Directory for PostgreSQL.
// The users table is a read-only mirror of the registration system,
// so the directory never writes to it.
type UserDirectory struct {
	q Querier
}

// NewUserDirectory creates a new UserDirectory backed by the connection pool.
func NewUserDirectory(conn *Connection) *UserDirectory {
	return &UserDirectory{q: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────────────────

// GetByID returns a user by internal ID.
func (r *UserDirectory) GetByID(ctx context.Context, id shared.UserID) (*identity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	row := r.q.QueryRow(ctx, query, string(id))
	return scanUser(row)
}

// GetByEmail returns a user by email address.
func (r *UserDirectory) GetByEmail(ctx context.Context, email identity.Email) (*identity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	row := r.q.QueryRow(ctx, query, email.String())
	return scanUser(row)
}

// GetByIDs returns users by a list of IDs. Missing IDs are silently skipped.
func (r *UserDirectory) GetByIDs(ctx context.Context, ids []shared.UserID) ([]*identity.User, error) {
	if len(ids) == 0 {
		return []*identity.User{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = string(id)
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id IN (%s)`,
		userColumns, strings.Join(placeholders, ", "))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by ids: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing & Search
// ─────────────────────────────────────────────────────────────────────────────

// List returns users with pagination.
func (r *UserDirectory) List(ctx context.Context, opts identity.ListOptions) ([]*identity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users`, userColumns)
	if !opts.IncludeInactive {
		query += ` WHERE status = 'active'`
	}
	query += buildUserOrderBy(opts)
	query += ` LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// ListByRole returns users holding the given role.
func (r *UserDirectory) ListByRole(ctx context.Context, role identity.Role, opts identity.ListOptions) ([]*identity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE $1 = ANY(roles)`, userColumns)
	if !opts.IncludeInactive {
		query += ` AND status = 'active'`
	}
	query += buildUserOrderBy(opts)
	query += ` LIMIT $2 OFFSET $3`

	rows, err := r.q.Query(ctx, query, string(role), opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// SearchMentors returns active mentors of the given gender, excluding
// mentors the mentee already has an open mentorship with.
func (r *UserDirectory) SearchMentors(ctx context.Context, menteeID shared.UserID, gender identity.Gender, opts identity.ListOptions) ([]*identity.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		WHERE 'mentor' = ANY(u.roles)
		  AND u.status = 'active'
		  AND u.gender = $1
		  AND u.id != $2
		  AND NOT EXISTS (
			SELECT 1 FROM mentorships m
			WHERE m.mentor_id = u.id
			  AND m.mentee_id = $2
			  AND m.status IN ('pending', 'active')
		  )
	`, prefixColumns("u", userColumns))

	query += buildUserOrderBy(opts)
	query += ` LIMIT $3 OFFSET $4`

	rows, err := r.q.Query(ctx, query, gender.String(), string(menteeID), opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search mentors: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Existence & Counting
// ─────────────────────────────────────────────────────────────────────────────

// Exists checks if a user exists by ID.
func (r *UserDirectory) Exists(ctx context.Context, id shared.UserID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)",
		string(id),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// Count returns the total number of users.
func (r *UserDirectory) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountByRole returns the number of users holding a role.
func (r *UserDirectory) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		"SELECT COUNT(*) FROM users WHERE $1 = ANY(roles)",
		string(role),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// scanUser scans a single user from a row.
func scanUser(row pgx.Row) (*identity.User, error) {
	var u identity.User
	var id, email, gender, status string
	var roles []string

	err := row.Scan(
		&id,
		&u.DisplayName,
		&email,
		&gender,
		&roles,
		&status,
		&u.Bio,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.ID = shared.UserID(id)
	u.Email = identity.Email(email)
	u.Gender = identity.NewGender(gender)
	u.Status = identity.Status(status)
	u.Roles = make([]identity.Role, len(roles))
	for i, role := range roles {
		u.Roles[i] = identity.Role(role)
	}

	return &u, nil
}

// scanUsers scans multiple users from rows.
func scanUsers(rows pgx.Rows) ([]*identity.User, error) {
	var users []*identity.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return users, nil
}

// buildUserOrderBy builds the ORDER BY clause.
func buildUserOrderBy(opts identity.ListOptions) string {
	orderField := "display_name"
	validFields := map[string]string{
		"display_name": "display_name",
		"name":         "display_name",
		"email":        "email",
		"created_at":   "created_at",
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

// prefixColumns prefixes every column in a comma-separated list with a
// table alias. Used when a query joins against other tables.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
