package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/notification"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const notificationColumns = `id, recipient_id, recipient_email, type, channel, subject, body, status, attempts, last_error, created_at, sent_at`

// NotificationRepository implements notification.Repository for PostgreSQL.
type NotificationRepository struct {
	q Querier
}

// NewNotificationRepository creates a new NotificationRepository backed by
// the connection pool.
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{q: conn}
}

// Save persists a notification, inserting or updating its delivery state.
func (r *NotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (
			id, recipient_id, recipient_email, type, channel, subject, body,
			status, attempts, last_error, created_at, sent_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT(id) DO UPDATE SET
			status = EXCLUDED.status,
			attempts = EXCLUDED.attempts,
			last_error = EXCLUDED.last_error,
			sent_at = EXCLUDED.sent_at
	`

	_, err := r.q.Exec(ctx, query,
		n.ID,
		string(n.RecipientID),
		n.RecipientEmail,
		string(n.Type),
		string(n.Channel),
		n.Subject,
		n.Body,
		string(n.Status),
		n.Attempts,
		n.LastError,
		n.CreatedAt,
		n.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	return nil
}

// GetByID returns a notification by ID.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE id = $1`, notificationColumns)

	row := r.q.QueryRow(ctx, query, id)
	return scanNotification(row)
}

// ListPending returns notifications awaiting delivery, oldest first.
func (r *NotificationRepository) ListPending(ctx context.Context, limit int) ([]*notification.Notification, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM notifications
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1
	`, notificationColumns)

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// ListByRecipient returns a user's notifications, most recent first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID shared.UserID, limit int) ([]*notification.Notification, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, notificationColumns)

	rows, err := r.q.Query(ctx, query, string(recipientID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications by recipient: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// CountFailedSince returns the number of failed deliveries since the moment.
func (r *NotificationRepository) CountFailedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE status = 'failed' AND created_at >= $1
	`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count failed notifications: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanNotification scans a single notification from a row.
func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	var recipientID, typ, channel, status string

	err := row.Scan(
		&n.ID,
		&recipientID,
		&n.RecipientEmail,
		&typ,
		&channel,
		&n.Subject,
		&n.Body,
		&status,
		&n.Attempts,
		&n.LastError,
		&n.CreatedAt,
		&n.SentAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}

	n.RecipientID = shared.UserID(recipientID)
	n.Type = notification.Type(typ)
	n.Channel = notification.ChannelType(channel)
	n.Status = notification.Status(status)

	return &n, nil
}

// scanNotifications scans multiple notifications from rows.
func scanNotifications(rows pgx.Rows) ([]*notification.Notification, error) {
	var notifications []*notification.Notification

	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return notifications, nil
}
