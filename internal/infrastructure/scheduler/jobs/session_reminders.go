// Package jobs contains implementations of scheduled jobs for MentorConnect.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/notification"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/service"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION REMINDERS JOB
// ══════════════════════════════════════════════════════════════════════════════

// SessionRemindersJob reminds both parties about upcoming scheduled sessions.
// Each session produces at most one reminder per recipient: the notification
// ID is derived from the session and recipient, so a rerun that finds the
// notification already stored skips it.
type SessionRemindersJob struct {
	sessionRepo      session.Repository
	mentorshipRepo   mentorship.Repository
	directory        identity.Directory
	notificationRepo notification.Repository
	notifications    *service.NotificationService
	logger           *slog.Logger

	config SessionRemindersConfig

	lastRunStats atomic.Value // *ReminderStats
}

// SessionRemindersConfig contains configuration for the reminders job.
type SessionRemindersConfig struct {
	// ReminderWindow is how far ahead to look for sessions.
	ReminderWindow time.Duration

	// BatchLimit caps the number of sessions processed per run.
	BatchLimit int

	// Timeout is the maximum duration for one run.
	Timeout time.Duration
}

// DefaultSessionRemindersConfig returns sensible defaults.
func DefaultSessionRemindersConfig() SessionRemindersConfig {
	return SessionRemindersConfig{
		ReminderWindow: 24 * time.Hour,
		BatchLimit:     500,
		Timeout:        2 * time.Minute,
	}
}

// ReminderStats contains statistics from a reminder run.
type ReminderStats struct {
	StartedAt     time.Time
	CompletedAt   time.Time
	Duration      time.Duration
	SessionsFound int
	RemindersSent int
	Skipped       int
	Errors        []error
}

// NewSessionRemindersJob creates a new session reminders job.
func NewSessionRemindersJob(
	sessionRepo session.Repository,
	mentorshipRepo mentorship.Repository,
	directory identity.Directory,
	notificationRepo notification.Repository,
	notifications *service.NotificationService,
	logger *slog.Logger,
	config SessionRemindersConfig,
) *SessionRemindersJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionRemindersJob{
		sessionRepo:      sessionRepo,
		mentorshipRepo:   mentorshipRepo,
		directory:        directory,
		notificationRepo: notificationRepo,
		notifications:    notifications,
		logger:           logger,
		config:           config,
	}
}

// Name returns the job name.
func (j *SessionRemindersJob) Name() string {
	return "session_reminders"
}

// Description returns a human-readable description.
func (j *SessionRemindersJob) Description() string {
	return "Sends reminders to both parties of sessions starting within the reminder window"
}

// Run executes the reminders job.
func (j *SessionRemindersJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	stats := &ReminderStats{
		StartedAt: startedAt,
		Errors:    make([]error, 0),
	}

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	opts := session.DefaultListOptions().WithLimit(j.config.BatchLimit)
	upcoming, err := j.sessionRepo.ListUpcoming(ctx, j.config.ReminderWindow, opts)
	if err != nil {
		return fmt.Errorf("failed to list upcoming sessions: %w", err)
	}

	stats.SessionsFound = len(upcoming)

	for _, s := range upcoming {
		if ctx.Err() != nil {
			break
		}

		if err := j.remindParties(ctx, s, stats); err != nil {
			stats.Errors = append(stats.Errors, err)
			j.logger.Warn("session reminder failed",
				"session_id", s.ID.String(),
				"error", err,
			)
		}
	}

	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(startedAt)
	j.lastRunStats.Store(stats)

	j.logger.Info("session_reminders job completed",
		"duration", stats.Duration.String(),
		"sessions", stats.SessionsFound,
		"reminders_sent", stats.RemindersSent,
		"skipped", stats.Skipped,
	)

	if len(stats.Errors) > 0 {
		return fmt.Errorf("reminders completed with %d errors", len(stats.Errors))
	}

	return nil
}

// remindParties sends a reminder to the mentor and the mentee of a session.
func (j *SessionRemindersJob) remindParties(ctx context.Context, s *session.Session, stats *ReminderStats) error {
	m, err := j.mentorshipRepo.GetByID(ctx, s.MentorshipID)
	if err != nil {
		return fmt.Errorf("failed to load mentorship %s: %w", s.MentorshipID, err)
	}

	users, err := j.directory.GetByIDs(ctx, []shared.UserID{m.MentorID, m.MenteeID})
	if err != nil {
		return fmt.Errorf("failed to load session parties: %w", err)
	}

	byID := make(map[shared.UserID]*identity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, recipientID := range []shared.UserID{m.MentorID, m.MenteeID} {
		recipient, ok := byID[recipientID]
		if !ok || !recipient.Status.CanReceiveNotifications() {
			stats.Skipped++
			continue
		}

		otherName := ""
		if other, ok := byID[m.OtherParty(recipientID)]; ok {
			otherName = other.DisplayName
		}

		j.remind(ctx, s, recipient, otherName, stats)
	}

	return nil
}

// remind builds and delivers a single reminder unless it was already sent.
func (j *SessionRemindersJob) remind(
	ctx context.Context,
	s *session.Session,
	recipient *identity.User,
	otherPartyName string,
	stats *ReminderStats,
) {
	reminderID := reminderNotificationID(s.ID, recipient.ID)

	_, err := j.notificationRepo.GetByID(ctx, reminderID)
	if err == nil {
		stats.Skipped++
		return
	}
	if !errors.Is(err, shared.ErrNotificationNotFound) {
		stats.Errors = append(stats.Errors, err)
		return
	}

	msg := notification.SessionReminderMessage(otherPartyName, s.StartsAt, s.DurationMinutes)

	n, err := notification.NewNotification(notification.NewNotificationParams{
		ID:             reminderID,
		RecipientID:    recipient.ID,
		RecipientEmail: recipient.Email.String(),
		Type:           notification.TypeSessionReminder,
		Subject:        msg.Subject,
		Body:           msg.Body,
	})
	if err != nil {
		stats.Errors = append(stats.Errors, err)
		return
	}

	if result := j.notifications.Deliver(ctx, n); result.Success {
		stats.RemindersSent++
	}
}

// LastRunStats returns statistics from the last run.
func (j *SessionRemindersJob) LastRunStats() *ReminderStats {
	stats := j.lastRunStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*ReminderStats)
}

// reminderNotificationID derives a stable UUID for a session reminder.
// The same session and recipient always map to the same ID.
func reminderNotificationID(sessionID shared.SessionID, recipientID shared.UserID) string {
	name := fmt.Sprintf("session-reminder:%s:%s", sessionID, recipientID)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
