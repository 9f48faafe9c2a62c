package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/notification"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/service"
	"github.com/mentorconnect/mentorconnect-core/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STALE REQUESTS JOB
// ══════════════════════════════════════════════════════════════════════════════

// StaleRequestsJob nudges mentors about pending mentorship requests that
// have gone unanswered. The request itself is left untouched: only the
// mentor may accept or decline it, so the job cannot expire it on their
// behalf. Each request gets exactly one nudge.
type StaleRequestsJob struct {
	mentorshipRepo   mentorship.Repository
	directory        identity.Directory
	notificationRepo notification.Repository
	notifications    *service.NotificationService
	logger           *slog.Logger

	config StaleRequestsConfig
}

// StaleRequestsConfig contains configuration for the stale requests job.
type StaleRequestsConfig struct {
	// PendingThreshold is how long a request may stay pending before
	// the mentor is nudged.
	PendingThreshold time.Duration

	// BatchLimit caps the number of requests processed per run.
	BatchLimit int

	// Timeout is the maximum duration for one run.
	Timeout time.Duration
}

// DefaultStaleRequestsConfig returns sensible defaults.
func DefaultStaleRequestsConfig() StaleRequestsConfig {
	return StaleRequestsConfig{
		PendingThreshold: 7 * 24 * time.Hour,
		BatchLimit:       200,
		Timeout:          time.Minute,
	}
}

// NewStaleRequestsJob creates a new stale requests job.
func NewStaleRequestsJob(
	mentorshipRepo mentorship.Repository,
	directory identity.Directory,
	notificationRepo notification.Repository,
	notifications *service.NotificationService,
	logger *slog.Logger,
	config StaleRequestsConfig,
) *StaleRequestsJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &StaleRequestsJob{
		mentorshipRepo:   mentorshipRepo,
		directory:        directory,
		notificationRepo: notificationRepo,
		notifications:    notifications,
		logger:           logger,
		config:           config,
	}
}

// Name returns the job name.
func (j *StaleRequestsJob) Name() string {
	return "stale_requests"
}

// Description returns a human-readable description.
func (j *StaleRequestsJob) Description() string {
	return "Nudges mentors about pending mentorship requests past the response threshold"
}

// Run executes the stale requests job.
func (j *StaleRequestsJob) Run(ctx context.Context) error {
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	olderThan := time.Now().UTC().Add(-j.config.PendingThreshold)
	opts := mentorship.DefaultListOptions().WithLimit(j.config.BatchLimit)

	stale, err := j.mentorshipRepo.ListStaleRequests(ctx, olderThan, opts)
	if err != nil {
		return fmt.Errorf("failed to list stale requests: %w", err)
	}

	nudged := 0
	for _, m := range stale {
		if ctx.Err() != nil {
			break
		}

		if j.nudgeMentor(ctx, m) {
			nudged++
		}
	}

	j.logger.Info("stale_requests job completed",
		"stale_found", len(stale),
		"mentors_nudged", nudged,
	)

	return nil
}

// nudgeMentor delivers a single nudge unless one was already sent.
func (j *StaleRequestsJob) nudgeMentor(ctx context.Context, m *mentorship.Mentorship) bool {
	nudgeID := staleNudgeNotificationID(m.ID)

	_, err := j.notificationRepo.GetByID(ctx, nudgeID)
	if err == nil {
		return false
	}
	if !errors.Is(err, shared.ErrNotificationNotFound) {
		j.logger.Warn("nudge lookup failed",
			"mentorship_id", m.ID.String(),
			"error", err,
		)
		return false
	}

	mentor, err := j.directory.GetByID(ctx, m.MentorID)
	if err != nil || !mentor.Status.CanReceiveNotifications() {
		return false
	}

	menteeName := ""
	if mentee, err := j.directory.GetByID(ctx, m.MenteeID); err == nil {
		menteeName = mentee.DisplayName
	}

	pendingDays := timeutil.DaysSince(m.CreatedAt)
	msg := notification.MentorshipRequestPendingMessage(menteeName, pendingDays)

	n, err := notification.NewNotification(notification.NewNotificationParams{
		ID:             nudgeID,
		RecipientID:    mentor.ID,
		RecipientEmail: mentor.Email.String(),
		Type:           notification.TypeMentorshipRequested,
		Subject:        msg.Subject,
		Body:           msg.Body,
	})
	if err != nil {
		j.logger.Warn("building nudge failed",
			"mentorship_id", m.ID.String(),
			"error", err,
		)
		return false
	}

	return j.notifications.Deliver(ctx, n).Success
}

// staleNudgeNotificationID derives a stable UUID for a stale request nudge.
func staleNudgeNotificationID(mentorshipID shared.MentorshipID) string {
	name := fmt.Sprintf("stale-request-nudge:%s", mentorshipID)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
