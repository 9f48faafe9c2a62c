package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/service"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REDELIVERY JOB
// ══════════════════════════════════════════════════════════════════════════════

// NotificationRedeliveryJob retries pending notifications left behind by
// failed deliveries. The notification service owns the attempt budget
// and quiet hours, the job only drives the batch.
type NotificationRedeliveryJob struct {
	notifications *service.NotificationService
	logger        *slog.Logger

	config NotificationRedeliveryConfig
}

// NotificationRedeliveryConfig contains configuration for the redelivery job.
type NotificationRedeliveryConfig struct {
	// BatchSize is the number of pending notifications per run.
	BatchSize int

	// Timeout is the maximum duration for one run.
	Timeout time.Duration
}

// DefaultNotificationRedeliveryConfig returns sensible defaults.
func DefaultNotificationRedeliveryConfig() NotificationRedeliveryConfig {
	return NotificationRedeliveryConfig{
		BatchSize: 100,
		Timeout:   time.Minute,
	}
}

// NewNotificationRedeliveryJob creates a new redelivery job.
func NewNotificationRedeliveryJob(
	notifications *service.NotificationService,
	logger *slog.Logger,
	config NotificationRedeliveryConfig,
) *NotificationRedeliveryJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &NotificationRedeliveryJob{
		notifications: notifications,
		logger:        logger,
		config:        config,
	}
}

// Name returns the job name.
func (j *NotificationRedeliveryJob) Name() string {
	return "notification_redelivery"
}

// Description returns a human-readable description.
func (j *NotificationRedeliveryJob) Description() string {
	return "Retries delivery of pending notifications"
}

// Run executes the redelivery job.
func (j *NotificationRedeliveryJob) Run(ctx context.Context) error {
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	delivered, err := j.notifications.RedeliverPending(ctx, j.config.BatchSize)
	if err != nil {
		return err
	}

	if delivered > 0 {
		j.logger.Info("notification_redelivery job completed", "delivered", delivered)
	}

	return nil
}
