package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/activity"
	"github.com/mentorconnect/mentorconnect-core/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUDIT RETENTION JOB
// ══════════════════════════════════════════════════════════════════════════════

// AuditRetentionJob deletes audit log entries older than the retention
// horizon. The cutoff is aligned to a day boundary so repeated runs on
// the same day delete nothing new.
type AuditRetentionJob struct {
	activityRepo activity.Repository
	logger       *slog.Logger

	config AuditRetentionConfig
}

// AuditRetentionConfig contains configuration for the retention job.
type AuditRetentionConfig struct {
	// RetentionDays is how many days of audit history to keep.
	RetentionDays int

	// Timeout is the maximum duration for one run.
	Timeout time.Duration
}

// DefaultAuditRetentionConfig returns sensible defaults.
func DefaultAuditRetentionConfig() AuditRetentionConfig {
	return AuditRetentionConfig{
		RetentionDays: 180,
		Timeout:       5 * time.Minute,
	}
}

// NewAuditRetentionJob creates a new audit retention job.
func NewAuditRetentionJob(
	activityRepo activity.Repository,
	logger *slog.Logger,
	config AuditRetentionConfig,
) *AuditRetentionJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuditRetentionJob{
		activityRepo: activityRepo,
		logger:       logger,
		config:       config,
	}
}

// Name returns the job name.
func (j *AuditRetentionJob) Name() string {
	return "audit_retention"
}

// Description returns a human-readable description.
func (j *AuditRetentionJob) Description() string {
	return "Deletes audit log entries older than the retention horizon"
}

// Run executes the retention job.
func (j *AuditRetentionJob) Run(ctx context.Context) error {
	if j.config.RetentionDays <= 0 {
		j.logger.Debug("audit retention disabled")
		return nil
	}

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	cutoff := timeutil.StartOfDay(time.Now().AddDate(0, 0, -j.config.RetentionDays))

	deleted, err := j.activityRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete old audit entries: %w", err)
	}

	j.logger.Info("audit_retention job completed",
		"cutoff", cutoff.Format(time.RFC3339),
		"deleted", deleted,
	)

	return nil
}
