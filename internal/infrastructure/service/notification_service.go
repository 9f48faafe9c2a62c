// Package service contains application-facing infrastructure services.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/notification"
	"github.com/mentorconnect/mentorconnect-core/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION SERVICE
// Routes notifications to the channel they are addressed to and drives
// redelivery of pending ones. Delivery is best-effort: a failed send is
// recorded on the notification and never propagated to the caller.
// ══════════════════════════════════════════════════════════════════════════════

// NotificationServiceConfig contains configuration for the service.
type NotificationServiceConfig struct {
	// MaxAttempts is the number of delivery attempts before a
	// notification is marked failed for good.
	MaxAttempts int

	// RespectQuietHours defers redelivery outside 9:00-22:00 local time.
	// Direct deliveries triggered by user actions are always sent.
	RespectQuietHours bool
}

// DefaultNotificationServiceConfig returns sensible defaults.
func DefaultNotificationServiceConfig() NotificationServiceConfig {
	return NotificationServiceConfig{
		MaxAttempts:       3,
		RespectQuietHours: true,
	}
}

// NotificationService delivers notifications through registered channels.
type NotificationService struct {
	repo     notification.Repository
	channels map[notification.ChannelType]notification.NotificationChannel
	logger   *slog.Logger
	config   NotificationServiceConfig
}

// NewNotificationService creates a new notification service.
// Channels are keyed by their Type; registering two channels of the
// same type keeps the last one.
func NewNotificationService(
	repo notification.Repository,
	logger *slog.Logger,
	config NotificationServiceConfig,
	channels ...notification.NotificationChannel,
) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}

	byType := make(map[notification.ChannelType]notification.NotificationChannel, len(channels))
	for _, ch := range channels {
		byType[ch.Type()] = ch
	}

	return &NotificationService{
		repo:     repo,
		channels: byType,
		logger:   logger.With("component", "notification_service"),
		config:   config,
	}
}

// Deliver sends a single notification through its channel and persists
// the outcome. A retryable failure below the attempt budget leaves the
// notification pending so the redelivery job picks it up again.
func (s *NotificationService) Deliver(ctx context.Context, n *notification.Notification) notification.DeliveryResult {
	channel, ok := s.channels[n.Channel]
	if !ok {
		// Deployments without a mail gateway still keep the in-app
		// inbox; reroute so the notification is not lost.
		if fallback, hasInApp := s.channels[notification.ChannelInApp]; hasInApp {
			n.Channel = notification.ChannelInApp
			channel = fallback
		} else {
			result := notification.NewFailureResult(
				n.Channel,
				fmt.Errorf("no channel registered for type %q", n.Channel),
				false,
			)
			n.MarkFailed(result.Error)
			s.save(ctx, n)
			return result
		}
	}

	result := channel.Send(ctx, n)
	if result.Success {
		n.RecordAttempt("")
		if err := n.MarkSent(); err != nil {
			s.logger.Warn("marking notification sent failed",
				"notification_id", n.ID,
				"error", err,
			)
		}
	} else if result.Retryable && n.Attempts+1 < s.config.MaxAttempts {
		n.RecordAttempt(result.Error)
	} else {
		n.MarkFailed(result.Error)
		s.logger.Warn("notification delivery failed for good",
			"notification_id", n.ID,
			"recipient_id", n.RecipientID.String(),
			"channel", n.Channel.String(),
			"attempts", n.Attempts,
			"error", result.Error,
		)
	}

	s.save(ctx, n)
	return result
}

// RedeliverPending retries delivery for pending notifications.
// Returns the number of notifications that were delivered.
func (s *NotificationService) RedeliverPending(ctx context.Context, batchSize int) (int, error) {
	if s.config.RespectQuietHours && !timeutil.IsSafeNotificationTime(time.Now()) {
		s.logger.Debug("redelivery deferred until quiet hours end",
			"next_window", timeutil.NextSafeNotificationTime(time.Now()).Format(time.RFC3339),
		)
		return 0, nil
	}

	pending, err := s.repo.ListPending(ctx, batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending notifications: %w", err)
	}

	delivered := 0
	for _, n := range pending {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}

		if result := s.Deliver(ctx, n); result.Success {
			delivered++
		} else if result.RetryAfter > 0 {
			// The channel asked us to back off, stop the batch here.
			s.logger.Info("channel rate limited, stopping redelivery batch",
				"channel", result.Channel.String(),
				"retry_after", result.RetryAfter.String(),
			)
			break
		}
	}

	return delivered, nil
}

// ChannelAvailable reports whether the channel for the given type is up.
func (s *NotificationService) ChannelAvailable(ctx context.Context, typ notification.ChannelType) bool {
	channel, ok := s.channels[typ]
	if !ok {
		return false
	}
	return channel.IsAvailable(ctx)
}

// FailedSince returns the number of permanently failed deliveries since
// the given time, for monitoring.
func (s *NotificationService) FailedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.repo.CountFailedSince(ctx, since)
}

func (s *NotificationService) save(ctx context.Context, n *notification.Notification) {
	if err := s.repo.Save(ctx, n); err != nil {
		s.logger.Error("saving notification failed",
			"notification_id", n.ID,
			"error", err,
		)
	}
}
