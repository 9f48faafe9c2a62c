// Package eventhandler содержит обработчики доменных событий.
package eventhandler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/notification"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON MENTORSHIP CHANGED HANDLER
// Превращает события жизненного цикла менторства в уведомления:
//
// 1. requested — ментор узнаёт о новом запросе
// 2. accepted  — подопечный узнаёт, что запрос принят
// 3. declined  — подопечный узнаёт об отказе и его причине
// 4. cancelled / completed — вторая сторона узнаёт о закрытии пары
//
// Доставка негарантированная: сбой уведомления логируется и не
// останавливает обработку события.
// ═══════════════════════════════════════════════════════════════════════════

// OnMentorshipChangedHandler обрабатывает события менторства.
type OnMentorshipChangedHandler struct {
	directory        identity.Directory
	notificationRepo notification.Repository
	channel          notification.NotificationChannel
	logger           *slog.Logger
	config           MentorshipChangedConfig
}

// MentorshipChangedConfig содержит конфигурацию обработчика.
type MentorshipChangedConfig struct {
	// NotifyOnCompleted — отправлять ли уведомление при завершении пары.
	NotifyOnCompleted bool

	// NotifyOnCancelled — отправлять ли уведомление при отмене пары.
	NotifyOnCancelled bool
}

// DefaultMentorshipChangedConfig возвращает конфигурацию по умолчанию.
func DefaultMentorshipChangedConfig() MentorshipChangedConfig {
	return MentorshipChangedConfig{
		NotifyOnCompleted: true,
		NotifyOnCancelled: true,
	}
}

// NewOnMentorshipChangedHandler создаёт новый обработчик событий менторства.
func NewOnMentorshipChangedHandler(
	directory identity.Directory,
	notificationRepo notification.Repository,
	channel notification.NotificationChannel,
	logger *slog.Logger,
	config MentorshipChangedConfig,
) *OnMentorshipChangedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnMentorshipChangedHandler{
		directory:        directory,
		notificationRepo: notificationRepo,
		channel:          channel,
		logger:           logger.With("handler", "on_mentorship_changed"),
		config:           config,
	}
}

// Handle обрабатывает событие менторства.
// Реализует интерфейс shared.EventHandler.
func (h *OnMentorshipChangedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	switch e := event.(type) {
	case shared.MentorshipRequestedEvent:
		h.onRequested(ctx, e)
	case shared.MentorshipAcceptedEvent:
		h.onAccepted(ctx, e)
	case shared.MentorshipDeclinedEvent:
		h.onDeclined(ctx, e)
	case shared.MentorshipClosedEvent:
		h.onClosed(ctx, e)
	default:
		h.logger.Warn("received unexpected event",
			"event_type", event.EventType(),
		)
	}

	return nil
}

// onRequested уведомляет ментора о новом запросе.
func (h *OnMentorshipChangedHandler) onRequested(ctx context.Context, e shared.MentorshipRequestedEvent) {
	menteeName := h.displayName(ctx, e.MenteeID)
	msg := notification.MentorshipRequestedMessage(menteeName)
	h.notify(ctx, e.MentorID, notification.TypeMentorshipRequested, msg)
}

// onAccepted уведомляет подопечного о принятии запроса.
func (h *OnMentorshipChangedHandler) onAccepted(ctx context.Context, e shared.MentorshipAcceptedEvent) {
	msg := notification.MentorshipAcceptedMessage(h.displayName(ctx, e.MentorID))
	h.notify(ctx, e.MenteeID, notification.TypeMentorshipAccepted, msg)
}

// onDeclined уведомляет подопечного об отказе.
func (h *OnMentorshipChangedHandler) onDeclined(ctx context.Context, e shared.MentorshipDeclinedEvent) {
	msg := notification.MentorshipDeclinedMessage(h.displayName(ctx, e.MentorID), e.Reason)
	h.notify(ctx, e.MenteeID, notification.TypeMentorshipDeclined, msg)
}

// onClosed уведомляет вторую сторону о закрытии пары.
func (h *OnMentorshipChangedHandler) onClosed(ctx context.Context, e shared.MentorshipClosedEvent) {
	completed := e.EventType() == shared.EventMentorshipCompleted
	if completed && !h.config.NotifyOnCompleted {
		return
	}
	if !completed && !h.config.NotifyOnCancelled {
		return
	}

	// Получатель — сторона, которая пару не закрывала.
	recipientID := e.MentorID
	if e.ClosedByID == e.MentorID {
		recipientID = e.MenteeID
	}

	closerName := h.displayName(ctx, e.ClosedByID)
	var msg notification.Message
	if completed {
		msg = notification.MentorshipCompletedMessage(closerName)
	} else {
		msg = notification.MentorshipCancelledMessage(closerName)
	}
	h.notify(ctx, recipientID, notification.TypeMentorshipClosed, msg)
}

// notify строит уведомление, отправляет его и сохраняет результат.
func (h *OnMentorshipChangedHandler) notify(ctx context.Context, recipientID string, typ notification.Type, msg notification.Message) {
	recipient, err := h.directory.GetByID(ctx, shared.UserID(recipientID))
	if err != nil {
		h.logger.Warn("recipient lookup failed",
			"recipient_id", recipientID,
			"error", err,
		)
		return
	}
	if !recipient.Status.CanReceiveNotifications() {
		return
	}

	n, err := notification.NewNotification(notification.NewNotificationParams{
		ID:             uuid.NewString(),
		RecipientID:    recipient.ID,
		RecipientEmail: recipient.Email.String(),
		Type:           typ,
		Subject:        msg.Subject,
		Body:           msg.Body,
	})
	if err != nil {
		h.logger.Error("building notification failed",
			"type", string(typ),
			"error", err,
		)
		return
	}

	deliver(ctx, h.channel, h.notificationRepo, h.logger, n)
}

// displayName возвращает имя пользователя или пустую строку.
func (h *OnMentorshipChangedHandler) displayName(ctx context.Context, userID string) string {
	u, err := h.directory.GetByID(ctx, shared.UserID(userID))
	if err != nil {
		return ""
	}
	return u.DisplayName
}

// deliver отправляет уведомление через канал и сохраняет исход.
// Общая точка доставки для всех обработчиков пакета.
func deliver(
	ctx context.Context,
	channel notification.NotificationChannel,
	repo notification.Repository,
	logger *slog.Logger,
	n *notification.Notification,
) {
	result := channel.Send(ctx, n)
	if result.Success {
		n.RecordAttempt("")
		if err := n.MarkSent(); err != nil {
			logger.Warn("marking notification sent failed",
				"notification_id", n.ID,
				"error", err,
			)
		}
	} else {
		n.MarkFailed(result.Error)
		logger.Warn("notification delivery failed",
			"notification_id", n.ID,
			"recipient_id", n.RecipientID.String(),
			"error", result.Error,
			"retryable", result.Retryable,
		)
	}

	if err := repo.Save(ctx, n); err != nil {
		logger.Error("saving notification failed",
			"notification_id", n.ID,
			"error", err,
		)
	}
}
