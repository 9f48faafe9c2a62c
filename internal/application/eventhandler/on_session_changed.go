// Package eventhandler содержит обработчики доменных событий.
package eventhandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/notification"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON SESSION CHANGED HANDLER
// Превращает события сессий в уведомления:
//
// 1. requested — ментор узнаёт о предложении подопечного
// 2. scheduled — подопечный узнаёт о подтверждённом времени
// 3. rejected  — подопечный узнаёт об отказе и его причине
// 4. cancelled — вторая сторона узнаёт об отмене
//
// Стороны сессии определяются через менторство, которому она
// принадлежит. Сбой доставки логируется и не роняет обработку.
// ═══════════════════════════════════════════════════════════════════════════

// OnSessionChangedHandler обрабатывает события сессий.
type OnSessionChangedHandler struct {
	directory        identity.Directory
	mentorshipRepo   mentorship.Repository
	sessionRepo      session.Repository
	notificationRepo notification.Repository
	channel          notification.NotificationChannel
	logger           *slog.Logger
}

// NewOnSessionChangedHandler создаёт новый обработчик событий сессий.
func NewOnSessionChangedHandler(
	directory identity.Directory,
	mentorshipRepo mentorship.Repository,
	sessionRepo session.Repository,
	notificationRepo notification.Repository,
	channel notification.NotificationChannel,
	logger *slog.Logger,
) *OnSessionChangedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnSessionChangedHandler{
		directory:        directory,
		mentorshipRepo:   mentorshipRepo,
		sessionRepo:      sessionRepo,
		notificationRepo: notificationRepo,
		channel:          channel,
		logger:           logger.With("handler", "on_session_changed"),
	}
}

// Handle обрабатывает событие сессии.
// Реализует интерфейс shared.EventHandler.
func (h *OnSessionChangedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	switch e := event.(type) {
	case shared.SessionRequestedEvent:
		h.onRequested(ctx, e)
	case shared.SessionScheduledEvent:
		h.onScheduled(ctx, e)
	case shared.SessionRejectedEvent:
		h.onRejected(ctx, e)
	case shared.SessionCancelledEvent:
		h.onCancelled(ctx, e)
	case shared.SessionCompletedEvent:
		// Отметка о проведении не требует уведомления.
	default:
		h.logger.Warn("received unexpected event",
			"event_type", event.EventType(),
		)
	}

	return nil
}

// onRequested уведомляет ментора о предложении подопечного.
func (h *OnSessionChangedHandler) onRequested(ctx context.Context, e shared.SessionRequestedEvent) {
	m, ok := h.mentorshipOf(ctx, e.MentorshipID)
	if !ok {
		return
	}

	minutes := int(e.EndsAt.Sub(e.StartsAt) / time.Minute)
	msg := notification.SessionRequestedMessage(h.displayName(ctx, e.RequestedBy), e.StartsAt, minutes)
	h.notify(ctx, m.MentorID.String(), notification.TypeSessionRequested, msg)
}

// onScheduled уведомляет подопечного о подтверждённом времени.
func (h *OnSessionChangedHandler) onScheduled(ctx context.Context, e shared.SessionScheduledEvent) {
	m, ok := h.mentorshipOf(ctx, e.MentorshipID)
	if !ok {
		return
	}

	minutes := int(e.EndsAt.Sub(e.StartsAt) / time.Minute)
	msg := notification.SessionScheduledMessage(h.displayName(ctx, m.MentorID.String()), e.StartsAt, minutes)
	h.notify(ctx, m.MenteeID.String(), notification.TypeSessionScheduled, msg)
}

// onRejected уведомляет подопечного об отказе.
func (h *OnSessionChangedHandler) onRejected(ctx context.Context, e shared.SessionRejectedEvent) {
	m, ok := h.mentorshipOf(ctx, e.MentorshipID)
	if !ok {
		return
	}

	msg := notification.SessionRejectedMessage(h.displayName(ctx, m.MentorID.String()), e.Reason)
	h.notify(ctx, m.MenteeID.String(), notification.TypeSessionRejected, msg)
}

// onCancelled уведомляет вторую сторону об отмене.
func (h *OnSessionChangedHandler) onCancelled(ctx context.Context, e shared.SessionCancelledEvent) {
	m, ok := h.mentorshipOf(ctx, e.MentorshipID)
	if !ok {
		return
	}

	// Получатель — сторона, которая сессию не отменяла.
	recipientID := m.MentorID
	if e.CancelledBy == m.MentorID.String() {
		recipientID = m.MenteeID
	}

	// Время начала добирается из самой сессии: событие его не несёт.
	var startsAt time.Time
	if s, err := h.sessionRepo.GetByID(ctx, shared.SessionID(e.SessionID)); err == nil {
		startsAt = s.StartsAt
	}

	msg := notification.SessionCancelledMessage(h.displayName(ctx, e.CancelledBy), startsAt, e.Reason)
	h.notify(ctx, recipientID.String(), notification.TypeSessionCancelled, msg)
}

// mentorshipOf возвращает менторство сессии.
func (h *OnSessionChangedHandler) mentorshipOf(ctx context.Context, mentorshipID string) (*mentorship.Mentorship, bool) {
	m, err := h.mentorshipRepo.GetByID(ctx, shared.MentorshipID(mentorshipID))
	if err != nil {
		h.logger.Warn("mentorship lookup failed",
			"mentorship_id", mentorshipID,
			"error", err,
		)
		return nil, false
	}
	return m, true
}

// notify строит уведомление, отправляет его и сохраняет результат.
func (h *OnSessionChangedHandler) notify(ctx context.Context, recipientID string, typ notification.Type, msg notification.Message) {
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
func (h *OnSessionChangedHandler) displayName(ctx context.Context, userID string) string {
	u, err := h.directory.GetByID(ctx, shared.UserID(userID))
	if err != nil {
		return ""
	}
	return u.DisplayName
}
