// Package notification содержит доменную модель уведомлений.
package notification

import (
	"errors"
	"fmt"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Type определяет тип уведомления.
type Type string

const (
	// TypeMentorshipRequested - ментору пришёл новый запрос.
	TypeMentorshipRequested Type = "mentorship_requested"

	// TypeMentorshipAccepted - подопечному: запрос принят.
	TypeMentorshipAccepted Type = "mentorship_accepted"

	// TypeMentorshipDeclined - подопечному: запрос отклонён.
	TypeMentorshipDeclined Type = "mentorship_declined"

	// TypeMentorshipClosed - второй стороне: менторство прервано или завершено.
	TypeMentorshipClosed Type = "mentorship_closed"

	// TypeSessionRequested - ментору: предложена сессия.
	TypeSessionRequested Type = "session_requested"

	// TypeSessionScheduled - обеим сторонам: сессия подтверждена.
	TypeSessionScheduled Type = "session_scheduled"

	// TypeSessionRejected - подопечному: предложение отклонено.
	TypeSessionRejected Type = "session_rejected"

	// TypeSessionCancelled - второй стороне: сессия отменена.
	TypeSessionCancelled Type = "session_cancelled"

	// TypeSessionReminder - напоминание о предстоящей сессии.
	TypeSessionReminder Type = "session_reminder"
)

// IsValid проверяет корректность типа.
func (t Type) IsValid() bool {
	switch t {
	case TypeMentorshipRequested, TypeMentorshipAccepted, TypeMentorshipDeclined,
		TypeMentorshipClosed, TypeSessionRequested, TypeSessionScheduled,
		TypeSessionRejected, TypeSessionCancelled, TypeSessionReminder:
		return true
	default:
		return false
	}
}

// Status определяет статус доставки уведомления.
type Status string

const (
	// StatusPending - ожидает доставки.
	StatusPending Status = "pending"

	// StatusSent - доставлено.
	StatusSent Status = "sent"

	// StatusFailed - доставка окончательно не удалась.
	StatusFailed Status = "failed"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSent, StatusFailed:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidNotificationID - невалидный ID уведомления.
	ErrInvalidNotificationID = errors.New("invalid notification id")

	// ErrInvalidRecipient - невалидный получатель.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrInvalidType - невалидный тип уведомления.
	ErrInvalidType = errors.New("invalid notification type")

	// ErrEmptySubject - пустая тема уведомления.
	ErrEmptySubject = errors.New("notification subject is empty")

	// ErrAlreadyDelivered - уведомление уже доставлено.
	ErrAlreadyDelivered = errors.New("notification already delivered")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: NOTIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// Notification - уведомление одному получателю.
type Notification struct {
	// ID - уникальный идентификатор уведомления (UUID).
	ID string

	// RecipientID - получатель.
	RecipientID shared.UserID

	// RecipientEmail - адрес для канала email.
	RecipientEmail string

	// Type - тип уведомления.
	Type Type

	// Channel - канал доставки.
	Channel ChannelType

	// Subject - тема.
	Subject string

	// Body - текст уведомления.
	Body string

	// Status - статус доставки.
	Status Status

	// Attempts - количество попыток доставки.
	Attempts int

	// LastError - текст последней ошибки доставки.
	LastError string

	// CreatedAt - когда создано уведомление.
	CreatedAt time.Time

	// SentAt - когда доставлено (nil если не доставлено).
	SentAt *time.Time
}

// NewNotificationParams параметры для создания уведомления.
type NewNotificationParams struct {
	ID             string
	RecipientID    shared.UserID
	RecipientEmail string
	Type           Type
	Channel        ChannelType
	Subject        string
	Body           string
}

// NewNotification создаёт новое уведомление в статусе pending.
func NewNotification(params NewNotificationParams) (*Notification, error) {
	if params.ID == "" {
		return nil, ErrInvalidNotificationID
	}
	if params.RecipientID.IsEmpty() {
		return nil, ErrInvalidRecipient
	}
	if !params.Type.IsValid() {
		return nil, ErrInvalidType
	}
	if params.Subject == "" {
		return nil, ErrEmptySubject
	}

	channel := params.Channel
	if channel == "" {
		channel = ChannelEmail
	}

	return &Notification{
		ID:             params.ID,
		RecipientID:    params.RecipientID,
		RecipientEmail: params.RecipientEmail,
		Type:           params.Type,
		Channel:        channel,
		Subject:        params.Subject,
		Body:           params.Body,
		Status:         StatusPending,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// MarkSent помечает уведомление доставленным.
func (n *Notification) MarkSent() error {
	if n.Status == StatusSent {
		return ErrAlreadyDelivered
	}

	now := time.Now().UTC()
	n.Status = StatusSent
	n.SentAt = &now
	return nil
}

// MarkFailed фиксирует неудачную попытку доставки.
func (n *Notification) MarkFailed(errMsg string) {
	n.Attempts++
	n.LastError = errMsg
	n.Status = StatusFailed
}

// RecordAttempt фиксирует попытку без смены статуса.
func (n *Notification) RecordAttempt(errMsg string) {
	n.Attempts++
	n.LastError = errMsg
}

// String возвращает строковое представление для логирования.
func (n *Notification) String() string {
	return fmt.Sprintf(
		"Notification{ID: %s, Type: %s, Recipient: %s, Status: %s}",
		n.ID, n.Type, n.RecipientID, n.Status,
	)
}
