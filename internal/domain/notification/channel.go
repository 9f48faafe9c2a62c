// Package notification содержит доменную модель уведомлений.
// Уведомления отправляются после фиксации перехода жизненного цикла
// и никогда не блокируют сам переход.
package notification

import (
	"context"
	"errors"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHANNEL TYPE
// ══════════════════════════════════════════════════════════════════════════════

// ChannelType определяет канал доставки уведомления.
type ChannelType string

const (
	// ChannelEmail - доставка через почтовый шлюз.
	ChannelEmail ChannelType = "email"

	// ChannelInApp - внутриплатформенное уведомление.
	ChannelInApp ChannelType = "in_app"

	// ChannelWebhook - доставка во внешнюю систему по HTTP.
	ChannelWebhook ChannelType = "webhook"
)

// IsValid проверяет корректность типа канала.
func (c ChannelType) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelInApp, ChannelWebhook:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление.
func (c ChannelType) String() string {
	return string(c)
}

// ══════════════════════════════════════════════════════════════════════════════
// DELIVERY RESULT
// ══════════════════════════════════════════════════════════════════════════════

// DeliveryResult - результат попытки доставки уведомления.
type DeliveryResult struct {
	// Success - доставлено ли уведомление.
	Success bool

	// MessageID - идентификатор сообщения на стороне канала.
	MessageID string

	// Channel - канал доставки.
	Channel ChannelType

	// DeliveredAt - когда доставлено.
	DeliveredAt time.Time

	// Error - текст ошибки при неудаче.
	Error string

	// ErrorCode - код ошибки канала.
	ErrorCode int

	// Retryable - можно ли повторить попытку.
	Retryable bool

	// RetryAfter - через сколько повторять (для rate limit).
	RetryAfter time.Duration
}

// NewSuccessResult создаёт успешный результат доставки.
func NewSuccessResult(channel ChannelType, messageID string) DeliveryResult {
	return DeliveryResult{
		Success:     true,
		MessageID:   messageID,
		Channel:     channel,
		DeliveredAt: time.Now().UTC(),
	}
}

// NewFailureResult создаёт неуспешный результат доставки.
func NewFailureResult(channel ChannelType, err error, retryable bool) DeliveryResult {
	result := DeliveryResult{
		Success:   false,
		Channel:   channel,
		Retryable: retryable,
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// NewRateLimitedResult создаёт результат при превышении лимита канала.
func NewRateLimitedResult(channel ChannelType, retryAfter time.Duration) DeliveryResult {
	return DeliveryResult{
		Success:    false,
		Channel:    channel,
		Error:      "rate limited",
		Retryable:  true,
		RetryAfter: retryAfter,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CHANNEL INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Ошибки каналов доставки.
var (
	// ErrChannelUnavailable - канал временно недоступен.
	ErrChannelUnavailable = errors.New("notification channel unavailable")

	// ErrRecipientUnreachable - у получателя нет адреса для канала.
	ErrRecipientUnreachable = errors.New("recipient is unreachable on this channel")

	// ErrDeliveryTimeout - доставка не уложилась в таймаут.
	ErrDeliveryTimeout = errors.New("notification delivery timed out")
)

// NotificationChannel - абстракция канала доставки.
type NotificationChannel interface {
	// Type возвращает тип канала.
	Type() ChannelType

	// Send доставляет одно уведомление.
	Send(ctx context.Context, n *Notification) DeliveryResult

	// IsAvailable проверяет доступность канала.
	IsAvailable(ctx context.Context) bool
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет хранилище уведомлений.
type Repository interface {
	// Save сохраняет уведомление (создание или обновление статуса).
	Save(ctx context.Context, n *Notification) error

	// GetByID возвращает уведомление по ID.
	GetByID(ctx context.Context, id string) (*Notification, error)

	// ListPending возвращает уведомления, ожидающие доставки.
	ListPending(ctx context.Context, limit int) ([]*Notification, error)

	// ListByRecipient возвращает уведомления пользователя.
	ListByRecipient(ctx context.Context, recipientID shared.UserID, limit int) ([]*Notification, error)

	// CountFailedSince возвращает количество неудачных доставок
	// с указанного момента. Используется мониторингом.
	CountFailedSince(ctx context.Context, since time.Time) (int64, error)
}
