// Package session содержит доменную модель менторской сессии.
// Сессия проходит цикл pending → scheduled → completed, с отменой
// из любого незавершённого состояния.
package session

import (
	"fmt"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTANTS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// MinDurationMinutes - минимальная длительность сессии.
	MinDurationMinutes = 15

	// MaxDurationMinutes - максимальная длительность сессии.
	MaxDurationMinutes = 240
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет статус сессии.
type Status string

const (
	// StatusPending - сессия предложена подопечным, ожидает решения ментора.
	StatusPending Status = "pending"

	// StatusScheduled - сессия подтверждена и занимает слот в календаре.
	StatusScheduled Status = "scheduled"

	// StatusCancelled - сессия отменена или отклонена.
	StatusCancelled Status = "cancelled"

	// StatusCompleted - сессия состоялась.
	StatusCompleted Status = "completed"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// ReservesSlot возвращает true, если сессия в этом статусе занимает
// интервал в календаре менторства. Отменённые и завершённые сессии
// слот не резервируют.
func (s Status) ReservesSlot() bool {
	return s == StatusPending || s == StatusScheduled
}

// IsTerminal возвращает true, если статус конечный.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ReservingStatuses возвращает статусы, резервирующие слот,
// для запросов к хранилищу.
func ReservingStatuses() []Status {
	return []Status{StatusPending, StatusScheduled}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Session - запланированная встреча в рамках менторства.
type Session struct {
	// ID - уникальный идентификатор сессии (UUID).
	ID shared.SessionID

	// MentorshipID - менторство, к которому относится сессия.
	MentorshipID shared.MentorshipID

	// RequestedBy - кто предложил сессию (определяет начальный статус).
	RequestedBy shared.UserID

	// StartsAt - начало сессии (UTC).
	StartsAt time.Time

	// DurationMinutes - длительность в минутах (15-240).
	DurationMinutes int

	// Topic - тема сессии.
	Topic string

	// Description - развёрнутое описание (опционально).
	Description string

	// MeetingLink - ссылка на видеовстречу (хранится как есть).
	MeetingLink string

	// Status - текущий статус сессии.
	Status Status

	// CancelledBy - кто отменил сессию (nil, пока не отменена).
	CancelledBy *shared.UserID

	// CancellationReason - причина отмены или отклонения.
	CancellationReason string

	// CreatedAt - когда создана запись.
	CreatedAt time.Time

	// UpdatedAt - когда запись обновлялась в последний раз.
	UpdatedAt time.Time

	// prevStatus - статус, от которого выполнялся последний переход.
	// Репозиторий использует его как ожидание compare-and-set
	// при сохранении, чтобы конкурентный переход не был затёрт.
	prevStatus Status
}

// NewSessionParams параметры для создания новой сессии.
type NewSessionParams struct {
	ID              shared.SessionID
	MentorshipID    shared.MentorshipID
	RequestedBy     shared.UserID
	StartsAt        time.Time
	DurationMinutes int
	Topic           string
	Description     string
	MeetingLink     string

	// AuthoredByMentor определяет начальный статус: предложение ментора
	// сразу становится scheduled, предложение подопечного - pending.
	AuthoredByMentor bool
}

// NewSession создаёт новую сессию с валидацией интервала.
func NewSession(params NewSessionParams) (*Session, error) {
	if params.ID.IsEmpty() {
		return nil, shared.NewDomainError("session", "New", shared.ErrInvalidID, "session id is required")
	}
	if params.MentorshipID.IsEmpty() {
		return nil, shared.NewDomainError("session", "New", shared.ErrInvalidID, "mentorship id is required")
	}
	if params.RequestedBy.IsEmpty() {
		return nil, shared.NewDomainError("session", "New", shared.ErrInvalidID, "requested_by is required")
	}

	now := time.Now().UTC()

	if !params.StartsAt.After(now) {
		return nil, shared.ErrStartNotInFuture
	}
	if params.DurationMinutes < MinDurationMinutes || params.DurationMinutes > MaxDurationMinutes {
		return nil, shared.ErrInvalidDuration
	}

	status := StatusPending
	if params.AuthoredByMentor {
		status = StatusScheduled
	}

	return &Session{
		ID:              params.ID,
		MentorshipID:    params.MentorshipID,
		RequestedBy:     params.RequestedBy,
		StartsAt:        params.StartsAt.UTC(),
		DurationMinutes: params.DurationMinutes,
		Topic:           params.Topic,
		Description:     params.Description,
		MeetingLink:     params.MeetingLink,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// EndsAt возвращает момент окончания сессии.
func (s *Session) EndsAt() time.Time {
	return s.StartsAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// Interval возвращает полуоткрытый интервал [StartsAt, EndsAt).
func (s *Session) Interval() shared.TimeRange {
	return shared.TimeRange{From: s.StartsAt, To: s.EndsAt()}
}

// Approve подтверждает предложенную сессию. Разрешено только из pending.
func (s *Session) Approve() error {
	if s.Status != StatusPending {
		return shared.ErrSessionState
	}

	s.prevStatus = s.Status
	s.Status = StatusScheduled
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Reject отклоняет предложенную сессию. Разрешено только из pending.
// Отклонённая сессия переходит в cancelled и освобождает слот.
func (s *Session) Reject(actorID shared.UserID, reason string) error {
	if s.Status != StatusPending {
		return shared.ErrSessionState
	}

	s.prevStatus = s.Status
	s.Status = StatusCancelled
	s.CancelledBy = &actorID
	s.CancellationReason = reason
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel отменяет сессию из pending или scheduled.
func (s *Session) Cancel(actorID shared.UserID, reason string) error {
	if !s.Status.ReservesSlot() {
		return shared.ErrSessionState
	}

	s.prevStatus = s.Status
	s.Status = StatusCancelled
	s.CancelledBy = &actorID
	s.CancellationReason = reason
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete помечает сессию состоявшейся. Разрешено только из scheduled.
func (s *Session) Complete() error {
	if s.Status != StatusScheduled {
		return shared.ErrSessionState
	}

	s.prevStatus = s.Status
	s.Status = StatusCompleted
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// PreviousStatus возвращает статус, от которого выполнялся последний
// переход. Если переходов не было, возвращает текущий статус.
func (s *Session) PreviousStatus() Status {
	if s.prevStatus == "" {
		return s.Status
	}
	return s.prevStatus
}

// OverlapsWith проверяет пересечение интервалов двух сессий.
// Интервалы полуоткрытые: сессии, стоящие встык, не пересекаются.
func (s *Session) OverlapsWith(other *Session) bool {
	return s.Interval().Overlaps(other.Interval())
}

// String возвращает строковое представление для логирования.
func (s *Session) String() string {
	return fmt.Sprintf(
		"Session{ID: %s, Mentorship: %s, Start: %s, Duration: %dm, Status: %s}",
		s.ID, s.MentorshipID, s.StartsAt.Format(time.RFC3339), s.DurationMinutes, s.Status,
	)
}

// Clone создаёт глубокую копию сессии.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	clone := *s
	if s.CancelledBy != nil {
		cancelledBy := *s.CancelledBy
		clone.CancelledBy = &cancelledBy
	}
	return &clone
}
