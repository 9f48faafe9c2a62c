// Package mentorship содержит доменную модель менторской связи.
// Жизненный цикл: pending → active → completed, с ветками
// declined (ментор отклонил) и cancelled (любая сторона прервала).
package mentorship

import (
	"fmt"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет статус менторской связи.
type Status string

const (
	// StatusPending - запрос создан, ожидает решения ментора.
	StatusPending Status = "pending"

	// StatusActive - ментор принял запрос, менторство действует.
	StatusActive Status = "active"

	// StatusDeclined - ментор отклонил запрос.
	StatusDeclined Status = "declined"

	// StatusCancelled - одна из сторон прервала менторство.
	StatusCancelled Status = "cancelled"

	// StatusCompleted - менторство завершено успешно.
	StatusCompleted Status = "completed"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusDeclined, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsOpen возвращает true, если менторство занимает пару.
// Открытые менторства блокируют повторный запрос той же пары.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusActive
}

// IsTerminal возвращает true, если статус конечный.
func (s Status) IsTerminal() bool {
	return s == StatusDeclined || s == StatusCancelled || s == StatusCompleted
}

// OpenStatuses возвращает список открытых статусов для запросов к хранилищу.
func OpenStatuses() []Status {
	return []Status{StatusPending, StatusActive}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: MENTORSHIP
// ══════════════════════════════════════════════════════════════════════════════

// Mentorship - менторская связь между ментором и подопечным.
type Mentorship struct {
	// ID - уникальный идентификатор менторства (UUID).
	ID shared.MentorshipID

	// MentorID - наставник.
	MentorID shared.UserID

	// MenteeID - подопечный, инициатор запроса.
	MenteeID shared.UserID

	// Status - текущий статус менторства.
	Status Status

	// Notes - заметки о менторстве. Заполняются при отклонении
	// или завершении связи.
	Notes string

	// ClosedBy - кто закрыл менторство (nil, пока связь открыта).
	ClosedBy *shared.UserID

	// CreatedAt - когда создан запрос.
	CreatedAt time.Time

	// UpdatedAt - когда запись обновлялась в последний раз.
	UpdatedAt time.Time

	// AcceptedAt - когда ментор принял запрос (nil если ещё pending).
	AcceptedAt *time.Time

	// ClosedAt - когда менторство закрыто (nil если открыто).
	ClosedAt *time.Time

	// prevStatus - статус, от которого выполнялся последний переход.
	// Репозиторий использует его как ожидание compare-and-set
	// при сохранении, чтобы конкурентный переход не был затёрт.
	prevStatus Status
}

// NewMentorshipParams параметры для создания нового менторства.
type NewMentorshipParams struct {
	ID       shared.MentorshipID
	MentorID shared.UserID
	MenteeID shared.UserID
}

// NewMentorship создаёт новый запрос менторства в статусе pending.
func NewMentorship(params NewMentorshipParams) (*Mentorship, error) {
	if params.ID.IsEmpty() {
		return nil, shared.NewDomainError("mentorship", "New", shared.ErrInvalidID, "mentorship id is required")
	}
	if params.MentorID.IsEmpty() {
		return nil, shared.NewDomainError("mentorship", "New", shared.ErrInvalidID, "mentor id is required")
	}
	if params.MenteeID.IsEmpty() {
		return nil, shared.NewDomainError("mentorship", "New", shared.ErrInvalidID, "mentee id is required")
	}
	if params.MentorID == params.MenteeID {
		return nil, shared.ErrSelfMentorship
	}

	now := time.Now().UTC()

	return &Mentorship{
		ID:        params.ID,
		MentorID:  params.MentorID,
		MenteeID:  params.MenteeID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Accept принимает запрос менторства. Разрешено только ментору
// и только из статуса pending.
func (m *Mentorship) Accept(actorID shared.UserID) error {
	if actorID != m.MentorID {
		return shared.ErrMentorshipForbidden
	}
	if m.Status != StatusPending {
		return shared.ErrMentorshipState
	}

	now := time.Now().UTC()
	m.prevStatus = m.Status
	m.Status = StatusActive
	m.AcceptedAt = &now
	m.UpdatedAt = now
	return nil
}

// Decline отклоняет запрос менторства. Разрешено только ментору
// и только из статуса pending. Причина сохраняется в Notes.
func (m *Mentorship) Decline(actorID shared.UserID, reason string) error {
	if actorID != m.MentorID {
		return shared.ErrMentorshipForbidden
	}
	if m.Status != StatusPending {
		return shared.ErrMentorshipState
	}

	if reason == "" {
		reason = "Declined by mentor"
	}

	now := time.Now().UTC()
	m.prevStatus = m.Status
	m.Status = StatusDeclined
	m.Notes = reason
	m.ClosedBy = &actorID
	m.ClosedAt = &now
	m.UpdatedAt = now
	return nil
}

// Cancel прерывает менторство. Разрешено любой из сторон
// из статусов pending и active.
func (m *Mentorship) Cancel(actorID shared.UserID) error {
	if !m.InvolvesUser(actorID) {
		return shared.ErrMentorshipForbidden
	}
	if !m.Status.IsOpen() {
		return shared.ErrMentorshipState
	}

	now := time.Now().UTC()
	m.prevStatus = m.Status
	m.Status = StatusCancelled
	m.ClosedBy = &actorID
	m.ClosedAt = &now
	m.UpdatedAt = now
	return nil
}

// Complete завершает менторство. Разрешено любой из сторон
// и только из статуса active.
func (m *Mentorship) Complete(actorID shared.UserID) error {
	if !m.InvolvesUser(actorID) {
		return shared.ErrMentorshipForbidden
	}
	if m.Status != StatusActive {
		return shared.ErrMentorshipState
	}

	now := time.Now().UTC()
	m.prevStatus = m.Status
	m.Status = StatusCompleted
	m.ClosedBy = &actorID
	m.ClosedAt = &now
	m.UpdatedAt = now
	return nil
}

// PreviousStatus возвращает статус, от которого выполнялся последний
// переход. Если переходов не было, возвращает текущий статус.
func (m *Mentorship) PreviousStatus() Status {
	if m.prevStatus == "" {
		return m.Status
	}
	return m.prevStatus
}

// IsActive проверяет, действует ли менторство.
func (m *Mentorship) IsActive() bool {
	return m.Status == StatusActive
}

// IsOpen проверяет, занимает ли менторство пару.
func (m *Mentorship) IsOpen() bool {
	return m.Status.IsOpen()
}

// InvolvesUser проверяет, является ли пользователь стороной менторства.
func (m *Mentorship) InvolvesUser(userID shared.UserID) bool {
	return m.MentorID == userID || m.MenteeID == userID
}

// OtherParty возвращает ID второй стороны менторства.
func (m *Mentorship) OtherParty(userID shared.UserID) shared.UserID {
	if m.MentorID == userID {
		return m.MenteeID
	}
	return m.MentorID
}

// DurationDays возвращает длительность менторства в днях.
func (m *Mentorship) DurationDays() int {
	if m.AcceptedAt == nil {
		return 0
	}

	endTime := time.Now().UTC()
	if m.ClosedAt != nil {
		endTime = *m.ClosedAt
	}

	return int(endTime.Sub(*m.AcceptedAt).Hours() / 24)
}

// String возвращает строковое представление для логирования.
func (m *Mentorship) String() string {
	return fmt.Sprintf(
		"Mentorship{ID: %s, Mentor: %s, Mentee: %s, Status: %s}",
		m.ID, m.MentorID, m.MenteeID, m.Status,
	)
}

// Clone создаёт глубокую копию менторства.
func (m *Mentorship) Clone() *Mentorship {
	if m == nil {
		return nil
	}

	clone := *m
	if m.ClosedBy != nil {
		closedBy := *m.ClosedBy
		clone.ClosedBy = &closedBy
	}
	if m.AcceptedAt != nil {
		acceptedAt := *m.AcceptedAt
		clone.AcceptedAt = &acceptedAt
	}
	if m.ClosedAt != nil {
		closedAt := *m.ClosedAt
		clone.ClosedAt = &closedAt
	}
	return &clone
}
