// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET MENTORSHIP QUERY
// Возвращает карточку менторства со сторонами и ближайшими сессиями.
// Доступ имеют только участники пары.
// ══════════════════════════════════════════════════════════════════════════════

// GetMentorshipQuery содержит параметры запроса менторства.
type GetMentorshipQuery struct {
	// MentorshipID - ID менторства.
	MentorshipID string

	// ActorID - кто запрашивает. Должен быть одной из сторон.
	ActorID string

	// IncludeSessions - включить ли список сессий менторства.
	IncludeSessions bool

	// SessionLimit - сколько сессий вернуть (по умолчанию 10).
	SessionLimit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetMentorshipQuery) Validate() error {
	if q.MentorshipID == "" {
		return errors.New("mentorship_id is required")
	}
	if q.ActorID == "" {
		return errors.New("actor_id is required")
	}
	if q.SessionLimit < 0 {
		return errors.New("session_limit cannot be negative")
	}
	if q.SessionLimit == 0 {
		q.SessionLimit = 10
	}
	if q.SessionLimit > 50 {
		q.SessionLimit = 50
	}
	return nil
}

// ParticipantDTO - участник менторства.
type ParticipantDTO struct {
	// UserID - ID пользователя.
	UserID string `json:"user_id"`

	// DisplayName - отображаемое имя.
	DisplayName string `json:"display_name"`

	// Bio - краткое описание профиля.
	Bio string `json:"bio,omitempty"`
}

// MentorshipDTO - карточка менторства.
type MentorshipDTO struct {
	// ID - идентификатор менторства.
	ID string `json:"id"`

	// Status - текущий статус.
	Status string `json:"status"`

	// Mentor - наставник.
	Mentor ParticipantDTO `json:"mentor"`

	// Mentee - подопечный.
	Mentee ParticipantDTO `json:"mentee"`

	// Notes - заметки (например, причина отклонения).
	Notes string `json:"notes,omitempty"`

	// CreatedAt - когда создан запрос.
	CreatedAt time.Time `json:"created_at"`

	// AcceptedAt - когда менторство было принято.
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`

	// ClosedAt - когда менторство было закрыто.
	ClosedAt *time.Time `json:"closed_at,omitempty"`

	// DurationDays - сколько дней длится (или длилось) менторство.
	DurationDays int `json:"duration_days"`
}

// SessionDTO - сессия в составе ответа.
type SessionDTO struct {
	// ID - идентификатор сессии.
	ID string `json:"id"`

	// Status - текущий статус.
	Status string `json:"status"`

	// StartsAt - начало сессии.
	StartsAt time.Time `json:"starts_at"`

	// EndsAt - окончание сессии.
	EndsAt time.Time `json:"ends_at"`

	// DurationMinutes - длительность в минутах.
	DurationMinutes int `json:"duration_minutes"`

	// Topic - тема сессии.
	Topic string `json:"topic,omitempty"`

	// Description - описание сессии.
	Description string `json:"description,omitempty"`

	// MeetingLink - ссылка на видеовстречу.
	MeetingLink string `json:"meeting_link,omitempty"`

	// RequestedBy - кто предложил сессию.
	RequestedBy string `json:"requested_by"`

	// CancellationReason - причина отмены или отклонения.
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

// GetMentorshipResult содержит результат запроса менторства.
type GetMentorshipResult struct {
	// Mentorship - карточка менторства.
	Mentorship MentorshipDTO `json:"mentorship"`

	// Sessions - сессии менторства (если запрошены).
	Sessions []SessionDTO `json:"sessions,omitempty"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetMentorshipHandler обрабатывает запросы на получение менторства.
type GetMentorshipHandler struct {
	mentorshipRepo mentorship.Repository
	sessionRepo    session.Repository
	directory      identity.Directory
}

// NewGetMentorshipHandler создаёт новый обработчик.
func NewGetMentorshipHandler(
	mentorshipRepo mentorship.Repository,
	sessionRepo session.Repository,
	directory identity.Directory,
) *GetMentorshipHandler {
	return &GetMentorshipHandler{
		mentorshipRepo: mentorshipRepo,
		sessionRepo:    sessionRepo,
		directory:      directory,
	}
}

// Handle выполняет запрос на получение менторства.
func (h *GetMentorshipHandler) Handle(ctx context.Context, query GetMentorshipQuery) (*GetMentorshipResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetMentorship", shared.ErrValidation, err.Error(), err)
	}

	m, err := h.mentorshipRepo.GetByID(ctx, shared.MentorshipID(query.MentorshipID))
	if err != nil {
		return nil, err
	}

	// Карточку видят только стороны пары.
	if !m.InvolvesUser(shared.UserID(query.ActorID)) {
		return nil, shared.ErrMentorshipForbidden
	}

	dto := buildMentorshipDTO(m)

	// Имена сторон добираются из каталога. Отсутствие профиля не
	// ломает ответ: останутся только ID.
	if users, err := h.directory.GetByIDs(ctx, []shared.UserID{m.MentorID, m.MenteeID}); err == nil {
		for _, u := range users {
			p := ParticipantDTO{
				UserID:      u.ID.String(),
				DisplayName: u.DisplayName,
				Bio:         u.Bio,
			}
			switch u.ID {
			case m.MentorID:
				dto.Mentor = p
			case m.MenteeID:
				dto.Mentee = p
			}
		}
	}

	result := &GetMentorshipResult{
		Mentorship:  dto,
		GeneratedAt: time.Now().UTC(),
	}

	if query.IncludeSessions {
		opts := session.DefaultListOptions().WithLimit(query.SessionLimit)
		sessions, err := h.sessionRepo.ListByMentorship(ctx, m.ID, opts)
		if err == nil {
			result.Sessions = buildSessionDTOs(sessions)
		}
	}

	return result, nil
}

// buildMentorshipDTO формирует DTO из доменного объекта.
func buildMentorshipDTO(m *mentorship.Mentorship) MentorshipDTO {
	dto := MentorshipDTO{
		ID:           m.ID.String(),
		Status:       string(m.Status),
		Mentor:       ParticipantDTO{UserID: m.MentorID.String()},
		Mentee:       ParticipantDTO{UserID: m.MenteeID.String()},
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		DurationDays: m.DurationDays(),
	}
	if m.AcceptedAt != nil {
		t := *m.AcceptedAt
		dto.AcceptedAt = &t
	}
	if m.ClosedAt != nil {
		t := *m.ClosedAt
		dto.ClosedAt = &t
	}
	return dto
}

// buildSessionDTOs формирует список DTO сессий.
func buildSessionDTOs(sessions []*session.Session) []SessionDTO {
	if len(sessions) == 0 {
		return nil
	}
	out := make([]SessionDTO, len(sessions))
	for i, s := range sessions {
		out[i] = SessionDTO{
			ID:                 s.ID.String(),
			Status:             string(s.Status),
			StartsAt:           s.StartsAt,
			EndsAt:             s.EndsAt(),
			DurationMinutes:    s.DurationMinutes,
			Topic:              s.Topic,
			Description:        s.Description,
			MeetingLink:        s.MeetingLink,
			RequestedBy:        s.RequestedBy.String(),
			CancellationReason: s.CancellationReason,
		}
	}
	return out
}
