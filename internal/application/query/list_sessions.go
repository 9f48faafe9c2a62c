// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST SESSIONS QUERY
// Календарное представление: сессии пользователя в заданном окне
// по всем его менторствам. Окно по умолчанию - от месяца назад до
// двух месяцев вперёд.
// ══════════════════════════════════════════════════════════════════════════════

// ListSessionsQuery содержит параметры запроса календаря сессий.
type ListSessionsQuery struct {
	// ActorID - чьи сессии запрашиваются.
	ActorID string

	// From - начало окна. Ноль - месяц назад.
	From time.Time

	// To - конец окна. Ноль - два месяца вперёд.
	To time.Time

	// Statuses - фильтр по статусам (пустой список - все).
	Statuses []string

	// Page - номер страницы (с единицы).
	Page int

	// PageSize - размер страницы.
	PageSize int
}

// Validate проверяет корректность параметров запроса.
func (q *ListSessionsQuery) Validate() error {
	if q.ActorID == "" {
		return errors.New("actor_id is required")
	}
	now := time.Now().UTC()
	if q.From.IsZero() {
		q.From = now.AddDate(0, -1, 0)
	}
	if q.To.IsZero() {
		q.To = now.AddDate(0, 2, 0)
	}
	if !q.From.Before(q.To) {
		return errors.New("from must be before to")
	}
	for _, s := range q.Statuses {
		if !session.Status(s).IsValid() {
			return errors.New("unknown status: " + s)
		}
	}
	return nil
}

// ListSessionsResult содержит результат запроса календаря.
type ListSessionsResult struct {
	// Sessions - сессии в окне, отсортированные по времени начала.
	Sessions []SessionDTO `json:"sessions"`

	// From - начало окна.
	From time.Time `json:"from"`

	// To - конец окна.
	To time.Time `json:"to"`

	// Page - номер страницы.
	Page int `json:"page"`

	// PageSize - размер страницы.
	PageSize int `json:"page_size"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// ListSessionsHandler обрабатывает запросы календаря сессий.
type ListSessionsHandler struct {
	sessionRepo session.Repository
}

// NewListSessionsHandler создаёт новый обработчик.
func NewListSessionsHandler(sessionRepo session.Repository) *ListSessionsHandler {
	return &ListSessionsHandler{sessionRepo: sessionRepo}
}

// Handle выполняет запрос календаря сессий.
func (h *ListSessionsHandler) Handle(ctx context.Context, query ListSessionsQuery) (*ListSessionsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "ListSessions", shared.ErrValidation, err.Error(), err)
	}

	rng := shared.TimeRange{From: query.From, To: query.To}

	pagination := shared.NewPagination(query.Page, query.PageSize)
	opts := session.DefaultListOptions().
		WithOffset(pagination.Offset()).
		WithLimit(pagination.Limit())
	if len(query.Statuses) > 0 {
		statuses := make([]session.Status, len(query.Statuses))
		for i, s := range query.Statuses {
			statuses[i] = session.Status(s)
		}
		opts = opts.WithStatuses(statuses...)
	}

	sessions, err := h.sessionRepo.ListInRange(ctx, shared.UserID(query.ActorID), rng, opts)
	if err != nil {
		return nil, err
	}

	return &ListSessionsResult{
		Sessions:    buildSessionDTOs(sessions),
		From:        query.From,
		To:          query.To,
		Page:        pagination.Page,
		PageSize:    pagination.PageSize,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
