// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH MENTORS QUERY
// Подбирает подопечному доступных менторов. Каталог уже отфильтровывает
// неактивные учётные записи, чужой пол и менторов с открытой парой,
// поэтому каждая строка результата - кандидат, которому можно отправить
// запрос без отказа по политике подбора.
// ══════════════════════════════════════════════════════════════════════════════

// SearchMentorsQuery содержит параметры поиска менторов.
type SearchMentorsQuery struct {
	// ActorID - подопечный, который ищет наставника.
	ActorID string

	// Page - номер страницы (с единицы).
	Page int

	// PageSize - размер страницы.
	PageSize int
}

// Validate проверяет корректность параметров запроса.
func (q *SearchMentorsQuery) Validate() error {
	if q.ActorID == "" {
		return errors.New("actor_id is required")
	}
	return nil
}

// MentorCandidateDTO - кандидат в наставники.
type MentorCandidateDTO struct {
	// UserID - ID ментора.
	UserID string `json:"user_id"`

	// DisplayName - отображаемое имя.
	DisplayName string `json:"display_name"`

	// Bio - краткое описание профиля.
	Bio string `json:"bio,omitempty"`
}

// SearchMentorsResult содержит результат поиска менторов.
type SearchMentorsResult struct {
	// Mentors - кандидаты в наставники.
	Mentors []MentorCandidateDTO `json:"mentors"`

	// Page - номер страницы.
	Page int `json:"page"`

	// PageSize - размер страницы.
	PageSize int `json:"page_size"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// SearchMentorsHandler обрабатывает поиск менторов.
type SearchMentorsHandler struct {
	directory identity.Directory
}

// NewSearchMentorsHandler создаёт новый обработчик.
func NewSearchMentorsHandler(directory identity.Directory) *SearchMentorsHandler {
	return &SearchMentorsHandler{directory: directory}
}

// Handle выполняет поиск менторов.
func (h *SearchMentorsHandler) Handle(ctx context.Context, query SearchMentorsQuery) (*SearchMentorsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "SearchMentors", shared.ErrValidation, err.Error(), err)
	}

	actorID := shared.UserID(query.ActorID)

	mentee, err := h.directory.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !mentee.IsMentee() {
		return nil, shared.ErrRoleNotAllowed
	}
	if !mentee.IsActive() {
		return nil, shared.ErrUserNotActive
	}

	// Политика подбора требует известный пол. Без него подопечному
	// нечего показать.
	if !mentee.Gender.IsKnown() {
		return nil, shared.ErrMissingGender
	}

	pagination := shared.NewPagination(query.Page, query.PageSize)
	opts := identity.DefaultListOptions().
		WithOffset(pagination.Offset()).
		WithLimit(pagination.Limit())

	mentors, err := h.directory.SearchMentors(ctx, actorID, mentee.Gender, opts)
	if err != nil {
		return nil, err
	}

	dtos := make([]MentorCandidateDTO, len(mentors))
	for i, u := range mentors {
		dtos[i] = MentorCandidateDTO{
			UserID:      u.ID.String(),
			DisplayName: u.DisplayName,
			Bio:         u.Bio,
		}
	}

	return &SearchMentorsResult{
		Mentors:     dtos,
		Page:        pagination.Page,
		PageSize:    pagination.PageSize,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
