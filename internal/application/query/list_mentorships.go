// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST MENTORSHIPS QUERY
// Возвращает менторства пользователя с фильтром по роли и статусам.
// Используется экранами "мои подопечные" и "мой наставник".
// ══════════════════════════════════════════════════════════════════════════════

// RoleFilter ограничивает выборку одной из сторон.
type RoleFilter string

const (
	// RoleFilterAny - менторства, где пользователь любая из сторон.
	RoleFilterAny RoleFilter = ""

	// RoleFilterMentor - только менторства в роли наставника.
	RoleFilterMentor RoleFilter = "mentor"

	// RoleFilterMentee - только менторства в роли подопечного.
	RoleFilterMentee RoleFilter = "mentee"
)

// ListMentorshipsQuery содержит параметры запроса списка менторств.
type ListMentorshipsQuery struct {
	// ActorID - чьи менторства запрашиваются.
	ActorID string

	// Role - фильтр по стороне пары.
	Role RoleFilter

	// Statuses - фильтр по статусам (пустой список - все).
	Statuses []string

	// Page - номер страницы (с единицы).
	Page int

	// PageSize - размер страницы.
	PageSize int
}

// Validate проверяет корректность параметров запроса.
func (q *ListMentorshipsQuery) Validate() error {
	if q.ActorID == "" {
		return errors.New("actor_id is required")
	}
	switch q.Role {
	case RoleFilterAny, RoleFilterMentor, RoleFilterMentee:
	default:
		return errors.New("role must be mentor, mentee or empty")
	}
	for _, s := range q.Statuses {
		if !mentorship.Status(s).IsValid() {
			return errors.New("unknown status: " + s)
		}
	}
	return nil
}

// MentorshipListItemDTO - строка списка менторств.
type MentorshipListItemDTO struct {
	// ID - идентификатор менторства.
	ID string `json:"id"`

	// Status - текущий статус.
	Status string `json:"status"`

	// CounterpartID - ID второй стороны.
	CounterpartID string `json:"counterpart_id"`

	// CounterpartName - имя второй стороны.
	CounterpartName string `json:"counterpart_name,omitempty"`

	// ActorIsMentor - является ли запрашивающий наставником в этой паре.
	ActorIsMentor bool `json:"actor_is_mentor"`

	// CreatedAt - когда создан запрос.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt - последнее изменение.
	UpdatedAt time.Time `json:"updated_at"`
}

// ListMentorshipsResult содержит результат запроса списка менторств.
type ListMentorshipsResult struct {
	// Items - строки списка.
	Items []MentorshipListItemDTO `json:"items"`

	// Page - номер страницы.
	Page int `json:"page"`

	// PageSize - размер страницы.
	PageSize int `json:"page_size"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// ListMentorshipsHandler обрабатывает запросы списка менторств.
type ListMentorshipsHandler struct {
	mentorshipRepo mentorship.Repository
	directory      identity.Directory
}

// NewListMentorshipsHandler создаёт новый обработчик.
func NewListMentorshipsHandler(
	mentorshipRepo mentorship.Repository,
	directory identity.Directory,
) *ListMentorshipsHandler {
	return &ListMentorshipsHandler{
		mentorshipRepo: mentorshipRepo,
		directory:      directory,
	}
}

// Handle выполняет запрос списка менторств.
func (h *ListMentorshipsHandler) Handle(ctx context.Context, query ListMentorshipsQuery) (*ListMentorshipsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "ListMentorships", shared.ErrValidation, err.Error(), err)
	}

	pagination := shared.NewPagination(query.Page, query.PageSize)
	opts := mentorship.DefaultListOptions().
		WithOffset(pagination.Offset()).
		WithLimit(pagination.Limit())
	if len(query.Statuses) > 0 {
		statuses := make([]mentorship.Status, len(query.Statuses))
		for i, s := range query.Statuses {
			statuses[i] = mentorship.Status(s)
		}
		opts = opts.WithStatuses(statuses...)
	}

	actorID := shared.UserID(query.ActorID)

	var (
		items []*mentorship.Mentorship
		err   error
	)
	switch query.Role {
	case RoleFilterMentor:
		items, err = h.mentorshipRepo.ListByMentor(ctx, actorID, opts)
	case RoleFilterMentee:
		items, err = h.mentorshipRepo.ListByMentee(ctx, actorID, opts)
	default:
		items, err = h.mentorshipRepo.ListByUser(ctx, actorID, opts)
	}
	if err != nil {
		return nil, err
	}

	names := h.counterpartNames(ctx, actorID, items)

	dtos := make([]MentorshipListItemDTO, len(items))
	for i, m := range items {
		counterpart := m.OtherParty(actorID)
		dtos[i] = MentorshipListItemDTO{
			ID:              m.ID.String(),
			Status:          string(m.Status),
			CounterpartID:   counterpart.String(),
			CounterpartName: names[counterpart],
			ActorIsMentor:   m.MentorID == actorID,
			CreatedAt:       m.CreatedAt,
			UpdatedAt:       m.UpdatedAt,
		}
	}

	return &ListMentorshipsResult{
		Items:       dtos,
		Page:        pagination.Page,
		PageSize:    pagination.PageSize,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// counterpartNames добирает имена вторых сторон одним запросом к каталогу.
func (h *ListMentorshipsHandler) counterpartNames(ctx context.Context, actorID shared.UserID, items []*mentorship.Mentorship) map[shared.UserID]string {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[shared.UserID]struct{}, len(items))
	ids := make([]shared.UserID, 0, len(items))
	for _, m := range items {
		id := m.OtherParty(actorID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	users, err := h.directory.GetByIDs(ctx, ids)
	if err != nil {
		return nil
	}

	names := make(map[shared.UserID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.DisplayName
	}
	return names
}
