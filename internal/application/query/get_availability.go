package query

import (
	"context"
	"errors"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/availability"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET AVAILABILITY QUERY
// Расписание доступности ментора: слоты в порядке показа, с понедельника.
// Слоты справочные и не блокируют бронирование сессий.
// ══════════════════════════════════════════════════════════════════════════════

// GetAvailabilityQuery содержит параметры запроса расписания.
type GetAvailabilityQuery struct {
	// MentorID - идентификатор ментора.
	MentorID string
}

// Validate проверяет корректность параметров запроса.
func (q *GetAvailabilityQuery) Validate() error {
	if q.MentorID == "" {
		return errors.New("mentor_id is required")
	}
	return nil
}

// AvailabilitySlotDTO - слот доступности в расписании.
type AvailabilitySlotDTO struct {
	// ID - идентификатор слота.
	ID string `json:"id"`

	// Weekday - день недели в нижнем регистре.
	Weekday string `json:"weekday"`

	// StartTime - начало слота (HH:MM).
	StartTime string `json:"start_time"`

	// EndTime - конец слота (HH:MM).
	EndTime string `json:"end_time"`

	// Recurring - повторяется ли слот еженедельно.
	Recurring bool `json:"recurring"`
}

// GetAvailabilityResult содержит расписание ментора.
type GetAvailabilityResult struct {
	// MentorID - идентификатор ментора.
	MentorID string `json:"mentor_id"`

	// Slots - слоты в порядке дня недели и времени начала.
	Slots []AvailabilitySlotDTO `json:"slots"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetAvailabilityHandler обрабатывает запрос расписания.
type GetAvailabilityHandler struct {
	repo availability.Repository
}

// NewGetAvailabilityHandler создаёт новый обработчик.
func NewGetAvailabilityHandler(repo availability.Repository) *GetAvailabilityHandler {
	return &GetAvailabilityHandler{repo: repo}
}

// Handle выполняет запрос расписания.
func (h *GetAvailabilityHandler) Handle(ctx context.Context, query GetAvailabilityQuery) (*GetAvailabilityResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetAvailability", shared.ErrValidation, err.Error(), err)
	}

	slots, err := h.repo.ListByMentor(ctx, shared.UserID(query.MentorID))
	if err != nil {
		return nil, err
	}

	dtos := make([]AvailabilitySlotDTO, len(slots))
	for i, s := range slots {
		dtos[i] = AvailabilitySlotDTO{
			ID:        s.ID,
			Weekday:   s.Weekday.String(),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Recurring: s.Recurring,
		}
	}

	return &GetAvailabilityResult{
		MentorID:    query.MentorID,
		Slots:       dtos,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
