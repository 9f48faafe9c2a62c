// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STATISTICS QUERY
// Агрегированная статистика менторств пользователя: сколько пар в каждой
// роли и в каждом исходе. Используется профилем пользователя.
// ══════════════════════════════════════════════════════════════════════════════

// GetStatisticsQuery содержит параметры запроса статистики.
type GetStatisticsQuery struct {
	// UserID - чья статистика запрашивается.
	UserID string
}

// Validate проверяет корректность параметров запроса.
func (q *GetStatisticsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user_id is required")
	}
	return nil
}

// StatisticsDTO - агрегированная статистика менторств.
type StatisticsDTO struct {
	// TotalAsMentor - всего менторств в роли наставника.
	TotalAsMentor int64 `json:"total_as_mentor"`

	// TotalAsMentee - всего менторств в роли подопечного.
	TotalAsMentee int64 `json:"total_as_mentee"`

	// Active - действующие менторства.
	Active int64 `json:"active"`

	// Completed - успешно завершённые.
	Completed int64 `json:"completed"`

	// Declined - отклонённые запросы.
	Declined int64 `json:"declined"`

	// Cancelled - прерванные менторства.
	Cancelled int64 `json:"cancelled"`

	// CompletionRate - доля завершённых среди закрытых (0.0 - 1.0).
	CompletionRate float64 `json:"completion_rate"`

	// SessionsCompleted - проведённые сессии во всех менторствах.
	SessionsCompleted int64 `json:"sessions_completed"`

	// SessionsUpcoming - подтверждённые сессии с началом в будущем.
	SessionsUpcoming int64 `json:"sessions_upcoming"`
}

// GetStatisticsResult содержит результат запроса статистики.
type GetStatisticsResult struct {
	// UserID - чья статистика.
	UserID string `json:"user_id"`

	// Statistics - агрегированные показатели.
	Statistics StatisticsDTO `json:"statistics"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetStatisticsHandler обрабатывает запросы статистики.
type GetStatisticsHandler struct {
	mentorshipRepo mentorship.Repository
	sessionRepo    session.Repository
}

// NewGetStatisticsHandler создаёт новый обработчик.
func NewGetStatisticsHandler(mentorshipRepo mentorship.Repository, sessionRepo session.Repository) *GetStatisticsHandler {
	return &GetStatisticsHandler{
		mentorshipRepo: mentorshipRepo,
		sessionRepo:    sessionRepo,
	}
}

// Handle выполняет запрос статистики.
func (h *GetStatisticsHandler) Handle(ctx context.Context, query GetStatisticsQuery) (*GetStatisticsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetStatistics", shared.ErrValidation, err.Error(), err)
	}

	stats, err := h.mentorshipRepo.GetStatistics(ctx, shared.UserID(query.UserID))
	if err != nil {
		return nil, err
	}

	dto := StatisticsDTO{
		TotalAsMentor: stats.TotalAsMentor,
		TotalAsMentee: stats.TotalAsMentee,
		Active:        stats.Active,
		Completed:     stats.Completed,
		Declined:      stats.Declined,
		Cancelled:     stats.Cancelled,
	}
	closed := stats.Completed + stats.Declined + stats.Cancelled
	if closed > 0 {
		dto.CompletionRate = float64(stats.Completed) / float64(closed)
	}

	userID := shared.UserID(query.UserID)

	completed, err := h.sessionRepo.CountForUser(ctx, userID, []session.Status{session.StatusCompleted}, time.Time{})
	if err != nil {
		return nil, err
	}
	dto.SessionsCompleted = completed

	upcoming, err := h.sessionRepo.CountForUser(ctx, userID, []session.Status{session.StatusScheduled}, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	dto.SessionsUpcoming = upcoming

	return &GetStatisticsResult{
		UserID:      query.UserID,
		Statistics:  dto,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
