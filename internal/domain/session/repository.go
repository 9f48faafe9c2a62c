// Package session содержит доменную модель менторской сессии.
package session

import (
	"context"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ListOptions определяет параметры для операций листинга.
type ListOptions struct {
	// Offset - смещение для пагинации.
	Offset int

	// Limit - максимальное количество результатов.
	Limit int

	// SortBy - поле для сортировки (starts_at, created_at).
	SortBy string

	// SortDesc - сортировка по убыванию.
	SortDesc bool

	// Statuses - фильтр по статусам (пустой срез - без фильтра).
	Statuses []Status
}

// DefaultListOptions возвращает параметры по умолчанию.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset:   0,
		Limit:    50,
		SortBy:   "starts_at",
		SortDesc: false,
	}
}

// WithOffset устанавливает смещение.
func (o ListOptions) WithOffset(offset int) ListOptions {
	o.Offset = offset
	return o
}

// WithLimit устанавливает лимит.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}

// WithStatuses устанавливает фильтр по статусам.
func (o ListOptions) WithStatuses(statuses ...Status) ListOptions {
	o.Statuses = statuses
	return o
}

// Repository определяет хранилище сессий.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────
	// CRUD
	// ─────────────────────────────────────────────────────────────────

	// Create сохраняет новую сессию.
	Create(ctx context.Context, s *Session) error

	// GetByID возвращает сессию по ID.
	// Возвращает shared.ErrSessionNotFound, если запись не найдена.
	GetByID(ctx context.Context, id shared.SessionID) (*Session, error)

	// Update сохраняет изменённую сессию. Запись обновляется,
	// только если её статус в хранилище всё ещё равен
	// PreviousStatus(); иначе возвращается shared.ErrSessionState
	// и конкурентный переход остаётся неизменным.
	Update(ctx context.Context, s *Session) error

	// ─────────────────────────────────────────────────────────────────
	// Проверка пересечений
	// ─────────────────────────────────────────────────────────────────

	// HasOverlap проверяет, пересекается ли интервал с какой-либо
	// резервирующей слот (pending или scheduled) сессией менторства.
	// Интервалы полуоткрытые: сессии встык пересечением не считаются.
	HasOverlap(ctx context.Context, mentorshipID shared.MentorshipID, interval shared.TimeRange) (bool, error)

	// ─────────────────────────────────────────────────────────────────
	// Листинг
	// ─────────────────────────────────────────────────────────────────

	// ListByMentorship возвращает сессии менторства.
	ListByMentorship(ctx context.Context, mentorshipID shared.MentorshipID, opts ListOptions) ([]*Session, error)

	// ListByUser возвращает сессии всех менторств, где пользователь -
	// одна из сторон.
	ListByUser(ctx context.Context, userID shared.UserID, opts ListOptions) ([]*Session, error)

	// ListInRange возвращает сессии пользователя, начинающиеся
	// в указанном интервале. Используется календарным представлением.
	ListInRange(ctx context.Context, userID shared.UserID, rng shared.TimeRange, opts ListOptions) ([]*Session, error)

	// ListUpcoming возвращает подтверждённые сессии, начинающиеся
	// в ближайшем окне. Используется напоминаниями.
	ListUpcoming(ctx context.Context, within time.Duration, opts ListOptions) ([]*Session, error)

	// ─────────────────────────────────────────────────────────────────
	// Статистика
	// ─────────────────────────────────────────────────────────────────

	// CountByStatus возвращает количество сессий в статусе.
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// CountByMentorship возвращает количество сессий менторства.
	CountByMentorship(ctx context.Context, mentorshipID shared.MentorshipID) (int64, error)

	// CountForUser возвращает количество сессий пользователя в указанных
	// статусах. Ненулевой after дополнительно требует начала позже него.
	// Используется статистикой профиля.
	CountForUser(ctx context.Context, userID shared.UserID, statuses []Status, after time.Time) (int64, error)
}

// UnitOfWork объединяет операции над сессиями в одну транзакцию.
// Проверка пересечения и вставка сессии должны выполняться атомарно,
// иначе два параллельных запроса забронируют один слот.
type UnitOfWork interface {
	// Sessions возвращает репозиторий, привязанный к транзакции.
	Sessions() Repository

	// Commit фиксирует транзакцию.
	Commit(ctx context.Context) error

	// Rollback откатывает транзакцию.
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory создаёт транзакции.
type UnitOfWorkFactory interface {
	// Begin открывает новую транзакцию.
	Begin(ctx context.Context) (UnitOfWork, error)
}
