// Package mentorship содержит доменную модель менторской связи.
package mentorship

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

	// SortBy - поле для сортировки (created_at, updated_at).
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
		SortBy:   "created_at",
		SortDesc: true,
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

// Statistics агрегирует показатели менторств пользователя.
type Statistics struct {
	// TotalAsMentor - всего менторств в роли наставника.
	TotalAsMentor int64

	// TotalAsMentee - всего менторств в роли подопечного.
	TotalAsMentee int64

	// Active - количество действующих менторств.
	Active int64

	// Completed - количество завершённых менторств.
	Completed int64

	// Declined - количество отклонённых запросов.
	Declined int64

	// Cancelled - количество прерванных менторств.
	Cancelled int64
}

// Repository определяет хранилище менторств.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────
	// CRUD
	// ─────────────────────────────────────────────────────────────────

	// Create сохраняет новое менторство.
	// Возвращает shared.ErrDuplicatePair, если для пары уже существует
	// открытое менторство.
	Create(ctx context.Context, m *Mentorship) error

	// GetByID возвращает менторство по ID.
	// Возвращает shared.ErrMentorshipNotFound, если запись не найдена.
	GetByID(ctx context.Context, id shared.MentorshipID) (*Mentorship, error)

	// Update сохраняет изменённое менторство. Запись обновляется,
	// только если её статус в хранилище всё ещё равен
	// PreviousStatus(); иначе возвращается shared.ErrMentorshipState
	// и конкурентный переход остаётся неизменным.
	Update(ctx context.Context, m *Mentorship) error

	// ─────────────────────────────────────────────────────────────────
	// Запросы пары
	// ─────────────────────────────────────────────────────────────────

	// FindOpenByPair возвращает открытое (pending или active) менторство
	// для пары, если оно существует. Возвращает shared.ErrMentorshipNotFound,
	// если открытого менторства нет.
	FindOpenByPair(ctx context.Context, mentorID, menteeID shared.UserID) (*Mentorship, error)

	// HasOpenPair проверяет существование открытого менторства для пары.
	HasOpenPair(ctx context.Context, mentorID, menteeID shared.UserID) (bool, error)

	// ─────────────────────────────────────────────────────────────────
	// Листинг
	// ─────────────────────────────────────────────────────────────────

	// ListByUser возвращает менторства, где пользователь - любая из сторон.
	ListByUser(ctx context.Context, userID shared.UserID, opts ListOptions) ([]*Mentorship, error)

	// ListByMentor возвращает менторства пользователя в роли наставника.
	ListByMentor(ctx context.Context, mentorID shared.UserID, opts ListOptions) ([]*Mentorship, error)

	// ListByMentee возвращает менторства пользователя в роли подопечного.
	ListByMentee(ctx context.Context, menteeID shared.UserID, opts ListOptions) ([]*Mentorship, error)

	// ListOpenMentorIDs возвращает ID менторов, с которыми у подопечного
	// есть открытое менторство. Используется поиском менторов.
	ListOpenMentorIDs(ctx context.Context, menteeID shared.UserID) ([]shared.UserID, error)

	// ListStaleRequests возвращает pending-запросы, созданные раньше
	// указанного момента. Используется напоминаниями.
	ListStaleRequests(ctx context.Context, olderThan time.Time, opts ListOptions) ([]*Mentorship, error)

	// ─────────────────────────────────────────────────────────────────
	// Статистика
	// ─────────────────────────────────────────────────────────────────

	// CountByStatus возвращает количество менторств в статусе.
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// GetStatistics возвращает агрегированную статистику пользователя.
	GetStatistics(ctx context.Context, userID shared.UserID) (*Statistics, error)
}

// UnitOfWork объединяет операции над менторствами в одну транзакцию.
// Проверка открытой пары и вставка новой записи должны выполняться
// атомарно, иначе два параллельных запроса создадут дубликат.
type UnitOfWork interface {
	// Mentorships возвращает репозиторий, привязанный к транзакции.
	Mentorships() Repository

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
