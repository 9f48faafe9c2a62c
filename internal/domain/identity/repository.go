// Package identity содержит доменную модель пользователя платформы менторства.
package identity

import (
	"context"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ListOptions определяет параметры для операций листинга.
type ListOptions struct {
	// Offset - смещение для пагинации.
	Offset int

	// Limit - максимальное количество результатов.
	Limit int

	// SortBy - поле для сортировки (display_name, created_at).
	SortBy string

	// SortDesc - сортировка по убыванию.
	SortDesc bool

	// IncludeInactive - включать ли неактивные учётные записи.
	IncludeInactive bool
}

// DefaultListOptions возвращает параметры по умолчанию.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset:   0,
		Limit:    50,
		SortBy:   "display_name",
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

// WithSort устанавливает сортировку.
func (o ListOptions) WithSort(field string, desc bool) ListOptions {
	o.SortBy = field
	o.SortDesc = desc
	return o
}

// WithInactive включает неактивные учётные записи в выборку.
func (o ListOptions) WithInactive() ListOptions {
	o.IncludeInactive = true
	return o
}

// Directory определяет read-only доступ к учётным записям.
// Записи принадлежат внешней системе регистрации, поэтому интерфейс
// намеренно не содержит мутирующих операций.
type Directory interface {
	// ─────────────────────────────────────────────────────────────────
	// Чтение
	// ─────────────────────────────────────────────────────────────────

	// GetByID возвращает пользователя по внутреннему ID.
	// Возвращает shared.ErrUserNotFound, если пользователь не найден.
	GetByID(ctx context.Context, id shared.UserID) (*User, error)

	// GetByEmail возвращает пользователя по адресу почты.
	GetByEmail(ctx context.Context, email Email) (*User, error)

	// GetByIDs возвращает пользователей по списку ID.
	// Отсутствующие ID молча пропускаются.
	GetByIDs(ctx context.Context, ids []shared.UserID) ([]*User, error)

	// ─────────────────────────────────────────────────────────────────
	// Листинг и поиск
	// ─────────────────────────────────────────────────────────────────

	// List возвращает пользователей с пагинацией.
	List(ctx context.Context, opts ListOptions) ([]*User, error)

	// ListByRole возвращает пользователей с указанной ролью.
	ListByRole(ctx context.Context, role Role, opts ListOptions) ([]*User, error)

	// SearchMentors возвращает активных менторов указанного пола,
	// исключая тех, с кем у подопечного уже есть открытое менторство.
	SearchMentors(ctx context.Context, menteeID shared.UserID, gender Gender, opts ListOptions) ([]*User, error)

	// ─────────────────────────────────────────────────────────────────
	// Существование и подсчёт
	// ─────────────────────────────────────────────────────────────────

	// Exists проверяет существование пользователя.
	Exists(ctx context.Context, id shared.UserID) (bool, error)

	// Count возвращает общее количество пользователей.
	Count(ctx context.Context) (int64, error)

	// CountByRole возвращает количество пользователей с ролью.
	CountByRole(ctx context.Context, role Role) (int64, error)
}

// Cache определяет кеш пользователей для быстрого чтения.
type Cache interface {
	// Get возвращает пользователя из кеша.
	Get(ctx context.Context, id shared.UserID) (*User, error)

	// Set сохраняет пользователя в кеш.
	Set(ctx context.Context, user *User) error

	// Delete удаляет пользователя из кеша.
	Delete(ctx context.Context, id shared.UserID) error

	// Clear очищает кеш пользователей полностью.
	Clear(ctx context.Context) error
}
