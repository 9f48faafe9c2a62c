package query

import (
	"context"
	"errors"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER QUERY
// Карточка пользователя из каталога. Движок читает каталог, но не
// изменяет его: источник истины - внешняя система регистрации.
// ══════════════════════════════════════════════════════════════════════════════

// GetUserQuery содержит параметры запроса пользователя.
type GetUserQuery struct {
	// UserID - идентификатор пользователя.
	UserID string
}

// Validate проверяет корректность параметров запроса.
func (q *GetUserQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user_id is required")
	}
	return nil
}

// UserDTO - карточка пользователя.
type UserDTO struct {
	// ID - идентификатор пользователя.
	ID string `json:"id"`

	// DisplayName - отображаемое имя.
	DisplayName string `json:"display_name"`

	// Email - адрес электронной почты.
	Email string `json:"email"`

	// Gender - атрибут пола (для политики подбора пар).
	Gender string `json:"gender,omitempty"`

	// Roles - роли пользователя.
	Roles []string `json:"roles"`

	// Active - активна ли учётная запись.
	Active bool `json:"active"`

	// Bio - краткое описание профиля.
	Bio string `json:"bio,omitempty"`
}

// GetUserResult содержит результат запроса пользователя.
type GetUserResult struct {
	// User - карточка пользователя.
	User UserDTO `json:"user"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetUserHandler обрабатывает запрос пользователя.
type GetUserHandler struct {
	directory identity.Directory
}

// NewGetUserHandler создаёт новый обработчик.
func NewGetUserHandler(directory identity.Directory) *GetUserHandler {
	return &GetUserHandler{directory: directory}
}

// Handle выполняет запрос пользователя.
func (h *GetUserHandler) Handle(ctx context.Context, query GetUserQuery) (*GetUserResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetUser", shared.ErrValidation, err.Error(), err)
	}

	u, err := h.directory.GetByID(ctx, shared.UserID(query.UserID))
	if err != nil {
		return nil, err
	}

	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = string(r)
	}

	return &GetUserResult{
		User: UserDTO{
			ID:          u.ID.String(),
			DisplayName: u.DisplayName,
			Email:       u.Email.String(),
			Gender:      string(u.Gender),
			Roles:       roles,
			Active:      u.IsActive(),
			Bio:         u.Bio,
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}
