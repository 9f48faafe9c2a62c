// Package identity содержит доменную модель пользователя платформы менторства.
// Учётные записи создаются и изменяются внешней системой регистрации —
// движок менторства читает их, но никогда не модифицирует.
package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Gender представляет атрибут пола пользователя.
// Значение нормализуется к нижнему регистру при создании.
type Gender string

const (
	// GenderMale - мужской пол.
	GenderMale Gender = "male"
	// GenderFemale - женский пол.
	GenderFemale Gender = "female"
	// GenderUnknown - атрибут не задан или не распознан.
	GenderUnknown Gender = ""
)

// NewGender нормализует произвольную строку к известному значению пола.
// Любая строка, не равная "male" или "female" после нормализации,
// трактуется как GenderUnknown.
func NewGender(raw string) Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male":
		return GenderMale
	case "female":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// IsKnown возвращает true, если пол задан и распознан.
func (g Gender) IsKnown() bool {
	return g == GenderMale || g == GenderFemale
}

// String возвращает строковое представление.
func (g Gender) String() string {
	return string(g)
}

// Email представляет адрес электронной почты пользователя.
type Email string

// IsValid проверяет минимальную корректность адреса.
func (e Email) IsValid() bool {
	s := string(e)
	at := strings.Index(s, "@")
	return len(s) >= 5 && len(s) <= 254 && at > 0 && at < len(s)-3 && !strings.ContainsAny(s, " \t\n\r")
}

// String возвращает строковое представление.
func (e Email) String() string {
	return string(e)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Role определяет роль пользователя на платформе.
type Role string

const (
	// RoleMentor - наставник, принимает запросы менторства.
	RoleMentor Role = "mentor"
	// RoleMentee - подопечный, инициирует запросы менторства.
	RoleMentee Role = "mentee"
	// RoleAdmin - администратор платформы.
	RoleAdmin Role = "admin"
)

// IsValid проверяет корректность роли.
func (r Role) IsValid() bool {
	switch r {
	case RoleMentor, RoleMentee, RoleAdmin:
		return true
	default:
		return false
	}
}

// Status определяет статус учётной записи.
type Status string

const (
	// StatusActive - учётная запись активна.
	StatusActive Status = "active"
	// StatusInactive - учётная запись деактивирована.
	StatusInactive Status = "inactive"
	// StatusSuspended - учётная запись временно заблокирована.
	StatusSuspended Status = "suspended"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	default:
		return false
	}
}

// IsActive возвращает true, если учётная запись активна.
func (s Status) IsActive() bool {
	return s == StatusActive
}

// CanReceiveNotifications возвращает true, если пользователю можно слать уведомления.
func (s Status) CanReceiveNotifications() bool {
	return s == StatusActive
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER
// ══════════════════════════════════════════════════════════════════════════════

// User - пользователь платформы менторства.
// Запись read-only с точки зрения движка: источник истины - внешняя
// система регистрации.
type User struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID shared.UserID

	// DisplayName - отображаемое имя.
	DisplayName string

	// Email - адрес электронной почты для уведомлений.
	Email Email

	// Gender - атрибут пола (используется политикой подбора пар).
	Gender Gender

	// Roles - роли пользователя. Пользователь может быть одновременно
	// ментором и подопечным.
	Roles []Role

	// Status - статус учётной записи.
	Status Status

	// Bio - краткое описание профиля.
	Bio string

	// CreatedAt - когда создана учётная запись.
	CreatedAt time.Time

	// UpdatedAt - когда запись обновлялась в последний раз.
	UpdatedAt time.Time
}

// HasRole проверяет наличие роли у пользователя.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsMentor возвращает true, если пользователь может выступать наставником.
func (u *User) IsMentor() bool {
	return u.HasRole(RoleMentor)
}

// IsMentee возвращает true, если пользователь может выступать подопечным.
func (u *User) IsMentee() bool {
	return u.HasRole(RoleMentee)
}

// IsActive возвращает true, если учётная запись активна.
func (u *User) IsActive() bool {
	return u.Status.IsActive()
}

// String возвращает строковое представление для логирования.
func (u *User) String() string {
	return fmt.Sprintf(
		"User{ID: %s, Name: %s, Roles: %v, Status: %s}",
		u.ID, u.DisplayName, u.Roles, u.Status,
	)
}

// Clone создаёт копию пользователя.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = make([]Role, len(u.Roles))
	copy(clone.Roles, u.Roles)
	return &clone
}
