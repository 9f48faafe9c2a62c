// Package mentorship содержит доменную модель менторской связи.
package mentorship

import (
	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// PairingPolicy проверяет допустимость пары ментор-подопечный.
// Политика выполняется дважды: при создании запроса и повторно
// при принятии, потому что атрибуты профиля могли измениться.
type PairingPolicy interface {
	// Validate возвращает nil, если пара допустима.
	// Возвращает shared.ErrMissingGender, если у одной из сторон
	// атрибут пола не задан или не распознан, и shared.ErrGenderMismatch,
	// если атрибуты заданы, но различаются.
	Validate(mentor, mentee *identity.User) error
}

// SameGenderPolicy - политика подбора, требующая совпадения пола
// ментора и подопечного. Пол сравнивается в нормализованном виде,
// поэтому регистр исходного значения не играет роли.
type SameGenderPolicy struct{}

// NewSameGenderPolicy создаёт политику одного пола.
func NewSameGenderPolicy() *SameGenderPolicy {
	return &SameGenderPolicy{}
}

// Validate реализует PairingPolicy.
// Отсутствующий атрибут проверяется раньше несовпадения: если пол
// не задан хотя бы у одной стороны, возвращается ошибка отсутствия,
// а не несовпадения.
func (p *SameGenderPolicy) Validate(mentor, mentee *identity.User) error {
	mentorGender := identity.NewGender(mentor.Gender.String())
	menteeGender := identity.NewGender(mentee.Gender.String())
	if !mentorGender.IsKnown() || !menteeGender.IsKnown() {
		return shared.ErrMissingGender
	}
	if mentorGender != menteeGender {
		return shared.ErrGenderMismatch
	}
	return nil
}
