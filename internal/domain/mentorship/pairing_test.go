package mentorship

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

func userWithGender(id shared.UserID, rawGender string) *identity.User {
	return &identity.User{
		ID:     id,
		Gender: identity.NewGender(rawGender),
		Roles:  []identity.Role{identity.RoleMentor, identity.RoleMentee},
		Status: identity.StatusActive,
	}
}

func TestSameGenderPolicy_MatchingGenders(t *testing.T) {
	policy := NewSameGenderPolicy()

	mentor := userWithGender(testMentorID, "female")
	mentee := userWithGender(testMenteeID, "female")

	assert.NoError(t, policy.Validate(mentor, mentee))
}

func TestSameGenderPolicy_CaseInsensitive(t *testing.T) {
	policy := NewSameGenderPolicy()

	mentor := userWithGender(testMentorID, "Male")
	mentee := userWithGender(testMenteeID, "MALE")

	assert.NoError(t, policy.Validate(mentor, mentee))
}

func TestSameGenderPolicy_UnnormalizedValues(t *testing.T) {
	policy := NewSameGenderPolicy()

	// Gender values that bypassed NewGender, such as legacy cache payloads.
	mentor := &identity.User{ID: testMentorID, Gender: identity.Gender("Male")}
	mentee := &identity.User{ID: testMenteeID, Gender: identity.Gender("male")}

	assert.NoError(t, policy.Validate(mentor, mentee))

	mentee.Gender = identity.Gender("FEMALE")
	assert.ErrorIs(t, policy.Validate(mentor, mentee), shared.ErrGenderMismatch)
}

func TestSameGenderPolicy_Mismatch(t *testing.T) {
	policy := NewSameGenderPolicy()

	mentor := userWithGender(testMentorID, "male")
	mentee := userWithGender(testMenteeID, "female")

	err := policy.Validate(mentor, mentee)
	assert.ErrorIs(t, err, shared.ErrGenderMismatch)
}

func TestSameGenderPolicy_MissingGender(t *testing.T) {
	policy := NewSameGenderPolicy()

	mentor := userWithGender(testMentorID, "")
	mentee := userWithGender(testMenteeID, "female")

	err := policy.Validate(mentor, mentee)
	assert.ErrorIs(t, err, shared.ErrMissingGender)
}

func TestSameGenderPolicy_UnrecognizedGenderTreatedAsMissing(t *testing.T) {
	policy := NewSameGenderPolicy()

	mentor := userWithGender(testMentorID, "other")
	mentee := userWithGender(testMenteeID, "female")

	err := policy.Validate(mentor, mentee)
	assert.ErrorIs(t, err, shared.ErrMissingGender)
	assert.NotErrorIs(t, err, shared.ErrGenderMismatch)
}

func TestSameGenderPolicy_MissingWinsOverMismatch(t *testing.T) {
	policy := NewSameGenderPolicy()

	// Both sides are unset: the missing-attribute error is reported,
	// never a mismatch.
	mentor := userWithGender(testMentorID, "")
	mentee := userWithGender(testMenteeID, "")

	err := policy.Validate(mentor, mentee)
	assert.ErrorIs(t, err, shared.ErrMissingGender)
}

func TestSameGenderPolicy_ViolationIsForbidden(t *testing.T) {
	policy := NewSameGenderPolicy()

	mentor := userWithGender(testMentorID, "male")
	mentee := userWithGender(testMenteeID, "female")

	err := policy.Validate(mentor, mentee)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestSameGenderPolicy_ViolationMatchesPairingSentinel(t *testing.T) {
	policy := NewSameGenderPolicy()

	mismatch := policy.Validate(userWithGender(testMentorID, "male"), userWithGender(testMenteeID, "female"))
	assert.ErrorIs(t, mismatch, shared.ErrPairingViolation)
	assert.True(t, shared.IsPairingViolation(mismatch))

	missing := policy.Validate(userWithGender(testMentorID, ""), userWithGender(testMenteeID, "female"))
	assert.ErrorIs(t, missing, shared.ErrPairingViolation)
	assert.ErrorIs(t, missing, shared.ErrForbidden)
}
