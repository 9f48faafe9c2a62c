package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

func TestGetUser_ReturnsCard(t *testing.T) {
	u := activeUser(queryMentorID, "layla", identity.GenderFemale, identity.RoleMentor, identity.RoleMentee)
	u.Bio = "Backend engineer, 10 years"
	directory := &fakeDirectory{users: map[shared.UserID]*identity.User{u.ID: u}}
	handler := NewGetUserHandler(directory)

	result, err := handler.Handle(context.Background(), GetUserQuery{UserID: queryMentorID})

	assert.NoError(t, err)
	assert.Equal(t, queryMentorID, result.User.ID)
	assert.Equal(t, "layla", result.User.DisplayName)
	assert.Equal(t, []string{"mentor", "mentee"}, result.User.Roles)
	assert.True(t, result.User.Active)
	assert.Equal(t, "female", result.User.Gender)
}

func TestGetUser_NotFound(t *testing.T) {
	handler := NewGetUserHandler(&fakeDirectory{users: map[shared.UserID]*identity.User{}})

	_, err := handler.Handle(context.Background(), GetUserQuery{UserID: queryMentorID})

	assert.True(t, shared.IsNotFound(err))
}

func TestGetUser_EmptyID(t *testing.T) {
	handler := NewGetUserHandler(&fakeDirectory{})

	_, err := handler.Handle(context.Background(), GetUserQuery{})

	assert.ErrorIs(t, err, shared.ErrValidation)
}
