package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

func TestSearchMentors_ReturnsMatchingCandidates(t *testing.T) {
	mentee := activeUser(queryMenteeID, "amina", identity.GenderFemale, identity.RoleMentee)
	directory := &fakeDirectory{
		users: map[shared.UserID]*identity.User{mentee.ID: mentee},
		mentors: []*identity.User{
			activeUser(queryMentorID, "layla", identity.GenderFemale, identity.RoleMentor),
			activeUser("cccccccc-3333-4333-8333-333333333333", "omar", identity.GenderMale, identity.RoleMentor),
		},
	}
	handler := NewSearchMentorsHandler(directory)

	result, err := handler.Handle(context.Background(), SearchMentorsQuery{ActorID: queryMenteeID})

	assert.NoError(t, err)
	assert.Len(t, result.Mentors, 1)
	assert.Equal(t, "layla", result.Mentors[0].DisplayName)
}

func TestSearchMentors_MentorCannotSearch(t *testing.T) {
	mentor := activeUser(queryMentorID, "layla", identity.GenderFemale, identity.RoleMentor)
	directory := &fakeDirectory{users: map[shared.UserID]*identity.User{mentor.ID: mentor}}
	handler := NewSearchMentorsHandler(directory)

	_, err := handler.Handle(context.Background(), SearchMentorsQuery{ActorID: queryMentorID})

	assert.ErrorIs(t, err, shared.ErrRoleNotAllowed)
}

func TestSearchMentors_UnknownGenderRejected(t *testing.T) {
	mentee := activeUser(queryMenteeID, "amina", identity.GenderUnknown, identity.RoleMentee)
	directory := &fakeDirectory{users: map[shared.UserID]*identity.User{mentee.ID: mentee}}
	handler := NewSearchMentorsHandler(directory)

	_, err := handler.Handle(context.Background(), SearchMentorsQuery{ActorID: queryMenteeID})

	assert.ErrorIs(t, err, shared.ErrMissingGender)
}

func TestSearchMentors_InactiveMenteeRejected(t *testing.T) {
	mentee := activeUser(queryMenteeID, "amina", identity.GenderFemale, identity.RoleMentee)
	mentee.Status = identity.StatusSuspended
	directory := &fakeDirectory{users: map[shared.UserID]*identity.User{mentee.ID: mentee}}
	handler := NewSearchMentorsHandler(directory)

	_, err := handler.Handle(context.Background(), SearchMentorsQuery{ActorID: queryMenteeID})

	assert.ErrorIs(t, err, shared.ErrUserNotActive)
}
