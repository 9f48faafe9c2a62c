package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/activity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

func newRequestMentorshipFixture(users ...*identity.User) (*RequestMentorshipHandler, *fakeMentorshipRepo, *fakeAuditRepo, *fakePublisher) {
	repo := newFakeMentorshipRepo()
	audit := &fakeAuditRepo{}
	publisher := &fakePublisher{}
	handler := NewRequestMentorshipHandler(
		newFakeDirectory(users...),
		&fakeMentorshipUoWFactory{repo: repo},
		mentorship.NewSameGenderPolicy(),
		audit,
		publisher,
		nil,
	)
	return handler, repo, audit, publisher
}

func TestRequestMentorship_CreatesPendingRequest(t *testing.T) {
	handler, repo, audit, publisher := newRequestMentorshipFixture(
		activeUser(testMentorID, "female", identity.RoleMentor),
		activeUser(testMenteeID, "female", identity.RoleMentee),
	)

	result, err := handler.Handle(context.Background(), RequestMentorshipCommand{
		ActorID:  testMenteeID,
		MentorID: testMentorID,
	})

	assert.NoError(t, err)
	assert.Equal(t, mentorship.StatusPending, result.Status)
	assert.NotEmpty(t, result.MentorshipID)

	saved, err := repo.GetByID(context.Background(), shared.MentorshipID(result.MentorshipID))
	assert.NoError(t, err)
	assert.Equal(t, shared.UserID(testMentorID), saved.MentorID)
	assert.Equal(t, shared.UserID(testMenteeID), saved.MenteeID)

	assert.Len(t, audit.entries, 1)
	assert.Equal(t, activity.ActionMentorshipRequested, audit.entries[0].Action)

	assert.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventMentorshipRequested, publisher.events[0].EventType())
}

func TestRequestMentorship_DuplicateOpenPairRejected(t *testing.T) {
	handler, repo, _, publisher := newRequestMentorshipFixture(
		activeUser(testMentorID, "female", identity.RoleMentor),
		activeUser(testMenteeID, "female", identity.RoleMentee),
	)
	repo.items[shared.MentorshipID(testMentorshipID)] = pendingMentorship()

	_, err := handler.Handle(context.Background(), RequestMentorshipCommand{
		ActorID:  testMenteeID,
		MentorID: testMentorID,
	})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	assert.Empty(t, publisher.events)
}

func TestRequestMentorship_ClosedPairAllowsNewRequest(t *testing.T) {
	handler, repo, _, _ := newRequestMentorshipFixture(
		activeUser(testMentorID, "female", identity.RoleMentor),
		activeUser(testMenteeID, "female", identity.RoleMentee),
	)
	old := activeMentorship()
	assert.NoError(t, old.Complete(shared.UserID(testMenteeID)))
	repo.items[old.ID] = old

	result, err := handler.Handle(context.Background(), RequestMentorshipCommand{
		ActorID:  testMenteeID,
		MentorID: testMentorID,
	})

	assert.NoError(t, err)
	assert.Equal(t, mentorship.StatusPending, result.Status)
}

func TestRequestMentorship_GenderMismatchRejected(t *testing.T) {
	handler, _, _, publisher := newRequestMentorshipFixture(
		activeUser(testMentorID, "male", identity.RoleMentor),
		activeUser(testMenteeID, "female", identity.RoleMentee),
	)

	_, err := handler.Handle(context.Background(), RequestMentorshipCommand{
		ActorID:  testMenteeID,
		MentorID: testMentorID,
	})

	assert.ErrorIs(t, err, shared.ErrGenderMismatch)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, publisher.events)
}

func TestRequestMentorship_MissingGenderRejected(t *testing.T) {
	handler, _, _, _ := newRequestMentorshipFixture(
		activeUser(testMentorID, "", identity.RoleMentor),
		activeUser(testMenteeID, "female", identity.RoleMentee),
	)

	_, err := handler.Handle(context.Background(), RequestMentorshipCommand{
		ActorID:  testMenteeID,
		MentorID: testMentorID,
	})

	assert.ErrorIs(t, err, shared.ErrMissingGender)
}

func TestRequestMentorship_ActorWithoutMenteeRoleRejected(t *testing.T) {
	handler, _, _, _ := newRequestMentorshipFixture(
		activeUser(testMentorID, "female", identity.RoleMentor),
		activeUser(testMenteeID, "female", identity.RoleMentor),
	)

	_, err := handler.Handle(context.Background(), RequestMentorshipCommand{
		ActorID:  testMenteeID,
		MentorID: testMentorID,
	})

	assert.ErrorIs(t, err, shared.ErrRoleNotAllowed)
}

func TestRequestMentorship_TargetWithoutMentorRoleRejected(t *testing.T) {
	handler, _, _, _ := newRequestMentorshipFixture(
		activeUser(testMentorID, "female", identity.RoleMentee),
		activeUser(testMenteeID, "female", identity.RoleMentee),
	)

	_, err := handler.Handle(context.Background(), RequestMentorshipCommand{
		ActorID:  testMenteeID,
		MentorID: testMentorID,
	})

	assert.ErrorIs(t, err, shared.ErrRoleNotAllowed)
}

func TestRequestMentorship_InactiveMentorRejected(t *testing.T) {
	mentor := activeUser(testMentorID, "female", identity.RoleMentor)
	mentor.Status = identity.StatusSuspended
	handler, _, _, _ := newRequestMentorshipFixture(
		mentor,
		activeUser(testMenteeID, "female", identity.RoleMentee),
	)

	_, err := handler.Handle(context.Background(), RequestMentorshipCommand{
		ActorID:  testMenteeID,
		MentorID: testMentorID,
	})

	assert.ErrorIs(t, err, shared.ErrUserNotActive)
}

func TestRequestMentorship_UnknownMentorRejected(t *testing.T) {
	handler, _, _, _ := newRequestMentorshipFixture(
		activeUser(testMenteeID, "female", identity.RoleMentee),
	)

	_, err := handler.Handle(context.Background(), RequestMentorshipCommand{
		ActorID:  testMenteeID,
		MentorID: testMentorID,
	})

	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestRequestMentorship_SelfRequestRejected(t *testing.T) {
	handler, _, _, _ := newRequestMentorshipFixture(
		activeUser(testMenteeID, "female", identity.RoleMentor, identity.RoleMentee),
	)

	_, err := handler.Handle(context.Background(), RequestMentorshipCommand{
		ActorID:  testMenteeID,
		MentorID: testMenteeID,
	})

	assert.Error(t, err)
}

func TestRequestMentorship_RateLimited(t *testing.T) {
	repo := newFakeMentorshipRepo()
	limiter := &fakeRateLimiter{err: shared.ErrRateLimited}
	handler := NewRequestMentorshipHandler(
		newFakeDirectory(
			activeUser(testMentorID, "female", identity.RoleMentor),
			activeUser(testMenteeID, "female", identity.RoleMentee),
		),
		&fakeMentorshipUoWFactory{repo: repo},
		mentorship.NewSameGenderPolicy(),
		&fakeAuditRepo{},
		&fakePublisher{},
		limiter,
	)

	_, err := handler.Handle(context.Background(), RequestMentorshipCommand{
		ActorID:  testMenteeID,
		MentorID: testMentorID,
	})

	assert.ErrorIs(t, err, shared.ErrRateLimited)
	assert.Equal(t, 1, limiter.calls)
	assert.Empty(t, repo.items)
}

func TestRequestMentorship_ValidationErrors(t *testing.T) {
	handler, _, _, _ := newRequestMentorshipFixture()

	_, err := handler.Handle(context.Background(), RequestMentorshipCommand{MentorID: testMentorID})
	assert.Error(t, err)

	_, err = handler.Handle(context.Background(), RequestMentorshipCommand{ActorID: testMenteeID})
	assert.Error(t, err)
}
