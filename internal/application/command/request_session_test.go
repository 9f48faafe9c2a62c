package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/activity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

func tomorrowAt(hour int) time.Time {
	return time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour).Add(time.Duration(hour) * time.Minute)
}

func newRequestSessionFixture(m *mentorship.Mentorship) (*RequestSessionHandler, *fakeSessionRepo, *fakeAuditRepo, *fakePublisher) {
	sessionRepo := newFakeSessionRepo()
	audit := &fakeAuditRepo{}
	publisher := &fakePublisher{}
	handler := NewRequestSessionHandler(
		newFakeMentorshipRepo(m),
		&fakeSessionUoWFactory{repo: sessionRepo},
		audit,
		publisher,
		nil,
	)
	return handler, sessionRepo, audit, publisher
}

func TestRequestSession_MenteeProposalIsPending(t *testing.T) {
	handler, repo, audit, publisher := newRequestSessionFixture(activeMentorship())

	startsAt := tomorrowAt(0)
	result, err := handler.Handle(context.Background(), RequestSessionCommand{
		MentorshipID:    testMentorshipID,
		ActorID:         testMenteeID,
		StartsAt:        startsAt,
		DurationMinutes: 60,
		Topic:           "Error handling patterns",
		Description:     "Walk through wrapping and sentinel errors",
	})

	assert.NoError(t, err)
	assert.Equal(t, session.StatusPending, result.Status)
	assert.Equal(t, startsAt.Add(60*time.Minute), result.EndsAt)

	saved, err := repo.GetByID(context.Background(), shared.SessionID(result.SessionID))
	assert.NoError(t, err)
	assert.Equal(t, shared.UserID(testMenteeID), saved.RequestedBy)
	assert.Equal(t, "Walk through wrapping and sentinel errors", saved.Description)

	assert.Len(t, audit.entries, 1)
	assert.Equal(t, activity.ActionSessionRequested, audit.entries[0].Action)
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventSessionRequested, publisher.events[0].EventType())
}

func TestRequestSession_MentorProposalIsScheduled(t *testing.T) {
	handler, _, audit, publisher := newRequestSessionFixture(activeMentorship())

	result, err := handler.Handle(context.Background(), RequestSessionCommand{
		MentorshipID:    testMentorshipID,
		ActorID:         testMentorID,
		StartsAt:        tomorrowAt(0),
		DurationMinutes: 45,
	})

	assert.NoError(t, err)
	assert.Equal(t, session.StatusScheduled, result.Status)

	assert.Len(t, audit.entries, 1)
	assert.Equal(t, activity.ActionSessionScheduled, audit.entries[0].Action)
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventSessionScheduled, publisher.events[0].EventType())
}

func TestRequestSession_PendingMentorshipRejected(t *testing.T) {
	handler, _, _, _ := newRequestSessionFixture(pendingMentorship())

	_, err := handler.Handle(context.Background(), RequestSessionCommand{
		MentorshipID:    testMentorshipID,
		ActorID:         testMenteeID,
		StartsAt:        tomorrowAt(0),
		DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, shared.ErrMentorshipNotActive)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestRequestSession_OutsiderForbidden(t *testing.T) {
	handler, _, _, _ := newRequestSessionFixture(activeMentorship())

	_, err := handler.Handle(context.Background(), RequestSessionCommand{
		MentorshipID:    testMentorshipID,
		ActorID:         testOutsiderID,
		StartsAt:        tomorrowAt(0),
		DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestRequestSession_OverlapRejected(t *testing.T) {
	handler, repo, _, publisher := newRequestSessionFixture(activeMentorship())
	startsAt := tomorrowAt(0)
	existing := pendingSession(startsAt)
	repo.items[existing.ID] = existing

	// Starts half an hour into the existing hour-long session.
	_, err := handler.Handle(context.Background(), RequestSessionCommand{
		MentorshipID:    testMentorshipID,
		ActorID:         testMentorID,
		StartsAt:        startsAt.Add(30 * time.Minute),
		DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, shared.ErrSchedulingConflict)
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.Empty(t, publisher.events)
	assert.Len(t, repo.items, 1)
}

func TestRequestSession_BackToBackAllowed(t *testing.T) {
	handler, repo, _, _ := newRequestSessionFixture(activeMentorship())
	startsAt := tomorrowAt(0)
	existing := pendingSession(startsAt)
	repo.items[existing.ID] = existing

	// Starts exactly when the existing session ends.
	result, err := handler.Handle(context.Background(), RequestSessionCommand{
		MentorshipID:    testMentorshipID,
		ActorID:         testMenteeID,
		StartsAt:        existing.EndsAt(),
		DurationMinutes: 30,
	})

	assert.NoError(t, err)
	assert.Equal(t, session.StatusPending, result.Status)
	assert.Len(t, repo.items, 2)
}

func TestRequestSession_CancelledSlotCanBeRebooked(t *testing.T) {
	handler, repo, _, _ := newRequestSessionFixture(activeMentorship())
	startsAt := tomorrowAt(0)
	existing := pendingSession(startsAt)
	assert.NoError(t, existing.Cancel(shared.UserID(testMenteeID), "changed plans"))
	repo.items[existing.ID] = existing

	_, err := handler.Handle(context.Background(), RequestSessionCommand{
		MentorshipID:    testMentorshipID,
		ActorID:         testMenteeID,
		StartsAt:        startsAt,
		DurationMinutes: 60,
	})

	assert.NoError(t, err)
}

func TestRequestSession_PastStartRejected(t *testing.T) {
	handler, _, _, _ := newRequestSessionFixture(activeMentorship())

	_, err := handler.Handle(context.Background(), RequestSessionCommand{
		MentorshipID:    testMentorshipID,
		ActorID:         testMenteeID,
		StartsAt:        time.Now().UTC().Add(-time.Hour),
		DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, shared.ErrStartNotInFuture)
}

func TestRequestSession_DurationOutOfRange(t *testing.T) {
	handler, _, _, _ := newRequestSessionFixture(activeMentorship())

	_, err := handler.Handle(context.Background(), RequestSessionCommand{
		MentorshipID:    testMentorshipID,
		ActorID:         testMenteeID,
		StartsAt:        tomorrowAt(0),
		DurationMinutes: 10,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidDuration)

	_, err = handler.Handle(context.Background(), RequestSessionCommand{
		MentorshipID:    testMentorshipID,
		ActorID:         testMenteeID,
		StartsAt:        tomorrowAt(0),
		DurationMinutes: 300,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidDuration)
}

func TestRequestSession_UnknownMentorship(t *testing.T) {
	handler, _, _, _ := newRequestSessionFixture(activeMentorship())

	_, err := handler.Handle(context.Background(), RequestSessionCommand{
		MentorshipID:    testSessionID,
		ActorID:         testMenteeID,
		StartsAt:        tomorrowAt(0),
		DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
