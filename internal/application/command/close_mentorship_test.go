package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/activity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

func TestCancelMentorship_EitherPartyCanCancelPending(t *testing.T) {
	repo := newFakeMentorshipRepo(pendingMentorship())
	audit := &fakeAuditRepo{}
	publisher := &fakePublisher{}
	handler := NewCancelMentorshipHandler(repo, audit, publisher)

	result, err := handler.Handle(context.Background(), CancelMentorshipCommand{
		MentorshipID: testMentorshipID,
		ActorID:      testMenteeID,
	})

	assert.NoError(t, err)
	assert.Equal(t, mentorship.StatusCancelled, result.Status)

	saved, _ := repo.GetByID(context.Background(), shared.MentorshipID(testMentorshipID))
	assert.Equal(t, shared.UserID(testMenteeID), *saved.ClosedBy)

	assert.Len(t, audit.entries, 1)
	assert.Equal(t, activity.ActionMentorshipCancelled, audit.entries[0].Action)
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventMentorshipCancelled, publisher.events[0].EventType())
}

func TestCancelMentorship_MentorCanCancelActive(t *testing.T) {
	repo := newFakeMentorshipRepo(activeMentorship())
	handler := NewCancelMentorshipHandler(repo, &fakeAuditRepo{}, &fakePublisher{})

	result, err := handler.Handle(context.Background(), CancelMentorshipCommand{
		MentorshipID: testMentorshipID,
		ActorID:      testMentorID,
	})

	assert.NoError(t, err)
	assert.Equal(t, mentorship.StatusCancelled, result.Status)
}

func TestCancelMentorship_OutsiderForbidden(t *testing.T) {
	repo := newFakeMentorshipRepo(pendingMentorship())
	handler := NewCancelMentorshipHandler(repo, &fakeAuditRepo{}, &fakePublisher{})

	_, err := handler.Handle(context.Background(), CancelMentorshipCommand{
		MentorshipID: testMentorshipID,
		ActorID:      testOutsiderID,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCancelMentorship_TerminalStateRejected(t *testing.T) {
	closed := activeMentorship()
	assert.NoError(t, closed.Complete(shared.UserID(testMentorID)))
	repo := newFakeMentorshipRepo(closed)
	handler := NewCancelMentorshipHandler(repo, &fakeAuditRepo{}, &fakePublisher{})

	_, err := handler.Handle(context.Background(), CancelMentorshipCommand{
		MentorshipID: testMentorshipID,
		ActorID:      testMentorID,
	})

	assert.ErrorIs(t, err, shared.ErrStateTransition)
}

func TestCompleteMentorship_ActiveBecomesCompleted(t *testing.T) {
	repo := newFakeMentorshipRepo(activeMentorship())
	audit := &fakeAuditRepo{}
	publisher := &fakePublisher{}
	handler := NewCompleteMentorshipHandler(repo, audit, publisher)

	result, err := handler.Handle(context.Background(), CompleteMentorshipCommand{
		MentorshipID: testMentorshipID,
		ActorID:      testMenteeID,
	})

	assert.NoError(t, err)
	assert.Equal(t, mentorship.StatusCompleted, result.Status)

	saved, _ := repo.GetByID(context.Background(), shared.MentorshipID(testMentorshipID))
	assert.NotNil(t, saved.ClosedAt)

	assert.Len(t, audit.entries, 1)
	assert.Equal(t, activity.ActionMentorshipCompleted, audit.entries[0].Action)
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventMentorshipCompleted, publisher.events[0].EventType())
}

func TestCompleteMentorship_PendingCannotBeCompleted(t *testing.T) {
	repo := newFakeMentorshipRepo(pendingMentorship())
	handler := NewCompleteMentorshipHandler(repo, &fakeAuditRepo{}, &fakePublisher{})

	_, err := handler.Handle(context.Background(), CompleteMentorshipCommand{
		MentorshipID: testMentorshipID,
		ActorID:      testMentorID,
	})

	assert.ErrorIs(t, err, shared.ErrStateTransition)
}
