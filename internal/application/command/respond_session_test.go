package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/activity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

func scheduledSession(startsAt time.Time) *session.Session {
	s := pendingSession(startsAt)
	if err := s.Approve(); err != nil {
		panic(err)
	}
	return s
}

func TestRespondSession_ApproveSchedules(t *testing.T) {
	repo := newFakeSessionRepo(pendingSession(tomorrowAt(0)))
	audit := &fakeAuditRepo{}
	publisher := &fakePublisher{}
	handler := NewRespondSessionHandler(newFakeMentorshipRepo(activeMentorship()), repo, audit, publisher)

	result, err := handler.Handle(context.Background(), RespondSessionCommand{
		SessionID:   testSessionID,
		ActorID:     testMentorID,
		Approve:     true,
		MeetingLink: "https://meet.example.com/abc-defg",
	})

	assert.NoError(t, err)
	assert.Equal(t, session.StatusScheduled, result.Status)

	saved, _ := repo.GetByID(context.Background(), shared.SessionID(testSessionID))
	assert.Equal(t, session.StatusScheduled, saved.Status)
	assert.Equal(t, "https://meet.example.com/abc-defg", saved.MeetingLink)

	assert.Len(t, audit.entries, 1)
	assert.Equal(t, activity.ActionSessionScheduled, audit.entries[0].Action)
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventSessionScheduled, publisher.events[0].EventType())
}

func TestRespondSession_RejectCancelsWithReason(t *testing.T) {
	repo := newFakeSessionRepo(pendingSession(tomorrowAt(0)))
	audit := &fakeAuditRepo{}
	publisher := &fakePublisher{}
	handler := NewRespondSessionHandler(newFakeMentorshipRepo(activeMentorship()), repo, audit, publisher)

	result, err := handler.Handle(context.Background(), RespondSessionCommand{
		SessionID: testSessionID,
		ActorID:   testMentorID,
		Approve:   false,
		Reason:    "Travelling that week",
	})

	assert.NoError(t, err)
	assert.Equal(t, session.StatusCancelled, result.Status)

	saved, _ := repo.GetByID(context.Background(), shared.SessionID(testSessionID))
	assert.Equal(t, "Travelling that week", saved.CancellationReason)
	assert.NotNil(t, saved.CancelledBy)
	assert.Equal(t, shared.UserID(testMentorID), *saved.CancelledBy)

	assert.Len(t, audit.entries, 1)
	assert.Equal(t, activity.ActionSessionRejected, audit.entries[0].Action)
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventSessionRejected, publisher.events[0].EventType())
}

func TestRespondSession_MenteeCannotRespond(t *testing.T) {
	repo := newFakeSessionRepo(pendingSession(tomorrowAt(0)))
	handler := NewRespondSessionHandler(newFakeMentorshipRepo(activeMentorship()), repo, &fakeAuditRepo{}, &fakePublisher{})

	_, err := handler.Handle(context.Background(), RespondSessionCommand{
		SessionID: testSessionID,
		ActorID:   testMenteeID,
		Approve:   true,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)

	saved, _ := repo.GetByID(context.Background(), shared.SessionID(testSessionID))
	assert.Equal(t, session.StatusPending, saved.Status)
}

func TestRespondSession_ScheduledCannotBeAnswered(t *testing.T) {
	repo := newFakeSessionRepo(scheduledSession(tomorrowAt(0)))
	handler := NewRespondSessionHandler(newFakeMentorshipRepo(activeMentorship()), repo, &fakeAuditRepo{}, &fakePublisher{})

	_, err := handler.Handle(context.Background(), RespondSessionCommand{
		SessionID: testSessionID,
		ActorID:   testMentorID,
		Approve:   true,
	})

	assert.ErrorIs(t, err, shared.ErrStateTransition)
}

func TestRespondSession_UnknownSession(t *testing.T) {
	handler := NewRespondSessionHandler(newFakeMentorshipRepo(activeMentorship()), newFakeSessionRepo(), &fakeAuditRepo{}, &fakePublisher{})

	_, err := handler.Handle(context.Background(), RespondSessionCommand{
		SessionID: testSessionID,
		ActorID:   testMentorID,
		Approve:   true,
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCancelSession_MenteeCancelsPending(t *testing.T) {
	repo := newFakeSessionRepo(pendingSession(tomorrowAt(0)))
	audit := &fakeAuditRepo{}
	publisher := &fakePublisher{}
	handler := NewCancelSessionHandler(newFakeMentorshipRepo(activeMentorship()), repo, audit, publisher)

	result, err := handler.Handle(context.Background(), CancelSessionCommand{
		SessionID: testSessionID,
		ActorID:   testMenteeID,
		Reason:    "Conflicting exam",
	})

	assert.NoError(t, err)
	assert.Equal(t, session.StatusCancelled, result.Status)

	saved, _ := repo.GetByID(context.Background(), shared.SessionID(testSessionID))
	assert.Equal(t, "Conflicting exam", saved.CancellationReason)

	assert.Len(t, audit.entries, 1)
	assert.Equal(t, activity.ActionSessionCancelled, audit.entries[0].Action)
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventSessionCancelled, publisher.events[0].EventType())
}

func TestCancelSession_MentorCancelsScheduled(t *testing.T) {
	repo := newFakeSessionRepo(scheduledSession(tomorrowAt(0)))
	handler := NewCancelSessionHandler(newFakeMentorshipRepo(activeMentorship()), repo, &fakeAuditRepo{}, &fakePublisher{})

	result, err := handler.Handle(context.Background(), CancelSessionCommand{
		SessionID: testSessionID,
		ActorID:   testMentorID,
	})

	assert.NoError(t, err)
	assert.Equal(t, session.StatusCancelled, result.Status)
}

func TestCancelSession_OutsiderForbidden(t *testing.T) {
	repo := newFakeSessionRepo(pendingSession(tomorrowAt(0)))
	handler := NewCancelSessionHandler(newFakeMentorshipRepo(activeMentorship()), repo, &fakeAuditRepo{}, &fakePublisher{})

	_, err := handler.Handle(context.Background(), CancelSessionCommand{
		SessionID: testSessionID,
		ActorID:   testOutsiderID,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCancelSession_TerminalStateRejected(t *testing.T) {
	done := scheduledSession(tomorrowAt(0))
	assert.NoError(t, done.Complete())
	repo := newFakeSessionRepo(done)
	handler := NewCancelSessionHandler(newFakeMentorshipRepo(activeMentorship()), repo, &fakeAuditRepo{}, &fakePublisher{})

	_, err := handler.Handle(context.Background(), CancelSessionCommand{
		SessionID: testSessionID,
		ActorID:   testMentorID,
	})

	assert.ErrorIs(t, err, shared.ErrStateTransition)
}

func TestCompleteSession_ScheduledBecomesCompleted(t *testing.T) {
	repo := newFakeSessionRepo(scheduledSession(tomorrowAt(0)))
	audit := &fakeAuditRepo{}
	publisher := &fakePublisher{}
	handler := NewCompleteSessionHandler(newFakeMentorshipRepo(activeMentorship()), repo, audit, publisher)

	result, err := handler.Handle(context.Background(), CompleteSessionCommand{
		SessionID: testSessionID,
		ActorID:   testMenteeID,
	})

	assert.NoError(t, err)
	assert.Equal(t, session.StatusCompleted, result.Status)

	assert.Len(t, audit.entries, 1)
	assert.Equal(t, activity.ActionSessionCompleted, audit.entries[0].Action)
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventSessionCompleted, publisher.events[0].EventType())
}

func TestCompleteSession_PendingCannotBeCompleted(t *testing.T) {
	repo := newFakeSessionRepo(pendingSession(tomorrowAt(0)))
	handler := NewCompleteSessionHandler(newFakeMentorshipRepo(activeMentorship()), repo, &fakeAuditRepo{}, &fakePublisher{})

	_, err := handler.Handle(context.Background(), CompleteSessionCommand{
		SessionID: testSessionID,
		ActorID:   testMentorID,
	})

	assert.ErrorIs(t, err, shared.ErrStateTransition)
}

func TestRespondSession_StaleDecisionRejected(t *testing.T) {
	repo := newFakeSessionRepo(pendingSession(tomorrowAt(0)))
	ctx := context.Background()
	id := shared.SessionID(testSessionID)

	first, err := repo.GetByID(ctx, id)
	assert.NoError(t, err)
	second, err := repo.GetByID(ctx, id)
	assert.NoError(t, err)

	assert.NoError(t, first.Reject(shared.UserID(testMentorID), "Travelling"))
	assert.NoError(t, repo.Update(ctx, first))

	// The stale copy still sees a pending request, so the domain guard
	// passes. The store rejects the write: the row is no longer pending.
	assert.NoError(t, second.Approve())
	assert.ErrorIs(t, repo.Update(ctx, second), shared.ErrSessionState)

	saved, _ := repo.GetByID(ctx, id)
	assert.Equal(t, session.StatusCancelled, saved.Status)
}
