package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

const (
	testSessionID    = shared.SessionID("7c2e5d1a-9b8f-4e3c-a6d0-1f2e3d4c5b6a")
	testMentorshipID = shared.MentorshipID("5b9f1c2e-4a3d-4f6b-8a1c-0d9e8f7a6b5c")
	testMentorID     = shared.UserID("11111111-1111-4111-8111-111111111111")
	testMenteeID     = shared.UserID("22222222-2222-4222-8222-222222222222")
)

func sessionParams(startsAt time.Time, minutes int, byMentor bool) NewSessionParams {
	requestedBy := testMenteeID
	if byMentor {
		requestedBy = testMentorID
	}
	return NewSessionParams{
		ID:               testSessionID,
		MentorshipID:     testMentorshipID,
		RequestedBy:      requestedBy,
		StartsAt:         startsAt,
		DurationMinutes:  minutes,
		Topic:            "goroutines and channels",
		AuthoredByMentor: byMentor,
	}
}

func tomorrow() time.Time {
	return time.Now().UTC().Add(24 * time.Hour)
}

func TestNewSession_MenteeAuthoredIsPending(t *testing.T) {
	s, err := NewSession(sessionParams(tomorrow(), 60, false))
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, s.Status)
	assert.Equal(t, testMenteeID, s.RequestedBy)
}

func TestNewSession_MentorAuthoredIsScheduled(t *testing.T) {
	s, err := NewSession(sessionParams(tomorrow(), 60, true))
	assert.NoError(t, err)
	assert.Equal(t, StatusScheduled, s.Status)
	assert.Equal(t, testMentorID, s.RequestedBy)
}

func TestNewSession_StartMustBeFuture(t *testing.T) {
	_, err := NewSession(sessionParams(time.Now().UTC().Add(-time.Hour), 60, false))
	assert.ErrorIs(t, err, shared.ErrStartNotInFuture)

	// Start exactly now is not strictly in the future.
	_, err = NewSession(sessionParams(time.Now().UTC(), 60, false))
	assert.ErrorIs(t, err, shared.ErrStartNotInFuture)
}

func TestNewSession_DurationBounds(t *testing.T) {
	_, err := NewSession(sessionParams(tomorrow(), 14, false))
	assert.ErrorIs(t, err, shared.ErrInvalidDuration)

	_, err = NewSession(sessionParams(tomorrow(), 241, false))
	assert.ErrorIs(t, err, shared.ErrInvalidDuration)

	s, err := NewSession(sessionParams(tomorrow(), 15, false))
	assert.NoError(t, err)
	assert.Equal(t, 15, s.DurationMinutes)

	s, err = NewSession(sessionParams(tomorrow(), 240, false))
	assert.NoError(t, err)
	assert.Equal(t, 240, s.DurationMinutes)
}

func TestSession_EndsAt(t *testing.T) {
	start := tomorrow()
	s, err := NewSession(sessionParams(start, 90, true))
	assert.NoError(t, err)
	assert.Equal(t, start.Add(90*time.Minute), s.EndsAt())
}

func TestSession_Approve(t *testing.T) {
	s, err := NewSession(sessionParams(tomorrow(), 60, false))
	assert.NoError(t, err)

	assert.NoError(t, s.Approve())
	assert.Equal(t, StatusScheduled, s.Status)

	err = s.Approve()
	assert.ErrorIs(t, err, shared.ErrStateTransition)
}

func TestSession_Reject(t *testing.T) {
	s, err := NewSession(sessionParams(tomorrow(), 60, false))
	assert.NoError(t, err)

	assert.NoError(t, s.Reject(testMentorID, "slot does not work for me"))
	assert.Equal(t, StatusCancelled, s.Status)
	assert.Equal(t, "slot does not work for me", s.CancellationReason)
	assert.Equal(t, testMentorID, *s.CancelledBy)
	assert.False(t, s.Status.ReservesSlot())
}

func TestSession_RejectRequiresPending(t *testing.T) {
	s, err := NewSession(sessionParams(tomorrow(), 60, true))
	assert.NoError(t, err)

	err = s.Reject(testMentorID, "nope")
	assert.ErrorIs(t, err, shared.ErrStateTransition)
}

func TestSession_CancelFromPendingAndScheduled(t *testing.T) {
	pending, err := NewSession(sessionParams(tomorrow(), 60, false))
	assert.NoError(t, err)
	assert.NoError(t, pending.Cancel(testMenteeID, "conflict"))
	assert.Equal(t, StatusCancelled, pending.Status)

	scheduled, err := NewSession(sessionParams(tomorrow(), 60, true))
	assert.NoError(t, err)
	assert.NoError(t, scheduled.Cancel(testMentorID, ""))
	assert.Equal(t, StatusCancelled, scheduled.Status)
}

func TestSession_CancelTerminalFails(t *testing.T) {
	s, err := NewSession(sessionParams(tomorrow(), 60, true))
	assert.NoError(t, err)
	assert.NoError(t, s.Complete())

	err = s.Cancel(testMentorID, "too late")
	assert.ErrorIs(t, err, shared.ErrStateTransition)
	assert.Equal(t, StatusCompleted, s.Status)
}

func TestSession_CompleteRequiresScheduled(t *testing.T) {
	s, err := NewSession(sessionParams(tomorrow(), 60, false))
	assert.NoError(t, err)

	err = s.Complete()
	assert.ErrorIs(t, err, shared.ErrStateTransition)

	assert.NoError(t, s.Approve())
	assert.NoError(t, s.Complete())
	assert.Equal(t, StatusCompleted, s.Status)
}

func TestSession_AbuttingSessionsDoNotOverlap(t *testing.T) {
	start := tomorrow()

	first, err := NewSession(sessionParams(start, 60, true))
	assert.NoError(t, err)

	second, err := NewSession(sessionParams(start.Add(60*time.Minute), 60, true))
	assert.NoError(t, err)

	assert.False(t, first.OverlapsWith(second))
	assert.False(t, second.OverlapsWith(first))
}

func TestSession_PartialOverlapDetected(t *testing.T) {
	start := tomorrow()

	first, err := NewSession(sessionParams(start, 60, true))
	assert.NoError(t, err)

	second, err := NewSession(sessionParams(start.Add(30*time.Minute), 60, true))
	assert.NoError(t, err)

	assert.True(t, first.OverlapsWith(second))
	assert.True(t, second.OverlapsWith(first))
}

func TestSession_ContainedIntervalOverlaps(t *testing.T) {
	start := tomorrow()

	outer, err := NewSession(sessionParams(start, 240, true))
	assert.NoError(t, err)

	inner, err := NewSession(sessionParams(start.Add(60*time.Minute), 30, true))
	assert.NoError(t, err)

	assert.True(t, outer.OverlapsWith(inner))
	assert.True(t, inner.OverlapsWith(outer))
}

func TestStatus_ReservesSlot(t *testing.T) {
	assert.True(t, StatusPending.ReservesSlot())
	assert.True(t, StatusScheduled.ReservesSlot())
	assert.False(t, StatusCancelled.ReservesSlot())
	assert.False(t, StatusCompleted.ReservesSlot())
}

func TestSession_PreviousStatus(t *testing.T) {
	s, err := NewSession(sessionParams(tomorrow(), 60, false))
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, s.PreviousStatus())

	assert.NoError(t, s.Approve())
	assert.Equal(t, StatusScheduled, s.Status)
	assert.Equal(t, StatusPending, s.PreviousStatus())

	assert.NoError(t, s.Complete())
	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, StatusScheduled, s.PreviousStatus())
}
