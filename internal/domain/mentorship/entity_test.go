package mentorship

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

const (
	testMentorshipID = shared.MentorshipID("5b9f1c2e-4a3d-4f6b-8a1c-0d9e8f7a6b5c")
	testMentorID     = shared.UserID("11111111-1111-4111-8111-111111111111")
	testMenteeID     = shared.UserID("22222222-2222-4222-8222-222222222222")
	testOutsiderID   = shared.UserID("33333333-3333-4333-8333-333333333333")
)

func newTestMentorship(t *testing.T) *Mentorship {
	t.Helper()
	m, err := NewMentorship(NewMentorshipParams{
		ID:       testMentorshipID,
		MentorID: testMentorID,
		MenteeID: testMenteeID,
	})
	assert.NoError(t, err)
	return m
}

func TestNewMentorship(t *testing.T) {
	m := newTestMentorship(t)

	assert.Equal(t, StatusPending, m.Status)
	assert.Equal(t, testMentorID, m.MentorID)
	assert.Equal(t, testMenteeID, m.MenteeID)
	assert.Nil(t, m.AcceptedAt)
	assert.Nil(t, m.ClosedAt)
	assert.True(t, m.IsOpen())
}

func TestNewMentorship_SelfPairRejected(t *testing.T) {
	_, err := NewMentorship(NewMentorshipParams{
		ID:       testMentorshipID,
		MentorID: testMentorID,
		MenteeID: testMentorID,
	})
	assert.ErrorIs(t, err, shared.ErrSelfMentorship)
}

func TestMentorship_Accept(t *testing.T) {
	m := newTestMentorship(t)

	err := m.Accept(testMentorID)
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, m.Status)
	assert.NotNil(t, m.AcceptedAt)
	assert.True(t, m.IsActive())
}

func TestMentorship_AcceptByMenteeForbidden(t *testing.T) {
	m := newTestMentorship(t)

	err := m.Accept(testMenteeID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Equal(t, StatusPending, m.Status)
}

func TestMentorship_AcceptTwice(t *testing.T) {
	m := newTestMentorship(t)

	assert.NoError(t, m.Accept(testMentorID))

	err := m.Accept(testMentorID)
	assert.ErrorIs(t, err, shared.ErrStateTransition)
	assert.Equal(t, StatusActive, m.Status)
}

func TestMentorship_Decline(t *testing.T) {
	m := newTestMentorship(t)

	err := m.Decline(testMentorID, "schedule is full")
	assert.NoError(t, err)
	assert.Equal(t, StatusDeclined, m.Status)
	assert.Equal(t, "schedule is full", m.Notes)
	assert.NotNil(t, m.ClosedAt)
	assert.Equal(t, testMentorID, *m.ClosedBy)
}

func TestMentorship_DeclineDefaultReason(t *testing.T) {
	m := newTestMentorship(t)

	assert.NoError(t, m.Decline(testMentorID, ""))
	assert.Equal(t, "Declined by mentor", m.Notes)
}

func TestMentorship_DeclineByMenteeForbidden(t *testing.T) {
	m := newTestMentorship(t)

	err := m.Decline(testMenteeID, "nope")
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestMentorship_CancelFromPending(t *testing.T) {
	m := newTestMentorship(t)

	err := m.Cancel(testMenteeID)
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, m.Status)
	assert.Equal(t, testMenteeID, *m.ClosedBy)
}

func TestMentorship_CancelFromActive(t *testing.T) {
	m := newTestMentorship(t)
	assert.NoError(t, m.Accept(testMentorID))

	err := m.Cancel(testMentorID)
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, m.Status)
}

func TestMentorship_CancelByOutsiderForbidden(t *testing.T) {
	m := newTestMentorship(t)

	err := m.Cancel(testOutsiderID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Equal(t, StatusPending, m.Status)
}

func TestMentorship_CompleteRequiresActive(t *testing.T) {
	m := newTestMentorship(t)

	err := m.Complete(testMentorID)
	assert.ErrorIs(t, err, shared.ErrStateTransition)

	assert.NoError(t, m.Accept(testMentorID))
	assert.NoError(t, m.Complete(testMenteeID))
	assert.Equal(t, StatusCompleted, m.Status)
	assert.Equal(t, testMenteeID, *m.ClosedBy)
}

func TestMentorship_TerminalStatesAreImmutable(t *testing.T) {
	m := newTestMentorship(t)
	assert.NoError(t, m.Accept(testMentorID))
	assert.NoError(t, m.Complete(testMentorID))

	assert.ErrorIs(t, m.Accept(testMentorID), shared.ErrStateTransition)
	assert.ErrorIs(t, m.Cancel(testMentorID), shared.ErrStateTransition)
	assert.ErrorIs(t, m.Complete(testMentorID), shared.ErrStateTransition)
	assert.ErrorIs(t, m.Decline(testMentorID, "late"), shared.ErrStateTransition)
	assert.Equal(t, StatusCompleted, m.Status)
}

func TestStatus_IsOpen(t *testing.T) {
	assert.True(t, StatusPending.IsOpen())
	assert.True(t, StatusActive.IsOpen())
	assert.False(t, StatusDeclined.IsOpen())
	assert.False(t, StatusCancelled.IsOpen())
	assert.False(t, StatusCompleted.IsOpen())
}

func TestMentorship_OtherParty(t *testing.T) {
	m := newTestMentorship(t)

	assert.Equal(t, testMenteeID, m.OtherParty(testMentorID))
	assert.Equal(t, testMentorID, m.OtherParty(testMenteeID))
}

func TestMentorship_PreviousStatus(t *testing.T) {
	m := newTestMentorship(t)
	assert.Equal(t, StatusPending, m.PreviousStatus())

	assert.NoError(t, m.Accept(testMentorID))
	assert.Equal(t, StatusActive, m.Status)
	assert.Equal(t, StatusPending, m.PreviousStatus())

	assert.NoError(t, m.Complete(testMenteeID))
	assert.Equal(t, StatusCompleted, m.Status)
	assert.Equal(t, StatusActive, m.PreviousStatus())
}
