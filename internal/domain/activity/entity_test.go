package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

const testActorID = shared.UserID("11111111-1111-4111-8111-111111111111")

func TestNewEntry(t *testing.T) {
	entry, err := NewEntry(NewEntryParams{
		ID:       "entry-1",
		ActorID:  testActorID,
		Action:   ActionMentorshipAccepted,
		EntityID: "5b9f1c2e-4a3d-4f6b-8a1c-0d9e8f7a6b5c",
		Details: map[string]interface{}{
			"previous_status": "pending",
			"new_status":      "active",
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, EntityMentorship, entry.EntityType)
	assert.Equal(t, "pending", entry.Details["previous_status"])
	assert.False(t, entry.OccurredAt.IsZero())
}

func TestNewEntry_DerivesEntityTypeFromAction(t *testing.T) {
	entry, err := NewEntry(NewEntryParams{
		ID:       "entry-2",
		ActorID:  testActorID,
		Action:   ActionSessionCancelled,
		EntityID: "7c2e5d1a-9b8f-4e3c-a6d0-1f2e3d4c5b6a",
	})

	assert.NoError(t, err)
	assert.Equal(t, EntitySession, entry.EntityType)
	assert.NotNil(t, entry.Details)
}

func TestNewEntry_Validation(t *testing.T) {
	_, err := NewEntry(NewEntryParams{ActorID: testActorID, Action: ActionSessionRequested, EntityID: "x"})
	assert.ErrorIs(t, err, ErrInvalidEntryID)

	_, err = NewEntry(NewEntryParams{ID: "e", Action: ActionSessionRequested, EntityID: "x"})
	assert.ErrorIs(t, err, ErrInvalidActorID)

	_, err = NewEntry(NewEntryParams{ID: "e", ActorID: testActorID, Action: "unknown", EntityID: "x"})
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = NewEntry(NewEntryParams{ID: "e", ActorID: testActorID, Action: ActionSessionRequested})
	assert.ErrorIs(t, err, ErrInvalidEntity)
}

func TestEntry_WithDetail(t *testing.T) {
	entry, err := NewEntry(NewEntryParams{
		ID:       "entry-3",
		ActorID:  testActorID,
		Action:   ActionSessionRejected,
		EntityID: "7c2e5d1a-9b8f-4e3c-a6d0-1f2e3d4c5b6a",
	})
	assert.NoError(t, err)

	entry.WithDetail("reason", "slot taken").WithDetail("new_status", "cancelled")
	assert.Equal(t, "slot taken", entry.Details["reason"])

	clone := entry.Clone()
	clone.Details["reason"] = "changed"
	assert.Equal(t, "slot taken", entry.Details["reason"])
}
