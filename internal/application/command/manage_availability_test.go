package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/availability"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

func mentorSlot(id, weekday, start, end string) *availability.Slot {
	s, err := availability.NewSlot(availability.NewSlotParams{
		ID:        id,
		MentorID:  shared.UserID(testMentorID),
		Weekday:   availability.Weekday(weekday),
		StartTime: start,
		EndTime:   end,
		Recurring: true,
	})
	if err != nil {
		panic(err)
	}
	return s
}

func TestAddAvailabilitySlot_MentorPublishesSlot(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	directory := newFakeDirectory(activeUser(testMentorID, "female", identity.RoleMentor))
	handler := NewAddAvailabilitySlotHandler(directory, repo)

	result, err := handler.Handle(context.Background(), AddAvailabilitySlotCommand{
		ActorID:   testMentorID,
		Weekday:   "monday",
		StartTime: "14:00",
		EndTime:   "16:00",
		Recurring: true,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.SlotID)

	slots, _ := repo.ListByMentor(context.Background(), shared.UserID(testMentorID))
	assert.Len(t, slots, 1)
	assert.Equal(t, availability.Monday, slots[0].Weekday)
	assert.Equal(t, "14:00", slots[0].StartTime)
	assert.True(t, slots[0].Recurring)
}

func TestAddAvailabilitySlot_MenteeForbidden(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	directory := newFakeDirectory(activeUser(testMenteeID, "female", identity.RoleMentee))
	handler := NewAddAvailabilitySlotHandler(directory, repo)

	_, err := handler.Handle(context.Background(), AddAvailabilitySlotCommand{
		ActorID:   testMenteeID,
		Weekday:   "monday",
		StartTime: "14:00",
		EndTime:   "16:00",
	})

	assert.ErrorIs(t, err, shared.ErrRoleNotAllowed)
}

func TestAddAvailabilitySlot_InvalidWeekday(t *testing.T) {
	directory := newFakeDirectory(activeUser(testMentorID, "female", identity.RoleMentor))
	handler := NewAddAvailabilitySlotHandler(directory, newFakeAvailabilityRepo())

	_, err := handler.Handle(context.Background(), AddAvailabilitySlotCommand{
		ActorID:   testMentorID,
		Weekday:   "someday",
		StartTime: "14:00",
		EndTime:   "16:00",
	})

	assert.ErrorIs(t, err, shared.ErrInvalidWeekday)
}

func TestAddAvailabilitySlot_EndBeforeStart(t *testing.T) {
	directory := newFakeDirectory(activeUser(testMentorID, "female", identity.RoleMentor))
	handler := NewAddAvailabilitySlotHandler(directory, newFakeAvailabilityRepo())

	_, err := handler.Handle(context.Background(), AddAvailabilitySlotCommand{
		ActorID:   testMentorID,
		Weekday:   "monday",
		StartTime: "16:00",
		EndTime:   "14:00",
	})

	assert.ErrorIs(t, err, shared.ErrSlotTimeOrder)
}

func TestRemoveAvailabilitySlot_OwnerRemoves(t *testing.T) {
	slot := mentorSlot("66666666-6666-4666-8666-666666666666", "friday", "09:00", "11:00")
	repo := newFakeAvailabilityRepo(slot)
	directory := newFakeDirectory(activeUser(testMentorID, "female", identity.RoleMentor))
	handler := NewRemoveAvailabilitySlotHandler(directory, repo)

	err := handler.Handle(context.Background(), RemoveAvailabilitySlotCommand{
		SlotID:  slot.ID,
		ActorID: testMentorID,
	})

	assert.NoError(t, err)
	slots, _ := repo.ListByMentor(context.Background(), shared.UserID(testMentorID))
	assert.Empty(t, slots)
}

func TestRemoveAvailabilitySlot_ForeignSlotReportsNotFound(t *testing.T) {
	slot := mentorSlot("66666666-6666-4666-8666-666666666666", "friday", "09:00", "11:00")
	repo := newFakeAvailabilityRepo(slot)
	directory := newFakeDirectory(
		activeUser(testMentorID, "female", identity.RoleMentor),
		activeUser(testOutsiderID, "female", identity.RoleMentor),
	)
	handler := NewRemoveAvailabilitySlotHandler(directory, repo)

	err := handler.Handle(context.Background(), RemoveAvailabilitySlotCommand{
		SlotID:  slot.ID,
		ActorID: testOutsiderID,
	})

	assert.ErrorIs(t, err, shared.ErrSlotNotFound)

	// The owner's slot is untouched.
	slots, _ := repo.ListByMentor(context.Background(), shared.UserID(testMentorID))
	assert.Len(t, slots, 1)
}
