package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/availability"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

func querySlot(id, weekday, start, end string) *availability.Slot {
	s, err := availability.NewSlot(availability.NewSlotParams{
		ID:        id,
		MentorID:  shared.UserID(queryMentorID),
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

func TestGetAvailability_OrderedSchedule(t *testing.T) {
	repo := &fakeAvailabilityRepo{slots: []*availability.Slot{
		querySlot("cccccccc-3333-4333-8333-333333333331", "sunday", "10:00", "12:00"),
		querySlot("cccccccc-3333-4333-8333-333333333332", "monday", "18:00", "20:00"),
		querySlot("cccccccc-3333-4333-8333-333333333333", "monday", "08:00", "09:30"),
	}}
	handler := NewGetAvailabilityHandler(repo)

	result, err := handler.Handle(context.Background(), GetAvailabilityQuery{MentorID: queryMentorID})

	assert.NoError(t, err)
	assert.Equal(t, queryMentorID, result.MentorID)
	assert.Len(t, result.Slots, 3)
	assert.Equal(t, "monday", result.Slots[0].Weekday)
	assert.Equal(t, "08:00", result.Slots[0].StartTime)
	assert.Equal(t, "monday", result.Slots[1].Weekday)
	assert.Equal(t, "18:00", result.Slots[1].StartTime)
	assert.Equal(t, "sunday", result.Slots[2].Weekday)
}

func TestGetAvailability_EmptySchedule(t *testing.T) {
	handler := NewGetAvailabilityHandler(&fakeAvailabilityRepo{})

	result, err := handler.Handle(context.Background(), GetAvailabilityQuery{MentorID: queryMentorID})

	assert.NoError(t, err)
	assert.Empty(t, result.Slots)
}

func TestGetAvailability_EmptyID(t *testing.T) {
	handler := NewGetAvailabilityHandler(&fakeAvailabilityRepo{})

	_, err := handler.Handle(context.Background(), GetAvailabilityQuery{})

	assert.ErrorIs(t, err, shared.ErrValidation)
}
