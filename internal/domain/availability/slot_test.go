package availability

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

const (
	testSlotID   = "66666666-6666-4666-8666-666666666666"
	testMentorID = shared.UserID("11111111-1111-4111-8111-111111111111")
)

func slotParams() NewSlotParams {
	return NewSlotParams{
		ID:        testSlotID,
		MentorID:  testMentorID,
		Weekday:   Monday,
		StartTime: "14:00",
		EndTime:   "16:00",
		Recurring: true,
	}
}

func TestNewSlot(t *testing.T) {
	s, err := NewSlot(slotParams())
	assert.NoError(t, err)
	assert.Equal(t, Monday, s.Weekday)
	assert.Equal(t, "14:00", s.StartTime)
	assert.Equal(t, "16:00", s.EndTime)
	assert.True(t, s.Recurring)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestNewSlot_InvalidWeekday(t *testing.T) {
	p := slotParams()
	p.Weekday = Weekday("someday")

	_, err := NewSlot(p)
	assert.ErrorIs(t, err, shared.ErrInvalidWeekday)
}

func TestNewSlot_MissingTimes(t *testing.T) {
	p := slotParams()
	p.StartTime = ""

	_, err := NewSlot(p)
	assert.ErrorIs(t, err, shared.ErrInvalidSlotTime)

	p = slotParams()
	p.EndTime = "25:00"

	_, err = NewSlot(p)
	assert.ErrorIs(t, err, shared.ErrInvalidSlotTime)
}

func TestNewSlot_EndMustBeAfterStart(t *testing.T) {
	p := slotParams()
	p.StartTime = "16:00"
	p.EndTime = "14:00"

	_, err := NewSlot(p)
	assert.ErrorIs(t, err, shared.ErrSlotTimeOrder)

	// Zero-length slots are rejected too.
	p.EndTime = "16:00"
	_, err = NewSlot(p)
	assert.ErrorIs(t, err, shared.ErrSlotTimeOrder)
}

func TestParseTimeOfDay(t *testing.T) {
	minutes, err := ParseTimeOfDay("09:30")
	assert.NoError(t, err)
	assert.Equal(t, 9*60+30, minutes)

	_, err = ParseTimeOfDay("9am")
	assert.ErrorIs(t, err, shared.ErrInvalidSlotTime)
}

func TestSlot_DisplayOrder(t *testing.T) {
	mk := func(day Weekday, start string) *Slot {
		s, err := NewSlot(NewSlotParams{
			ID:        testSlotID,
			MentorID:  testMentorID,
			Weekday:   day,
			StartTime: start,
			EndTime:   "23:00",
		})
		assert.NoError(t, err)
		return s
	}

	slots := []*Slot{
		mk(Sunday, "10:00"),
		mk(Monday, "18:00"),
		mk(Monday, "08:00"),
		mk(Wednesday, "12:00"),
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Less(slots[j]) })

	assert.Equal(t, Monday, slots[0].Weekday)
	assert.Equal(t, "08:00", slots[0].StartTime)
	assert.Equal(t, Monday, slots[1].Weekday)
	assert.Equal(t, "18:00", slots[1].StartTime)
	assert.Equal(t, Wednesday, slots[2].Weekday)
	// The week starts on Monday, so Sunday sorts last.
	assert.Equal(t, Sunday, slots[3].Weekday)
}
