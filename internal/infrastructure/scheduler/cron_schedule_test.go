package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCronSchedule_DailyAtThree(t *testing.T) {
	cs, err := ParseCronSchedule("0 3 * * *")
	assert.NoError(t, err)
	assert.Equal(t, "0 3 * * *", cs.String())

	// Before the fire time: same day at 03:00.
	from := time.Date(2026, 8, 29, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC), cs.Next(from))

	// After the fire time: next day at 03:00.
	from = time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC), cs.Next(from))
}

func TestParseCronSchedule_StepValues(t *testing.T) {
	cs, err := ParseCronSchedule("*/15 * * * *")
	assert.NoError(t, err)

	from := time.Date(2026, 8, 29, 10, 16, 30, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC), cs.Next(from))
}

func TestParseCronSchedule_RangeAndList(t *testing.T) {
	// Weekdays 1-5 at 09:00 and 18:00.
	cs, err := ParseCronSchedule("0 9,18 * * 1-5")
	assert.NoError(t, err)

	// Saturday evening rolls over to Monday morning.
	saturday := time.Date(2026, 8, 29, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Weekday(6), saturday.Weekday())
	assert.Equal(t, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), cs.Next(saturday))

	// Friday morning stays on Friday for the evening slot.
	friday := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC), cs.Next(friday))
}

func TestParseCronSchedule_NextTruncatesSeconds(t *testing.T) {
	cs, err := ParseCronSchedule("* * * * *")
	assert.NoError(t, err)

	from := time.Date(2026, 8, 29, 10, 0, 45, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 29, 10, 1, 0, 0, time.UTC), cs.Next(from))
}

func TestParseCronSchedule_Invalid(t *testing.T) {
	cases := []string{
		"",
		"* * * *",
		"* * * * * *",
		"61 * * * *",
		"* 25 * * *",
		"*/0 * * * *",
		"a * * * *",
		"1-b * * * *",
	}
	for _, expr := range cases {
		_, err := ParseCronSchedule(expr)
		assert.Error(t, err, "expression %q", expr)
	}
}

func TestCronSchedule_SatisfiesSchedule(t *testing.T) {
	cs, err := ParseCronSchedule("0 3 * * *")
	assert.NoError(t, err)

	var _ Schedule = cs
	assert.NotEmpty(t, cs.String())
}
