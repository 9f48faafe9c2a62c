package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

func TestGetStatistics_CountsAndCompletionRate(t *testing.T) {
	handler := NewGetStatisticsHandler(
		&fakeMentorshipRepo{stats: &mentorship.Statistics{
			TotalAsMentor: 3,
			TotalAsMentee: 1,
			Active:        1,
			Completed:     2,
			Declined:      1,
			Cancelled:     1,
		}},
		&fakeSessionRepo{completed: 7, upcoming: 2},
	)

	result, err := handler.Handle(context.Background(), GetStatisticsQuery{UserID: queryMentorID})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), result.Statistics.TotalAsMentor)
	assert.Equal(t, int64(1), result.Statistics.Active)
	assert.Equal(t, int64(7), result.Statistics.SessionsCompleted)
	assert.Equal(t, int64(2), result.Statistics.SessionsUpcoming)
	// Из четырёх закрытых менторств завершены два.
	assert.InDelta(t, 0.5, result.Statistics.CompletionRate, 1e-9)
}

func TestGetStatistics_NoClosedMentorships(t *testing.T) {
	handler := NewGetStatisticsHandler(
		&fakeMentorshipRepo{stats: &mentorship.Statistics{Active: 1}},
		&fakeSessionRepo{},
	)

	result, err := handler.Handle(context.Background(), GetStatisticsQuery{UserID: queryMentorID})

	assert.NoError(t, err)
	assert.Zero(t, result.Statistics.CompletionRate)
	assert.Zero(t, result.Statistics.SessionsCompleted)
}

func TestGetStatistics_EmptyUserID(t *testing.T) {
	handler := NewGetStatisticsHandler(&fakeMentorshipRepo{}, &fakeSessionRepo{})

	_, err := handler.Handle(context.Background(), GetStatisticsQuery{})

	assert.ErrorIs(t, err, shared.ErrValidation)
}
