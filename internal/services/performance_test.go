package services

import (
	"testing"
	. "tidyops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratedTask(rating int, estimated, actual int) *CleaningTask {
	return &CleaningTask{
		EstimatedDuration: estimated,
		ActualDuration:    &actual,
		QualityRating:     &rating,
	}
}

func TestComputePerformance(t *testing.T) {
	t.Run("empty history yields zero aggregates", func(t *testing.T) {
		summary := ComputePerformance(nil)

		assert.Equal(t, 0, summary.TotalTasksCompleted)
		assert.Equal(t, 0, summary.TotalRatings)
		assert.Nil(t, summary.AverageRating)
		assert.Nil(t, summary.OnTimeCompletionRate)
	})

	t.Run("averages only the rated tasks", func(t *testing.T) {
		unrated := &CleaningTask{EstimatedDuration: 90}

		summary := ComputePerformance([]*CleaningTask{
			ratedTask(5, 120, 100),
			ratedTask(4, 120, 100),
			unrated,
		})

		assert.Equal(t, 3, summary.TotalTasksCompleted)
		assert.Equal(t, 2, summary.TotalRatings)
		require.NotNil(t, summary.AverageRating)
		assert.InDelta(t, 4.5, *summary.AverageRating, 0.0001)
	})

	t.Run("on-time rate counts only timed tasks", func(t *testing.T) {
		untimed := &CleaningTask{EstimatedDuration: 90}

		summary := ComputePerformance([]*CleaningTask{
			ratedTask(5, 120, 110), // on time
			ratedTask(4, 120, 120), // exactly on estimate counts
			ratedTask(3, 120, 150), // late
			untimed,
		})

		require.NotNil(t, summary.OnTimeCompletionRate)
		assert.InDelta(t, 2.0/3.0, *summary.OnTimeCompletionRate, 0.0001)
	})

	t.Run("history with no ratings or timings leaves aggregates nil", func(t *testing.T) {
		summary := ComputePerformance([]*CleaningTask{
			{EstimatedDuration: 60},
			{EstimatedDuration: 90},
		})

		assert.Equal(t, 2, summary.TotalTasksCompleted)
		assert.Nil(t, summary.AverageRating)
		assert.Nil(t, summary.OnTimeCompletionRate)
	})
}
