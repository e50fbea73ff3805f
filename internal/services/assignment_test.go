package services

import (
	"testing"
	. "tidyops/internal/models"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestScore(t *testing.T) {
	t.Run("combines rating, experience, punctuality and headroom", func(t *testing.T) {
		cleaner := &Cleaner{
			AverageRating:        floatPtr(4.5),
			TotalTasksCompleted:  50,
			OnTimeCompletionRate: floatPtr(0.9),
			MaxTasksPerDay:       5,
		}

		// 4.5*10 + 50/10 + 0.9*20 + (5-2)*2
		assert.InDelta(t, 74.0, Score(cleaner, 2), 0.0001)
	})

	t.Run("experience contribution caps out", func(t *testing.T) {
		veteran := &Cleaner{TotalTasksCompleted: 200, MaxTasksPerDay: 3}
		legend := &Cleaner{TotalTasksCompleted: 2000, MaxTasksPerDay: 3}

		assert.Equal(t, Score(veteran, 0), Score(legend, 0))
		assert.InDelta(t, 26.0, Score(veteran, 0), 0.0001)
	})

	t.Run("missing performance aggregates contribute nothing", func(t *testing.T) {
		cleaner := &Cleaner{MaxTasksPerDay: 4}

		// Only headroom remains: (4-1)*2
		assert.InDelta(t, 6.0, Score(cleaner, 1), 0.0001)
	})

	t.Run("a loaded cleaner scores below an idle peer", func(t *testing.T) {
		cleaner := &Cleaner{
			AverageRating:  floatPtr(4.0),
			MaxTasksPerDay: 4,
		}

		assert.Greater(t, Score(cleaner, 0), Score(cleaner, 3))
	})

	t.Run("rating outweighs a single task of headroom", func(t *testing.T) {
		better := &Cleaner{AverageRating: floatPtr(4.8), MaxTasksPerDay: 3}
		worse := &Cleaner{AverageRating: floatPtr(3.2), MaxTasksPerDay: 3}

		assert.Greater(t, Score(better, 1), Score(worse, 0))
	})
}
