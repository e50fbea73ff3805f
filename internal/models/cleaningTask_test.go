package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	t.Run("normal lifecycle path", func(t *testing.T) {
		assert.True(t, StatusScheduled.CanTransitionTo(StatusAssigned))
		assert.True(t, StatusAssigned.CanTransitionTo(StatusInProgress))
		assert.True(t, StatusInProgress.CanTransitionTo(StatusCompleted))
	})

	t.Run("scheduled tasks can start without an assignment", func(t *testing.T) {
		assert.True(t, StatusScheduled.CanTransitionTo(StatusInProgress))
	})

	t.Run("review loop", func(t *testing.T) {
		assert.True(t, StatusCompleted.CanTransitionTo(StatusRequiresReview))
		assert.True(t, StatusRequiresReview.CanTransitionTo(StatusCompleted))
	})

	t.Run("cancel and fail are reachable from every open state", func(t *testing.T) {
		for _, status := range []TaskStatus{StatusScheduled, StatusAssigned, StatusInProgress} {
			assert.True(t, status.CanTransitionTo(StatusCancelled), string(status))
			assert.True(t, status.CanTransitionTo(StatusFailed), string(status))
		}
	})

	t.Run("completed work cannot reopen", func(t *testing.T) {
		assert.False(t, StatusCompleted.CanTransitionTo(StatusInProgress))
		assert.False(t, StatusCompleted.CanTransitionTo(StatusScheduled))
		assert.False(t, StatusCompleted.CanTransitionTo(StatusCancelled))
	})

	t.Run("terminal states allow nothing", func(t *testing.T) {
		for _, status := range []TaskStatus{StatusCancelled, StatusFailed} {
			for _, next := range []TaskStatus{
				StatusScheduled, StatusAssigned, StatusInProgress,
				StatusCompleted, StatusRequiresReview,
			} {
				assert.False(t, status.CanTransitionTo(next), "%s -> %s", status, next)
			}
		}
	})
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusScheduled.IsTerminal())
	assert.False(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusRequiresReview.IsTerminal())
}

func TestTaskPriority_Rank(t *testing.T) {
	assert.Less(t, PriorityUrgent.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityNormal.Rank())
	assert.Less(t, PriorityNormal.Rank(), PriorityLow.Rank())

	t.Run("unknown priority sorts last", func(t *testing.T) {
		assert.Greater(t, TaskPriority("MYSTERY").Rank(), PriorityLow.Rank())
	})
}

func TestCompletionRate(t *testing.T) {
	t.Run("empty checklist yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CompletionRate(nil))
	})

	t.Run("partial completion", func(t *testing.T) {
		items := []ChecklistItem{
			{Room: "kitchen", Item: "counters", Completed: true},
			{Room: "kitchen", Item: "floors", Completed: true},
			{Room: "bathroom", Item: "shower", Completed: true},
			{Room: "bedroom", Item: "linens", Completed: false},
		}
		assert.InDelta(t, 0.75, CompletionRate(items), 0.0001)
	})

	t.Run("all done", func(t *testing.T) {
		items := []ChecklistItem{
			{Room: "kitchen", Item: "counters", Completed: true},
		}
		assert.Equal(t, 1.0, CompletionRate(items))
	})
}

func TestSupplyCost(t *testing.T) {
	t.Run("no supplies costs nothing", func(t *testing.T) {
		assert.True(t, SupplyCost(nil).IsZero())
	})

	t.Run("sums every line item", func(t *testing.T) {
		supplies := []SupplyUsage{
			{Quantity: 2, Cost: decimal.NewFromFloat(3.25)},
			{Quantity: 1, Cost: decimal.NewFromFloat(4.25)},
		}
		assert.True(t, decimal.NewFromFloat(7.5).Equal(SupplyCost(supplies)))
	})
}

func TestCleanerServiceAreas(t *testing.T) {
	t.Run("empty restrictions admit everything", func(t *testing.T) {
		cleaner := &Cleaner{}
		assert.True(t, cleaner.ServesProperty("prop-1"))
		assert.True(t, cleaner.ServesZipCode("90210"))
	})

	t.Run("restricted cleaner only serves listed areas", func(t *testing.T) {
		cleaner := &Cleaner{
			ServiceProperties: []string{"prop-1"},
			ServiceZipCodes:   []string{"90210", "90211"},
		}
		assert.True(t, cleaner.ServesProperty("prop-1"))
		assert.False(t, cleaner.ServesProperty("prop-2"))
		assert.True(t, cleaner.ServesZipCode("90211"))
		assert.False(t, cleaner.ServesZipCode("10001"))
	})
}
