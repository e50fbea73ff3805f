package services

import (
	"testing"
	. "tidyops/internal/models"

	"github.com/stretchr/testify/assert"
)

func routeStop(priority TaskPriority, startTime string) *CleaningTask {
	return &CleaningTask{
		Priority:           priority,
		ScheduledStartTime: startTime,
	}
}

func TestSequenceTasks(t *testing.T) {
	t.Run("priority outranks start time", func(t *testing.T) {
		late := routeStop(PriorityUrgent, "16:00")
		early := routeStop(PriorityLow, "08:00")

		ordered := SequenceTasks([]*CleaningTask{early, late})

		assert.Equal(t, []*CleaningTask{late, early}, ordered)
	})

	t.Run("equal priority orders by start time", func(t *testing.T) {
		morning := routeStop(PriorityNormal, "09:00")
		midday := routeStop(PriorityNormal, "12:30")
		afternoon := routeStop(PriorityNormal, "15:00")

		ordered := SequenceTasks([]*CleaningTask{afternoon, morning, midday})

		assert.Equal(t, []*CleaningTask{morning, midday, afternoon}, ordered)
	})

	t.Run("full priority ladder", func(t *testing.T) {
		urgent := routeStop(PriorityUrgent, "14:00")
		high := routeStop(PriorityHigh, "13:00")
		normal := routeStop(PriorityNormal, "12:00")
		low := routeStop(PriorityLow, "08:00")

		ordered := SequenceTasks([]*CleaningTask{low, normal, high, urgent})

		assert.Equal(t, []*CleaningTask{urgent, high, normal, low}, ordered)
	})

	t.Run("equal keys keep input order", func(t *testing.T) {
		first := routeStop(PriorityNormal, "10:00")
		second := routeStop(PriorityNormal, "10:00")

		ordered := SequenceTasks([]*CleaningTask{first, second})

		assert.Same(t, first, ordered[0])
		assert.Same(t, second, ordered[1])
	})

	t.Run("input slice is left untouched", func(t *testing.T) {
		urgent := routeStop(PriorityUrgent, "16:00")
		low := routeStop(PriorityLow, "08:00")
		input := []*CleaningTask{low, urgent}

		SequenceTasks(input)

		assert.Same(t, low, input[0])
		assert.Same(t, urgent, input[1])
	})
}
