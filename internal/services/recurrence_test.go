package services

import (
	"testing"
	"time"
	. "tidyops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recurringSchedule(frequency ScheduleFrequency, preferredTime string) *CleaningSchedule {
	return &CleaningSchedule{
		ScheduleType:  ScheduleRecurring,
		Frequency:     &frequency,
		PreferredTime: preferredTime,
	}
}

func intPtr(v int) *int {
	return &v
}

func TestRecurrenceService_NextExecution_Daily(t *testing.T) {
	svc := NewRecurrenceService()
	// Wednesday
	now := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

	t.Run("later today when preferred time has not passed", func(t *testing.T) {
		next := svc.NextExecution(recurringSchedule(FrequencyDaily, "10:00"), now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC), *next)
	})

	t.Run("tomorrow when preferred time has passed", func(t *testing.T) {
		next := svc.NextExecution(recurringSchedule(FrequencyDaily, "08:00"), now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 3, 13, 8, 0, 0, 0, time.UTC), *next)
	})

	t.Run("tomorrow when now is exactly the preferred time", func(t *testing.T) {
		exactly := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
		next := svc.NextExecution(recurringSchedule(FrequencyDaily, "10:00"), exactly)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC), *next)
	})
}

func TestRecurrenceService_NextExecution_Weekly(t *testing.T) {
	svc := NewRecurrenceService()
	// Wednesday
	now := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

	t.Run("upcoming weekday this week", func(t *testing.T) {
		schedule := recurringSchedule(FrequencyWeekly, "08:00")
		schedule.DayOfWeek = intPtr(5) // Friday
		next := svc.NextExecution(schedule, now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC), *next)
	})

	t.Run("same weekday later today", func(t *testing.T) {
		schedule := recurringSchedule(FrequencyWeekly, "10:00")
		schedule.DayOfWeek = intPtr(3) // Wednesday
		next := svc.NextExecution(schedule, now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC), *next)
	})

	t.Run("same weekday rolls one week when time passed", func(t *testing.T) {
		schedule := recurringSchedule(FrequencyWeekly, "08:00")
		schedule.DayOfWeek = intPtr(3)
		next := svc.NextExecution(schedule, now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 3, 19, 8, 0, 0, 0, time.UTC), *next)
	})

	t.Run("weekday earlier this week lands next week", func(t *testing.T) {
		schedule := recurringSchedule(FrequencyWeekly, "08:00")
		schedule.DayOfWeek = intPtr(1) // Monday
		next := svc.NextExecution(schedule, now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 3, 17, 8, 0, 0, 0, time.UTC), *next)
	})
}

func TestRecurrenceService_NextExecution_Biweekly(t *testing.T) {
	svc := NewRecurrenceService()
	// Wednesday
	now := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

	t.Run("upcoming weekday keeps the short hop", func(t *testing.T) {
		schedule := recurringSchedule(FrequencyBiweekly, "08:00")
		schedule.DayOfWeek = intPtr(5) // Friday
		next := svc.NextExecution(schedule, now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC), *next)
	})

	t.Run("same weekday rolls a full fortnight when time passed", func(t *testing.T) {
		schedule := recurringSchedule(FrequencyBiweekly, "08:00")
		schedule.DayOfWeek = intPtr(3)
		next := svc.NextExecution(schedule, now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 3, 26, 8, 0, 0, 0, time.UTC), *next)
	})

	t.Run("weekday earlier this week skips the coming week", func(t *testing.T) {
		schedule := recurringSchedule(FrequencyBiweekly, "08:00")
		schedule.DayOfWeek = intPtr(1) // Monday
		next := svc.NextExecution(schedule, now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 3, 24, 8, 0, 0, 0, time.UTC), *next)
	})
}

func TestRecurrenceService_NextExecution_Monthly(t *testing.T) {
	svc := NewRecurrenceService()

	t.Run("upcoming day this month", func(t *testing.T) {
		now := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
		schedule := recurringSchedule(FrequencyMonthly, "09:00")
		schedule.DayOfMonth = intPtr(15)
		next := svc.NextExecution(schedule, now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC), *next)
	})

	t.Run("rolls to next month when day passed", func(t *testing.T) {
		now := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
		schedule := recurringSchedule(FrequencyMonthly, "09:00")
		schedule.DayOfMonth = intPtr(10)
		next := svc.NextExecution(schedule, now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC), *next)
	})

	t.Run("day 31 clamps to shorter months", func(t *testing.T) {
		now := time.Date(2025, 4, 5, 9, 30, 0, 0, time.UTC)
		schedule := recurringSchedule(FrequencyMonthly, "09:00")
		schedule.DayOfMonth = intPtr(31)
		next := svc.NextExecution(schedule, now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC), *next)
	})

	t.Run("clamp applies when rolling into February", func(t *testing.T) {
		now := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
		schedule := recurringSchedule(FrequencyMonthly, "09:00")
		schedule.DayOfMonth = intPtr(31)
		next := svc.NextExecution(schedule, now)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC), *next)
	})
}

func TestRecurrenceService_NextExecution_Inert(t *testing.T) {
	svc := NewRecurrenceService()
	now := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

	t.Run("one-time schedules never recur", func(t *testing.T) {
		schedule := &CleaningSchedule{
			ScheduleType:  ScheduleOneTime,
			PreferredTime: "10:00",
		}
		assert.Nil(t, svc.NextExecution(schedule, now))
	})

	t.Run("missing frequency yields nil", func(t *testing.T) {
		schedule := &CleaningSchedule{
			ScheduleType:  ScheduleRecurring,
			PreferredTime: "10:00",
		}
		assert.Nil(t, svc.NextExecution(schedule, now))
	})

	t.Run("unknown frequency yields nil", func(t *testing.T) {
		next := svc.NextExecution(recurringSchedule("quarterly", "10:00"), now)
		assert.Nil(t, next)
	})

	t.Run("malformed preferred time yields nil", func(t *testing.T) {
		next := svc.NextExecution(recurringSchedule(FrequencyDaily, "25:99"), now)
		assert.Nil(t, next)
	})
}
