package scheduleController

import (
	"testing"
	. "tidyops/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUpdateScheduleRequest_ChangesRule(t *testing.T) {
	frequency := FrequencyWeekly
	day := 2
	clock := "09:00"
	duration := 90
	active := false
	cleanerID := uuid.New()

	t.Run("rule fields trigger a recompute", func(t *testing.T) {
		ruleEdits := []UpdateScheduleRequest{
			{Frequency: &frequency},
			{DayOfWeek: &day},
			{DayOfMonth: &day},
			{PreferredTime: &clock},
		}
		for _, request := range ruleEdits {
			assert.True(t, request.changesRule())
		}
	})

	t.Run("other fields leave nextExecution alone", func(t *testing.T) {
		fieldEdits := []UpdateScheduleRequest{
			{},
			{Duration: &duration},
			{IsActive: &active},
			{PreferredCleanerID: &cleanerID},
		}
		for _, request := range fieldEdits {
			assert.False(t, request.changesRule())
		}
	})
}
