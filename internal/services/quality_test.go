package services

import (
	"math/rand"
	"testing"
	"tidyops/config"
	"tidyops/internal/logger"
	. "tidyops/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func qualityServiceForTest(randomPercent float64) *QualityService {
	return &QualityService{
		config: config.Config{
			QualityCheckRandomPercent: randomPercent,
		},
		rand: rand.New(rand.NewSource(42)),
		log:  logger.New("test"),
	}
}

func completedTask(priority TaskPriority) *CleaningTask {
	task := &CleaningTask{Priority: priority}
	task.ID = uuid.New()
	return task
}

func flaggedTask(priority TaskPriority) *CleaningTask {
	task := completedTask(priority)
	task.QualityCheckRequired = true
	return task
}

func TestQualityService_SelectForQualityCheck(t *testing.T) {
	t.Run("flags every unchecked flagged completion from the week", func(t *testing.T) {
		svc := qualityServiceForTest(0)

		high := flaggedTask(PriorityHigh)
		urgent := flaggedTask(PriorityUrgent)
		unflagged := completedTask(PriorityNormal)

		ids := svc.SelectForQualityCheck(
			[]*CleaningTask{high, urgent, unflagged},
			nil,
		)

		assert.ElementsMatch(t, []uuid.UUID{high.ID, urgent.ID}, ids)
	})

	t.Run("zero sample rate selects nothing from the day", func(t *testing.T) {
		svc := qualityServiceForTest(0)

		ids := svc.SelectForQualityCheck(nil, []*CleaningTask{
			completedTask(PriorityNormal),
			completedTask(PriorityLow),
		})

		assert.Empty(t, ids)
	})

	t.Run("full sample rate selects every task from the day", func(t *testing.T) {
		svc := qualityServiceForTest(1)

		first := completedTask(PriorityNormal)
		second := completedTask(PriorityLow)

		ids := svc.SelectForQualityCheck(nil, []*CleaningTask{first, second})

		assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids)
	})

	t.Run("task in both windows is flagged once", func(t *testing.T) {
		svc := qualityServiceForTest(1)

		high := flaggedTask(PriorityHigh)

		ids := svc.SelectForQualityCheck(
			[]*CleaningTask{high},
			[]*CleaningTask{high},
		)

		assert.Equal(t, []uuid.UUID{high.ID}, ids)
	})

	t.Run("already inspected tasks are skipped", func(t *testing.T) {
		svc := qualityServiceForTest(1)

		done := flaggedTask(PriorityHigh)
		done.QualityCheckDone = true

		ids := svc.SelectForQualityCheck(
			[]*CleaningTask{done},
			[]*CleaningTask{done},
		)

		assert.Empty(t, ids)
	})

	t.Run("sampling is reproducible for a fixed seed", func(t *testing.T) {
		tasks := make([]*CleaningTask, 20)
		for i := range tasks {
			tasks[i] = completedTask(PriorityNormal)
		}

		first := qualityServiceForTest(0.5).SelectForQualityCheck(nil, tasks)
		second := qualityServiceForTest(0.5).SelectForQualityCheck(nil, tasks)

		assert.Equal(t, first, second)
		assert.NotEmpty(t, first)
		assert.Less(t, len(first), len(tasks))
	})
}
