package services

import (
	"context"
	"math/rand"
	"time"
	"tidyops/config"
	"tidyops/internal/database"
	"tidyops/internal/logger"
	. "tidyops/internal/models"
	"tidyops/internal/repositories"

	"github.com/google/uuid"
)

// QualityService selects completed tasks for inspection: every flagged but
// unchecked clean from the trailing week, plus a random sample of the last
// day's work. High-priority completions arrive pre-flagged by the lifecycle.
type QualityService struct {
	db       database.DB
	taskRepo repositories.TaskRepository
	config   config.Config
	rand     *rand.Rand
	log      logger.Logger
}

// NewQualityService takes its random source as a parameter so sampling is
// reproducible under test.
func NewQualityService(
	db database.DB,
	repos repositories.Repository,
	config config.Config,
	rng *rand.Rand,
) *QualityService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QualityService{
		db:       db,
		taskRepo: repos.Task,
		config:   config,
		rand:     rng,
		log:      logger.New("qualityService"),
	}
}

// SelectForQualityCheck returns the IDs of completed tasks to flag, combining
// the required set with the random sample. The same task appearing in both
// sets is flagged once.
func (s *QualityService) SelectForQualityCheck(
	tasksLastWeek []*CleaningTask,
	tasksLastDay []*CleaningTask,
) []uuid.UUID {
	selected := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)

	for _, task := range tasksLastWeek {
		if task.QualityCheckDone || !task.QualityCheckRequired {
			continue
		}
		if !selected[task.ID] {
			selected[task.ID] = true
			ids = append(ids, task.ID)
		}
	}

	for _, task := range tasksLastDay {
		if task.QualityCheckDone {
			continue
		}
		if s.rand.Float64() < s.config.QualityCheckRandomPercent {
			if !selected[task.ID] {
				selected[task.ID] = true
				ids = append(ids, task.ID)
			}
		}
	}

	return ids
}

// ScheduleQualityChecks flags the selected tasks and returns how many were
// chosen.
func (s *QualityService) ScheduleQualityChecks(ctx context.Context, now time.Time) (int, error) {
	log := logger.NewWithContext(ctx, "qualityService").Function("ScheduleQualityChecks")

	tx := s.db.SQLWithContext(ctx)

	lastWeek, err := s.taskRepo.FindCompletedSince(ctx, tx, now.AddDate(0, 0, -7))
	if err != nil {
		return 0, err
	}

	lastDay, err := s.taskRepo.FindCompletedSince(ctx, tx, now.Add(-24*time.Hour))
	if err != nil {
		return 0, err
	}

	ids := s.SelectForQualityCheck(lastWeek, lastDay)
	if len(ids) == 0 {
		log.Info("no tasks selected for quality check")
		return 0, nil
	}

	if _, err := s.taskRepo.MarkQualityCheckRequired(ctx, tx, ids); err != nil {
		return 0, err
	}

	log.Info("tasks flagged for quality check", "count", len(ids))
	return len(ids), nil
}
