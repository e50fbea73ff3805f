package services

import (
	"context"
	"errors"
	"sort"
	"tidyops/config"
	"tidyops/internal/logger"
	. "tidyops/internal/models"
	"tidyops/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNoEligibleCleaner = errors.New("no eligible cleaner")
	ErrAlreadyAssigned   = errors.New("task already assigned")
)

// Scoring weights. Rating dominates, capacity headroom breaks near-ties.
const (
	ratingWeight      = 10.0
	experienceDivisor = 10.0
	experienceCap     = 20.0
	onTimeWeight      = 20.0
	workloadWeight    = 2.0
)

// Candidate pairs a cleaner with their load on the assignment date.
type Candidate struct {
	Cleaner *Cleaner
	Load    int
	Score   float64
}

type AssignmentService struct {
	cleanerRepo      repositories.CleanerRepository
	taskRepo         repositories.TaskRepository
	availabilityRepo repositories.AvailabilityRepository
	config           config.Config
	log              logger.Logger
}

func NewAssignmentService(
	repos repositories.Repository,
	config config.Config,
) *AssignmentService {
	return &AssignmentService{
		cleanerRepo:      repos.Cleaner,
		taskRepo:         repos.Task,
		availabilityRepo: repos.Availability,
		config:           config,
		log:              logger.New("assignmentService"),
	}
}

// Score rates a cleaner's fit for a task given their load on the task date.
// Higher is better.
func Score(cleaner *Cleaner, load int) float64 {
	score := 0.0

	if cleaner.AverageRating != nil {
		score += *cleaner.AverageRating * ratingWeight
	}

	experience := float64(cleaner.TotalTasksCompleted) / experienceDivisor
	if experience > experienceCap {
		experience = experienceCap
	}
	score += experience

	if cleaner.OnTimeCompletionRate != nil {
		score += *cleaner.OnTimeCompletionRate * onTimeWeight
	}

	score += float64(cleaner.MaxTasksPerDay-load) * workloadWeight

	return score
}

// EligibleCleaners returns scored candidates for the task, best first.
// Candidates are walked in cleaner ID order so equal scores resolve the same
// way on every run.
func (s *AssignmentService) EligibleCleaners(
	ctx context.Context,
	tx *gorm.DB,
	task *CleaningTask,
	propertyZipCode string,
) ([]Candidate, error) {
	log := logger.NewWithContext(ctx, "assignmentService").Function("EligibleCleaners")

	cleaners, err := s.cleanerRepo.FindActive(ctx, tx)
	if err != nil {
		return nil, log.Err("failed to load active cleaners", err)
	}

	blocks, err := s.availabilityRepo.FindForDate(ctx, tx, task.ScheduledDate)
	if err != nil {
		return nil, log.Err("failed to load availability blocks", err)
	}

	blockedCleaners := make(map[uuid.UUID]bool)
	for _, block := range blocks {
		if !block.IsAvailable {
			blockedCleaners[block.CleanerID] = true
		}
	}

	candidates := make([]Candidate, 0, len(cleaners))
	for _, cleaner := range cleaners {
		if blockedCleaners[cleaner.ID] {
			continue
		}
		if !cleaner.ServesProperty(task.PropertyID.String()) {
			continue
		}
		if propertyZipCode != "" && !cleaner.ServesZipCode(propertyZipCode) {
			continue
		}

		load, err := s.taskRepo.CountActiveForCleanerOn(ctx, tx, cleaner.ID, task.ScheduledDate)
		if err != nil {
			return nil, log.Err("failed to count cleaner load", err, "cleanerID", cleaner.ID)
		}
		if int(load) >= cleaner.MaxTasksPerDay {
			continue
		}

		candidates = append(candidates, Candidate{
			Cleaner: cleaner,
			Load:    int(load),
			Score:   Score(cleaner, int(load)),
		})
	}

	// Stable sort keeps the ID-ordered walk as the tiebreak.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates, nil
}

// AutoAssign picks the best-scoring eligible cleaner and claims the task.
// Returns ErrNoEligibleCleaner when no candidate passes the filters and
// ErrAlreadyAssigned when another writer claimed the task first.
func (s *AssignmentService) AutoAssign(
	ctx context.Context,
	tx *gorm.DB,
	task *CleaningTask,
	propertyZipCode string,
) (*Cleaner, error) {
	log := logger.NewWithContext(ctx, "assignmentService").Function("AutoAssign")

	candidates, err := s.EligibleCleaners(ctx, tx, task, propertyZipCode)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, ErrNoEligibleCleaner
	}

	best := candidates[0]
	claimed, err := s.taskRepo.AssignIfUnassigned(
		ctx,
		tx,
		task.ID,
		best.Cleaner.ID,
		AssignmentAuto,
	)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrAlreadyAssigned
	}

	log.Info(
		"task auto-assigned",
		"taskID",
		task.ID,
		"cleanerID",
		best.Cleaner.ID,
		"score",
		best.Score,
	)

	return best.Cleaner, nil
}

// AssignManually claims the task for a specific cleaner, subject to capacity.
func (s *AssignmentService) AssignManually(
	ctx context.Context,
	tx *gorm.DB,
	task *CleaningTask,
	cleanerID uuid.UUID,
) error {
	log := logger.NewWithContext(ctx, "assignmentService").Function("AssignManually")

	cleaner, err := s.cleanerRepo.GetByID(ctx, tx, cleanerID)
	if err != nil {
		return err
	}

	if cleaner.Status != CleanerActive {
		return ErrNoEligibleCleaner
	}

	load, err := s.taskRepo.CountActiveForCleanerOn(ctx, tx, cleanerID, task.ScheduledDate)
	if err != nil {
		return err
	}
	if int(load) >= cleaner.MaxTasksPerDay {
		return ErrNoEligibleCleaner
	}

	claimed, err := s.taskRepo.AssignIfUnassigned(ctx, tx, task.ID, cleanerID, AssignmentManual)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrAlreadyAssigned
	}

	log.Info("task manually assigned", "taskID", task.ID, "cleanerID", cleanerID)
	return nil
}
