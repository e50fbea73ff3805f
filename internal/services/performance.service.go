package services

import (
	"context"
	"tidyops/internal/logger"
	. "tidyops/internal/models"
	"tidyops/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PerformanceSummary is a cleaner's aggregates recomputed from their
// completed task history. Stored aggregates are never incremented in place;
// replaying the history keeps them correct after corrections and reviews.
type PerformanceSummary struct {
	TotalTasksCompleted  int      `json:"totalTasksCompleted"`
	TotalRatings         int      `json:"totalRatings"`
	AverageRating        *float64 `json:"averageRating,omitempty"`
	OnTimeCompletionRate *float64 `json:"onTimeCompletionRate,omitempty"`
}

type PerformanceService struct {
	taskRepo    repositories.TaskRepository
	cleanerRepo repositories.CleanerRepository
	log         logger.Logger
}

func NewPerformanceService(repos repositories.Repository) *PerformanceService {
	return &PerformanceService{
		taskRepo:    repos.Task,
		cleanerRepo: repos.Cleaner,
		log:         logger.New("performanceService"),
	}
}

// ComputePerformance replays a completed task history into aggregates.
// A task is on time when its actual duration fit the estimate.
func ComputePerformance(tasks []*CleaningTask) PerformanceSummary {
	summary := PerformanceSummary{
		TotalTasksCompleted: len(tasks),
	}

	if len(tasks) == 0 {
		return summary
	}

	ratingSum := 0
	onTime := 0
	timed := 0
	for _, task := range tasks {
		if task.QualityRating != nil {
			summary.TotalRatings++
			ratingSum += *task.QualityRating
		}
		if task.ActualDuration != nil {
			timed++
			if *task.ActualDuration <= task.EstimatedDuration {
				onTime++
			}
		}
	}

	if summary.TotalRatings > 0 {
		avg := float64(ratingSum) / float64(summary.TotalRatings)
		summary.AverageRating = &avg
	}
	if timed > 0 {
		rate := float64(onTime) / float64(timed)
		summary.OnTimeCompletionRate = &rate
	}

	return summary
}

// Refresh recomputes and stores a cleaner's aggregates.
func (s *PerformanceService) Refresh(
	ctx context.Context,
	tx *gorm.DB,
	cleanerID uuid.UUID,
) (*PerformanceSummary, error) {
	log := logger.NewWithContext(ctx, "performanceService").Function("Refresh")

	completed, err := s.taskRepo.FindCompletedForCleaner(ctx, tx, cleanerID)
	if err != nil {
		return nil, err
	}

	summary := ComputePerformance(completed)

	err = s.cleanerRepo.Update(ctx, tx, cleanerID, map[string]any{
		"total_tasks_completed":   summary.TotalTasksCompleted,
		"total_ratings":           summary.TotalRatings,
		"average_rating":          summary.AverageRating,
		"on_time_completion_rate": summary.OnTimeCompletionRate,
	})
	if err != nil {
		return nil, err
	}

	log.Info(
		"cleaner performance refreshed",
		"cleanerID",
		cleanerID,
		"completed",
		summary.TotalTasksCompleted,
	)
	return &summary, nil
}
