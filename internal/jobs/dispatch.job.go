package jobs

import (
	"context"
	"time"
	"tidyops/internal/logger"
	"tidyops/internal/services"
)

// DispatchJob sweeps due schedules into concrete tasks on a short cadence so
// occurrences are materialized close to their nextExecution instant.
type DispatchJob struct {
	dispatchService *services.DispatchService
	log             logger.Logger
	schedule        services.Schedule
}

func NewDispatchJob(
	dispatchService *services.DispatchService,
	schedule services.Schedule,
) *DispatchJob {
	log := logger.New("dispatchJob")
	log.Info("Creating new dispatch job", "schedule", schedule)

	return &DispatchJob{
		dispatchService: dispatchService,
		log:             log,
		schedule:        schedule,
	}
}

func (j *DispatchJob) Name() string {
	return "ScheduleDispatchSweep"
}

func (j *DispatchJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	created, err := j.dispatchService.ProcessDueSchedules(ctx, time.Now().UTC())
	if err != nil {
		return log.Err("dispatch sweep failed", err)
	}

	if created > 0 {
		log.Info("Dispatch sweep created tasks", "created", created)
	}
	return nil
}

func (j *DispatchJob) Schedule() services.Schedule {
	return j.schedule
}
