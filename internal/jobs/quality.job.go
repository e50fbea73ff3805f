package jobs

import (
	"context"
	"time"
	"tidyops/internal/logger"
	"tidyops/internal/services"
)

// QualityCheckJob flags completed tasks for inspection once a day.
type QualityCheckJob struct {
	qualityService *services.QualityService
	log            logger.Logger
	schedule       services.Schedule
}

func NewQualityCheckJob(
	qualityService *services.QualityService,
	schedule services.Schedule,
) *QualityCheckJob {
	log := logger.New("qualityCheckJob")
	log.Info("Creating new quality check job", "schedule", schedule)

	return &QualityCheckJob{
		qualityService: qualityService,
		log:            log,
		schedule:       schedule,
	}
}

func (j *QualityCheckJob) Name() string {
	return "QualityCheckSelection"
}

func (j *QualityCheckJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	flagged, err := j.qualityService.ScheduleQualityChecks(ctx, time.Now().UTC())
	if err != nil {
		return log.Err("quality check selection failed", err)
	}

	log.Info("Quality check selection completed", "flagged", flagged)
	return nil
}

func (j *QualityCheckJob) Schedule() services.Schedule {
	return j.schedule
}
