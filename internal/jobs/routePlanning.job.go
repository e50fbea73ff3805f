package jobs

import (
	"context"
	"time"
	"tidyops/internal/logger"
	"tidyops/internal/services"
)

// RoutePlanningJob rebuilds the day's routes each morning so overnight
// assignments and cancellations are reflected before cleaners head out.
type RoutePlanningJob struct {
	routeService *services.RouteService
	log          logger.Logger
	schedule     services.Schedule
}

func NewRoutePlanningJob(
	routeService *services.RouteService,
	schedule services.Schedule,
) *RoutePlanningJob {
	log := logger.New("routePlanningJob")
	log.Info("Creating new route planning job", "schedule", schedule)

	return &RoutePlanningJob{
		routeService: routeService,
		log:          log,
		schedule:     schedule,
	}
}

func (j *RoutePlanningJob) Name() string {
	return "DailyRoutePlanning"
}

func (j *RoutePlanningJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	routes, err := j.routeService.PlanRoutesForDate(ctx, time.Now().UTC())
	if err != nil {
		return log.Err("route planning failed", err)
	}

	log.Info("Route planning completed", "routes", len(routes))
	return nil
}

func (j *RoutePlanningJob) Schedule() services.Schedule {
	return j.schedule
}
