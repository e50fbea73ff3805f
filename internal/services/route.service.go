package services

import (
	"context"
	"sort"
	"time"
	"tidyops/internal/database"
	"tidyops/internal/logger"
	. "tidyops/internal/models"
	"tidyops/internal/repositories"
	"tidyops/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// transitMinutes is the flat per-stop travel estimate used until the external
// distance-matrix collaborator is wired in.
const transitMinutes = 15

type RouteService struct {
	db        database.DB
	taskRepo  repositories.TaskRepository
	routeRepo repositories.RouteRepository
	location  *LocationService
	log       logger.Logger
}

func NewRouteService(
	db database.DB,
	repos repositories.Repository,
	location *LocationService,
) *RouteService {
	return &RouteService{
		db:        db,
		taskRepo:  repos.Task,
		routeRepo: repos.Route,
		location:  location,
		log:       logger.New("routeService"),
	}
}

// SequenceTasks orders a day's stops: priority first (URGENT before LOW),
// scheduled start time within the same priority. The sort is stable so equal
// keys keep their input order.
func SequenceTasks(tasks []*CleaningTask) []*CleaningTask {
	ordered := make([]*CleaningTask, len(tasks))
	copy(ordered, tasks)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority.Rank() != ordered[j].Priority.Rank() {
			return ordered[i].Priority.Rank() < ordered[j].Priority.Rank()
		}
		return ordered[i].ScheduledStartTime < ordered[j].ScheduledStartTime
	})

	return ordered
}

// PlanRoute builds and stores the day plan for one cleaner, replacing any
// prior plan for the same date. Returns nil when the cleaner has no
// assignable tasks that day.
func (s *RouteService) PlanRoute(
	ctx context.Context,
	tx *gorm.DB,
	cleanerID uuid.UUID,
	date time.Time,
) (*CleaningRoute, error) {
	log := logger.NewWithContext(ctx, "routeService").Function("PlanRoute")

	tasks, err := s.taskRepo.FindForCleanerOn(
		ctx,
		tx,
		cleanerID,
		date,
		[]TaskStatus{StatusScheduled, StatusAssigned},
	)
	if err != nil {
		return nil, err
	}

	if len(tasks) == 0 {
		log.Info("no tasks to route", "cleanerID", cleanerID, "date", date)
		return nil, nil
	}

	ordered := SequenceTasks(tasks)

	taskIDs := make([]uuid.UUID, len(ordered))
	totalMinutes := 0
	for i, task := range ordered {
		taskIDs[i] = task.ID
		totalMinutes += task.EstimatedDuration + transitMinutes
	}

	estimatedStart := ordered[0].ScheduledStartTime
	estimatedEnd, err := utils.AddMinutesToClock(estimatedStart, totalMinutes)
	if err != nil {
		return nil, log.Err(
			"failed to compute route end time",
			err,
			"cleanerID",
			cleanerID,
			"start",
			estimatedStart,
		)
	}

	route := &CleaningRoute{
		CleanerID:      cleanerID,
		RouteDate:      utils.Midnight(date),
		TaskIDs:        datatypes.NewJSONSlice(taskIDs),
		TotalDistance:  s.location.RouteDistance(ctx, ordered),
		EstimatedStart: estimatedStart,
		EstimatedEnd:   estimatedEnd,
		Status:         RoutePlanned,
	}

	if err := s.routeRepo.Upsert(ctx, tx, route); err != nil {
		return nil, err
	}

	log.Info(
		"route planned",
		"cleanerID",
		cleanerID,
		"date",
		date,
		"stops",
		len(taskIDs),
		"estimatedEnd",
		estimatedEnd,
	)
	return route, nil
}

// PlanRoutesForDate replans every cleaner that holds tasks on the date.
func (s *RouteService) PlanRoutesForDate(
	ctx context.Context,
	date time.Time,
) ([]*CleaningRoute, error) {
	log := logger.NewWithContext(ctx, "routeService").Function("PlanRoutesForDate")

	tx := s.db.SQLWithContext(ctx)

	dayStart, dayEnd := utils.DayBounds(date)
	status := StatusAssigned
	tasks, err := s.taskRepo.Query(ctx, tx, repositories.TaskQuery{
		Status:   &status,
		DateFrom: &dayStart,
		DateTo:   &dayEnd,
	})
	if err != nil {
		return nil, err
	}

	cleanerIDs := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for _, task := range tasks {
		if task.AssignedCleanerID == nil || seen[*task.AssignedCleanerID] {
			continue
		}
		seen[*task.AssignedCleanerID] = true
		cleanerIDs = append(cleanerIDs, *task.AssignedCleanerID)
	}

	routes := make([]*CleaningRoute, 0, len(cleanerIDs))
	for _, cleanerID := range cleanerIDs {
		route, err := s.PlanRoute(ctx, tx, cleanerID, date)
		if err != nil {
			_ = log.Err(
				"failed to plan route, continuing",
				err,
				"cleanerID",
				cleanerID,
				"date",
				date,
			)
			continue
		}
		if route != nil {
			routes = append(routes, route)
		}
	}

	log.Info("routes planned for date", "date", date, "routes", len(routes))
	return routes, nil
}
