package repositories

import (
	"tidyops/internal/database"
)

type Repository struct {
	Task         TaskRepository
	Cleaner      CleanerRepository
	Schedule     ScheduleRepository
	Availability AvailabilityRepository
	Route        RouteRepository
}

func New(db database.DB) Repository {
	return Repository{
		Task:         NewTaskRepository(),
		Cleaner:      NewCleanerRepository(db), // Cleaner repo caches profiles for assignment passes
		Schedule:     NewScheduleRepository(),
		Availability: NewAvailabilityRepository(),
		Route:        NewRouteRepository(),
	}
}
