package controllers

import (
	"tidyops/config"
	"tidyops/internal/database"
	"tidyops/internal/repositories"
	"tidyops/internal/services"

	cleanerController "tidyops/internal/controllers/cleaners"
	routeController "tidyops/internal/controllers/routes"
	scheduleController "tidyops/internal/controllers/schedules"
	taskController "tidyops/internal/controllers/tasks"
)

type Controllers struct {
	Task     taskController.TaskControllerInterface
	Cleaner  cleanerController.CleanerControllerInterface
	Schedule scheduleController.ScheduleControllerInterface
	Route    routeController.RouteControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Task:     taskController.New(repos, services, config, db),
		Cleaner:  cleanerController.New(repos, services, config, db),
		Schedule: scheduleController.New(repos, services, config, db),
		Route:    routeController.New(repos, services, config, db),
	}
}
