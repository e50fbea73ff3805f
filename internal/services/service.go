package services

import (
	"tidyops/config"
	"tidyops/internal/database"
	"tidyops/internal/repositories"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Recurrence  *RecurrenceService
	Assignment  *AssignmentService
	Dispatch    *DispatchService
	Route       *RouteService
	Quality     *QualityService
	Location    *LocationService
	Performance *PerformanceService
}

func New(db database.DB, config config.Config) (Service, error) {
	transactionService := NewTransactionService(db)
	repos := repositories.New(db)

	schedulerService := NewSchedulerService()
	recurrenceService := NewRecurrenceService()
	locationService := NewLocationService()
	assignmentService := NewAssignmentService(repos, config)
	dispatchService := NewDispatchService(
		db,
		repos,
		recurrenceService,
		assignmentService,
		transactionService,
		config,
	)
	routeService := NewRouteService(db, repos, locationService)
	qualityService := NewQualityService(db, repos, config, nil)
	performanceService := NewPerformanceService(repos)

	return Service{
		Transaction: transactionService,
		Scheduler:   schedulerService,
		Recurrence:  recurrenceService,
		Assignment:  assignmentService,
		Dispatch:    dispatchService,
		Route:       routeService,
		Quality:     qualityService,
		Location:    locationService,
		Performance: performanceService,
	}, nil
}
