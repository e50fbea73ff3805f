package app

import (
	"context"
	"tidyops/config"
	"tidyops/internal/controllers"
	"tidyops/internal/database"
	"tidyops/internal/handlers/middleware"
	"tidyops/internal/jobs"
	"tidyops/internal/logger"
	"tidyops/internal/repositories"
	"tidyops/internal/services"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Config     config.Config

	Services     services.Service
	Repositories repositories.Repository
	Controllers  controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	repos := repositories.New(db)

	service, err := services.New(db, config)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	middleware := middleware.New(db, config, repos)
	controllers := controllers.New(service, repos, config, db)

	if config.SchedulerEnabled {
		dispatchJob := jobs.NewDispatchJob(service.Dispatch, services.EveryFiveMinutes)
		if err := service.Scheduler.AddJob(dispatchJob); err != nil {
			return &App{}, log.Err("failed to register dispatch job", err)
		}
		log.Info("Registered dispatch job with scheduler")

		qualityJob := jobs.NewQualityCheckJob(service.Quality, services.Daily)
		if err := service.Scheduler.AddJob(qualityJob); err != nil {
			return &App{}, log.Err("failed to register quality check job", err)
		}
		log.Info("Registered quality check job with scheduler")

		routeJob := jobs.NewRoutePlanningJob(service.Route, services.Daily)
		if err := service.Scheduler.AddJob(routeJob); err != nil {
			return &App{}, log.Err("failed to register route planning job", err)
		}
		log.Info("Registered route planning job with scheduler")

		if err := service.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:     db,
		Config:       config,
		Middleware:   middleware,
		Services:     service,
		Repositories: repos,
		Controllers:  controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Recurrence,
		a.Services.Assignment,
		a.Services.Dispatch,
		a.Services.Route,
		a.Services.Quality,
		a.Services.Performance,
		a.Controllers.Task,
		a.Controllers.Cleaner,
		a.Controllers.Schedule,
		a.Controllers.Route,
		a.Repositories.Task,
		a.Repositories.Cleaner,
		a.Repositories.Schedule,
		a.Repositories.Availability,
		a.Repositories.Route,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
