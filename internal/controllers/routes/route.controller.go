package routeController

import (
	"context"
	"errors"
	"time"
	"tidyops/config"
	"tidyops/internal/database"
	"tidyops/internal/logger"
	. "tidyops/internal/models"
	"tidyops/internal/repositories"
	"tidyops/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type RouteController struct {
	routeRepo    repositories.RouteRepository
	routeService *services.RouteService
	db           database.DB
	Config       config.Config
	log          logger.Logger
}

type RouteControllerInterface interface {
	PlanRoute(ctx context.Context, cleanerID uuid.UUID, date time.Time) (*CleaningRoute, error)
	PlanRoutesForDate(ctx context.Context, date time.Time) ([]*CleaningRoute, error)
	GetRoute(ctx context.Context, cleanerID uuid.UUID, date time.Time) (*CleaningRoute, error)
	GetRoutesForDate(ctx context.Context, date time.Time) ([]*CleaningRoute, error)
	UpdateRouteStatus(ctx context.Context, routeID uuid.UUID, status RouteStatus) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) RouteControllerInterface {
	return &RouteController{
		routeRepo:    repos.Route,
		routeService: services.Route,
		db:           db,
		Config:       config,
		log:          logger.New("routeController"),
	}
}

func (c *RouteController) PlanRoute(
	ctx context.Context,
	cleanerID uuid.UUID,
	date time.Time,
) (*CleaningRoute, error) {
	log := c.log.Function("PlanRoute")

	route, err := c.routeService.PlanRoute(ctx, c.db.SQL, cleanerID, date)
	if err != nil {
		return nil, log.Err("failed to plan route", err, "cleanerID", cleanerID, "date", date)
	}
	if route == nil {
		return nil, ErrNotFound
	}

	return route, nil
}

func (c *RouteController) PlanRoutesForDate(
	ctx context.Context,
	date time.Time,
) ([]*CleaningRoute, error) {
	log := c.log.Function("PlanRoutesForDate")

	routes, err := c.routeService.PlanRoutesForDate(ctx, date)
	if err != nil {
		return nil, log.Err("failed to plan routes", err, "date", date)
	}

	return routes, nil
}

func (c *RouteController) GetRoute(
	ctx context.Context,
	cleanerID uuid.UUID,
	date time.Time,
) (*CleaningRoute, error) {
	log := c.log.Function("GetRoute")

	route, err := c.routeRepo.GetForCleanerOn(ctx, c.db.SQL, cleanerID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get route", err, "cleanerID", cleanerID, "date", date)
	}

	return route, nil
}

func (c *RouteController) GetRoutesForDate(
	ctx context.Context,
	date time.Time,
) ([]*CleaningRoute, error) {
	log := c.log.Function("GetRoutesForDate")

	routes, err := c.routeRepo.FindForDate(ctx, c.db.SQL, date)
	if err != nil {
		return nil, log.Err("failed to get routes", err, "date", date)
	}

	return routes, nil
}

func (c *RouteController) UpdateRouteStatus(
	ctx context.Context,
	routeID uuid.UUID,
	status RouteStatus,
) error {
	log := c.log.Function("UpdateRouteStatus")

	if err := c.routeRepo.UpdateStatus(ctx, c.db.SQL, routeID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return log.Err("failed to update route status", err, "routeID", routeID)
	}

	log.Info("route status updated", "routeID", routeID, "status", status)
	return nil
}
