package repositories

import (
	"context"
	"time"
	"tidyops/internal/logger"
	. "tidyops/internal/models"
	"tidyops/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RouteRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, route *CleaningRoute) error
	GetForCleanerOn(
		ctx context.Context,
		tx *gorm.DB,
		cleanerID uuid.UUID,
		date time.Time,
	) (*CleaningRoute, error)
	FindForDate(ctx context.Context, tx *gorm.DB, date time.Time) ([]*CleaningRoute, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status RouteStatus) error
}

type routeRepository struct{}

func NewRouteRepository() RouteRepository {
	return &routeRepository{}
}

// Upsert replaces the plan for a (cleaner, date) key entirely. Replanning
// after new assignments overwrites the stale stop list instead of appending.
func (r *routeRepository) Upsert(ctx context.Context, tx *gorm.DB, route *CleaningRoute) error {
	log := logger.NewWithContext(ctx, "routeRepository").Function("Upsert")

	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "cleaner_id"},
				{Name: "route_date"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"task_ids",
				"total_distance",
				"estimated_start",
				"estimated_end",
				"status",
				"updated_at",
			}),
		}).
		Create(route).Error; err != nil {
		return log.Err(
			"failed to upsert cleaning route",
			err,
			"cleanerID",
			route.CleanerID,
			"routeDate",
			route.RouteDate,
		)
	}

	return nil
}

func (r *routeRepository) GetForCleanerOn(
	ctx context.Context,
	tx *gorm.DB,
	cleanerID uuid.UUID,
	date time.Time,
) (*CleaningRoute, error) {
	log := logger.NewWithContext(ctx, "routeRepository").Function("GetForCleanerOn")

	dayStart, dayEnd := utils.DayBounds(date)

	var route CleaningRoute
	if err := tx.WithContext(ctx).
		Where("cleaner_id = ?", cleanerID).
		Where("route_date >= ? AND route_date < ?", dayStart, dayEnd).
		First(&route).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get cleaning route", err, "cleanerID", cleanerID)
	}

	return &route, nil
}

func (r *routeRepository) FindForDate(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
) ([]*CleaningRoute, error) {
	log := logger.NewWithContext(ctx, "routeRepository").Function("FindForDate")

	dayStart, dayEnd := utils.DayBounds(date)

	var routes []*CleaningRoute
	if err := tx.WithContext(ctx).
		Where("route_date >= ? AND route_date < ?", dayStart, dayEnd).
		Find(&routes).Error; err != nil {
		return nil, log.Err("failed to find cleaning routes for date", err, "date", date)
	}

	return routes, nil
}

func (r *routeRepository) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	status RouteStatus,
) error {
	log := logger.NewWithContext(ctx, "routeRepository").Function("UpdateStatus")

	result := tx.WithContext(ctx).
		Model(&CleaningRoute{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return log.Err("failed to update route status", result.Error, "routeID", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
