package repositories

import (
	"context"
	"time"
	"tidyops/internal/logger"
	. "tidyops/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, schedule *CleaningSchedule) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*CleaningSchedule, error)
	GetByProperty(
		ctx context.Context,
		tx *gorm.DB,
		propertyID uuid.UUID,
	) ([]*CleaningSchedule, error)
	FindDue(ctx context.Context, tx *gorm.DB, now time.Time) ([]*CleaningSchedule, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	ClaimOccurrence(
		ctx context.Context,
		tx *gorm.DB,
		scheduleID uuid.UUID,
		observed time.Time,
		next *time.Time,
		executed time.Time,
	) (bool, error)
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type scheduleRepository struct{}

func NewScheduleRepository() ScheduleRepository {
	return &scheduleRepository{}
}

func (r *scheduleRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	schedule *CleaningSchedule,
) error {
	log := logger.NewWithContext(ctx, "scheduleRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(schedule).Error; err != nil {
		return log.Err(
			"failed to create cleaning schedule",
			err,
			"propertyID",
			schedule.PropertyID,
			"scheduleType",
			schedule.ScheduleType,
		)
	}

	return nil
}

func (r *scheduleRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*CleaningSchedule, error) {
	log := logger.NewWithContext(ctx, "scheduleRepository").Function("GetByID")

	var schedule CleaningSchedule
	if err := tx.WithContext(ctx).First(&schedule, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get cleaning schedule", err, "scheduleID", id)
	}

	return &schedule, nil
}

func (r *scheduleRepository) GetByProperty(
	ctx context.Context,
	tx *gorm.DB,
	propertyID uuid.UUID,
) ([]*CleaningSchedule, error) {
	log := logger.NewWithContext(ctx, "scheduleRepository").Function("GetByProperty")

	var schedules []*CleaningSchedule
	if err := tx.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Find(&schedules).Error; err != nil {
		return nil, log.Err("failed to get schedules for property", err, "propertyID", propertyID)
	}

	return schedules, nil
}

func (r *scheduleRepository) FindDue(
	ctx context.Context,
	tx *gorm.DB,
	now time.Time,
) ([]*CleaningSchedule, error) {
	log := logger.NewWithContext(ctx, "scheduleRepository").Function("FindDue")

	var schedules []*CleaningSchedule
	if err := tx.WithContext(ctx).
		Where("is_active = ?", true).
		Where("next_execution IS NOT NULL AND next_execution <= ?", now).
		Order("next_execution ASC").
		Find(&schedules).Error; err != nil {
		return nil, log.Err("failed to find due schedules", err)
	}

	return schedules, nil
}

func (r *scheduleRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) error {
	log := logger.NewWithContext(ctx, "scheduleRepository").Function("Update")

	result := tx.WithContext(ctx).
		Model(&CleaningSchedule{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return log.Err("failed to update cleaning schedule", result.Error, "scheduleID", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// ClaimOccurrence advances a due schedule past its observed nextExecution.
// The update is conditioned on the value the sweep read, so two concurrent
// sweeps can both find the schedule due but only one claim succeeds.
func (r *scheduleRepository) ClaimOccurrence(
	ctx context.Context,
	tx *gorm.DB,
	scheduleID uuid.UUID,
	observed time.Time,
	next *time.Time,
	executed time.Time,
) (bool, error) {
	log := logger.NewWithContext(ctx, "scheduleRepository").Function("ClaimOccurrence")

	updates := map[string]any{
		"next_execution": next,
		"last_executed":  executed,
	}
	if next == nil {
		updates["is_active"] = false
	}

	result := tx.WithContext(ctx).
		Model(&CleaningSchedule{}).
		Where("id = ? AND next_execution = ?", scheduleID, observed).
		Updates(updates)
	if result.Error != nil {
		return false, log.Err(
			"failed to claim schedule occurrence",
			result.Error,
			"scheduleID",
			scheduleID,
		)
	}

	return result.RowsAffected == 1, nil
}

func (r *scheduleRepository) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "scheduleRepository").Function("Deactivate")

	result := tx.WithContext(ctx).
		Model(&CleaningSchedule{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "next_execution": nil})
	if result.Error != nil {
		return log.Err("failed to deactivate schedule", result.Error, "scheduleID", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
