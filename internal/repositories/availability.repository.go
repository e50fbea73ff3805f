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

type AvailabilityRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, block *AvailabilityBlock) error
	FindForCleanerOn(
		ctx context.Context,
		tx *gorm.DB,
		cleanerID uuid.UUID,
		date time.Time,
	) ([]*AvailabilityBlock, error)
	FindForDate(ctx context.Context, tx *gorm.DB, date time.Time) ([]*AvailabilityBlock, error)
	FindRange(
		ctx context.Context,
		tx *gorm.DB,
		cleanerID uuid.UUID,
		from time.Time,
		to time.Time,
	) ([]*AvailabilityBlock, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type availabilityRepository struct{}

func NewAvailabilityRepository() AvailabilityRepository {
	return &availabilityRepository{}
}

// Upsert writes a block, replacing any prior block with the same
// (cleaner, date, startTime) key. Setting availability twice for the same slot
// updates instead of duplicating.
func (r *availabilityRepository) Upsert(
	ctx context.Context,
	tx *gorm.DB,
	block *AvailabilityBlock,
) error {
	log := logger.NewWithContext(ctx, "availabilityRepository").Function("Upsert")

	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "cleaner_id"},
				{Name: "date"},
				{Name: "start_time"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"end_time",
				"is_available",
				"reason",
				"updated_at",
			}),
		}).
		Create(block).Error; err != nil {
		return log.Err(
			"failed to upsert availability block",
			err,
			"cleanerID",
			block.CleanerID,
			"date",
			block.Date,
		)
	}

	return nil
}

func (r *availabilityRepository) FindForCleanerOn(
	ctx context.Context,
	tx *gorm.DB,
	cleanerID uuid.UUID,
	date time.Time,
) ([]*AvailabilityBlock, error) {
	log := logger.NewWithContext(ctx, "availabilityRepository").Function("FindForCleanerOn")

	dayStart, dayEnd := utils.DayBounds(date)

	var blocks []*AvailabilityBlock
	if err := tx.WithContext(ctx).
		Where("cleaner_id = ?", cleanerID).
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, log.Err(
			"failed to find availability blocks",
			err,
			"cleanerID",
			cleanerID,
			"date",
			date,
		)
	}

	return blocks, nil
}

func (r *availabilityRepository) FindForDate(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
) ([]*AvailabilityBlock, error) {
	log := logger.NewWithContext(ctx, "availabilityRepository").Function("FindForDate")

	dayStart, dayEnd := utils.DayBounds(date)

	var blocks []*AvailabilityBlock
	if err := tx.WithContext(ctx).
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Find(&blocks).Error; err != nil {
		return nil, log.Err("failed to find availability blocks for date", err, "date", date)
	}

	return blocks, nil
}

func (r *availabilityRepository) FindRange(
	ctx context.Context,
	tx *gorm.DB,
	cleanerID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]*AvailabilityBlock, error) {
	log := logger.NewWithContext(ctx, "availabilityRepository").Function("FindRange")

	var blocks []*AvailabilityBlock
	if err := tx.WithContext(ctx).
		Where("cleaner_id = ?", cleanerID).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC, start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, log.Err(
			"failed to find availability range",
			err,
			"cleanerID",
			cleanerID,
		)
	}

	return blocks, nil
}

func (r *availabilityRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "availabilityRepository").Function("Delete")

	result := tx.WithContext(ctx).Delete(&AvailabilityBlock{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete availability block", result.Error, "blockID", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
