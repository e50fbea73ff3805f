package repositories

import (
	"context"
	"time"
	"tidyops/internal/database"
	"tidyops/internal/logger"
	. "tidyops/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CLEANER_CACHE_PREFIX = "cleaner"
	CLEANER_CACHE_EXPIRY = 15 * time.Minute
)

type CleanerRepository interface {
	Create(ctx context.Context, tx *gorm.DB, cleaner *Cleaner) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Cleaner, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*Cleaner, error)
	GetAll(ctx context.Context, tx *gorm.DB, status *CleanerStatus) ([]*Cleaner, error)
	FindActive(ctx context.Context, tx *gorm.DB) ([]*Cleaner, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	Terminate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type cleanerRepository struct {
	cache database.CacheClient
}

func NewCleanerRepository(db database.DB) CleanerRepository {
	return &cleanerRepository{
		cache: db.Cache.Cleaner,
	}
}

func (r *cleanerRepository) Create(ctx context.Context, tx *gorm.DB, cleaner *Cleaner) error {
	log := logger.NewWithContext(ctx, "cleanerRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(cleaner).Error; err != nil {
		return log.Err("failed to create cleaner", err, "email", cleaner.Email)
	}

	return nil
}

func (r *cleanerRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Cleaner, error) {
	log := logger.NewWithContext(ctx, "cleanerRepository").Function("GetByID")

	var cached Cleaner
	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(CLEANER_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get cleaner from cache", "cleanerID", id, "error", err)
	}

	if found {
		return &cached, nil
	}

	var cleaner Cleaner
	if err := tx.WithContext(ctx).First(&cleaner, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get cleaner", err, "cleanerID", id)
	}

	err = database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(CLEANER_CACHE_PREFIX).
		WithStruct(cleaner).
		WithTTL(CLEANER_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to set cleaner in cache", "cleanerID", id, "error", err)
	}

	return &cleaner, nil
}

func (r *cleanerRepository) GetByEmail(
	ctx context.Context,
	tx *gorm.DB,
	email string,
) (*Cleaner, error) {
	log := logger.NewWithContext(ctx, "cleanerRepository").Function("GetByEmail")

	var cleaner Cleaner
	if err := tx.WithContext(ctx).
		Where("email = ?", email).
		First(&cleaner).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get cleaner by email", err, "email", email)
	}

	return &cleaner, nil
}

func (r *cleanerRepository) GetAll(
	ctx context.Context,
	tx *gorm.DB,
	status *CleanerStatus,
) ([]*Cleaner, error) {
	log := logger.NewWithContext(ctx, "cleanerRepository").Function("GetAll")

	query := tx.WithContext(ctx)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var cleaners []*Cleaner
	if err := query.
		Order("last_name ASC, first_name ASC").
		Find(&cleaners).Error; err != nil {
		return nil, log.Err("failed to get cleaners", err)
	}

	return cleaners, nil
}

func (r *cleanerRepository) FindActive(ctx context.Context, tx *gorm.DB) ([]*Cleaner, error) {
	log := logger.NewWithContext(ctx, "cleanerRepository").Function("FindActive")

	var cleaners []*Cleaner
	if err := tx.WithContext(ctx).
		Where("status = ?", CleanerActive).
		Order("id ASC").
		Find(&cleaners).Error; err != nil {
		return nil, log.Err("failed to find active cleaners", err)
	}

	return cleaners, nil
}

func (r *cleanerRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) error {
	log := logger.NewWithContext(ctx, "cleanerRepository").Function("Update")

	result := tx.WithContext(ctx).
		Model(&Cleaner{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return log.Err("failed to update cleaner", result.Error, "cleanerID", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.clearCleanerCache(ctx, id)

	return nil
}

// Terminate soft deletes the row and flips the status so the cleaner never
// appears in assignment candidacy again.
func (r *cleanerRepository) Terminate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "cleanerRepository").Function("Terminate")

	result := tx.WithContext(ctx).
		Model(&Cleaner{}).
		Where("id = ?", id).
		Update("status", CleanerTerminated)
	if result.Error != nil {
		return log.Err("failed to terminate cleaner", result.Error, "cleanerID", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := tx.WithContext(ctx).Delete(&Cleaner{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to soft delete cleaner", err, "cleanerID", id)
	}

	r.clearCleanerCache(ctx, id)

	return nil
}

func (r *cleanerRepository) clearCleanerCache(ctx context.Context, id uuid.UUID) {
	log := logger.NewWithContext(ctx, "cleanerRepository").Function("clearCleanerCache")

	err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(CLEANER_CACHE_PREFIX).
		Delete()
	if err != nil {
		log.Warn("failed to clear cleaner cache", "cleanerID", id, "error", err)
	}
}
