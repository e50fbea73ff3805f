package repositories

import (
	"context"
	"time"
	"tidyops/internal/logger"
	. "tidyops/internal/models"
	"tidyops/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskQuery filters task listings. Zero values mean "no filter".
type TaskQuery struct {
	PropertyID *uuid.UUID
	CleanerID  *uuid.UUID
	Status     *TaskStatus
	TaskType   *TaskType
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

type TaskRepository interface {
	Create(ctx context.Context, tx *gorm.DB, task *CleaningTask) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*CleaningTask, error)
	Query(ctx context.Context, tx *gorm.DB, query TaskQuery) ([]*CleaningTask, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	AssignIfUnassigned(
		ctx context.Context,
		tx *gorm.DB,
		taskID uuid.UUID,
		cleanerID uuid.UUID,
		method AssignmentMethod,
	) (bool, error)
	CountActiveForCleanerOn(
		ctx context.Context,
		tx *gorm.DB,
		cleanerID uuid.UUID,
		date time.Time,
	) (int64, error)
	CountActiveForCleaner(ctx context.Context, tx *gorm.DB, cleanerID uuid.UUID) (int64, error)
	FindForCleanerOn(
		ctx context.Context,
		tx *gorm.DB,
		cleanerID uuid.UUID,
		date time.Time,
		statuses []TaskStatus,
	) ([]*CleaningTask, error)
	FindCompletedSince(
		ctx context.Context,
		tx *gorm.DB,
		since time.Time,
	) ([]*CleaningTask, error)
	FindCompletedForCleaner(
		ctx context.Context,
		tx *gorm.DB,
		cleanerID uuid.UUID,
	) ([]*CleaningTask, error)
	MarkQualityCheckRequired(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
	ExistsForScheduleOccurrence(
		ctx context.Context,
		tx *gorm.DB,
		propertyID uuid.UUID,
		date time.Time,
		startTime string,
	) (bool, error)
}

type taskRepository struct{}

func NewTaskRepository() TaskRepository {
	return &taskRepository{}
}

func (r *taskRepository) Create(ctx context.Context, tx *gorm.DB, task *CleaningTask) error {
	log := logger.NewWithContext(ctx, "taskRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(task).Error; err != nil {
		return log.Err(
			"failed to create cleaning task",
			err,
			"propertyID",
			task.PropertyID,
			"taskType",
			task.TaskType,
		)
	}

	return nil
}

func (r *taskRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*CleaningTask, error) {
	log := logger.NewWithContext(ctx, "taskRepository").Function("GetByID")

	var task CleaningTask
	if err := tx.WithContext(ctx).
		Preload("AssignedCleaner").
		First(&task, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get cleaning task", err, "taskID", id)
	}

	return &task, nil
}

func (r *taskRepository) Query(
	ctx context.Context,
	tx *gorm.DB,
	query TaskQuery,
) ([]*CleaningTask, error) {
	log := logger.NewWithContext(ctx, "taskRepository").Function("Query")

	q := tx.WithContext(ctx).Model(&CleaningTask{})

	if query.PropertyID != nil {
		q = q.Where("property_id = ?", *query.PropertyID)
	}
	if query.CleanerID != nil {
		q = q.Where("assigned_cleaner_id = ?", *query.CleanerID)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if query.TaskType != nil {
		q = q.Where("task_type = ?", *query.TaskType)
	}
	if query.DateFrom != nil {
		q = q.Where("scheduled_date >= ?", *query.DateFrom)
	}
	if query.DateTo != nil {
		q = q.Where("scheduled_date < ?", *query.DateTo)
	}

	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}
	if query.Offset > 0 {
		q = q.Offset(query.Offset)
	}

	var tasks []*CleaningTask
	if err := q.
		Order("scheduled_date ASC, scheduled_start_time ASC").
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to query cleaning tasks", err)
	}

	return tasks, nil
}

func (r *taskRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) error {
	log := logger.NewWithContext(ctx, "taskRepository").Function("Update")

	result := tx.WithContext(ctx).
		Model(&CleaningTask{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return log.Err("failed to update cleaning task", result.Error, "taskID", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// AssignIfUnassigned claims the task for a cleaner only if no cleaner holds it
// yet. Returns false without error when another writer won the claim.
func (r *taskRepository) AssignIfUnassigned(
	ctx context.Context,
	tx *gorm.DB,
	taskID uuid.UUID,
	cleanerID uuid.UUID,
	method AssignmentMethod,
) (bool, error) {
	log := logger.NewWithContext(ctx, "taskRepository").Function("AssignIfUnassigned")

	result := tx.WithContext(ctx).
		Model(&CleaningTask{}).
		Where("id = ? AND assigned_cleaner_id IS NULL AND status = ?", taskID, StatusScheduled).
		Updates(map[string]any{
			"assigned_cleaner_id": cleanerID,
			"status":              StatusAssigned,
			"assignment_method":   method,
		})
	if result.Error != nil {
		return false, log.Err(
			"failed to assign cleaning task",
			result.Error,
			"taskID",
			taskID,
			"cleanerID",
			cleanerID,
		)
	}

	return result.RowsAffected == 1, nil
}

func (r *taskRepository) CountActiveForCleanerOn(
	ctx context.Context,
	tx *gorm.DB,
	cleanerID uuid.UUID,
	date time.Time,
) (int64, error) {
	log := logger.NewWithContext(ctx, "taskRepository").Function("CountActiveForCleanerOn")

	dayStart, dayEnd := utils.DayBounds(date)

	var count int64
	if err := tx.WithContext(ctx).
		Model(&CleaningTask{}).
		Where("assigned_cleaner_id = ?", cleanerID).
		Where("status IN ?", ActiveStatuses).
		Where("scheduled_date >= ? AND scheduled_date < ?", dayStart, dayEnd).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count active tasks", err, "cleanerID", cleanerID)
	}

	return count, nil
}

func (r *taskRepository) CountActiveForCleaner(
	ctx context.Context,
	tx *gorm.DB,
	cleanerID uuid.UUID,
) (int64, error) {
	log := logger.NewWithContext(ctx, "taskRepository").Function("CountActiveForCleaner")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&CleaningTask{}).
		Where("assigned_cleaner_id = ?", cleanerID).
		Where("status IN ?", ActiveStatuses).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count active tasks", err, "cleanerID", cleanerID)
	}

	return count, nil
}

func (r *taskRepository) FindForCleanerOn(
	ctx context.Context,
	tx *gorm.DB,
	cleanerID uuid.UUID,
	date time.Time,
	statuses []TaskStatus,
) ([]*CleaningTask, error) {
	log := logger.NewWithContext(ctx, "taskRepository").Function("FindForCleanerOn")

	dayStart, dayEnd := utils.DayBounds(date)

	var tasks []*CleaningTask
	if err := tx.WithContext(ctx).
		Where("assigned_cleaner_id = ?", cleanerID).
		Where("status IN ?", statuses).
		Where("scheduled_date >= ? AND scheduled_date < ?", dayStart, dayEnd).
		Find(&tasks).Error; err != nil {
		return nil, log.Err(
			"failed to find tasks for cleaner",
			err,
			"cleanerID",
			cleanerID,
			"date",
			date,
		)
	}

	return tasks, nil
}

func (r *taskRepository) FindCompletedSince(
	ctx context.Context,
	tx *gorm.DB,
	since time.Time,
) ([]*CleaningTask, error) {
	log := logger.NewWithContext(ctx, "taskRepository").Function("FindCompletedSince")

	var tasks []*CleaningTask
	if err := tx.WithContext(ctx).
		Where("status = ?", StatusCompleted).
		Where("completed_at >= ?", since).
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to find completed tasks", err, "since", since)
	}

	return tasks, nil
}

func (r *taskRepository) FindCompletedForCleaner(
	ctx context.Context,
	tx *gorm.DB,
	cleanerID uuid.UUID,
) ([]*CleaningTask, error) {
	log := logger.NewWithContext(ctx, "taskRepository").Function("FindCompletedForCleaner")

	var tasks []*CleaningTask
	if err := tx.WithContext(ctx).
		Where("assigned_cleaner_id = ?", cleanerID).
		Where("status = ?", StatusCompleted).
		Order("completed_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to find completed tasks for cleaner", err, "cleanerID", cleanerID)
	}

	return tasks, nil
}

func (r *taskRepository) MarkQualityCheckRequired(
	ctx context.Context,
	tx *gorm.DB,
	ids []uuid.UUID,
) (int64, error) {
	log := logger.NewWithContext(ctx, "taskRepository").Function("MarkQualityCheckRequired")

	if len(ids) == 0 {
		return 0, nil
	}

	result := tx.WithContext(ctx).
		Model(&CleaningTask{}).
		Where("id IN ?", ids).
		Where("quality_check_done = ?", false).
		Update("quality_check_required", true)
	if result.Error != nil {
		return 0, log.Err("failed to mark tasks for quality check", result.Error, "count", len(ids))
	}

	return result.RowsAffected, nil
}

// ExistsForScheduleOccurrence detects an already dispatched occurrence so a
// retried sweep does not create the same task twice.
func (r *taskRepository) ExistsForScheduleOccurrence(
	ctx context.Context,
	tx *gorm.DB,
	propertyID uuid.UUID,
	date time.Time,
	startTime string,
) (bool, error) {
	log := logger.NewWithContext(ctx, "taskRepository").Function("ExistsForScheduleOccurrence")

	dayStart, dayEnd := utils.DayBounds(date)

	var count int64
	if err := tx.WithContext(ctx).
		Model(&CleaningTask{}).
		Where("property_id = ?", propertyID).
		Where("scheduled_date >= ? AND scheduled_date < ?", dayStart, dayEnd).
		Where("scheduled_start_time = ?", startTime).
		Count(&count).Error; err != nil {
		return false, log.Err(
			"failed to check for existing occurrence",
			err,
			"propertyID",
			propertyID,
		)
	}

	return count > 0, nil
}
