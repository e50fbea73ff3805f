package taskController

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
	"tidyops/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MaxNotesLength   = 2000
	reviewThreshold  = 3
	MinQualityRating = 1
	MaxQualityRating = 5
)

var (
	ErrValidation             = errors.New("validation error")
	ErrNotFound               = errors.New("not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

type TaskController struct {
	taskRepo           repositories.TaskRepository
	transactionService *services.TransactionService
	assignmentService  *services.AssignmentService
	performanceService *services.PerformanceService
	locationService    *services.LocationService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreateTaskRequest struct {
	PropertyID         uuid.UUID     `json:"propertyId"`
	UnitID             *uuid.UUID    `json:"unitId,omitempty"`
	ReservationID      *uuid.UUID    `json:"reservationId,omitempty"`
	TaskType           TaskType      `json:"taskType"`
	Priority           TaskPriority  `json:"priority,omitempty"`
	ScheduledDate      time.Time     `json:"scheduledDate"`
	ScheduledStartTime string        `json:"scheduledStartTime"`
	EstimatedDuration  int           `json:"estimatedDuration"`
	ChecklistTemplate  string        `json:"checklistTemplate,omitempty"`
	AssignedCleanerID  *uuid.UUID    `json:"assignedCleanerId,omitempty"`
	AutoAssign         bool          `json:"autoAssign,omitempty"`
	AccessCode         string        `json:"accessCode,omitempty"`
	AccessMethod       *AccessMethod `json:"accessMethod,omitempty"`
	ManagerNotes       string        `json:"managerNotes,omitempty"`
}

type UpdateTaskRequest struct {
	Priority           *TaskPriority `json:"priority,omitempty"`
	ScheduledDate      *time.Time    `json:"scheduledDate,omitempty"`
	ScheduledStartTime *string       `json:"scheduledStartTime,omitempty"`
	EstimatedDuration  *int          `json:"estimatedDuration,omitempty"`
	AccessCode         *string       `json:"accessCode,omitempty"`
	AccessMethod       *AccessMethod `json:"accessMethod,omitempty"`
	ManagerNotes       *string       `json:"managerNotes,omitempty"`
	CoordinationNotes  *string       `json:"coordinationNotes,omitempty"`
}

type QueryTasksRequest struct {
	PropertyID *uuid.UUID  `json:"propertyId,omitempty"`
	CleanerID  *uuid.UUID  `json:"cleanerId,omitempty"`
	Status     *TaskStatus `json:"status,omitempty"`
	TaskType   *TaskType   `json:"taskType,omitempty"`
	DateFrom   *time.Time  `json:"dateFrom,omitempty"`
	DateTo     *time.Time  `json:"dateTo,omitempty"`
	Limit      int         `json:"limit,omitempty"`
	Offset     int         `json:"offset,omitempty"`
}

type CompleteTaskRequest struct {
	Checklist      []ChecklistItem `json:"checklist"`
	PhotosAfter    []string        `json:"photosAfter,omitempty"`
	SuppliesUsed   []SupplyUsage   `json:"suppliesUsed,omitempty"`
	IssuesReported []ReportedIssue `json:"issuesReported,omitempty"`
	CleanerNotes   string          `json:"cleanerNotes,omitempty"`
}

type AssignTaskRequest struct {
	CleanerID *uuid.UUID `json:"cleanerId,omitempty"`
}

type StartTaskRequest struct {
	StartedAt *time.Time `json:"startedAt,omitempty"`
}

// startInstant picks the caller-reported start when one is supplied.
func startInstant(request *StartTaskRequest, now time.Time) time.Time {
	if request != nil && request.StartedAt != nil {
		return *request.StartedAt
	}
	return now
}

type QualityCheckRequest struct {
	Rating int    `json:"rating"`
	Notes  string `json:"notes,omitempty"`
}

type TaskControllerInterface interface {
	CreateTask(ctx context.Context, request *CreateTaskRequest) (*CleaningTask, error)
	GetTask(ctx context.Context, taskID uuid.UUID) (*CleaningTask, error)
	QueryTasks(ctx context.Context, request *QueryTasksRequest) ([]*CleaningTask, error)
	UpdateTask(
		ctx context.Context,
		taskID uuid.UUID,
		request *UpdateTaskRequest,
	) (*CleaningTask, error)
	AssignTask(
		ctx context.Context,
		taskID uuid.UUID,
		request *AssignTaskRequest,
	) (*CleaningTask, error)
	StartTask(
		ctx context.Context,
		taskID uuid.UUID,
		request *StartTaskRequest,
	) (*CleaningTask, error)
	CompleteTask(
		ctx context.Context,
		taskID uuid.UUID,
		request *CompleteTaskRequest,
	) (*CleaningTask, error)
	CancelTask(ctx context.Context, taskID uuid.UUID, reason string) (*CleaningTask, error)
	FailTask(ctx context.Context, taskID uuid.UUID, reason string) (*CleaningTask, error)
	RecordQualityCheck(
		ctx context.Context,
		taskID uuid.UUID,
		request *QualityCheckRequest,
	) (*CleaningTask, error)
	ResolveReview(ctx context.Context, taskID uuid.UUID) (*CleaningTask, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) TaskControllerInterface {
	return &TaskController{
		taskRepo:           repos.Task,
		transactionService: services.Transaction,
		assignmentService:  services.Assignment,
		performanceService: services.Performance,
		locationService:    services.Location,
		db:                 db,
		Config:             config,
		log:                logger.New("taskController"),
	}
}

func (c *TaskController) CreateTask(
	ctx context.Context,
	request *CreateTaskRequest,
) (*CleaningTask, error) {
	log := c.log.Function("CreateTask")

	if request.PropertyID == uuid.Nil {
		return nil, ErrValidation
	}
	if request.TaskType == "" {
		return nil, ErrValidation
	}
	if request.EstimatedDuration < 15 || request.EstimatedDuration > 480 {
		return nil, ErrValidation
	}
	if _, _, err := utils.ParseClock(request.ScheduledStartTime); err != nil {
		return nil, ErrValidation
	}
	if len(request.ManagerNotes) > MaxNotesLength {
		return nil, ErrValidation
	}

	task := &CleaningTask{
		PropertyID:         request.PropertyID,
		UnitID:             request.UnitID,
		ReservationID:      request.ReservationID,
		TaskType:           request.TaskType,
		Priority:           request.Priority,
		ScheduledDate:      utils.Midnight(request.ScheduledDate),
		ScheduledStartTime: request.ScheduledStartTime,
		EstimatedDuration:  request.EstimatedDuration,
		ChecklistTemplate:  request.ChecklistTemplate,
		AssignedCleanerID:  request.AssignedCleanerID,
		AccessCode:         request.AccessCode,
		AccessMethod:       request.AccessMethod,
		ManagerNotes:       request.ManagerNotes,
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.taskRepo.Create(ctx, tx, task); err != nil {
			return err
		}

		if task.AssignedCleanerID == nil && request.AutoAssign && c.Config.AutoAssignEnabled {
			zipCode := c.locationService.PropertyZipCode(ctx, task.PropertyID.String())
			if _, err := c.assignmentService.AutoAssign(ctx, tx, task, zipCode); err != nil {
				// No candidate is not a create failure, the task stays open.
				log.Warn("auto-assignment skipped", "taskID", task.ID, "error", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, log.Err("failed to create task", err, "propertyID", request.PropertyID)
	}

	return c.GetTask(ctx, task.ID)
}

func (c *TaskController) GetTask(ctx context.Context, taskID uuid.UUID) (*CleaningTask, error) {
	log := c.log.Function("GetTask")

	task, err := c.taskRepo.GetByID(ctx, c.db.SQL, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get task", err, "taskID", taskID)
	}

	return task, nil
}

func (c *TaskController) QueryTasks(
	ctx context.Context,
	request *QueryTasksRequest,
) ([]*CleaningTask, error) {
	log := c.log.Function("QueryTasks")

	tasks, err := c.taskRepo.Query(ctx, c.db.SQL, repositories.TaskQuery{
		PropertyID: request.PropertyID,
		CleanerID:  request.CleanerID,
		Status:     request.Status,
		TaskType:   request.TaskType,
		DateFrom:   request.DateFrom,
		DateTo:     request.DateTo,
		Limit:      request.Limit,
		Offset:     request.Offset,
	})
	if err != nil {
		return nil, log.Err("failed to query tasks", err)
	}

	return tasks, nil
}

func (c *TaskController) UpdateTask(
	ctx context.Context,
	taskID uuid.UUID,
	request *UpdateTaskRequest,
) (*CleaningTask, error) {
	log := c.log.Function("UpdateTask")

	updates := make(map[string]any)

	if request.Priority != nil {
		updates["priority"] = *request.Priority
	}
	if request.ScheduledDate != nil {
		updates["scheduled_date"] = utils.Midnight(*request.ScheduledDate)
	}
	if request.ScheduledStartTime != nil {
		if _, _, err := utils.ParseClock(*request.ScheduledStartTime); err != nil {
			return nil, ErrValidation
		}
		updates["scheduled_start_time"] = *request.ScheduledStartTime
	}
	if request.EstimatedDuration != nil {
		if *request.EstimatedDuration < 15 || *request.EstimatedDuration > 480 {
			return nil, ErrValidation
		}
		updates["estimated_duration"] = *request.EstimatedDuration
	}
	if request.AccessCode != nil {
		updates["access_code"] = *request.AccessCode
	}
	if request.AccessMethod != nil {
		updates["access_method"] = *request.AccessMethod
	}
	if request.ManagerNotes != nil {
		if len(*request.ManagerNotes) > MaxNotesLength {
			return nil, ErrValidation
		}
		updates["manager_notes"] = *request.ManagerNotes
	}
	if request.CoordinationNotes != nil {
		updates["coordination_notes"] = *request.CoordinationNotes
	}

	if len(updates) == 0 {
		return nil, ErrValidation
	}

	if err := c.taskRepo.Update(ctx, c.db.SQL, taskID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to update task", err, "taskID", taskID)
	}

	return c.GetTask(ctx, taskID)
}

func (c *TaskController) AssignTask(
	ctx context.Context,
	taskID uuid.UUID,
	request *AssignTaskRequest,
) (*CleaningTask, error) {
	log := c.log.Function("AssignTask")

	task, err := c.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if request.CleanerID != nil {
			return c.assignmentService.AssignManually(ctx, tx, task, *request.CleanerID)
		}

		zipCode := c.locationService.PropertyZipCode(ctx, task.PropertyID.String())
		_, err := c.assignmentService.AutoAssign(ctx, tx, task, zipCode)
		return err
	})
	if err != nil {
		if errors.Is(err, services.ErrNoEligibleCleaner) ||
			errors.Is(err, services.ErrAlreadyAssigned) {
			return nil, err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to assign task", err, "taskID", taskID)
	}

	return c.GetTask(ctx, taskID)
}

func (c *TaskController) StartTask(
	ctx context.Context,
	taskID uuid.UUID,
	request *StartTaskRequest,
) (*CleaningTask, error) {
	log := c.log.Function("StartTask")

	task, err := c.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.Status.CanTransitionTo(StatusInProgress) {
		return nil, ErrInvalidStateTransition
	}

	err = c.taskRepo.Update(ctx, c.db.SQL, taskID, map[string]any{
		"status":            StatusInProgress,
		"actual_start_time": startInstant(request, time.Now()),
	})
	if err != nil {
		return nil, log.Err("failed to start task", err, "taskID", taskID)
	}

	log.Info("task started", "taskID", taskID)
	return c.GetTask(ctx, taskID)
}

func (c *TaskController) CompleteTask(
	ctx context.Context,
	taskID uuid.UUID,
	request *CompleteTaskRequest,
) (*CleaningTask, error) {
	log := c.log.Function("CompleteTask")

	task, err := c.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.Status.CanTransitionTo(StatusCompleted) {
		return nil, ErrInvalidStateTransition
	}
	if len(request.CleanerNotes) > MaxNotesLength {
		return nil, ErrValidation
	}

	now := time.Now()
	updates := map[string]any{
		"status":                    StatusCompleted,
		"actual_end_time":           now,
		"completed_at":              now,
		"checklist":                 datatypes.NewJSONSlice(request.Checklist),
		"checklist_completion_rate": CompletionRate(request.Checklist),
		"photos_after":              datatypes.NewJSONSlice(request.PhotosAfter),
		"supplies_used":             datatypes.NewJSONSlice(request.SuppliesUsed),
		"total_supply_cost":         SupplyCost(request.SuppliesUsed),
		"issues_reported":           datatypes.NewJSONSlice(request.IssuesReported),
		"cleaner_notes":             request.CleanerNotes,
	}

	if task.ActualStartTime != nil {
		duration := int(now.Sub(*task.ActualStartTime).Minutes())
		updates["actual_duration"] = duration
	}

	if c.Config.QualityCheckHighPriority &&
		(task.Priority == PriorityHigh || task.Priority == PriorityUrgent) {
		updates["quality_check_required"] = true
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.taskRepo.Update(ctx, tx, taskID, updates); err != nil {
			return err
		}

		if task.AssignedCleanerID != nil {
			if _, err := c.performanceService.Refresh(ctx, tx, *task.AssignedCleanerID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, log.Err("failed to complete task", err, "taskID", taskID)
	}

	log.Info("task completed", "taskID", taskID)
	return c.GetTask(ctx, taskID)
}

func (c *TaskController) CancelTask(
	ctx context.Context,
	taskID uuid.UUID,
	reason string,
) (*CleaningTask, error) {
	return c.closeTask(ctx, taskID, StatusCancelled, reason)
}

func (c *TaskController) FailTask(
	ctx context.Context,
	taskID uuid.UUID,
	reason string,
) (*CleaningTask, error) {
	return c.closeTask(ctx, taskID, StatusFailed, reason)
}

func (c *TaskController) closeTask(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	reason string,
) (*CleaningTask, error) {
	log := c.log.Function("closeTask")

	task, err := c.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.Status.CanTransitionTo(status) {
		return nil, ErrInvalidStateTransition
	}

	updates := map[string]any{"status": status}
	if reason != "" {
		updates["coordination_notes"] = reason
	}

	if err := c.taskRepo.Update(ctx, c.db.SQL, taskID, updates); err != nil {
		return nil, log.Err("failed to close task", err, "taskID", taskID, "status", status)
	}

	log.Info("task closed", "taskID", taskID, "status", status)
	return c.GetTask(ctx, taskID)
}

// RecordQualityCheck stores an inspection result. Low ratings push the task
// back into review.
func (c *TaskController) RecordQualityCheck(
	ctx context.Context,
	taskID uuid.UUID,
	request *QualityCheckRequest,
) (*CleaningTask, error) {
	log := c.log.Function("RecordQualityCheck")

	if request.Rating < MinQualityRating || request.Rating > MaxQualityRating {
		return nil, ErrValidation
	}

	task, err := c.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status != StatusCompleted && task.Status != StatusRequiresReview {
		return nil, ErrInvalidStateTransition
	}

	updates := map[string]any{
		"quality_check_done": true,
		"quality_rating":     request.Rating,
	}
	if request.Notes != "" {
		updates["manager_notes"] = request.Notes
	}

	if request.Rating < reviewThreshold && task.Status == StatusCompleted {
		updates["status"] = StatusRequiresReview
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.taskRepo.Update(ctx, tx, taskID, updates); err != nil {
			return err
		}

		if task.AssignedCleanerID != nil {
			if _, err := c.performanceService.Refresh(ctx, tx, *task.AssignedCleanerID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, log.Err("failed to record quality check", err, "taskID", taskID)
	}

	log.Info("quality check recorded", "taskID", taskID, "rating", request.Rating)
	return c.GetTask(ctx, taskID)
}

// ResolveReview returns a reviewed task to COMPLETED once its findings are
// addressed.
func (c *TaskController) ResolveReview(
	ctx context.Context,
	taskID uuid.UUID,
) (*CleaningTask, error) {
	log := c.log.Function("ResolveReview")

	task, err := c.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.Status.CanTransitionTo(StatusCompleted) {
		return nil, ErrInvalidStateTransition
	}

	if err := c.taskRepo.Update(ctx, c.db.SQL, taskID, map[string]any{
		"status": StatusCompleted,
	}); err != nil {
		return nil, log.Err("failed to resolve review", err, "taskID", taskID)
	}

	log.Info("review resolved", "taskID", taskID)
	return c.GetTask(ctx, taskID)
}
