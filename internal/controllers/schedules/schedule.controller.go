package scheduleController

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
	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type ScheduleController struct {
	scheduleRepo       repositories.ScheduleRepository
	transactionService *services.TransactionService
	recurrenceService  *services.RecurrenceService
	dispatchService    *services.DispatchService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreateScheduleRequest struct {
	PropertyID         uuid.UUID          `json:"propertyId"`
	ScheduleType       ScheduleType       `json:"scheduleType"`
	Frequency          *ScheduleFrequency `json:"frequency,omitempty"`
	DayOfWeek          *int               `json:"dayOfWeek,omitempty"`
	DayOfMonth         *int               `json:"dayOfMonth,omitempty"`
	PreferredTime      string             `json:"preferredTime"`
	Duration           int                `json:"duration"`
	PreferredCleanerID *uuid.UUID         `json:"preferredCleanerId,omitempty"`
	AutoAssign         *bool              `json:"autoAssign,omitempty"`
	TaskType           TaskType           `json:"taskType"`
	ChecklistTemplate  string             `json:"checklistTemplate,omitempty"`
}

type UpdateScheduleRequest struct {
	Frequency          *ScheduleFrequency `json:"frequency,omitempty"`
	DayOfWeek          *int               `json:"dayOfWeek,omitempty"`
	DayOfMonth         *int               `json:"dayOfMonth,omitempty"`
	PreferredTime      *string            `json:"preferredTime,omitempty"`
	Duration           *int               `json:"duration,omitempty"`
	PreferredCleanerID *uuid.UUID         `json:"preferredCleanerId,omitempty"`
	AutoAssign         *bool              `json:"autoAssign,omitempty"`
	TaskType           *TaskType          `json:"taskType,omitempty"`
	ChecklistTemplate  *string            `json:"checklistTemplate,omitempty"`
	IsActive           *bool              `json:"isActive,omitempty"`
}

// changesRule reports whether the update touches a field the recurrence
// computation reads.
func (r *UpdateScheduleRequest) changesRule() bool {
	return r.Frequency != nil || r.DayOfWeek != nil ||
		r.DayOfMonth != nil || r.PreferredTime != nil
}

type ProcessDueResponse struct {
	TasksCreated int `json:"tasksCreated"`
}

type ScheduleControllerInterface interface {
	CreateSchedule(ctx context.Context, request *CreateScheduleRequest) (*CleaningSchedule, error)
	GetSchedule(ctx context.Context, scheduleID uuid.UUID) (*CleaningSchedule, error)
	GetSchedulesByProperty(
		ctx context.Context,
		propertyID uuid.UUID,
	) ([]*CleaningSchedule, error)
	UpdateSchedule(
		ctx context.Context,
		scheduleID uuid.UUID,
		request *UpdateScheduleRequest,
	) (*CleaningSchedule, error)
	DeactivateSchedule(ctx context.Context, scheduleID uuid.UUID) error
	ProcessDueSchedules(ctx context.Context) (*ProcessDueResponse, error)
	CreateTasksFromReservation(
		ctx context.Context,
		reservation services.Reservation,
	) ([]*CleaningTask, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) ScheduleControllerInterface {
	return &ScheduleController{
		scheduleRepo:       repos.Schedule,
		transactionService: services.Transaction,
		recurrenceService:  services.Recurrence,
		dispatchService:    services.Dispatch,
		db:                 db,
		Config:             config,
		log:                logger.New("scheduleController"),
	}
}

func (c *ScheduleController) CreateSchedule(
	ctx context.Context,
	request *CreateScheduleRequest,
) (*CleaningSchedule, error) {
	log := c.log.Function("CreateSchedule")

	if request.PropertyID == uuid.Nil {
		return nil, ErrValidation
	}
	if request.TaskType == "" {
		return nil, ErrValidation
	}
	if request.Duration < 15 || request.Duration > 480 {
		return nil, ErrValidation
	}
	if _, _, err := utils.ParseClock(request.PreferredTime); err != nil {
		return nil, ErrValidation
	}
	if request.DayOfWeek != nil && (*request.DayOfWeek < 0 || *request.DayOfWeek > 6) {
		return nil, ErrValidation
	}
	if request.DayOfMonth != nil && (*request.DayOfMonth < 1 || *request.DayOfMonth > 31) {
		return nil, ErrValidation
	}

	autoAssign := true
	if request.AutoAssign != nil {
		autoAssign = *request.AutoAssign
	}

	checklistTemplate := request.ChecklistTemplate
	if checklistTemplate == "" {
		checklistTemplate = "standard"
	}

	schedule := &CleaningSchedule{
		PropertyID:         request.PropertyID,
		ScheduleType:       request.ScheduleType,
		Frequency:          request.Frequency,
		DayOfWeek:          request.DayOfWeek,
		DayOfMonth:         request.DayOfMonth,
		PreferredTime:      request.PreferredTime,
		Duration:           request.Duration,
		PreferredCleanerID: request.PreferredCleanerID,
		AutoAssign:         autoAssign,
		TaskType:           request.TaskType,
		ChecklistTemplate:  checklistTemplate,
		IsActive:           true,
	}

	schedule.NextExecution = c.recurrenceService.NextExecution(schedule, time.Now())

	if err := c.scheduleRepo.Create(ctx, c.db.SQL, schedule); err != nil {
		return nil, log.Err(
			"failed to create schedule",
			err,
			"propertyID",
			request.PropertyID,
		)
	}

	log.Info(
		"schedule created",
		"scheduleID",
		schedule.ID,
		"propertyID",
		schedule.PropertyID,
		"nextExecution",
		schedule.NextExecution,
	)
	return schedule, nil
}

func (c *ScheduleController) GetSchedule(
	ctx context.Context,
	scheduleID uuid.UUID,
) (*CleaningSchedule, error) {
	log := c.log.Function("GetSchedule")

	schedule, err := c.scheduleRepo.GetByID(ctx, c.db.SQL, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get schedule", err, "scheduleID", scheduleID)
	}

	return schedule, nil
}

func (c *ScheduleController) GetSchedulesByProperty(
	ctx context.Context,
	propertyID uuid.UUID,
) ([]*CleaningSchedule, error) {
	log := c.log.Function("GetSchedulesByProperty")

	schedules, err := c.scheduleRepo.GetByProperty(ctx, c.db.SQL, propertyID)
	if err != nil {
		return nil, log.Err("failed to get schedules", err, "propertyID", propertyID)
	}

	return schedules, nil
}

// UpdateSchedule applies field edits, recomputing nextExecution only when a
// rule field changes. Edits to other fields leave a due occurrence due, so a
// pending dispatch is never silently dropped.
func (c *ScheduleController) UpdateSchedule(
	ctx context.Context,
	scheduleID uuid.UUID,
	request *UpdateScheduleRequest,
) (*CleaningSchedule, error) {
	log := c.log.Function("UpdateSchedule")

	schedule, err := c.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	if request.Frequency != nil {
		schedule.Frequency = request.Frequency
	}
	if request.DayOfWeek != nil {
		if *request.DayOfWeek < 0 || *request.DayOfWeek > 6 {
			return nil, ErrValidation
		}
		schedule.DayOfWeek = request.DayOfWeek
	}
	if request.DayOfMonth != nil {
		if *request.DayOfMonth < 1 || *request.DayOfMonth > 31 {
			return nil, ErrValidation
		}
		schedule.DayOfMonth = request.DayOfMonth
	}
	if request.PreferredTime != nil {
		if _, _, err := utils.ParseClock(*request.PreferredTime); err != nil {
			return nil, ErrValidation
		}
		schedule.PreferredTime = *request.PreferredTime
	}
	if request.Duration != nil {
		if *request.Duration < 15 || *request.Duration > 480 {
			return nil, ErrValidation
		}
		schedule.Duration = *request.Duration
	}
	if request.PreferredCleanerID != nil {
		schedule.PreferredCleanerID = request.PreferredCleanerID
	}
	if request.AutoAssign != nil {
		schedule.AutoAssign = *request.AutoAssign
	}
	if request.TaskType != nil {
		schedule.TaskType = *request.TaskType
	}
	if request.ChecklistTemplate != nil {
		schedule.ChecklistTemplate = *request.ChecklistTemplate
	}
	if request.IsActive != nil {
		schedule.IsActive = *request.IsActive
	}

	updates := map[string]any{
		"frequency":            schedule.Frequency,
		"day_of_week":          schedule.DayOfWeek,
		"day_of_month":         schedule.DayOfMonth,
		"preferred_time":       schedule.PreferredTime,
		"duration":             schedule.Duration,
		"preferred_cleaner_id": schedule.PreferredCleanerID,
		"auto_assign":          schedule.AutoAssign,
		"task_type":            schedule.TaskType,
		"checklist_template":   schedule.ChecklistTemplate,
		"is_active":            schedule.IsActive,
	}
	if request.changesRule() {
		schedule.NextExecution = c.recurrenceService.NextExecution(schedule, time.Now())
		updates["next_execution"] = schedule.NextExecution
	}

	if err := c.scheduleRepo.Update(ctx, c.db.SQL, scheduleID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to update schedule", err, "scheduleID", scheduleID)
	}

	log.Info(
		"schedule updated",
		"scheduleID",
		scheduleID,
		"nextExecution",
		schedule.NextExecution,
	)
	return c.GetSchedule(ctx, scheduleID)
}

func (c *ScheduleController) DeactivateSchedule(ctx context.Context, scheduleID uuid.UUID) error {
	log := c.log.Function("DeactivateSchedule")

	if err := c.scheduleRepo.Deactivate(ctx, c.db.SQL, scheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return log.Err("failed to deactivate schedule", err, "scheduleID", scheduleID)
	}

	log.Info("schedule deactivated", "scheduleID", scheduleID)
	return nil
}

func (c *ScheduleController) ProcessDueSchedules(ctx context.Context) (*ProcessDueResponse, error) {
	log := c.log.Function("ProcessDueSchedules")

	created, err := c.dispatchService.ProcessDueSchedules(ctx, time.Now())
	if err != nil {
		return nil, log.Err("failed to process due schedules", err)
	}

	return &ProcessDueResponse{TasksCreated: created}, nil
}

func (c *ScheduleController) CreateTasksFromReservation(
	ctx context.Context,
	reservation services.Reservation,
) ([]*CleaningTask, error) {
	log := c.log.Function("CreateTasksFromReservation")

	if reservation.PropertyID == uuid.Nil {
		return nil, ErrValidation
	}
	if !reservation.CheckOut.After(reservation.CheckIn) {
		return nil, ErrValidation
	}

	tasks, err := c.dispatchService.CreateTasksFromReservation(ctx, reservation)
	if err != nil {
		return nil, log.Err(
			"failed to create reservation tasks",
			err,
			"reservationID",
			reservation.ID,
		)
	}

	return tasks, nil
}
