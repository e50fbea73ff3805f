package services

import (
	"context"
	"time"
	"tidyops/config"
	"tidyops/internal/database"
	"tidyops/internal/logger"
	. "tidyops/internal/models"
	"tidyops/internal/repositories"
	"tidyops/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation generation defaults, matching property-management conventions:
// checkout turnarounds run before the standard 15:00 check-in window.
const (
	checkoutCleaningTime     = "11:00"
	checkoutCleaningDuration = 120
	midStayCleaningTime      = "10:00"
	midStayCleaningDuration  = 90
	midStayMinimumNights     = 7
)

// Reservation is the slice of booking data the dispatcher needs. Reservations
// live in an external system; callers pass them in.
type Reservation struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	UnitID     *uuid.UUID
	CheckIn    time.Time
	CheckOut   time.Time
}

type DispatchService struct {
	db           database.DB
	scheduleRepo repositories.ScheduleRepository
	taskRepo     repositories.TaskRepository
	recurrence   *RecurrenceService
	assignment   *AssignmentService
	transaction  *TransactionService
	config       config.Config
	log          logger.Logger
}

func NewDispatchService(
	db database.DB,
	repos repositories.Repository,
	recurrence *RecurrenceService,
	assignment *AssignmentService,
	transaction *TransactionService,
	config config.Config,
) *DispatchService {
	return &DispatchService{
		db:           db,
		scheduleRepo: repos.Schedule,
		taskRepo:     repos.Task,
		recurrence:   recurrence,
		assignment:   assignment,
		transaction:  transaction,
		config:       config,
		log:          logger.New("dispatchService"),
	}
}

// ProcessDueSchedules sweeps schedules whose nextExecution has arrived,
// creating one task per claimed occurrence. A failing schedule is logged and
// skipped; it never stops the sweep. Returns the number of tasks created.
func (s *DispatchService) ProcessDueSchedules(ctx context.Context, now time.Time) (int, error) {
	log := logger.NewWithContext(ctx, "dispatchService").Function("ProcessDueSchedules")

	due, err := s.scheduleRepo.FindDue(ctx, s.db.SQLWithContext(ctx), now)
	if err != nil {
		return 0, log.Err("failed to find due schedules", err)
	}

	if len(due) == 0 {
		return 0, nil
	}

	log.Info("processing due schedules", "count", len(due))

	created := 0
	for _, schedule := range due {
		dispatched, err := s.dispatchSchedule(ctx, schedule, now)
		if err != nil {
			_ = log.Err(
				"failed to dispatch schedule, continuing sweep",
				err,
				"scheduleID",
				schedule.ID,
				"propertyID",
				schedule.PropertyID,
			)
			continue
		}
		if dispatched {
			created++
		}
	}

	log.Info("dispatch sweep complete", "due", len(due), "created", created)
	return created, nil
}

// scheduleAssignmentMethod records how a dispatched task gets its cleaner,
// mirroring the schedule's autoAssign flag.
func scheduleAssignmentMethod(schedule *CleaningSchedule) AssignmentMethod {
	if schedule.AutoAssign {
		return AssignmentAuto
	}
	return AssignmentManual
}

// dispatchSchedule claims one occurrence and materializes its task inside a
// single transaction. The claim is conditioned on the nextExecution value the
// sweep observed, so a concurrent sweep loses the claim and creates nothing.
// The returned bool reports whether a task was actually created.
func (s *DispatchService) dispatchSchedule(
	ctx context.Context,
	schedule *CleaningSchedule,
	now time.Time,
) (bool, error) {
	log := logger.NewWithContext(ctx, "dispatchService").Function("dispatchSchedule")

	if schedule.NextExecution == nil {
		return false, nil
	}
	occurrence := *schedule.NextExecution

	next := s.recurrence.NextExecution(schedule, now)

	dispatched := false
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		claimed, err := s.scheduleRepo.ClaimOccurrence(
			ctx,
			tx,
			schedule.ID,
			occurrence,
			next,
			now,
		)
		if err != nil {
			return err
		}
		if !claimed {
			log.Info("occurrence claimed by another sweep", "scheduleID", schedule.ID)
			return nil
		}

		exists, err := s.taskRepo.ExistsForScheduleOccurrence(
			ctx,
			tx,
			schedule.PropertyID,
			occurrence,
			schedule.PreferredTime,
		)
		if err != nil {
			return err
		}
		if exists {
			log.Warn(
				"task already exists for occurrence, skipping create",
				"scheduleID",
				schedule.ID,
				"occurrence",
				occurrence,
			)
			return nil
		}

		task := &CleaningTask{
			PropertyID:         schedule.PropertyID,
			TaskType:           schedule.TaskType,
			Priority:           PriorityNormal,
			ScheduledDate:      occurrence,
			ScheduledStartTime: schedule.PreferredTime,
			EstimatedDuration:  schedule.Duration,
			ChecklistTemplate:  schedule.ChecklistTemplate,
			AssignmentMethod:   scheduleAssignmentMethod(schedule),
		}
		if schedule.PreferredCleanerID != nil {
			task.AssignedCleanerID = schedule.PreferredCleanerID
			task.Status = StatusAssigned
		}

		if err := s.taskRepo.Create(ctx, tx, task); err != nil {
			return err
		}

		if task.AssignedCleanerID == nil && schedule.AutoAssign && s.config.AutoAssignEnabled {
			if _, err := s.assignment.AutoAssign(ctx, tx, task, ""); err != nil {
				// Unassigned tasks stay SCHEDULED for manual pickup.
				log.Warn(
					"auto-assignment failed, task left unassigned",
					"taskID",
					task.ID,
					"error",
					err,
				)
			}
		}

		dispatched = true
		log.Info(
			"task dispatched from schedule",
			"scheduleID",
			schedule.ID,
			"taskID",
			task.ID,
			"occurrence",
			occurrence,
		)
		return nil
	})
	return dispatched, err
}

// CreateTasksFromReservation derives cleaning tasks from a booking: a
// checkout turnover on the departure date, plus a mid-stay refresh for stays
// longer than a week.
func (s *DispatchService) CreateTasksFromReservation(
	ctx context.Context,
	reservation Reservation,
) ([]*CleaningTask, error) {
	log := logger.NewWithContext(ctx, "dispatchService").Function("CreateTasksFromReservation")

	nights := int(reservation.CheckOut.Sub(reservation.CheckIn).Hours() / 24)

	var tasks []*CleaningTask
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		reservationID := reservation.ID
		checkout := &CleaningTask{
			PropertyID:         reservation.PropertyID,
			UnitID:             reservation.UnitID,
			ReservationID:      &reservationID,
			TaskType:           TaskTypeCheckout,
			Priority:           PriorityHigh,
			ScheduledDate:      utils.Midnight(reservation.CheckOut),
			ScheduledStartTime: checkoutCleaningTime,
			EstimatedDuration:  checkoutCleaningDuration,
		}
		if err := s.taskRepo.Create(ctx, tx, checkout); err != nil {
			return err
		}
		tasks = append(tasks, checkout)

		if nights > midStayMinimumNights {
			midPoint := reservation.CheckIn.AddDate(0, 0, nights/2)
			midStay := &CleaningTask{
				PropertyID:         reservation.PropertyID,
				UnitID:             reservation.UnitID,
				ReservationID:      &reservationID,
				TaskType:           TaskTypeMidStay,
				Priority:           PriorityNormal,
				ScheduledDate:      utils.Midnight(midPoint),
				ScheduledStartTime: midStayCleaningTime,
				EstimatedDuration:  midStayCleaningDuration,
			}
			if err := s.taskRepo.Create(ctx, tx, midStay); err != nil {
				return err
			}
			tasks = append(tasks, midStay)
		}

		return nil
	})
	if err != nil {
		return nil, log.Err(
			"failed to create tasks from reservation",
			err,
			"reservationID",
			reservation.ID,
		)
	}

	log.Info(
		"reservation tasks created",
		"reservationID",
		reservation.ID,
		"count",
		len(tasks),
	)
	return tasks, nil
}
