package services

import (
	"context"
	"testing"
	"time"
	"tidyops/config"
	"tidyops/internal/database"
	"tidyops/internal/logger"
	. "tidyops/internal/models"
	"tidyops/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatchServiceForTest(t *testing.T) (*DispatchService, sqlmock.Sqlmock) {
	gormDB, mock := setupTestDB(t)
	db := database.DB{SQL: gormDB}
	return &DispatchService{
		db:           db,
		scheduleRepo: repositories.NewScheduleRepository(),
		taskRepo:     repositories.NewTaskRepository(),
		recurrence:   NewRecurrenceService(),
		transaction:  NewTransactionService(db),
		config:       config.Config{},
		log:          logger.New("test"),
	}, mock
}

func dueScheduleRows(scheduleID, propertyID uuid.UUID, occurrence time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "property_id", "schedule_type", "frequency", "preferred_time",
		"duration", "task_type", "auto_assign", "is_active", "next_execution",
	}).AddRow(
		scheduleID.String(), propertyID.String(), string(ScheduleRecurring),
		string(FrequencyDaily), "10:00", 60, string(TaskTypeTurnover),
		true, true, occurrence,
	)
}

func TestDispatchService_ProcessDueSchedules(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
	occurrence := now.Add(-30 * time.Minute)
	scheduleID := uuid.New()
	propertyID := uuid.New()

	t.Run("creates a task for a claimed occurrence", func(t *testing.T) {
		svc, mock := dispatchServiceForTest(t)

		mock.ExpectQuery(`SELECT (.+) FROM "cleaning_schedules"`).
			WillReturnRows(dueScheduleRows(scheduleID, propertyID, occurrence))
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "cleaning_schedules"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT count`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO "cleaning_tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
		mock.ExpectCommit()

		created, err := svc.ProcessDueSchedules(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, 1, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost claim reports zero created", func(t *testing.T) {
		svc, mock := dispatchServiceForTest(t)

		mock.ExpectQuery(`SELECT (.+) FROM "cleaning_schedules"`).
			WillReturnRows(dueScheduleRows(scheduleID, propertyID, occurrence))
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "cleaning_schedules"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		created, err := svc.ProcessDueSchedules(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, 0, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already dispatched occurrence reports zero created", func(t *testing.T) {
		svc, mock := dispatchServiceForTest(t)

		mock.ExpectQuery(`SELECT (.+) FROM "cleaning_schedules"`).
			WillReturnRows(dueScheduleRows(scheduleID, propertyID, occurrence))
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "cleaning_schedules"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT count`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectCommit()

		created, err := svc.ProcessDueSchedules(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, 0, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("schedule without a next execution reports zero created", func(t *testing.T) {
		svc, mock := dispatchServiceForTest(t)

		schedule := &CleaningSchedule{ScheduleType: ScheduleRecurring}
		schedule.ID = scheduleID

		dispatched, err := svc.dispatchSchedule(context.Background(), schedule, now)

		require.NoError(t, err)
		assert.False(t, dispatched)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestScheduleAssignmentMethod(t *testing.T) {
	auto := &CleaningSchedule{AutoAssign: true}
	manual := &CleaningSchedule{AutoAssign: false}

	assert.Equal(t, AssignmentAuto, scheduleAssignmentMethod(auto))
	assert.Equal(t, AssignmentManual, scheduleAssignmentMethod(manual))
}
