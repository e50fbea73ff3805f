package services

import (
	"time"
	"tidyops/internal/logger"
	. "tidyops/internal/models"
	"tidyops/internal/utils"
)

// RecurrenceService computes the next occurrence for recurring schedules.
// It is pure over its inputs so callers pick the reference time.
type RecurrenceService struct {
	log logger.Logger
}

func NewRecurrenceService() *RecurrenceService {
	return &RecurrenceService{
		log: logger.New("recurrenceService"),
	}
}

// NextExecution returns the next occurrence strictly after now, or nil for
// ONE_TIME schedules and rules it cannot interpret. A nil result parks the
// schedule until the rule is corrected.
func (s *RecurrenceService) NextExecution(schedule *CleaningSchedule, now time.Time) *time.Time {
	log := s.log.Function("NextExecution")

	if schedule.ScheduleType == ScheduleOneTime {
		return nil
	}

	if schedule.Frequency == nil {
		return nil
	}

	hour, minute, err := utils.ParseClock(schedule.PreferredTime)
	if err != nil {
		_ = log.Err("schedule has malformed preferred time", err, "scheduleID", schedule.ID)
		return nil
	}

	switch *schedule.Frequency {
	case FrequencyDaily:
		return s.nextDaily(now, hour, minute)
	case FrequencyWeekly:
		return s.nextOnWeekday(now, schedule.DayOfWeek, hour, minute, 7)
	case FrequencyBiweekly:
		// A biweekly target that already passed this week skips the coming
		// week entirely, so consecutive occurrences on adjacent weeks never
		// happen.
		return s.nextOnWeekday(now, schedule.DayOfWeek, hour, minute, 14)
	case FrequencyMonthly:
		return s.nextMonthly(now, schedule.DayOfMonth, hour, minute)
	default:
		log.Warn("unknown schedule frequency", "scheduleID", schedule.ID, "frequency", *schedule.Frequency)
		return nil
	}
}

func (s *RecurrenceService) nextDaily(now time.Time, hour, minute int) *time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return &next
}

func (s *RecurrenceService) nextOnWeekday(
	now time.Time,
	dayOfWeek *int,
	hour, minute int,
	rollDays int,
) *time.Time {
	target := int(now.Weekday())
	if dayOfWeek != nil {
		target = *dayOfWeek
	}

	// A target weekday behind today rolls the full interval forward, not to
	// the nearest occurrence.
	daysUntil := target - int(now.Weekday())
	if daysUntil < 0 {
		daysUntil += rollDays
	}
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()).
		AddDate(0, 0, daysUntil)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, rollDays)
	}

	return &candidate
}

func (s *RecurrenceService) nextMonthly(
	now time.Time,
	dayOfMonth *int,
	hour, minute int,
) *time.Time {
	day := 1
	if dayOfMonth != nil {
		day = *dayOfMonth
	}

	candidate := monthlyOccurrence(now.Year(), now.Month(), day, hour, minute, now.Location())
	if !candidate.After(now) {
		year, month := now.Year(), now.Month()+1
		candidate = monthlyOccurrence(year, month, day, hour, minute, now.Location())
	}

	return &candidate
}

// monthlyOccurrence places day-of-month within the given month, clamping
// day 29-31 to the month's last day instead of spilling into the next month.
func monthlyOccurrence(
	year int,
	month time.Month,
	day, hour, minute int,
	loc *time.Location,
) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > lastDay {
		day = lastDay
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}
