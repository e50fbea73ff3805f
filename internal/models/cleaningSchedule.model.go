package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleType string

const (
	ScheduleReservationBased ScheduleType = "RESERVATION_BASED"
	ScheduleRecurring        ScheduleType = "RECURRING"
	ScheduleOneTime          ScheduleType = "ONE_TIME"
)

type ScheduleFrequency string

const (
	FrequencyDaily    ScheduleFrequency = "daily"
	FrequencyWeekly   ScheduleFrequency = "weekly"
	FrequencyBiweekly ScheduleFrequency = "biweekly"
	FrequencyMonthly  ScheduleFrequency = "monthly"
)

// CleaningSchedule is a recurrence rule that generates tasks over time.
// nextExecution is null for ONE_TIME schedules and for malformed rules, which
// stay idle until corrected.
type CleaningSchedule struct {
	BaseUUIDModel
	PropertyID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"propertyId"`
	ScheduleType ScheduleType `gorm:"type:text;not null"       json:"scheduleType"`

	Frequency  *ScheduleFrequency `gorm:"type:text" json:"frequency,omitempty"`
	DayOfWeek  *int               `json:"dayOfWeek,omitempty"`
	DayOfMonth *int               `json:"dayOfMonth,omitempty"`

	PreferredTime string `gorm:"type:text;not null" json:"preferredTime"`
	Duration      int    `gorm:"not null"           json:"duration"`

	PreferredCleanerID *uuid.UUID `gorm:"type:uuid" json:"preferredCleanerId,omitempty"`
	AutoAssign         bool       `gorm:"not null;default:true" json:"autoAssign"`

	TaskType          TaskType `gorm:"type:text;not null"           json:"taskType"`
	ChecklistTemplate string   `gorm:"type:text;default:'standard'" json:"checklistTemplate"`

	NextExecution *time.Time `gorm:"index" json:"nextExecution,omitempty"`
	LastExecuted  *time.Time `json:"lastExecuted,omitempty"`

	IsActive bool `gorm:"not null;default:true;index" json:"isActive"`
}

func (s *CleaningSchedule) BeforeCreate(tx *gorm.DB) (err error) {
	if s.PropertyID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if s.PreferredTime == "" {
		return gorm.ErrInvalidValue
	}
	if s.Duration < 15 || s.Duration > 480 {
		return gorm.ErrInvalidValue
	}
	return nil
}
