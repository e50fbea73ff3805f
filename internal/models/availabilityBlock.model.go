package models

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityBlock is an explicit per-date override of a cleaner's default
// availability. A single isAvailable=false block removes the cleaner from
// candidacy for the whole date.
type AvailabilityBlock struct {
	BaseUUIDModel
	CleanerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_availability_key" json:"cleanerId"`
	Cleaner   Cleaner   `gorm:"foreignKey:CleanerID"                                json:"cleaner"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_availability_key"           json:"date"`
	StartTime string    `gorm:"type:text;not null;uniqueIndex:idx_availability_key" json:"startTime"`
	EndTime   string    `gorm:"type:text"                                           json:"endTime"`

	IsAvailable bool   `gorm:"not null;default:true" json:"isAvailable"`
	Reason      string `gorm:"type:text"             json:"reason,omitempty"`
}
