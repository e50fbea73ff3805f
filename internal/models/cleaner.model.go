package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CleanerStatus string

const (
	CleanerActive     CleanerStatus = "ACTIVE"
	CleanerInactive   CleanerStatus = "INACTIVE"
	CleanerOnLeave    CleanerStatus = "ON_LEAVE"
	CleanerSuspended  CleanerStatus = "SUSPENDED"
	CleanerTerminated CleanerStatus = "TERMINATED"
)

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "FULL_TIME"
	EmploymentPartTime   EmploymentType = "PART_TIME"
	EmploymentContractor EmploymentType = "CONTRACTOR"
)

type Cleaner struct {
	BaseUUIDModel
	FirstName string `gorm:"type:text;not null"        json:"firstName"`
	LastName  string `gorm:"type:text;not null"        json:"lastName"`
	Email     string `gorm:"type:text;not null;unique" json:"email"`
	Phone     string `gorm:"type:text"                 json:"phone"`

	EmploymentType EmploymentType `gorm:"type:text;default:'CONTRACTOR'"   json:"employmentType"`
	Status         CleanerStatus  `gorm:"type:text;not null;default:'ACTIVE';index" json:"status"`

	Specialties    datatypes.JSONSlice[string] `json:"specialties"`
	Certifications datatypes.JSONSlice[string] `json:"certifications"`
	Languages      datatypes.JSONSlice[string] `json:"languages"`

	// Empty service sets mean the cleaner serves everywhere, not nowhere.
	ServiceZipCodes   datatypes.JSONSlice[string] `json:"serviceZipCodes"`
	ServiceProperties datatypes.JSONSlice[string] `json:"serviceProperties"`

	MaxTasksPerDay int              `gorm:"not null;default:3"  json:"maxTasksPerDay"`
	HourlyRate     *decimal.Decimal `gorm:"type:decimal(10,2)"  json:"hourlyRate,omitempty"`

	// Performance aggregates, recomputed by replaying completed tasks.
	AverageRating        *float64 `json:"averageRating,omitempty"`
	TotalRatings         int      `gorm:"not null;default:0" json:"totalRatings"`
	TotalTasksCompleted  int      `gorm:"not null;default:0" json:"totalTasksCompleted"`
	OnTimeCompletionRate *float64 `json:"onTimeCompletionRate,omitempty"`

	PhotoURL string `gorm:"type:text" json:"photoUrl,omitempty"`
	Bio      string `gorm:"type:text" json:"bio,omitempty"`
}

func (c *Cleaner) BeforeCreate(tx *gorm.DB) (err error) {
	if c.FirstName == "" || c.LastName == "" {
		return gorm.ErrInvalidValue
	}
	if c.Email == "" {
		return gorm.ErrInvalidValue
	}
	if c.Status == "" {
		c.Status = CleanerActive
	}
	if c.MaxTasksPerDay <= 0 {
		c.MaxTasksPerDay = 3
	}
	return nil
}

// ServesProperty reports whether the cleaner's property restriction admits
// the given property. An empty restriction admits everything.
func (c *Cleaner) ServesProperty(propertyID string) bool {
	if len(c.ServiceProperties) == 0 {
		return true
	}
	for _, id := range c.ServiceProperties {
		if id == propertyID {
			return true
		}
	}
	return false
}

// ServesZipCode reports whether the cleaner's zip restriction admits the
// given zip code. An empty restriction admits everything.
func (c *Cleaner) ServesZipCode(zipCode string) bool {
	if len(c.ServiceZipCodes) == 0 {
		return true
	}
	for _, zip := range c.ServiceZipCodes {
		if zip == zipCode {
			return true
		}
	}
	return false
}
