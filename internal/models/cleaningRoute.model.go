package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RouteStatus string

const (
	RoutePlanned    RouteStatus = "PLANNED"
	RouteInProgress RouteStatus = "IN_PROGRESS"
	RouteCompleted  RouteStatus = "COMPLETED"
)

// CleaningRoute is a derived daily plan for one cleaner. Replanning replaces
// the prior row for the same (cleaner, date) key entirely.
type CleaningRoute struct {
	BaseUUIDModel
	CleanerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_route_key" json:"cleanerId"`
	Cleaner   Cleaner   `gorm:"foreignKey:CleanerID"                         json:"cleaner"`
	RouteDate time.Time `gorm:"not null;uniqueIndex:idx_route_key"           json:"routeDate"`

	TaskIDs datatypes.JSONSlice[uuid.UUID] `json:"taskIds"`

	// Placeholder until the external distance-matrix collaborator is wired.
	TotalDistance float64 `gorm:"not null;default:0" json:"totalDistance"`

	EstimatedStart string      `gorm:"type:text"                       json:"estimatedStart"`
	EstimatedEnd   string      `gorm:"type:text"                       json:"estimatedEnd"`
	Status         RouteStatus `gorm:"type:text;default:'PLANNED'"     json:"status"`
}
