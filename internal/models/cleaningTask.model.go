package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskType string

const (
	TaskTypeCheckout       TaskType = "CHECKOUT"
	TaskTypeMidStay        TaskType = "MID_STAY"
	TaskTypeDeepClean      TaskType = "DEEP_CLEAN"
	TaskTypeEmergency      TaskType = "EMERGENCY"
	TaskTypeMoveIn         TaskType = "MOVE_IN"
	TaskTypeInspectionPrep TaskType = "INSPECTION_PREP"
	TaskTypeTurnover       TaskType = "TURNOVER"
	TaskTypeStaging        TaskType = "STAGING"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityNormal TaskPriority = "NORMAL"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// priorityRank orders priorities for route sequencing, lowest visited first.
var priorityRank = map[TaskPriority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityNormal: 2,
	PriorityLow:    3,
}

func (p TaskPriority) Rank() int {
	rank, ok := priorityRank[p]
	if !ok {
		return len(priorityRank)
	}
	return rank
}

type TaskStatus string

const (
	StatusScheduled      TaskStatus = "SCHEDULED"
	StatusAssigned       TaskStatus = "ASSIGNED"
	StatusInProgress     TaskStatus = "IN_PROGRESS"
	StatusCompleted      TaskStatus = "COMPLETED"
	StatusCancelled      TaskStatus = "CANCELLED"
	StatusFailed         TaskStatus = "FAILED"
	StatusRequiresReview TaskStatus = "REQUIRES_REVIEW"
)

// ActiveStatuses are the statuses that count against a cleaner's daily
// capacity and block termination.
var ActiveStatuses = []TaskStatus{StatusScheduled, StatusAssigned, StatusInProgress}

// legalTransitions is the task lifecycle state machine. CANCELLED and FAILED
// are reachable from every non-terminal state; REQUIRES_REVIEW only via a
// completed task.
var legalTransitions = map[TaskStatus][]TaskStatus{
	StatusScheduled:      {StatusAssigned, StatusInProgress, StatusCancelled, StatusFailed},
	StatusAssigned:       {StatusInProgress, StatusCancelled, StatusFailed},
	StatusInProgress:     {StatusCompleted, StatusCancelled, StatusFailed},
	StatusCompleted:      {StatusRequiresReview},
	StatusRequiresReview: {StatusCompleted},
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// edge.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusFailed
}

type AssignmentMethod string

const (
	AssignmentAuto   AssignmentMethod = "AUTO_ASSIGNED"
	AssignmentManual AssignmentMethod = "MANUAL"
)

type AccessMethod string

const (
	AccessSmartLockCode AccessMethod = "SMART_LOCK_CODE"
	AccessKeyLockbox    AccessMethod = "KEY_LOCKBOX"
	AccessMeetOwner     AccessMethod = "MEET_OWNER"
	AccessKeyOnSite     AccessMethod = "KEY_ON_SITE"
	AccessOther         AccessMethod = "OTHER"
)

type IssueSeverity string

const (
	SeverityMinor    IssueSeverity = "MINOR"
	SeverityModerate IssueSeverity = "MODERATE"
	SeverityMajor    IssueSeverity = "MAJOR"
	SeverityCritical IssueSeverity = "CRITICAL"
)

type ChecklistItem struct {
	Room      string    `json:"room"`
	Item      string    `json:"item"`
	Completed bool      `json:"completed"`
	PhotoURL  string    `json:"photoUrl,omitempty"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type SupplyUsage struct {
	ItemID   uuid.UUID       `json:"itemId"`
	Quantity int             `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
}

type ReportedIssue struct {
	Type        string        `json:"type"`
	Description string        `json:"description"`
	Severity    IssueSeverity `json:"severity"`
	PhotoURL    string        `json:"photoUrl,omitempty"`
}

type CleaningTask struct {
	BaseUUIDModel
	PropertyID        uuid.UUID  `gorm:"type:uuid;not null;index"                    json:"propertyId"`
	UnitID            *uuid.UUID `gorm:"type:uuid"                                   json:"unitId,omitempty"`
	ReservationID     *uuid.UUID `gorm:"type:uuid;index"                             json:"reservationId,omitempty"`
	AssignedCleanerID *uuid.UUID `gorm:"type:uuid;index:idx_tasks_cleaner_date"      json:"assignedCleanerId,omitempty"`
	AssignedCleaner   *Cleaner   `gorm:"foreignKey:AssignedCleanerID"                json:"assignedCleaner,omitempty"`

	TaskType TaskType     `gorm:"type:text;not null"              json:"taskType"`
	Priority TaskPriority `gorm:"type:text;not null;default:'NORMAL'" json:"priority"`
	Status   TaskStatus   `gorm:"type:text;not null;index"        json:"status"`

	ScheduledDate      time.Time `gorm:"not null;index:idx_tasks_cleaner_date" json:"scheduledDate"`
	ScheduledStartTime string    `gorm:"type:text;not null"                    json:"scheduledStartTime"`
	EstimatedDuration  int       `gorm:"not null"                              json:"estimatedDuration"`

	ActualStartTime *time.Time `json:"actualStartTime,omitempty"`
	ActualEndTime   *time.Time `json:"actualEndTime,omitempty"`
	ActualDuration  *int       `json:"actualDuration,omitempty"`

	ChecklistTemplate       string                                `gorm:"type:text;default:'standard'" json:"checklistTemplate"`
	Checklist               datatypes.JSONSlice[ChecklistItem]    `json:"checklist"`
	ChecklistCompletionRate float64                               `json:"checklistCompletionRate"`
	PhotosAfter             datatypes.JSONSlice[string]           `json:"photosAfter"`
	SuppliesUsed            datatypes.JSONSlice[SupplyUsage]      `json:"suppliesUsed"`
	TotalSupplyCost         decimal.Decimal                       `gorm:"type:decimal(10,2);default:0" json:"totalSupplyCost"`
	IssuesReported          datatypes.JSONSlice[ReportedIssue]    `json:"issuesReported"`

	QualityCheckRequired bool `gorm:"not null;default:false" json:"qualityCheckRequired"`
	QualityCheckDone     bool `gorm:"not null;default:false" json:"qualityCheckDone"`
	QualityRating        *int `json:"qualityRating,omitempty"`

	AccessCode        string        `gorm:"type:text" json:"accessCode,omitempty"`
	AccessMethod      *AccessMethod `gorm:"type:text" json:"accessMethod,omitempty"`
	CleanerNotes      string        `gorm:"type:text" json:"cleanerNotes,omitempty"`
	ManagerNotes      string        `gorm:"type:text" json:"managerNotes,omitempty"`
	CoordinationNotes string        `gorm:"type:text" json:"coordinationNotes,omitempty"`

	AssignmentMethod AssignmentMethod `gorm:"type:text;not null;default:'MANUAL'" json:"assignmentMethod"`
	CompletedAt      *time.Time       `gorm:"index"                               json:"completedAt,omitempty"`
}

func (t *CleaningTask) BeforeCreate(tx *gorm.DB) (err error) {
	if t.PropertyID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if t.EstimatedDuration < 15 || t.EstimatedDuration > 480 {
		return gorm.ErrInvalidValue
	}
	if t.Priority == "" {
		t.Priority = PriorityNormal
	}
	if t.Status == "" {
		if t.AssignedCleanerID != nil {
			t.Status = StatusAssigned
		} else {
			t.Status = StatusScheduled
		}
	}
	return nil
}

// CompletionRate is completed items over total items; an empty checklist
// yields 0, not an error.
func CompletionRate(items []ChecklistItem) float64 {
	if len(items) == 0 {
		return 0
	}

	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}

	return float64(completed) / float64(len(items))
}

// SupplyCost sums the cost of all supplies used on a task.
func SupplyCost(supplies []SupplyUsage) decimal.Decimal {
	total := decimal.Zero
	for _, supply := range supplies {
		total = total.Add(supply.Cost)
	}
	return total
}
