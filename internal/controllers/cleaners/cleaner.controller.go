package cleanerController

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
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrConstraintViolation = errors.New("constraint violation")
)

type CleanerController struct {
	cleanerRepo        repositories.CleanerRepository
	taskRepo           repositories.TaskRepository
	availabilityRepo   repositories.AvailabilityRepository
	transactionService *services.TransactionService
	performanceService *services.PerformanceService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreateCleanerRequest struct {
	FirstName         string           `json:"firstName"`
	LastName          string           `json:"lastName"`
	Email             string           `json:"email"`
	Phone             string           `json:"phone,omitempty"`
	EmploymentType    EmploymentType   `json:"employmentType,omitempty"`
	Specialties       []string         `json:"specialties,omitempty"`
	Certifications    []string         `json:"certifications,omitempty"`
	Languages         []string         `json:"languages,omitempty"`
	ServiceZipCodes   []string         `json:"serviceZipCodes,omitempty"`
	ServiceProperties []string         `json:"serviceProperties,omitempty"`
	MaxTasksPerDay    int              `json:"maxTasksPerDay,omitempty"`
	HourlyRate        *decimal.Decimal `json:"hourlyRate,omitempty"`
	PhotoURL          string           `json:"photoUrl,omitempty"`
	Bio               string           `json:"bio,omitempty"`
}

type UpdateCleanerRequest struct {
	FirstName         *string          `json:"firstName,omitempty"`
	LastName          *string          `json:"lastName,omitempty"`
	Phone             *string          `json:"phone,omitempty"`
	Status            *CleanerStatus   `json:"status,omitempty"`
	EmploymentType    *EmploymentType  `json:"employmentType,omitempty"`
	Specialties       []string         `json:"specialties,omitempty"`
	Certifications    []string         `json:"certifications,omitempty"`
	Languages         []string         `json:"languages,omitempty"`
	ServiceZipCodes   []string         `json:"serviceZipCodes,omitempty"`
	ServiceProperties []string         `json:"serviceProperties,omitempty"`
	MaxTasksPerDay    *int             `json:"maxTasksPerDay,omitempty"`
	HourlyRate        *decimal.Decimal `json:"hourlyRate,omitempty"`
	PhotoURL          *string          `json:"photoUrl,omitempty"`
	Bio               *string          `json:"bio,omitempty"`
}

type SetAvailabilityRequest struct {
	Date        time.Time `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime,omitempty"`
	IsAvailable bool      `json:"isAvailable"`
	Reason      string    `json:"reason,omitempty"`
}

type CleanerControllerInterface interface {
	CreateCleaner(ctx context.Context, request *CreateCleanerRequest) (*Cleaner, error)
	GetCleaner(ctx context.Context, cleanerID uuid.UUID) (*Cleaner, error)
	GetCleaners(ctx context.Context, status *CleanerStatus) ([]*Cleaner, error)
	UpdateCleaner(
		ctx context.Context,
		cleanerID uuid.UUID,
		request *UpdateCleanerRequest,
	) (*Cleaner, error)
	TerminateCleaner(ctx context.Context, cleanerID uuid.UUID) error
	SetAvailability(
		ctx context.Context,
		cleanerID uuid.UUID,
		request *SetAvailabilityRequest,
	) (*AvailabilityBlock, error)
	GetAvailability(
		ctx context.Context,
		cleanerID uuid.UUID,
		from time.Time,
		to time.Time,
	) ([]*AvailabilityBlock, error)
	GetPerformance(
		ctx context.Context,
		cleanerID uuid.UUID,
		from time.Time,
		to time.Time,
	) (*services.PerformanceSummary, error)
	RefreshPerformance(
		ctx context.Context,
		cleanerID uuid.UUID,
	) (*services.PerformanceSummary, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) CleanerControllerInterface {
	return &CleanerController{
		cleanerRepo:        repos.Cleaner,
		taskRepo:           repos.Task,
		availabilityRepo:   repos.Availability,
		transactionService: services.Transaction,
		performanceService: services.Performance,
		db:                 db,
		Config:             config,
		log:                logger.New("cleanerController"),
	}
}

func (c *CleanerController) CreateCleaner(
	ctx context.Context,
	request *CreateCleanerRequest,
) (*Cleaner, error) {
	log := c.log.Function("CreateCleaner")

	if request.FirstName == "" || request.LastName == "" || request.Email == "" {
		return nil, ErrValidation
	}

	existing, err := c.cleanerRepo.GetByEmail(ctx, c.db.SQL, request.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, log.Err("failed to check email uniqueness", err, "email", request.Email)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	maxTasks := request.MaxTasksPerDay
	if maxTasks <= 0 {
		maxTasks = c.Config.DefaultMaxTasksPerDay
	}

	cleaner := &Cleaner{
		FirstName:         request.FirstName,
		LastName:          request.LastName,
		Email:             request.Email,
		Phone:             request.Phone,
		EmploymentType:    request.EmploymentType,
		Status:            CleanerActive,
		Specialties:       datatypes.NewJSONSlice(request.Specialties),
		Certifications:    datatypes.NewJSONSlice(request.Certifications),
		Languages:         datatypes.NewJSONSlice(request.Languages),
		ServiceZipCodes:   datatypes.NewJSONSlice(request.ServiceZipCodes),
		ServiceProperties: datatypes.NewJSONSlice(request.ServiceProperties),
		MaxTasksPerDay:    maxTasks,
		HourlyRate:        request.HourlyRate,
		PhotoURL:          request.PhotoURL,
		Bio:               request.Bio,
	}

	if err := c.cleanerRepo.Create(ctx, c.db.SQL, cleaner); err != nil {
		return nil, log.Err("failed to create cleaner", err, "email", request.Email)
	}

	log.Info("cleaner created", "cleanerID", cleaner.ID, "email", cleaner.Email)
	return cleaner, nil
}

func (c *CleanerController) GetCleaner(
	ctx context.Context,
	cleanerID uuid.UUID,
) (*Cleaner, error) {
	log := c.log.Function("GetCleaner")

	cleaner, err := c.cleanerRepo.GetByID(ctx, c.db.SQL, cleanerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get cleaner", err, "cleanerID", cleanerID)
	}

	return cleaner, nil
}

func (c *CleanerController) GetCleaners(
	ctx context.Context,
	status *CleanerStatus,
) ([]*Cleaner, error) {
	log := c.log.Function("GetCleaners")

	cleaners, err := c.cleanerRepo.GetAll(ctx, c.db.SQL, status)
	if err != nil {
		return nil, log.Err("failed to get cleaners", err)
	}

	return cleaners, nil
}

func (c *CleanerController) UpdateCleaner(
	ctx context.Context,
	cleanerID uuid.UUID,
	request *UpdateCleanerRequest,
) (*Cleaner, error) {
	log := c.log.Function("UpdateCleaner")

	updates := make(map[string]any)

	if request.FirstName != nil {
		if *request.FirstName == "" {
			return nil, ErrValidation
		}
		updates["first_name"] = *request.FirstName
	}
	if request.LastName != nil {
		if *request.LastName == "" {
			return nil, ErrValidation
		}
		updates["last_name"] = *request.LastName
	}
	if request.Phone != nil {
		updates["phone"] = *request.Phone
	}
	if request.Status != nil {
		// Termination goes through TerminateCleaner so active work is checked.
		if *request.Status == CleanerTerminated {
			return nil, ErrValidation
		}
		updates["status"] = *request.Status
	}
	if request.EmploymentType != nil {
		updates["employment_type"] = *request.EmploymentType
	}
	if request.Specialties != nil {
		updates["specialties"] = datatypes.NewJSONSlice(request.Specialties)
	}
	if request.Certifications != nil {
		updates["certifications"] = datatypes.NewJSONSlice(request.Certifications)
	}
	if request.Languages != nil {
		updates["languages"] = datatypes.NewJSONSlice(request.Languages)
	}
	if request.ServiceZipCodes != nil {
		updates["service_zip_codes"] = datatypes.NewJSONSlice(request.ServiceZipCodes)
	}
	if request.ServiceProperties != nil {
		updates["service_properties"] = datatypes.NewJSONSlice(request.ServiceProperties)
	}
	if request.MaxTasksPerDay != nil {
		if *request.MaxTasksPerDay <= 0 {
			return nil, ErrValidation
		}
		updates["max_tasks_per_day"] = *request.MaxTasksPerDay
	}
	if request.HourlyRate != nil {
		updates["hourly_rate"] = *request.HourlyRate
	}
	if request.PhotoURL != nil {
		updates["photo_url"] = *request.PhotoURL
	}
	if request.Bio != nil {
		updates["bio"] = *request.Bio
	}

	if len(updates) == 0 {
		return nil, ErrValidation
	}

	if err := c.cleanerRepo.Update(ctx, c.db.SQL, cleanerID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to update cleaner", err, "cleanerID", cleanerID)
	}

	return c.GetCleaner(ctx, cleanerID)
}

// TerminateCleaner soft deletes a cleaner. Cleaners holding scheduled,
// assigned, or in-progress tasks cannot be terminated until that work is
// reassigned or closed.
func (c *CleanerController) TerminateCleaner(ctx context.Context, cleanerID uuid.UUID) error {
	log := c.log.Function("TerminateCleaner")

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		active, err := c.taskRepo.CountActiveForCleaner(ctx, tx, cleanerID)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrConstraintViolation
		}

		return c.cleanerRepo.Terminate(ctx, tx, cleanerID)
	})
	if err != nil {
		if errors.Is(err, ErrConstraintViolation) {
			return ErrConstraintViolation
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return log.Err("failed to terminate cleaner", err, "cleanerID", cleanerID)
	}

	log.Info("cleaner terminated", "cleanerID", cleanerID)
	return nil
}

func (c *CleanerController) SetAvailability(
	ctx context.Context,
	cleanerID uuid.UUID,
	request *SetAvailabilityRequest,
) (*AvailabilityBlock, error) {
	log := c.log.Function("SetAvailability")

	if _, _, err := utils.ParseClock(request.StartTime); err != nil {
		return nil, ErrValidation
	}
	if request.EndTime != "" {
		if _, _, err := utils.ParseClock(request.EndTime); err != nil {
			return nil, ErrValidation
		}
		if request.EndTime <= request.StartTime {
			return nil, ErrValidation
		}
	}

	if _, err := c.GetCleaner(ctx, cleanerID); err != nil {
		return nil, err
	}

	block := &AvailabilityBlock{
		CleanerID:   cleanerID,
		Date:        utils.Midnight(request.Date),
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
		IsAvailable: request.IsAvailable,
		Reason:      request.Reason,
	}

	if err := c.availabilityRepo.Upsert(ctx, c.db.SQL, block); err != nil {
		return nil, log.Err(
			"failed to set availability",
			err,
			"cleanerID",
			cleanerID,
			"date",
			request.Date,
		)
	}

	log.Info(
		"availability set",
		"cleanerID",
		cleanerID,
		"date",
		block.Date,
		"isAvailable",
		block.IsAvailable,
	)
	return block, nil
}

func (c *CleanerController) GetAvailability(
	ctx context.Context,
	cleanerID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]*AvailabilityBlock, error) {
	log := c.log.Function("GetAvailability")

	blocks, err := c.availabilityRepo.FindRange(ctx, c.db.SQL, cleanerID, from, to)
	if err != nil {
		return nil, log.Err("failed to get availability", err, "cleanerID", cleanerID)
	}

	return blocks, nil
}

// GetPerformance summarizes a cleaner's completed work for a date window
// without touching the stored aggregates.
func (c *CleanerController) GetPerformance(
	ctx context.Context,
	cleanerID uuid.UUID,
	from time.Time,
	to time.Time,
) (*services.PerformanceSummary, error) {
	log := c.log.Function("GetPerformance")

	if _, err := c.GetCleaner(ctx, cleanerID); err != nil {
		return nil, err
	}

	status := StatusCompleted
	tasks, err := c.taskRepo.Query(ctx, c.db.SQL, repositories.TaskQuery{
		CleanerID: &cleanerID,
		Status:    &status,
		DateFrom:  &from,
		DateTo:    &to,
	})
	if err != nil {
		return nil, log.Err("failed to load completed tasks", err, "cleanerID", cleanerID)
	}

	summary := services.ComputePerformance(tasks)
	return &summary, nil
}

func (c *CleanerController) RefreshPerformance(
	ctx context.Context,
	cleanerID uuid.UUID,
) (*services.PerformanceSummary, error) {
	log := c.log.Function("RefreshPerformance")

	if _, err := c.GetCleaner(ctx, cleanerID); err != nil {
		return nil, err
	}

	summary, err := c.performanceService.Refresh(ctx, c.db.SQL, cleanerID)
	if err != nil {
		return nil, log.Err("failed to refresh performance", err, "cleanerID", cleanerID)
	}

	return summary, nil
}
