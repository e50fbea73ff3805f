package handlers

import (
	"errors"
	"time"
	"tidyops/internal/app"
	scheduleController "tidyops/internal/controllers/schedules"
	"tidyops/internal/logger"
	"tidyops/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ScheduleHandler struct {
	Handler
	scheduleController scheduleController.ScheduleControllerInterface
}

func NewScheduleHandler(app app.App, router fiber.Router) *ScheduleHandler {
	log := logger.New("handlers").File("schedule_handler")
	return &ScheduleHandler{
		scheduleController: app.Controllers.Schedule,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ScheduleHandler) Register() {
	schedules := h.router.Group("/schedules")
	schedules.Post("", h.createSchedule)
	schedules.Get("/:id", h.getSchedule)
	schedules.Patch("/:id", h.updateSchedule)
	schedules.Delete("/:id", h.deactivateSchedule)
	schedules.Post("/process-due", h.processDueSchedules)

	properties := h.router.Group("/properties")
	properties.Get("/:id/schedules", h.getSchedulesByProperty)

	reservations := h.router.Group("/reservations")
	reservations.Post("/tasks", h.createTasksFromReservation)
}

func scheduleError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, scheduleController.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, scheduleController.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}

func (h *ScheduleHandler) createSchedule(c *fiber.Ctx) error {
	var req scheduleController.CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	schedule, err := h.scheduleController.CreateSchedule(c.UserContext(), &req)
	if err != nil {
		return scheduleError(c, err, "Failed to create schedule")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"schedule": schedule})
}

func (h *ScheduleHandler) getSchedule(c *fiber.Ctx) error {
	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schedule ID",
		})
	}

	schedule, err := h.scheduleController.GetSchedule(c.UserContext(), scheduleID)
	if err != nil {
		return scheduleError(c, err, "Failed to get schedule")
	}

	return c.JSON(fiber.Map{"schedule": schedule})
}

func (h *ScheduleHandler) updateSchedule(c *fiber.Ctx) error {
	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schedule ID",
		})
	}

	var req scheduleController.UpdateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	schedule, err := h.scheduleController.UpdateSchedule(c.UserContext(), scheduleID, &req)
	if err != nil {
		return scheduleError(c, err, "Failed to update schedule")
	}

	return c.JSON(fiber.Map{"schedule": schedule})
}

func (h *ScheduleHandler) deactivateSchedule(c *fiber.Ctx) error {
	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schedule ID",
		})
	}

	if err := h.scheduleController.DeactivateSchedule(c.UserContext(), scheduleID); err != nil {
		return scheduleError(c, err, "Failed to deactivate schedule")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *ScheduleHandler) processDueSchedules(c *fiber.Ctx) error {
	result, err := h.scheduleController.ProcessDueSchedules(c.UserContext())
	if err != nil {
		return scheduleError(c, err, "Failed to process due schedules")
	}

	return c.JSON(result)
}

func (h *ScheduleHandler) getSchedulesByProperty(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	schedules, err := h.scheduleController.GetSchedulesByProperty(c.UserContext(), propertyID)
	if err != nil {
		return scheduleError(c, err, "Failed to get schedules")
	}

	return c.JSON(fiber.Map{"schedules": schedules})
}

type reservationRequest struct {
	ReservationID uuid.UUID  `json:"reservationId"`
	PropertyID    uuid.UUID  `json:"propertyId"`
	UnitID        *uuid.UUID `json:"unitId,omitempty"`
	CheckIn       time.Time  `json:"checkIn"`
	CheckOut      time.Time  `json:"checkOut"`
}

func (h *ScheduleHandler) createTasksFromReservation(c *fiber.Ctx) error {
	var req reservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	tasks, err := h.scheduleController.CreateTasksFromReservation(c.UserContext(), services.Reservation{
		ID:         req.ReservationID,
		PropertyID: req.PropertyID,
		UnitID:     req.UnitID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
	})
	if err != nil {
		return scheduleError(c, err, "Failed to create reservation tasks")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tasks": tasks})
}
