package handlers

import (
	"errors"
	"time"
	"tidyops/internal/app"
	cleanerController "tidyops/internal/controllers/cleaners"
	"tidyops/internal/logger"
	"tidyops/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CleanerHandler struct {
	Handler
	cleanerController cleanerController.CleanerControllerInterface
}

func NewCleanerHandler(app app.App, router fiber.Router) *CleanerHandler {
	log := logger.New("handlers").File("cleaner_handler")
	return &CleanerHandler{
		cleanerController: app.Controllers.Cleaner,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CleanerHandler) Register() {
	cleaners := h.router.Group("/cleaners")
	cleaners.Post("", h.createCleaner)
	cleaners.Get("", h.getCleaners)
	cleaners.Get("/:id", h.getCleaner)
	cleaners.Patch("/:id", h.updateCleaner)
	cleaners.Delete("/:id", h.terminateCleaner)
	cleaners.Put("/:id/availability", h.setAvailability)
	cleaners.Get("/:id/availability", h.getAvailability)
	cleaners.Get("/:id/performance", h.getPerformance)
	cleaners.Post("/:id/performance/refresh", h.refreshPerformance)
}

func cleanerError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, cleanerController.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, cleanerController.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, cleanerController.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, cleanerController.ErrConstraintViolation):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}

func parseCleanerID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func (h *CleanerHandler) createCleaner(c *fiber.Ctx) error {
	var req cleanerController.CreateCleanerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cleaner, err := h.cleanerController.CreateCleaner(c.UserContext(), &req)
	if err != nil {
		return cleanerError(c, err, "Failed to create cleaner")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"cleaner": cleaner})
}

func (h *CleanerHandler) getCleaners(c *fiber.Ctx) error {
	var status *models.CleanerStatus
	if raw := c.Query("status"); raw != "" {
		s := models.CleanerStatus(raw)
		status = &s
	}

	cleaners, err := h.cleanerController.GetCleaners(c.UserContext(), status)
	if err != nil {
		return cleanerError(c, err, "Failed to get cleaners")
	}

	return c.JSON(fiber.Map{"cleaners": cleaners})
}

func (h *CleanerHandler) getCleaner(c *fiber.Ctx) error {
	cleanerID, err := parseCleanerID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cleaner ID",
		})
	}

	cleaner, err := h.cleanerController.GetCleaner(c.UserContext(), cleanerID)
	if err != nil {
		return cleanerError(c, err, "Failed to get cleaner")
	}

	return c.JSON(fiber.Map{"cleaner": cleaner})
}

func (h *CleanerHandler) updateCleaner(c *fiber.Ctx) error {
	cleanerID, err := parseCleanerID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cleaner ID",
		})
	}

	var req cleanerController.UpdateCleanerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cleaner, err := h.cleanerController.UpdateCleaner(c.UserContext(), cleanerID, &req)
	if err != nil {
		return cleanerError(c, err, "Failed to update cleaner")
	}

	return c.JSON(fiber.Map{"cleaner": cleaner})
}

func (h *CleanerHandler) terminateCleaner(c *fiber.Ctx) error {
	cleanerID, err := parseCleanerID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cleaner ID",
		})
	}

	if err := h.cleanerController.TerminateCleaner(c.UserContext(), cleanerID); err != nil {
		return cleanerError(c, err, "Failed to terminate cleaner")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *CleanerHandler) setAvailability(c *fiber.Ctx) error {
	cleanerID, err := parseCleanerID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cleaner ID",
		})
	}

	var req cleanerController.SetAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	block, err := h.cleanerController.SetAvailability(c.UserContext(), cleanerID, &req)
	if err != nil {
		return cleanerError(c, err, "Failed to set availability")
	}

	return c.JSON(fiber.Map{"availability": block})
}

func (h *CleanerHandler) getAvailability(c *fiber.Ctx) error {
	cleanerID, err := parseCleanerID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cleaner ID",
		})
	}

	from, err := parseDateQuery(c, "from", time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid from date, expected YYYY-MM-DD",
		})
	}

	to, err := parseDateQuery(c, "to", from.AddDate(0, 0, 14))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid to date, expected YYYY-MM-DD",
		})
	}

	blocks, err := h.cleanerController.GetAvailability(c.UserContext(), cleanerID, from, to)
	if err != nil {
		return cleanerError(c, err, "Failed to get availability")
	}

	return c.JSON(fiber.Map{"availability": blocks})
}

func (h *CleanerHandler) getPerformance(c *fiber.Ctx) error {
	cleanerID, err := parseCleanerID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cleaner ID",
		})
	}

	from, err := parseDateQuery(c, "from", time.Now().AddDate(0, -1, 0))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid from date, expected YYYY-MM-DD",
		})
	}

	to, err := parseDateQuery(c, "to", time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid to date, expected YYYY-MM-DD",
		})
	}

	summary, err := h.cleanerController.GetPerformance(c.UserContext(), cleanerID, from, to)
	if err != nil {
		return cleanerError(c, err, "Failed to get performance")
	}

	return c.JSON(fiber.Map{"performance": summary})
}

func (h *CleanerHandler) refreshPerformance(c *fiber.Ctx) error {
	cleanerID, err := parseCleanerID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cleaner ID",
		})
	}

	summary, err := h.cleanerController.RefreshPerformance(c.UserContext(), cleanerID)
	if err != nil {
		return cleanerError(c, err, "Failed to refresh performance")
	}

	return c.JSON(fiber.Map{"performance": summary})
}

func parseDateQuery(c *fiber.Ctx, key string, fallback time.Time) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}
