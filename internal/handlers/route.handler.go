package handlers

import (
	"errors"
	"time"
	"tidyops/internal/app"
	routeController "tidyops/internal/controllers/routes"
	"tidyops/internal/logger"
	"tidyops/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RouteHandler struct {
	Handler
	routeController routeController.RouteControllerInterface
}

func NewRouteHandler(app app.App, router fiber.Router) *RouteHandler {
	log := logger.New("handlers").File("route_handler")
	return &RouteHandler{
		routeController: app.Controllers.Route,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RouteHandler) Register() {
	routes := h.router.Group("/routes")
	routes.Get("", h.getRoutesForDate)
	routes.Post("/plan", h.planRoutesForDate)
	routes.Get("/:cleanerId", h.getRoute)
	routes.Post("/:cleanerId/plan", h.planRoute)
	routes.Patch("/:id/status", h.updateRouteStatus)
}

func routeError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, routeController.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
}

func (h *RouteHandler) getRoutesForDate(c *fiber.Ctx) error {
	date, err := parseDateQuery(c, "date", time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	routes, err := h.routeController.GetRoutesForDate(c.UserContext(), date)
	if err != nil {
		return routeError(c, err, "Failed to get routes")
	}

	return c.JSON(fiber.Map{"routes": routes})
}

func (h *RouteHandler) planRoutesForDate(c *fiber.Ctx) error {
	date, err := parseDateQuery(c, "date", time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	routes, err := h.routeController.PlanRoutesForDate(c.UserContext(), date)
	if err != nil {
		return routeError(c, err, "Failed to plan routes")
	}

	return c.JSON(fiber.Map{"routes": routes})
}

func (h *RouteHandler) getRoute(c *fiber.Ctx) error {
	cleanerID, err := uuid.Parse(c.Params("cleanerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cleaner ID",
		})
	}

	date, err := parseDateQuery(c, "date", time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	route, err := h.routeController.GetRoute(c.UserContext(), cleanerID, date)
	if err != nil {
		return routeError(c, err, "Failed to get route")
	}

	return c.JSON(fiber.Map{"route": route})
}

func (h *RouteHandler) planRoute(c *fiber.Ctx) error {
	cleanerID, err := uuid.Parse(c.Params("cleanerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cleaner ID",
		})
	}

	date, err := parseDateQuery(c, "date", time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	route, err := h.routeController.PlanRoute(c.UserContext(), cleanerID, date)
	if err != nil {
		return routeError(c, err, "Failed to plan route")
	}

	return c.JSON(fiber.Map{"route": route})
}

type updateRouteStatusRequest struct {
	Status models.RouteStatus `json:"status"`
}

func (h *RouteHandler) updateRouteStatus(c *fiber.Ctx) error {
	routeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid route ID",
		})
	}

	var req updateRouteStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.routeController.UpdateRouteStatus(c.UserContext(), routeID, req.Status); err != nil {
		return routeError(c, err, "Failed to update route status")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
