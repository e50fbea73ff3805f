package handlers

import (
	"tidyops/internal/app"
	"tidyops/internal/handlers/middleware"
	"tidyops/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewTaskHandler(*app, api).Register()
	NewCleanerHandler(*app, api).Register()
	NewScheduleHandler(*app, api).Register()
	NewRouteHandler(*app, api).Register()

	return nil
}
