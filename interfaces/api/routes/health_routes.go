package routes

import (
	"github.com/gofiber/fiber/v2"

	"face-attendance/interfaces/api/handlers"
)

func SetupHealthRoutes(app *fiber.App, h *handlers.Handlers, limiter fiber.Handler) {
	app.Get("/health", limiter, h.Health.Check)
}
