package routes

import (
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"face-attendance/interfaces/api/handlers"
	"face-attendance/interfaces/api/middleware"
	"face-attendance/pkg/config"
)

// SetupRoutes registers every route of the API. Paths live at the app root to
// stay compatible with the existing frontend.
func SetupRoutes(app *fiber.App, h *handlers.Handlers, cfg *config.Config) {
	// Stored images are served directly from disk.
	app.Static("/uploads", filepath.Join(cfg.Storage.Dir, "uploads"))
	app.Static("/process", filepath.Join(cfg.Storage.Dir, "process"))
	app.Static("/histories", filepath.Join(cfg.Storage.Dir, "histories"))

	general := middleware.RateLimiter(&cfg.RateLimit)
	strict := middleware.AuthRateLimiter(&cfg.RateLimit)

	SetupHealthRoutes(app, h, general)
	SetupAuthRoutes(app, h, cfg, strict)
	SetupAccountRoutes(app, h, cfg, general)
	SetupFaceRoutes(app, h, general)
	SetupHistoryRoutes(app, h, general)

	// Catch-all, kept as plain text for frontend compatibility.
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).
			SendString(fmt.Sprintf("Route %s %s not found.", c.Method(), c.Path()))
	})
}
