package routes

import (
	"github.com/gofiber/fiber/v2"

	"face-attendance/interfaces/api/handlers"
	"face-attendance/interfaces/api/middleware"
	"face-attendance/pkg/config"
)

func SetupAuthRoutes(app *fiber.App, h *handlers.Handlers, cfg *config.Config, limiter fiber.Handler) {
	app.Post("/login", limiter, h.Auth.Login)
	app.Post("/signup", limiter, h.Auth.SignUp)
	app.Get("/me", middleware.Protected(cfg.JWT.Secret), h.Auth.Me)
}
