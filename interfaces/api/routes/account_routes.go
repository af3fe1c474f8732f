package routes

import (
	"github.com/gofiber/fiber/v2"

	"face-attendance/interfaces/api/handlers"
	"face-attendance/interfaces/api/middleware"
	"face-attendance/pkg/config"
)

func SetupAccountRoutes(app *fiber.App, h *handlers.Handlers, cfg *config.Config, limiter fiber.Handler) {
	app.Get("/getAccount", limiter, h.Account.List)
	app.Get("/getAllInforAcc", limiter, h.Account.ListDetails)
	// The path parameter has always carried a username despite its name.
	app.Get("/getAccountById/:account_id", limiter, h.Account.GetByUsername)
	app.Put("/updateaccountusername/:username", limiter,
		middleware.Protected(cfg.JWT.Secret), middleware.AdminOnly(), h.Account.Update)
	app.Get("/AccStatistics", limiter, h.Account.Statistics)
}
