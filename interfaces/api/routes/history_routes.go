package routes

import (
	"github.com/gofiber/fiber/v2"

	"face-attendance/interfaces/api/handlers"
)

func SetupHistoryRoutes(app *fiber.App, h *handlers.Handlers, limiter fiber.Handler) {
	app.Post("/createhistories", limiter, h.History.Create)
	app.Delete("/deletehistories/:id", limiter, h.History.Delete)
	app.Get("/getAllHistories", limiter, h.History.ListAll)
	app.Get("/getHistories", limiter, h.History.List)
	app.Get("/getHistoriesByMemberId/:id", limiter, h.History.ListByAccount)
	app.Get("/HisStatistics", limiter, h.History.Statistics)
}
