package routes

import (
	"github.com/gofiber/fiber/v2"

	"face-attendance/interfaces/api/handlers"
)

func SetupFaceRoutes(app *fiber.App, h *handlers.Handlers, limiter fiber.Handler) {
	app.Post("/register-face", limiter, h.Face.Register)
	app.Post("/detect-face", limiter, h.Face.Detect)
	app.Post("/identify-face", limiter, h.Face.Identify)
	app.Delete("/delete-face/:id", limiter, h.Face.Delete)
	app.Get("/getimagebyID/:accountId", limiter, h.Face.GetByAccount)
	app.Get("/getAllDataWithUsername", limiter, h.Face.ListAllWithUsername)
	app.Get("/getFaceRegistrationStats", limiter, h.Face.Statistics)
}
