package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pawpal/pet_marketplace/handlers"
	"github.com/pawpal/pet_marketplace/middleware"
)

func EventRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	events := api.Group("/events", middleware.Protected())
	events.Post("", handlers.CreateEvent)
	events.Get("/mine", handlers.GetMyEvents)
	events.Put("/:id", handlers.UpdateEvent)
	events.Post("/:id/register", handlers.RegisterForEvent)
	events.Post("/:id/request-payout", handlers.RequestEventPayout)

	api.Get("/registrations/me", middleware.Protected(), handlers.GetMyRegistrations)
}
