package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pawpal/pet_marketplace/handlers"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/groomers", handlers.GetApprovedGroomers)
	api.Get("/groomers/:id/packages", handlers.GetGroomerPackages)
	api.Get("/events", handlers.GetUpcomingEvents)
	api.Get("/events/:id", handlers.GetEvent)
}
