package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pawpal/pet_marketplace/handlers"
	"github.com/pawpal/pet_marketplace/middleware"
)

func PayoutRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payouts := api.Group("/payouts", middleware.Protected())
	payouts.Get("/me", handlers.GetMyPayoutRequests)
	payouts.Post("/grooming", middleware.GroomerRequired(), handlers.RequestGroomingPayout)
}
