package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pawpal/pet_marketplace/handlers"
	"github.com/pawpal/pet_marketplace/middleware"
)

func GroomerRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Any authenticated user can apply; the rest is groomer-only.
	api.Post("/groomers/apply", middleware.Protected(), handlers.ApplyAsGroomer)

	groomer := api.Group("/groomer", middleware.Protected(), middleware.GroomerRequired())
	groomer.Get("/profile", handlers.GetMyGroomerProfile)
	groomer.Put("/profile", handlers.UpdateMyGroomerProfile)
	groomer.Get("/earnings", handlers.GetMyEarnings)
	groomer.Get("/schedule", handlers.GetGroomerSchedule)
	groomer.Post("/bookings/:id/complete", handlers.CompleteBooking)

	packages := groomer.Group("/packages")
	packages.Get("", handlers.GetMyPackages)
	packages.Post("", handlers.CreatePackage)
	packages.Put("/:id", handlers.UpdatePackage)

	bank := api.Group("/bank-details", middleware.Protected())
	bank.Get("", handlers.GetMyBankDetails)
	bank.Put("", handlers.UpsertBankDetails)
}
