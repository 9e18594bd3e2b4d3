package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pawpal/pet_marketplace/handlers"
	"github.com/pawpal/pet_marketplace/middleware"
)

func ConsultationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	consultations := api.Group("/consultations", middleware.Protected())
	consultations.Post("", handlers.BookConsultation)
	consultations.Get("/me", handlers.GetMyConsultations)
}
