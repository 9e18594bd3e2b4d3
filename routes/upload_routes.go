package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pawpal/pet_marketplace/handlers"
	"github.com/pawpal/pet_marketplace/middleware"
)

func UploadRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/uploads/signature", middleware.Protected(), handlers.GenerateUploadSignature)
}
