package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pawpal/pet_marketplace/handlers"
	"github.com/pawpal/pet_marketplace/middleware"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("/me", handlers.GetMyProfile)
	profile.Put("/me", handlers.UpdateMyProfile)

	pets := api.Group("/pets", middleware.Protected())
	pets.Get("", handlers.GetMyPets)
	pets.Post("", handlers.AddPet)
	pets.Put("/:id", handlers.UpdatePet)
	pets.Delete("/:id", handlers.DeletePet)

	notifications := api.Group("/notifications", middleware.Protected())
	notifications.Get("", handlers.GetMyNotifications)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
}
