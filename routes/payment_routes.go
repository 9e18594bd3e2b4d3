package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pawpal/pet_marketplace/handlers"
	"github.com/pawpal/pet_marketplace/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// KCB calls this; it must stay unauthenticated.
	api.Post("/payments/webhook", handlers.HandlePaymentWebhook)

	paypal := api.Group("/payments/paypal", middleware.Protected())
	paypal.Post("/:paymentId/create-order", handlers.CreatePayPalOrderHandler)
	paypal.Post("/capture", handlers.CapturePayPalOrderHandler)
}
