package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pawpal/pet_marketplace/handlers"
	"github.com/pawpal/pet_marketplace/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/groomer-applications", handlers.GetGroomerApplications)
	admin.Put("/groomer-applications/:id", handlers.ManageGroomerApplication)

	admin.Get("/payout-requests", handlers.GetPayoutQueue)
	admin.Put("/payout-requests/:id", handlers.AdvancePayoutRequest)

	admin.Get("/consultations/pending", handlers.GetPendingConsultations)
	admin.Post("/consultations/:id/add-link", handlers.AddMeetingLink)

	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)
	admin.Delete("/events/:id", handlers.DeleteEvent)

	reports := admin.Group("/reports")
	reports.Get("/transactions", handlers.GenerateTransactionReport)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:id/status", handlers.ToggleUserStatus)
}
