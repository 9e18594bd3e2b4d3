package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pawpal/pet_marketplace/database"
	"github.com/pawpal/pet_marketplace/models"
	"github.com/pawpal/pet_marketplace/notifications"
	"github.com/pawpal/pet_marketplace/realtime"
	"github.com/pawpal/pet_marketplace/services"
	"gorm.io/gorm"
)

// GetGroomerApplications is the admin review queue for salon
// applications, enriched with applicant identity and bank details.
func GetGroomerApplications(c *fiber.Ctx) error {
	status := c.Query("status", "pending")
	search := c.Query("search")

	rows, err := services.AdminGroomerQueue(c.Context(), status, search)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch applications"})
	}

	return c.JSON(rows)
}

// ManageGroomerApplication approves or rejects a pending application.
// Approval flips the user's role to groomer.
func ManageGroomerApplication(c *fiber.Ctx) error {
	groomerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid groomer ID"})
	}

	type Request struct {
		Status string `json:"status" validate:"required,oneof=approved rejected"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var profile models.GroomerProfile
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").Where("user_id = ? AND status = ?", groomerID, "pending").First(&profile).Error; err != nil {
			return err
		}

		profile.Status = req.Status
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}

		if req.Status == "approved" {
			return tx.Model(&models.User{}).Where("id = ?", profile.UserID).Update("role", "groomer").Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pending application not found"})
	}

	subject := "Your Groomer Application"
	body := "<h1>Application Update</h1><p>Unfortunately your application was not approved at this time.</p>"
	if req.Status == "approved" {
		body = "<h1>Welcome aboard!</h1><p>Your salon has been approved. You can now publish packages and accept bookings.</p>"
	}
	go notifications.SendEmail(profile.User.FullName, profile.User.Email, subject, body)

	realtime.Default.Publish(realtime.Event{
		Table:  "groomer_profiles",
		Action: realtime.ActionUpdate,
		Scope:  profile.UserID,
		RowID:  profile.UserID,
	})

	return c.JSON(profile)
}

type DashboardAnalyticsResponse struct {
	TotalPetOwners     int64                    `json:"total_pet_owners"`
	TotalActiveSalons  int64                    `json:"total_active_salons"`
	TotalRevenue       float64                  `json:"total_revenue"`
	BookingsLast30Days int64                    `json:"bookings_last_30_days"`
	UpcomingEvents     int64                    `json:"upcoming_events"`
	PendingPayouts     int64                    `json:"pending_payouts"`
	RecentBookings     []models.GroomingBooking `json:"recent_bookings"`
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var response DashboardAnalyticsResponse
	var totalRevenue float64

	database.DB.Model(&models.User{}).Where("role = ?", "pet_owner").Count(&response.TotalPetOwners)

	database.DB.Model(&models.GroomerProfile{}).Where("status = ?", "approved").Count(&response.TotalActiveSalons)

	database.DB.Model(&models.Payment{}).Where("status = ?", "succeeded").Select("COALESCE(SUM(amount), 0)").Row().Scan(&totalRevenue)
	response.TotalRevenue = totalRevenue

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&models.GroomingBooking{}).Where("created_at > ?", thirtyDaysAgo).Count(&response.BookingsLast30Days)

	database.DB.Model(&models.PetEvent{}).Where("status = ? AND event_date > ?", "upcoming", time.Now()).Count(&response.UpcomingEvents)

	database.DB.Model(&models.PayoutRequest{}).Where("status = ?", models.PayoutStatusWaitingForReview).Count(&response.PendingPayouts)

	database.DB.Order("created_at desc").Limit(5).Preload("Owner").Preload("Groomer").Find(&response.RecentBookings)

	return c.JSON(response)
}

func GetAllUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := strings.TrimSpace(c.Query("search"))
	offset := (page - 1) * limit

	var users []models.User
	var totalUsers int64

	query := database.DB.Model(&models.User{})
	countQuery := database.DB.Model(&models.User{})

	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
		countQuery = countQuery.Where("full_name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}

	countQuery.Count(&totalUsers)
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&users)

	return c.JSON(fiber.Map{
		"data": users,
		"meta": fiber.Map{
			"total_users":  totalUsers,
			"total_pages":  int(math.Ceil(float64(totalUsers) / float64(limit))),
			"current_page": page,
		},
	})
}

func ToggleUserStatus(c *fiber.Ctx) error {
	userID := c.Params("id")
	type Request struct {
		IsActive bool `json:"is_active"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_active", req.IsActive).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{"message": "User status updated successfully."})
}

func GenerateTransactionReport(c *fiber.Ctx) error {
	startDateStr := c.Query("start_date", time.Now().AddDate(0, -1, 0).Format("2006-01-02"))
	endDateStr := c.Query("end_date", time.Now().Format("2006-01-02"))

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date format. Use YYYY-MM-DD."})
	}
	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date format. Use YYYY-MM-DD."})
	}
	endDate = endDate.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	var txns []models.Payment
	database.DB.
		Preload("GroomingBooking.Owner").
		Preload("EventRegistration.Owner").
		Preload("Consultation.Owner").
		Where("status = ? AND created_at BETWEEN ? AND ?", "succeeded", startDate, endDate).
		Order("created_at desc").
		Find(&txns)

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)

	headers := []string{"Transaction ID", "Date", "Customer Name", "Amount", "Provider", "Type", "Reference ID"}
	if err := w.Write(headers); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV header"})
	}

	for _, p := range txns {
		var customerName, purchaseType, referenceID string
		switch {
		case p.GroomingBookingID != nil:
			customerName = p.GroomingBooking.Owner.FullName
			purchaseType = "Grooming"
			referenceID = p.GroomingBookingID.String()
		case p.EventRegistrationID != nil:
			customerName = p.EventRegistration.Owner.FullName
			purchaseType = "Event Ticket"
			referenceID = p.EventRegistrationID.String()
		case p.ConsultationID != nil:
			customerName = p.Consultation.Owner.FullName
			purchaseType = "Vet Consultation"
			referenceID = p.ConsultationID.String()
		}

		txnID := ""
		if p.ProviderTxnID != nil {
			txnID = *p.ProviderTxnID
		}

		row := []string{
			txnID,
			p.CreatedAt.Format("2006-01-02 15:04"),
			customerName,
			p.Amount.StringFixed(2),
			p.Provider,
			purchaseType,
			referenceID,
		}
		if err := w.Write(row); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV row"})
		}
	}
	w.Flush()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s_to_%s.csv\"", startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))

	return c.Send(b.Bytes())
}
