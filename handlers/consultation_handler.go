package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	config "github.com/pawpal/pet_marketplace/configs"
	"github.com/pawpal/pet_marketplace/database"
	"github.com/pawpal/pet_marketplace/middleware"
	"github.com/pawpal/pet_marketplace/models"
	"github.com/pawpal/pet_marketplace/notifications"
	"github.com/pawpal/pet_marketplace/payments"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ConsultationRequest struct {
	PetID       uuid.UUID `json:"pet_id" validate:"required"`
	Concern     string    `json:"concern" validate:"required,min=10"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	PhoneNumber string    `json:"phone_number" validate:"required"`
}

// BookConsultation schedules a vet video consultation at the flat fee
// from config and fires the STK push.
func BookConsultation(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var req ConsultationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.ScheduledAt.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Scheduled time must be in the future"})
	}

	var pet models.Pet
	if err := database.DB.Where("id = ? AND owner_id = ?", req.PetID, session.UserID).First(&pet).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pet not found"})
	}

	fee, err := decimal.NewFromString(config.Config("CONSULTATION_FEE"))
	if err != nil || !fee.IsPositive() {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Consultation fee is not configured"})
	}

	var consultation models.Consultation
	var payment models.Payment
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		consultation = models.Consultation{
			OwnerID:     session.UserID,
			PetID:       pet.ID,
			Concern:     req.Concern,
			Status:      "pending_payment",
			ScheduledAt: req.ScheduledAt,
			Fee:         fee,
		}
		if err := tx.Create(&consultation).Error; err != nil {
			return err
		}

		payment = models.Payment{
			ConsultationID: &consultation.ID,
			Amount:         fee,
			Currency:       "KES",
			Provider:       "mpesa",
			Status:         "pending",
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to book consultation"})
	}

	amount, _ := fee.Float64()
	stkResp, err := payments.InitiateMpesaSTKPush(amount, req.PhoneNumber, payment.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to initiate STK push for consultation %s: %v", consultation.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to initiate payment. Please try again."})
	}

	payment.MerchantRequestID = &stkResp.Response.MerchantRequestID
	database.DB.Save(&payment)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"consultation":     consultation,
		"customer_message": stkResp.Response.CustomerMessage,
	})
}

func GetMyConsultations(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var consultations []models.Consultation
	if err := database.DB.Preload("Pet").
		Where("owner_id = ?", session.UserID).
		Order("scheduled_at desc").
		Find(&consultations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch consultations"})
	}

	return c.JSON(consultations)
}

// GetPendingConsultations lists confirmed consultations still waiting
// for a meeting link. Admin only.
func GetPendingConsultations(c *fiber.Ctx) error {
	var consultations []models.Consultation
	if err := database.DB.Preload("Owner").Preload("Pet").
		Where("status = ? AND meeting_link IS NULL", "confirmed").
		Order("scheduled_at asc").
		Find(&consultations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch consultations"})
	}

	return c.JSON(consultations)
}

// AddMeetingLink attaches the video call link and emails the owner.
func AddMeetingLink(c *fiber.Ctx) error {
	consultationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid consultation ID"})
	}

	type Request struct {
		MeetingLink string `json:"meeting_link" validate:"required,url"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var consultation models.Consultation
	if err := database.DB.Preload("Owner").First(&consultation, "id = ?", consultationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Consultation not found"})
	}
	if consultation.Status != "confirmed" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Consultation is not confirmed yet"})
	}

	consultation.MeetingLink = &req.MeetingLink
	if err := database.DB.Save(&consultation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save meeting link"})
	}

	go notifications.SendEmail(
		consultation.Owner.FullName,
		consultation.Owner.Email,
		"Your Vet Consultation Link",
		"<h1>Consultation Scheduled</h1><p>Your vet consultation link is ready: <a href='"+req.MeetingLink+"'>Join the call</a></p>",
	)

	return c.JSON(consultation)
}
