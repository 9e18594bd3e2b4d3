package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pawpal/pet_marketplace/database"
	"github.com/pawpal/pet_marketplace/middleware"
	"github.com/pawpal/pet_marketplace/models"
	"github.com/pawpal/pet_marketplace/notifications"
	"github.com/pawpal/pet_marketplace/realtime"
	"github.com/pawpal/pet_marketplace/services"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GroomerApplicationRequest struct {
	SalonName     string  `json:"salon_name" validate:"required,min=2"`
	SalonAddress  *string `json:"salon_address,omitempty"`
	ContactNumber *string `json:"contact_number,omitempty"`
	Bio           *string `json:"bio,omitempty"`
}

// ApplyAsGroomer creates a pending GroomerProfile. The role flip to
// "groomer" only happens when an admin approves the application.
func ApplyAsGroomer(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var req GroomerApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.GroomerProfile
	err := database.DB.Where("user_id = ?", session.UserID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already applied as a groomer"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check existing application"})
	}

	profile := models.GroomerProfile{
		UserID:        session.UserID,
		SalonName:     req.SalonName,
		SalonAddress:  req.SalonAddress,
		ContactNumber: req.ContactNumber,
		Bio:           req.Bio,
		Status:        "pending",
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit application"})
	}

	go notifications.NotifyAdmins("New groomer application", "Salon '"+req.SalonName+"' has applied and is waiting for review.")
	realtime.Default.Publish(realtime.Event{
		Table:  "groomer_profiles",
		Action: realtime.ActionInsert,
		Scope:  session.UserID,
		RowID:  profile.UserID,
	})

	return c.Status(fiber.StatusCreated).JSON(profile)
}

func GetMyGroomerProfile(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var profile models.GroomerProfile
	if err := database.DB.Preload("User").Where("user_id = ?", session.UserID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Groomer profile not found"})
	}

	return c.JSON(profile)
}

func UpdateMyGroomerProfile(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var req GroomerApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var profile models.GroomerProfile
	if err := database.DB.Where("user_id = ?", session.UserID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Groomer profile not found"})
	}

	profile.SalonName = req.SalonName
	profile.SalonAddress = req.SalonAddress
	profile.ContactNumber = req.ContactNumber
	profile.Bio = req.Bio

	if err := database.DB.Save(&profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	realtime.Default.Publish(realtime.Event{
		Table:  "groomer_profiles",
		Action: realtime.ActionUpdate,
		Scope:  session.UserID,
		RowID:  profile.UserID,
	})

	return c.JSON(profile)
}

type PackageRequest struct {
	Name            string  `json:"name" validate:"required,min=2"`
	Description     *string `json:"description,omitempty"`
	Price           string  `json:"price" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=15"`
}

func CreatePackage(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid price"})
	}

	pkg := models.GroomingPackage{
		GroomerID:       session.UserID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}
	if err := database.DB.Create(&pkg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create package"})
	}

	return c.Status(fiber.StatusCreated).JSON(pkg)
}

func GetMyPackages(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var packages []models.GroomingPackage
	if err := database.DB.Where("groomer_id = ?", session.UserID).Order("created_at asc").Find(&packages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch packages"})
	}

	return c.JSON(packages)
}

func UpdatePackage(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	pkgID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid package ID"})
	}

	type Request struct {
		Name            *string `json:"name,omitempty"`
		Description     *string `json:"description,omitempty"`
		Price           *string `json:"price,omitempty"`
		DurationMinutes *int    `json:"duration_minutes,omitempty"`
		IsActive        *bool   `json:"is_active,omitempty"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var pkg models.GroomingPackage
	if err := database.DB.Where("id = ? AND groomer_id = ?", pkgID, session.UserID).First(&pkg).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Package not found"})
	}

	if req.Name != nil {
		pkg.Name = *req.Name
	}
	if req.Description != nil {
		pkg.Description = req.Description
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil || price.IsNegative() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid price"})
		}
		pkg.Price = price
	}
	if req.DurationMinutes != nil {
		pkg.DurationMinutes = *req.DurationMinutes
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&pkg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update package"})
	}

	return c.JSON(pkg)
}

type BankDetailRequest struct {
	BankName      string `json:"bank_name" validate:"required,min=2"`
	AccountName   string `json:"account_name" validate:"required,min=2"`
	AccountNumber string `json:"account_number" validate:"required,min=4"`
}

// UpsertBankDetails creates or replaces the caller's payout account.
func UpsertBankDetails(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var req BankDetailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var detail models.BankDetail
	err := database.DB.Where("user_id = ?", session.UserID).First(&detail).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bank details"})
	}

	detail.UserID = session.UserID
	detail.BankName = req.BankName
	detail.AccountName = req.AccountName
	detail.AccountNumber = req.AccountNumber

	if err := database.DB.Save(&detail).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save bank details"})
	}

	return c.JSON(detail)
}

func GetMyBankDetails(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var detail models.BankDetail
	if err := database.DB.Where("user_id = ?", session.UserID).First(&detail).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bank details not found"})
	}

	return c.JSON(detail)
}

func GetMyEarnings(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var profile models.GroomerProfile
	if err := database.DB.Where("user_id = ?", session.UserID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Groomer profile not found"})
	}

	var completed int64
	database.DB.Model(&models.GroomingBooking{}).
		Where("groomer_id = ? AND status = ?", session.UserID, "completed").
		Count(&completed)

	return c.JSON(fiber.Map{
		"current_balance":    profile.CurrentBalance,
		"completed_bookings": completed,
	})
}

func GetMyPayoutRequests(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	requests, err := services.PayeePayoutRequests(c.Context(), session.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payout requests"})
	}

	return c.JSON(requests)
}
