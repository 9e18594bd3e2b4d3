package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pawpal/pet_marketplace/database"
	"github.com/pawpal/pet_marketplace/listing"
	"github.com/pawpal/pet_marketplace/middleware"
	"github.com/pawpal/pet_marketplace/models"
	"github.com/pawpal/pet_marketplace/notifications"
	"github.com/pawpal/pet_marketplace/payments"
	"github.com/pawpal/pet_marketplace/realtime"
	"github.com/pawpal/pet_marketplace/services"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errPackageNotFound = errors.New("package not found")
	errGroomerInactive = errors.New("groomer inactive")
)

// GetApprovedGroomers is the public salon directory. The backend filters
// to approved profiles; the optional ?search= term matches salon name and
// address on the fetched rows.
func GetApprovedGroomers(c *fiber.Ctx) error {
	search := c.Query("search")

	var profiles []models.GroomerProfile
	if err := database.DB.Preload("User").
		Where("status = ?", "approved").
		Order("avg_rating desc").
		Find(&profiles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch groomers"})
	}

	rows := make([]*models.GroomerProfile, len(profiles))
	for i := range profiles {
		rows[i] = &profiles[i]
	}
	rows = listing.FilterByQuery(rows, search, func(p *models.GroomerProfile) []string {
		fields := []string{p.SalonName}
		if p.SalonAddress != nil {
			fields = append(fields, *p.SalonAddress)
		}
		return fields
	})

	return c.JSON(rows)
}

func GetGroomerPackages(c *fiber.Ctx) error {
	groomerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid groomer ID"})
	}

	var packages []models.GroomingPackage
	if err := database.DB.Where("groomer_id = ? AND is_active = ?", groomerID, true).
		Order("price asc").
		Find(&packages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch packages"})
	}

	return c.JSON(packages)
}

type BookingRequest struct {
	PackageID   uuid.UUID `json:"package_id" validate:"required"`
	PetName     string    `json:"pet_name" validate:"required,min=1"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       *string   `json:"notes,omitempty"`
	PhoneNumber string    `json:"phone_number" validate:"required"`
}

// CreateBooking books a grooming slot and fires the STK push. Price is
// read from the package inside the transaction so a concurrent price
// edit cannot produce a mismatched charge.
func CreateBooking(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var req BookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.ScheduledAt.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Scheduled time must be in the future"})
	}

	var booking models.GroomingBooking
	var payment models.Payment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var pkg models.GroomingPackage
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_active = ?", req.PackageID, true).
			First(&pkg).Error; err != nil {
			return errPackageNotFound
		}

		var profile models.GroomerProfile
		if err := tx.Where("user_id = ? AND status = ?", pkg.GroomerID, "approved").First(&profile).Error; err != nil {
			return errGroomerInactive
		}

		booking = models.GroomingBooking{
			OwnerID:     session.UserID,
			GroomerID:   pkg.GroomerID,
			PackageID:   pkg.ID,
			PetName:     req.PetName,
			Status:      "pending_payment",
			ScheduledAt: req.ScheduledAt,
			Price:       pkg.Price,
			Currency:    "KES",
			Notes:       req.Notes,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		payment = models.Payment{
			GroomingBookingID: &booking.ID,
			Amount:            pkg.Price,
			Currency:          "KES",
			Provider:          "mpesa",
			Status:            "pending",
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		switch err {
		case errPackageNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Package not found"})
		case errGroomerInactive:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This groomer is not accepting bookings"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
		}
	}

	amount, _ := booking.Price.Float64()
	stkResp, err := payments.InitiateMpesaSTKPush(amount, req.PhoneNumber, payment.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to initiate STK push for booking %s: %v", booking.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to initiate payment. Please try again."})
	}

	payment.MerchantRequestID = &stkResp.Response.MerchantRequestID
	database.DB.Save(&payment)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"booking":          booking,
		"customer_message": stkResp.Response.CustomerMessage,
	})
}

// GetMyBookings returns the owner's bookings enriched with salon and
// package names.
func GetMyBookings(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	rows, err := services.OwnerBookings(c.Context(), session.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bookings"})
	}

	return c.JSON(rows)
}

// GetGroomerSchedule returns the groomer's appointment book enriched
// with owner and package names.
func GetGroomerSchedule(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	rows, err := services.GroomerBookings(c.Context(), session.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch schedule"})
	}

	return c.JSON(rows)
}

// CompleteBooking marks a confirmed booking as done and credits the
// groomer's balance with the net amount after commission.
func CompleteBooking(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var booking models.GroomingBooking
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND groomer_id = ?", bookingID, session.UserID).
			First(&booking).Error; err != nil {
			return err
		}
		if booking.Status != "confirmed" {
			return errors.New("booking is not confirmed")
		}
		if booking.ScheduledAt.After(time.Now()) {
			return errors.New("booking cannot be completed before its scheduled time")
		}

		booking.Status = "completed"
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		net := services.NetAfterCommission(booking.Price)
		return tx.Model(&models.GroomerProfile{}).
			Where("user_id = ?", booking.GroomerID).
			Update("current_balance", gorm.Expr("current_balance + ?", net)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	var owner models.User
	if err := database.DB.First(&owner, "id = ?", booking.OwnerID).Error; err == nil {
		go notifications.SendEmail(
			owner.FullName,
			owner.Email,
			"Grooming Session Complete",
			"<h1>All done!</h1><p>Your pet's grooming session has been completed. We hope to see you again soon.</p>",
		)
	}

	publishBookingChange(realtime.ActionUpdate, &booking)

	return c.JSON(booking)
}

// CancelBooking lets the owner cancel before the appointment. Paid
// bookings convert the amount into owner credit rather than a refund.
func CancelBooking(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var booking models.GroomingBooking
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND owner_id = ?", bookingID, session.UserID).
			First(&booking).Error; err != nil {
			return err
		}
		if booking.Status == "completed" || booking.Status == "cancelled" {
			return errors.New("booking can no longer be cancelled")
		}

		wasPaid := booking.Status == "confirmed"
		booking.Status = "cancelled"
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		if wasPaid {
			return tx.Model(&models.User{}).
				Where("id = ?", booking.OwnerID).
				Update("credit_balance", gorm.Expr("credit_balance + ?", booking.Price)).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	publishBookingChange(realtime.ActionUpdate, &booking)

	return c.JSON(booking)
}

// publishBookingChange emits the change to both sides of the booking so
// each dashboard refreshes its own scope.
func publishBookingChange(action realtime.Action, booking *models.GroomingBooking) {
	realtime.Default.Publish(realtime.Event{
		Table:  "grooming_bookings",
		Action: action,
		Scope:  booking.OwnerID,
		RowID:  booking.ID,
	})
	realtime.Default.Publish(realtime.Event{
		Table:  "grooming_bookings",
		Action: action,
		Scope:  booking.GroomerID,
		RowID:  booking.ID,
	})
}
