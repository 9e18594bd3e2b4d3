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
	"github.com/pawpal/pet_marketplace/payments"
	"github.com/pawpal/pet_marketplace/realtime"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errEventNotFound = errors.New("event not found")
	errEventClosed   = errors.New("event closed")
	errEventFull     = errors.New("event full")
)

type EventRequest struct {
	Title       string    `json:"title" validate:"required,min=3"`
	Description *string   `json:"description,omitempty"`
	Venue       string    `json:"venue" validate:"required,min=3"`
	EventDate   time.Time `json:"event_date" validate:"required"`
	TicketPrice string    `json:"ticket_price" validate:"required"`
	Capacity    int       `json:"capacity" validate:"required,min=1"`
	BannerURL   *string   `json:"banner_url,omitempty"`
}

func CreateEvent(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	price, err := decimal.NewFromString(req.TicketPrice)
	if err != nil || price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ticket price"})
	}
	if req.EventDate.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Event date must be in the future"})
	}

	event := models.PetEvent{
		OrganizerID: session.UserID,
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		EventDate:   req.EventDate,
		TicketPrice: price,
		Capacity:    req.Capacity,
		BannerURL:   req.BannerURL,
		Status:      "upcoming",
	}
	if err := database.DB.Create(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create event"})
	}

	realtime.Default.Publish(realtime.Event{
		Table:  "pet_events",
		Action: realtime.ActionInsert,
		Scope:  session.UserID,
		RowID:  event.ID,
	})

	return c.Status(fiber.StatusCreated).JSON(event)
}

// GetUpcomingEvents lists upcoming events. The base query filters by
// status and date; the optional ?search= term is applied to the fetched
// rows as a case-insensitive substring match over title and venue.
func GetUpcomingEvents(c *fiber.Ctx) error {
	search := c.Query("search")

	var events []models.PetEvent
	if err := database.DB.Preload("Organizer").
		Where("status = ? AND event_date > ?", "upcoming", time.Now()).
		Order("event_date asc").
		Find(&events).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch events"})
	}

	rows := make([]*models.PetEvent, len(events))
	for i := range events {
		rows[i] = &events[i]
	}
	rows = listing.FilterByQuery(rows, search, func(e *models.PetEvent) []string {
		return []string{e.Title, e.Venue}
	})

	return c.JSON(rows)
}

func GetEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	var event models.PetEvent
	if err := database.DB.Preload("Organizer").First(&event, "id = ?", eventID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
	}

	return c.JSON(event)
}

func GetMyEvents(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var events []models.PetEvent
	if err := database.DB.Where("organizer_id = ?", session.UserID).Order("event_date desc").Find(&events).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch events"})
	}

	return c.JSON(events)
}

func UpdateEvent(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var event models.PetEvent
	if err := database.DB.Where("id = ? AND organizer_id = ?", eventID, session.UserID).First(&event).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
	}
	if event.Status != "upcoming" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only upcoming events can be edited"})
	}

	price, err := decimal.NewFromString(req.TicketPrice)
	if err != nil || price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ticket price"})
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Venue = req.Venue
	event.EventDate = req.EventDate
	event.TicketPrice = price
	event.Capacity = req.Capacity
	event.BannerURL = req.BannerURL

	if err := database.DB.Save(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update event"})
	}

	realtime.Default.Publish(realtime.Event{
		Table:  "pet_events",
		Action: realtime.ActionUpdate,
		Scope:  session.UserID,
		RowID:  event.ID,
	})

	return c.JSON(event)
}

type EventRegistrationRequest struct {
	PetName     string `json:"pet_name" validate:"required,min=1"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// RegisterForEvent reserves a spot and fires an M-Pesa STK push for the
// ticket price. The registration stays pending_payment until the webhook
// confirms it.
func RegisterForEvent(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	var req EventRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var registration models.EventRegistration
	var payment models.Payment
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var event models.PetEvent
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, "id = ?", eventID).Error; err != nil {
			return errEventNotFound
		}
		if event.Status != "upcoming" || event.EventDate.Before(time.Now()) {
			return errEventClosed
		}
		if event.Registered >= event.Capacity {
			return errEventFull
		}

		registration = models.EventRegistration{
			EventID:    event.ID,
			OwnerID:    session.UserID,
			PetName:    req.PetName,
			Status:     "pending_payment",
			AmountPaid: event.TicketPrice,
		}
		if err := tx.Create(&registration).Error; err != nil {
			return err
		}

		payment = models.Payment{
			EventRegistrationID: &registration.ID,
			Amount:              event.TicketPrice,
			Currency:            "KES",
			Provider:            "mpesa",
			Status:              "pending",
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		switch err {
		case errEventNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
		case errEventClosed:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Event is no longer open for registration"})
		case errEventFull:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Event is fully booked"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create registration"})
		}
	}

	amount, _ := registration.AmountPaid.Float64()
	stkResp, err := payments.InitiateMpesaSTKPush(amount, req.PhoneNumber, payment.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to initiate STK push for registration %s: %v", registration.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to initiate payment. Please try again."})
	}

	payment.MerchantRequestID = &stkResp.Response.MerchantRequestID
	database.DB.Save(&payment)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"registration":     registration,
		"customer_message": stkResp.Response.CustomerMessage,
	})
}

func GetMyRegistrations(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	var registrations []models.EventRegistration
	if err := database.DB.Preload("Event").
		Where("owner_id = ?", session.UserID).
		Order("created_at desc").
		Find(&registrations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch registrations"})
	}

	return c.JSON(registrations)
}

// DeleteEvent is an admin hard delete for events that never happened.
func DeleteEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	var event models.PetEvent
	if err := database.DB.First(&event, "id = ?", eventID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
	}

	var confirmed int64
	database.DB.Model(&models.EventRegistration{}).
		Where("event_id = ? AND status = ?", eventID, "confirmed").
		Count(&confirmed)
	if confirmed > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Cannot delete an event with confirmed registrations"})
	}

	if err := database.DB.Delete(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete event"})
	}

	realtime.Default.Publish(realtime.Event{
		Table:  "pet_events",
		Action: realtime.ActionDelete,
		Scope:  event.OrganizerID,
		RowID:  event.ID,
	})

	return c.JSON(fiber.Map{"message": "Event deleted"})
}
