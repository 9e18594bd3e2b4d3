package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pawpal/pet_marketplace/middleware"
	"github.com/pawpal/pet_marketplace/models"
	"github.com/pawpal/pet_marketplace/services"
	"gorm.io/gorm"
)

// RequestEventPayout lets an organizer cash out a finished event.
func RequestEventPayout(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	request, err := services.SubmitEventPayout(session.UserID, eventID)
	if err != nil {
		return payoutError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// RequestGroomingPayout lets a groomer cash out their accumulated
// balance on the weekly payout day.
func RequestGroomingPayout(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	request, err := services.SubmitGroomingPayout(session.UserID)
	if err != nil {
		return payoutError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

func payoutError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPayoutAlreadyPending):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You already have a payout request in review for this."})
	case errors.Is(err, services.ErrEventNotEnded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Payout can only be requested after the event has ended."})
	case errors.Is(err, services.ErrNotPayoutDay):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Grooming payouts can only be requested on the weekly payout day."})
	case errors.Is(err, services.ErrNothingToPayOut):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "There is nothing to pay out."})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit payout request"})
	}
}

// GetPayoutQueue is the admin review queue: requests enriched with payee
// identity, bank details, target name and rejection history. The
// ?status= filter runs on the backend, ?search= on the fetched rows.
func GetPayoutQueue(c *fiber.Ctx) error {
	status := c.Query("status", models.PayoutStatusWaitingForReview)
	search := c.Query("search")

	rows, err := services.AdminPayoutQueue(c.Context(), status, search)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payout queue"})
	}

	return c.JSON(rows)
}

// AdvancePayoutRequest moves a request along the review workflow:
// waiting_for_review -> processing -> payment_sent, or rejected from
// either review state.
func AdvancePayoutRequest(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	type Request struct {
		Status     string `json:"status" validate:"required,oneof=processing payment_sent rejected"`
		AdminNotes string `json:"admin_notes,omitempty"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := services.AdvancePayout(requestID, req.Status, req.AdminNotes)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "That status change is not allowed from the request's current state."})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payout request not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payout request"})
	}

	return c.JSON(request)
}
