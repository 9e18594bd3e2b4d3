package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pawpal/pet_marketplace/database"
	"github.com/pawpal/pet_marketplace/models"
	"github.com/pawpal/pet_marketplace/notifications"
	"github.com/pawpal/pet_marketplace/payments"
	"github.com/pawpal/pet_marketplace/realtime"
	"github.com/pawpal/pet_marketplace/services"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KcbWebhookPayload struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string      `json:"Name"`
					Value interface{} `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
			Reference string `json:"Reference"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

func HandlePaymentWebhook(c *fiber.Ctx) error {
	var payload KcbWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	stk := payload.Body.StkCallback

	// Reference arrives as "<account>-<paymentID>".
	var paymentRefID string
	parts := strings.Split(stk.Reference, "-")
	if len(parts) == 2 {
		paymentRefID = parts[1]
	} else {
		paymentRefID = stk.Reference
	}

	log.Printf("Received webhook for MerchantRequestID: %s, PaymentRefID: %s, ResultCode: %d",
		stk.MerchantRequestID, paymentRefID, stk.ResultCode)

	var payment models.Payment
	if err := database.DB.Where("id = ?", paymentRefID).First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
	}

	if payment.Status == "succeeded" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook already processed"})
	}

	if stk.ResultCode != 0 {
		payment.Status = "failed"
		database.DB.Save(&payment)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Acknowledged failed payment"})
	}

	var mpesaReceipt string
	for _, item := range stk.CallbackMetadata.Item {
		if item.Name == "MpesaReceiptNumber" {
			if val, ok := item.Value.(string); ok {
				mpesaReceipt = val
				break
			}
		}
	}

	payment.Status = "succeeded"
	payment.ProviderTxnID = &mpesaReceipt
	payment.MerchantRequestID = &stk.MerchantRequestID

	if err := confirmPurchase(&payment); err != nil {
		log.Printf("🔥 CRITICAL: Error processing successful webhook for PaymentRefID %s: %v", paymentRefID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook processed successfully"})
}

// confirmPurchase finalizes whatever the payment was for: booking,
// event registration or consultation. Document generation and emails
// run after the commit; a failure there never unwinds the payment.
func confirmPurchase(payment *models.Payment) error {
	var booking models.GroomingBooking
	var registration models.EventRegistration
	var consultation models.Consultation

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(payment).Error; err != nil {
			return err
		}

		if payment.GroomingBookingID != nil {
			if err := tx.Preload("Owner").Preload("Groomer").First(&booking, "id = ?", payment.GroomingBookingID).Error; err != nil {
				return err
			}
			booking.Status = "confirmed"
			return tx.Save(&booking).Error
		}

		if payment.EventRegistrationID != nil {
			if err := tx.Preload("Owner").Preload("Event").First(&registration, "id = ?", payment.EventRegistrationID).Error; err != nil {
				return err
			}
			registration.Status = "confirmed"
			if err := tx.Save(&registration).Error; err != nil {
				return err
			}
			return tx.Model(&models.PetEvent{}).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", registration.EventID).
				Update("registered", gorm.Expr("registered + 1")).Error
		}

		if payment.ConsultationID != nil {
			if err := tx.Preload("Owner").First(&consultation, "id = ?", payment.ConsultationID).Error; err != nil {
				return err
			}
			consultation.Status = "confirmed"
			return tx.Save(&consultation).Error
		}

		return nil
	})
	if err != nil {
		return err
	}

	switch {
	case payment.GroomingBookingID != nil:
		go func() {
			notifications.SendEmail(booking.Owner.FullName, booking.Owner.Email, "Your Grooming Booking is Confirmed!", "<h1>Booking Confirmed</h1><p>Your payment was successful and your grooming appointment is confirmed.</p>")
			notifications.SendEmail(booking.Groomer.FullName, booking.Groomer.Email, "You Have a New Booking!", "<h1>New Booking</h1><p>A pet owner has booked and paid for a grooming session.</p>")
		}()
		go services.GenerateBookingReceipt(booking.ID)
		publishBookingChange(realtime.ActionUpdate, &booking)

	case payment.EventRegistrationID != nil:
		go notifications.SendEmail(registration.Owner.FullName, registration.Owner.Email, "Your Event Ticket is Confirmed!", fmt.Sprintf("<h1>See you there!</h1><p>Your registration for %s is confirmed. Your ticket is being prepared.</p>", registration.Event.Title))
		go services.GenerateEventTicket(registration.ID)
		realtime.Default.Publish(realtime.Event{
			Table:  "event_registrations",
			Action: realtime.ActionUpdate,
			Scope:  registration.OwnerID,
			RowID:  registration.ID,
		})

	case payment.ConsultationID != nil:
		go notifications.SendEmail(consultation.Owner.FullName, consultation.Owner.Email, "Your Vet Consultation is Confirmed!", "<h1>Consultation Confirmed</h1><p>Your payment was successful. You will receive the video call link before your appointment.</p>")
		go notifications.NotifyAdmins("Consultation needs a meeting link", "A paid vet consultation is waiting for its video call link.")
	}

	return nil
}

func CreatePayPalOrderHandler(c *fiber.Ctx) error {
	paymentID := c.Params("paymentId")
	if _, err := uuid.Parse(paymentID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	var payment models.Payment
	if err := database.DB.Where("id = ? AND status = ?", paymentID, "pending").First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pending payment not found for this ID"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	// PayPal charges in USD; KES amounts get converted at the cached rate.
	amountKES, _ := payment.Amount.Float64()
	rates, err := services.FetchRates()
	if err != nil {
		log.Printf("🔥 Failed to fetch exchange rates: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch exchange rate"})
	}
	kesRate, ok := rates["KES"]
	if !ok || kesRate == 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "KES exchange rate unavailable"})
	}
	amountUSD := fmt.Sprintf("%.2f", amountKES/kesRate)

	order, err := payments.CreatePayPalOrder(amountUSD, "USD")
	if err != nil {
		log.Printf("🔥 PayPal CreateOrder API call failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create PayPal order"})
	}

	payment.Provider = "paypal"
	payment.ProviderOrderID = &order.ID
	if err := database.DB.Save(&payment).Error; err != nil {
		log.Printf("🔥 Failed to save ProviderOrderID: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payment record"})
	}

	return c.JSON(fiber.Map{"orderID": order.ID})
}

func CapturePayPalOrderHandler(c *fiber.Ctx) error {
	type CaptureRequest struct {
		OrderID string `json:"orderID" validate:"required"`
	}
	var req CaptureRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var payment models.Payment
	if err := database.DB.Where("provider_order_id = ?", req.OrderID).First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found for this order"})
	}

	if payment.Status == "succeeded" {
		return c.JSON(fiber.Map{"status": "success", "message": "Payment already captured"})
	}

	capturedOrder, err := payments.CapturePayPalOrder(req.OrderID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if capturedOrder.Status != "COMPLETED" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Order not completed on PayPal's end"})
	}

	payment.Status = "succeeded"
	payment.ProviderTxnID = &capturedOrder.ID

	if err := confirmPurchase(&payment); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to finalize purchase"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Payment captured and purchase confirmed"})
}
