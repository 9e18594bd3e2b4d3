package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	config "github.com/pawpal/pet_marketplace/configs"
	"github.com/pawpal/pet_marketplace/database"
	"github.com/pawpal/pet_marketplace/models"
	"github.com/pawpal/pet_marketplace/notifications"
	"github.com/pawpal/pet_marketplace/realtime"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroomingPayoutDay is the one weekday on which groomers may cash out.
const GroomingPayoutDay = time.Friday

var (
	ErrPayoutAlreadyPending = errors.New("a payout request for this target is already under review")
	ErrEventNotEnded        = errors.New("cannot request a payout before the event has ended")
	ErrNotPayoutDay         = errors.New("grooming payouts can only be requested on the weekly payout day")
	ErrNothingToPayOut      = errors.New("no balance available for payout")
	ErrInvalidTransition    = errors.New("invalid payout status transition")
)

// IsTerminalPayoutStatus reports whether no further admin action applies.
// A rejected request is terminal for the row itself; resubmission creates
// a new request.
func IsTerminalPayoutStatus(status string) bool {
	return status == models.PayoutStatusPaymentSent || status == models.PayoutStatusRejected
}

// CanTransitionPayout validates an admin-driven status change.
func CanTransitionPayout(from, to string) bool {
	switch from {
	case models.PayoutStatusWaitingForReview:
		return to == models.PayoutStatusProcessing || to == models.PayoutStatusRejected
	case models.PayoutStatusProcessing:
		return to == models.PayoutStatusPaymentSent || to == models.PayoutStatusRejected
	default:
		return false
	}
}

// EventPayoutWindowOpen gates organizer payouts on the event having ended.
func EventPayoutWindowOpen(eventDate, now time.Time) error {
	if eventDate.After(now) {
		return ErrEventNotEnded
	}
	return nil
}

// GroomingPayoutWindowOpen gates groomer payouts on the weekly payout day.
func GroomingPayoutWindowOpen(now time.Time) error {
	if now.Weekday() != GroomingPayoutDay {
		return ErrNotPayoutDay
	}
	return nil
}

// HasOpenRequest reports whether any of the requests is still non-terminal.
func HasOpenRequest(requests []models.PayoutRequest) bool {
	for _, r := range requests {
		if !IsTerminalPayoutStatus(r.Status) {
			return true
		}
	}
	return false
}

// SubmitEventPayout creates a waiting_for_review request for an ended
// event's ticket revenue. The duplicate check runs fresh inside the
// transaction so a concurrent submission from another tab cannot slip in
// between page load and click.
func SubmitEventPayout(payeeID, eventID uuid.UUID) (*models.PayoutRequest, error) {
	var request models.PayoutRequest

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var event models.PetEvent
		if err := tx.First(&event, "id = ? AND organizer_id = ?", eventID, payeeID).Error; err != nil {
			return errors.New("event not found or not yours")
		}
		if err := EventPayoutWindowOpen(event.EventDate, time.Now()); err != nil {
			return err
		}

		var open []models.PayoutRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("payee_id = ? AND target_type = ? AND target_id = ?", payeeID, models.PayoutTargetEvent, eventID).
			Find(&open).Error; err != nil {
			return err
		}
		if HasOpenRequest(open) {
			return ErrPayoutAlreadyPending
		}

		var revenue decimal.NullDecimal
		if err := tx.Model(&models.EventRegistration{}).
			Where("event_id = ? AND status = ?", eventID, "confirmed").
			Select("COALESCE(SUM(amount_paid), 0)").
			Scan(&revenue).Error; err != nil {
			return err
		}

		amount := revenue.Decimal.Mul(decimal.NewFromInt(1).Sub(commissionRate()))
		if amount.LessThanOrEqual(decimal.Zero) {
			return ErrNothingToPayOut
		}

		request = models.PayoutRequest{
			PayeeID:     payeeID,
			TargetType:  models.PayoutTargetEvent,
			TargetID:    eventID,
			Amount:      amount,
			Status:      models.PayoutStatusWaitingForReview,
			RequestedAt: time.Now(),
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}

	afterPayoutSubmitted(&request)
	return &request, nil
}

// SubmitGroomingPayout cashes out a groomer's full current balance on the
// weekly payout day. The balance moves into the request inside the locked
// transaction, exactly as the balance deduction it replaces.
func SubmitGroomingPayout(payeeID uuid.UUID) (*models.PayoutRequest, error) {
	if err := GroomingPayoutWindowOpen(time.Now()); err != nil {
		return nil, err
	}

	var request models.PayoutRequest

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var groomer models.GroomerProfile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&groomer, "user_id = ?", payeeID).Error; err != nil {
			return errors.New("groomer profile not found")
		}
		if groomer.CurrentBalance.LessThanOrEqual(decimal.Zero) {
			return ErrNothingToPayOut
		}

		var open []models.PayoutRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("payee_id = ? AND target_type = ?", payeeID, models.PayoutTargetGrooming).
			Find(&open).Error; err != nil {
			return err
		}
		if HasOpenRequest(open) {
			return ErrPayoutAlreadyPending
		}

		amount := groomer.CurrentBalance
		groomer.CurrentBalance = decimal.Zero
		if err := tx.Save(&groomer).Error; err != nil {
			return err
		}

		request = models.PayoutRequest{
			PayeeID:     payeeID,
			TargetType:  models.PayoutTargetGrooming,
			TargetID:    payeeID,
			Amount:      amount,
			Status:      models.PayoutStatusWaitingForReview,
			RequestedAt: time.Now(),
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}

	afterPayoutSubmitted(&request)
	return &request, nil
}

// PayeePayoutRequests lists a payee's own requests, newest first.
func PayeePayoutRequests(ctx context.Context, payeeID uuid.UUID) ([]models.PayoutRequest, error) {
	var requests []models.PayoutRequest
	err := database.DB.WithContext(ctx).
		Where("payee_id = ?", payeeID).
		Order("requested_at desc").
		Find(&requests).Error
	return requests, err
}

// AdvancePayout moves a request along the admin workflow. Rejecting a
// grooming payout returns the held amount to the groomer's balance. The
// transition is validated against the locked row, so two admins acting
// on the same request serialize and the loser gets ErrInvalidTransition
// instead of overwriting a terminal status (or refunding twice).
func AdvancePayout(requestID uuid.UUID, toStatus, adminNotes string) (*models.PayoutRequest, error) {
	var request models.PayoutRequest

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, "id = ?", requestID).Error; err != nil {
			return err
		}

		if !CanTransitionPayout(request.Status, toStatus) {
			return ErrInvalidTransition
		}

		now := time.Now()
		request.Status = toStatus
		if adminNotes != "" {
			request.AdminNotes = &adminNotes
		}
		if IsTerminalPayoutStatus(toStatus) {
			request.ProcessedAt = &now
		}
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		if toStatus == models.PayoutStatusRejected && request.TargetType == models.PayoutTargetGrooming {
			if err := tx.Model(&models.GroomerProfile{}).Where("user_id = ?", request.PayeeID).
				Update("current_balance", gorm.Expr("current_balance + ?", request.Amount)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := database.DB.First(&request.Payee, "id = ?", request.PayeeID).Error; err != nil {
		log.Printf("Failed to load payee for payout notification %s: %v", request.ID, err)
	}
	notifyPayee(&request)
	realtime.Default.Publish(realtime.Event{
		Table:  "payout_requests",
		Action: realtime.ActionUpdate,
		Scope:  request.PayeeID,
		RowID:  request.ID,
	})

	return &request, nil
}

func commissionRate() decimal.Decimal {
	rate, err := decimal.NewFromString(config.Config("PLATFORM_COMMISSION_RATE"))
	if err != nil {
		return decimal.Zero
	}
	return rate
}

// NetAfterCommission returns the amount a provider earns from a gross
// charge after the platform's cut.
func NetAfterCommission(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(decimal.NewFromInt(1).Sub(commissionRate())).Round(2)
}

// afterPayoutSubmitted runs the best-effort side effects of a submission:
// admin notification dispatch and a change-feed event. Neither may roll
// back or block the already-committed request.
func afterPayoutSubmitted(request *models.PayoutRequest) {
	go notifications.NotifyAdmins(
		"New Payout Request",
		fmt.Sprintf("A payout request for %s is waiting for review.", request.Amount.StringFixed(2)),
	)

	realtime.Default.Publish(realtime.Event{
		Table:  "payout_requests",
		Action: realtime.ActionInsert,
		Scope:  request.PayeeID,
		RowID:  request.ID,
	})
}

func notifyPayee(request *models.PayoutRequest) {
	payee := request.Payee
	switch request.Status {
	case models.PayoutStatusPaymentSent:
		go notifications.SendEmail(
			payee.FullName,
			payee.Email,
			"Your Payout Has Been Sent",
			fmt.Sprintf("<h1>Payout Sent</h1><p>Hello %s,</p><p>Your payout of %s has been processed and sent by our team.</p>", payee.FullName, request.Amount.StringFixed(2)),
		)
	case models.PayoutStatusRejected:
		notes := ""
		if request.AdminNotes != nil {
			notes = *request.AdminNotes
		}
		go notifications.SendEmail(
			payee.FullName,
			payee.Email,
			"Update on Your Payout Request",
			fmt.Sprintf("<h1>Payout Request Update</h1><p>Hello %s,</p><p>Your payout request of %s was rejected. You may correct the issue and submit a new request.</p><p><b>Admin Notes:</b> %s</p>", payee.FullName, request.Amount.StringFixed(2), notes),
		)
	case models.PayoutStatusProcessing:
		log.Printf("Payout request %s moved to processing", request.ID)
	}
}
