package services

import (
	"testing"
	"time"

	"github.com/pawpal/pet_marketplace/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionPayout(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.PayoutStatusWaitingForReview, models.PayoutStatusProcessing, true},
		{models.PayoutStatusWaitingForReview, models.PayoutStatusRejected, true},
		{models.PayoutStatusProcessing, models.PayoutStatusPaymentSent, true},
		{models.PayoutStatusProcessing, models.PayoutStatusRejected, true},

		// No skipping ahead and no leaving a terminal state.
		{models.PayoutStatusWaitingForReview, models.PayoutStatusPaymentSent, false},
		{models.PayoutStatusPaymentSent, models.PayoutStatusRejected, false},
		{models.PayoutStatusPaymentSent, models.PayoutStatusProcessing, false},
		{models.PayoutStatusRejected, models.PayoutStatusProcessing, false},
		{models.PayoutStatusRejected, models.PayoutStatusWaitingForReview, false},
		{models.PayoutStatusProcessing, models.PayoutStatusWaitingForReview, false},

		// Two admins acting at once: the second locked read sees the first
		// admin's result, so repeating it (and its refund) is refused.
		{models.PayoutStatusRejected, models.PayoutStatusRejected, false},
		{models.PayoutStatusPaymentSent, models.PayoutStatusPaymentSent, false},
		{models.PayoutStatusProcessing, models.PayoutStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionPayout(tt.from, tt.to))
		})
	}
}

func TestIsTerminalPayoutStatus(t *testing.T) {
	assert.True(t, IsTerminalPayoutStatus(models.PayoutStatusPaymentSent))
	assert.True(t, IsTerminalPayoutStatus(models.PayoutStatusRejected))
	assert.False(t, IsTerminalPayoutStatus(models.PayoutStatusWaitingForReview))
	assert.False(t, IsTerminalPayoutStatus(models.PayoutStatusProcessing))
}

func TestEventPayoutWindowOpen(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// Future event: the payout button stays locked and no request may be written.
	err := EventPayoutWindowOpen(now.Add(48*time.Hour), now)
	assert.ErrorIs(t, err, ErrEventNotEnded)

	assert.NoError(t, EventPayoutWindowOpen(now.Add(-time.Hour), now))
}

func TestGroomingPayoutWindowOpen(t *testing.T) {
	friday := time.Date(2025, 6, 13, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Friday, friday.Weekday())
	assert.NoError(t, GroomingPayoutWindowOpen(friday))

	monday := time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)
	assert.ErrorIs(t, GroomingPayoutWindowOpen(monday), ErrNotPayoutDay)
}

func TestHasOpenRequestBlocksDuplicateSubmission(t *testing.T) {
	history := []models.PayoutRequest{
		{Status: models.PayoutStatusRejected},
		{Status: models.PayoutStatusWaitingForReview},
	}
	assert.True(t, HasOpenRequest(history))

	history[1].Status = models.PayoutStatusProcessing
	assert.True(t, HasOpenRequest(history))
}

func TestRejectedHistoryAllowsResubmission(t *testing.T) {
	// Only terminal requests on record: a fresh submission must go through.
	history := []models.PayoutRequest{
		{Status: models.PayoutStatusRejected},
		{Status: models.PayoutStatusRejected},
		{Status: models.PayoutStatusPaymentSent},
	}
	assert.False(t, HasOpenRequest(history))
	assert.False(t, HasOpenRequest(nil))
}
