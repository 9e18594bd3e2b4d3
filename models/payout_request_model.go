package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PayoutTargetEvent    = "event"
	PayoutTargetGrooming = "grooming"

	PayoutStatusWaitingForReview = "waiting_for_review"
	PayoutStatusProcessing       = "processing"
	PayoutStatusPaymentSent      = "payment_sent"
	PayoutStatusRejected         = "rejected"
)

// PayoutRequest targets either a finished pet event or a groomer's grooming
// earnings. At most one non-terminal request may exist per (payee, target);
// a rejected request may be resubmitted as a new row.
type PayoutRequest struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PayeeID    uuid.UUID       `gorm:"not null" json:"payee_id"`
	TargetType string          `gorm:"size:20;not null" json:"target_type"`
	TargetID   uuid.UUID       `gorm:"not null" json:"target_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status     string          `gorm:"size:20;not null;default:'waiting_for_review'" json:"status"`

	AdminNotes  *string    `gorm:"type:text" json:"admin_notes"`
	RequestedAt time.Time  `gorm:"not null" json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at"`

	Payee User `gorm:"foreignkey:PayeeID" json:"payee,omitempty"`
}
