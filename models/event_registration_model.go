package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventRegistration struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EventID uuid.UUID `gorm:"not null" json:"event_id"`
	OwnerID uuid.UUID `gorm:"not null" json:"owner_id"`
	PetName string    `gorm:"size:100;not null" json:"pet_name"`
	Status  string    `gorm:"size:20;not null;default:'pending_payment'" json:"status"`

	AmountPaid decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount_paid"`
	TicketURL  *string         `gorm:"size:255" json:"ticket_url"`

	Event PetEvent `gorm:"foreignkey:EventID" json:"event,omitempty"`
	Owner User     `gorm:"foreignkey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
