package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Consultation struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID uuid.UUID `gorm:"not null"`
	PetID   uuid.UUID `gorm:"not null"`
	Concern string    `gorm:"type:text;not null"`
	Status  string    `gorm:"size:20;not null;default:'pending_payment'"`

	ScheduledAt time.Time       `gorm:"not null"`
	Fee         decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	MeetingLink *string         `gorm:"size:255"`

	Owner User `gorm:"foreignkey:OwnerID"`
	Pet   Pet  `gorm:"foreignkey:PetID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
