package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Payment struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	GroomingBookingID   *uuid.UUID `gorm:"unique"`
	EventRegistrationID *uuid.UUID `gorm:"unique"`
	ConsultationID      *uuid.UUID `gorm:"unique"`

	ProviderOrderID   *string         `gorm:"size:255;unique"`
	MerchantRequestID *string         `gorm:"size:255;unique"`
	Amount            decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Currency          string          `gorm:"size:3"`
	Provider          string          `gorm:"size:50;not null"`
	ProviderTxnID     *string         `gorm:"size:255;unique"`
	Status            string          `gorm:"size:20;not null"`

	GroomingBooking   GroomingBooking   `gorm:"foreignkey:GroomingBookingID"`
	EventRegistration EventRegistration `gorm:"foreignkey:EventRegistrationID"`
	Consultation      Consultation      `gorm:"foreignkey:ConsultationID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
