package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GroomingBooking struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID   uuid.UUID `gorm:"not null"`
	GroomerID uuid.UUID `gorm:"not null"`
	PackageID uuid.UUID `gorm:"not null"`
	PetName   string    `gorm:"size:100;not null"`
	Status    string    `gorm:"size:20;not null;default:'pending_payment'"`

	ScheduledAt time.Time       `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Currency    string          `gorm:"size:3"`
	Notes       *string         `gorm:"type:text"`
	ReceiptURL  *string         `gorm:"size:255"`

	Owner   User            `gorm:"foreignkey:OwnerID"`
	Groomer User            `gorm:"foreignkey:GroomerID"`
	Package GroomingPackage `gorm:"foreignkey:PackageID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
