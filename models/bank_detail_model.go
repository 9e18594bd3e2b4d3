package models

import (
	"time"

	"github.com/google/uuid"
)

// BankDetail is optional: a groomer or organizer may not have submitted
// one yet, and listings must treat that as data rather than an error.
type BankDetail struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID `gorm:"not null;unique" json:"user_id"`
	BankName      string    `gorm:"size:100;not null" json:"bank_name"`
	AccountName   string    `gorm:"size:255;not null" json:"account_name"`
	AccountNumber string    `gorm:"size:50;not null" json:"account_number"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
