package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GroomerProfile struct {
	UserID        uuid.UUID `gorm:"primary_key" json:"user_id"`
	SalonName     string    `gorm:"size:255;not null" json:"salon_name"`
	SalonAddress  *string   `gorm:"size:255" json:"salon_address"`
	ContactNumber *string   `gorm:"size:20" json:"contact_number"`
	Bio           *string   `gorm:"type:text" json:"bio"`
	Status        string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	AvgRating     float32   `gorm:"default:0" json:"avg_rating"`

	CurrentBalance decimal.Decimal `gorm:"type:numeric(10,2);default:0.00" json:"-"`

	User User `gorm:"foreignkey:UserID" json:"user"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
