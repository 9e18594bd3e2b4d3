package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GroomingPackage struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	GroomerID       uuid.UUID       `gorm:"not null" json:"groomer_id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Description     *string         `gorm:"type:text" json:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	DurationMinutes int             `gorm:"not null;default:60" json:"duration_minutes"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`

	Groomer GroomerProfile `gorm:"foreignkey:GroomerID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
