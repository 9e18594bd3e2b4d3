package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PetEvent struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizerID uuid.UUID       `gorm:"not null" json:"organizer_id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description *string         `gorm:"type:text" json:"description"`
	Venue       string          `gorm:"size:255;not null" json:"venue"`
	EventDate   time.Time       `gorm:"not null" json:"event_date"`
	TicketPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"ticket_price"`
	Capacity    int             `gorm:"not null;default:50" json:"capacity"`
	Registered  int             `gorm:"not null;default:0" json:"registered"`
	Status      string          `gorm:"size:20;not null;default:'upcoming'" json:"status"`
	BannerURL   *string         `gorm:"size:255" json:"banner_url"`

	Organizer User `gorm:"foreignkey:OrganizerID" json:"organizer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
