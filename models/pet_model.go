package models

import (
	"time"

	"github.com/google/uuid"
)

type Pet struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID   uuid.UUID  `gorm:"not null" json:"owner_id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Species   string     `gorm:"size:50;not null" json:"species"`
	Breed     *string    `gorm:"size:100" json:"breed"`
	BirthDate *time.Time `json:"birth_date"`

	Owner User `gorm:"foreignkey:OwnerID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
