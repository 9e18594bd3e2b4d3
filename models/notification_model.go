package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID     uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID  `gorm:"not null" json:"user_id"`
	Title  string     `gorm:"size:255;not null" json:"title"`
	Body   string     `gorm:"type:text" json:"body"`
	ReadAt *time.Time `json:"read_at"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
