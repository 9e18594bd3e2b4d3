package jobs

import (
	"log"
	"time"

	"github.com/pawpal/pet_marketplace/database"
	"github.com/pawpal/pet_marketplace/models"
)

// MarkEndedEvents flips past events from upcoming to ended so organizers
// can request their payout.
func MarkEndedEvents() {
	log.Println("Running job: MarkEndedEvents...")

	result := database.DB.Model(&models.PetEvent{}).
		Where("status = ? AND event_date < ?", "upcoming", time.Now()).
		Update("status", "ended")
	if result.Error != nil {
		log.Printf("Error marking ended events: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Marked %d event(s) as ended.", result.RowsAffected)
	}
}
