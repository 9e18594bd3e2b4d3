package notifications

import (
	"log"

	"github.com/pawpal/pet_marketplace/database"
	"github.com/pawpal/pet_marketplace/models"
)

// NotifyAdmins writes an in-app notification for every admin and mails
// them. Best effort only: a failure here is logged and never propagated,
// the triggering action has already committed.
func NotifyAdmins(title, body string) {
	var admins []models.User
	if err := database.DB.Where("role = ? AND is_active = ?", "admin", true).Find(&admins).Error; err != nil {
		log.Printf("🔥 Failed to load admins for notification %q: %v", title, err)
		return
	}

	for _, admin := range admins {
		notification := models.Notification{
			UserID: admin.ID,
			Title:  title,
			Body:   body,
		}
		if err := database.DB.Create(&notification).Error; err != nil {
			log.Printf("🔥 Failed to store notification for admin %s: %v", admin.ID, err)
		}

		go SendEmail(admin.FullName, admin.Email, title, "<h1>"+title+"</h1><p>"+body+"</p>")
	}
}
