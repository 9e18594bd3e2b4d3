package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/pawpal/pet_marketplace/database"
	"github.com/pawpal/pet_marketplace/models"
	"github.com/pawpal/pet_marketplace/notifications"
)

// SendAppointmentReminders emails owners and groomers about grooming
// sessions starting in roughly one hour, plus owners with an upcoming
// vet consultation.
func SendAppointmentReminders() {
	log.Println("Running job: SendAppointmentReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingBookings []models.GroomingBooking
	err := database.DB.
		Preload("Owner").
		Preload("Groomer").
		Where("status = ? AND scheduled_at BETWEEN ? AND ?", "confirmed", lowerBound, upperBound).
		Find(&upcomingBookings).Error
	if err != nil {
		log.Printf("Error checking for upcoming bookings: %v", err)
		return
	}

	for _, booking := range upcomingBookings {
		log.Printf("Sending reminder for booking ID: %s", booking.ID)

		emailSubject := "Reminder: Grooming Session in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Appointment Reminder</h1><p>Hi there,</p><p>This is a friendly reminder that %s's grooming session starts at %s.</p>",
			booking.PetName,
			booking.ScheduledAt.Format(time.Kitchen),
		)

		go notifications.SendEmail(booking.Owner.FullName, booking.Owner.Email, emailSubject, emailBody)
		go notifications.SendEmail(booking.Groomer.FullName, booking.Groomer.Email, emailSubject, emailBody)
	}

	var upcomingConsultations []models.Consultation
	err = database.DB.
		Preload("Owner").
		Preload("Pet").
		Where("status = ? AND scheduled_at BETWEEN ? AND ?", "confirmed", lowerBound, upperBound).
		Find(&upcomingConsultations).Error
	if err != nil {
		log.Printf("Error checking for upcoming consultations: %v", err)
		return
	}

	for _, consultation := range upcomingConsultations {
		link := "your dashboard"
		if consultation.MeetingLink != nil {
			link = fmt.Sprintf("<a href='%s'>Join Call</a>", *consultation.MeetingLink)
		}
		emailBody := fmt.Sprintf(
			"<h1>Consultation Reminder</h1><p>Hi there,</p><p>Your vet consultation for %s starts at %s.</p><p><b>Meeting Link:</b> %s</p>",
			consultation.Pet.Name,
			consultation.ScheduledAt.Format(time.Kitchen),
			link,
		)

		go notifications.SendEmail(consultation.Owner.FullName, consultation.Owner.Email, "Reminder: Vet Consultation in 1 Hour!", emailBody)
	}
}
