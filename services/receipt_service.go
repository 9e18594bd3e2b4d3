package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/pawpal/pet_marketplace/configs"
	"github.com/pawpal/pet_marketplace/database"
	"github.com/pawpal/pet_marketplace/models"
	"github.com/pawpal/pet_marketplace/utils"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// GenerateBookingReceipt renders a PDF receipt for a paid grooming
// booking and stores its URL on the booking. Runs in the background after
// payment confirmation; failures are logged, the booking stays confirmed.
func GenerateBookingReceipt(bookingID uuid.UUID) {
	var booking models.GroomingBooking
	if err := database.DB.Preload("Owner").Preload("Package").First(&booking, "id = ?", bookingID).Error; err != nil {
		log.Printf("🔥 Receipt generation: booking %s not found: %v", bookingID, err)
		return
	}

	htmlData, err := renderReceiptHTML(receiptData{
		Heading:   "Grooming Booking Receipt",
		Name:      booking.Owner.FullName,
		ItemName:  booking.Package.Name,
		Amount:    booking.Price.StringFixed(2),
		Reference: utils.GenerateDocumentReference("GRM"),
		Date:      time.Now().Format("January 2, 2006"),
	})
	if err != nil {
		log.Printf("🔥 Failed to render receipt HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF: %v", err)
		return
	}

	uploadURL, err := uploadToCloudinary(pdfBytes, "receipts", booking.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload receipt: %v", err)
		return
	}

	booking.ReceiptURL = &uploadURL
	if err := database.DB.Save(&booking).Error; err != nil {
		log.Printf("🔥 Failed to store receipt URL for booking %s: %v", booking.ID, err)
		return
	}
	log.Printf("✅ Receipt generated for booking %s", booking.ID)
}

// GenerateEventTicket renders a PDF ticket for a confirmed registration.
func GenerateEventTicket(registrationID uuid.UUID) {
	var registration models.EventRegistration
	if err := database.DB.Preload("Owner").Preload("Event").First(&registration, "id = ?", registrationID).Error; err != nil {
		log.Printf("🔥 Ticket generation: registration %s not found: %v", registrationID, err)
		return
	}

	htmlData, err := renderReceiptHTML(receiptData{
		Heading:   "Event Ticket",
		Name:      registration.Owner.FullName,
		ItemName:  fmt.Sprintf("%s — %s", registration.Event.Title, registration.Event.Venue),
		Amount:    registration.AmountPaid.StringFixed(2),
		Reference: utils.GenerateDocumentReference("EVT"),
		Date:      registration.Event.EventDate.Format("January 2, 2006 15:04"),
	})
	if err != nil {
		log.Printf("🔥 Failed to render ticket HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate ticket PDF: %v", err)
		return
	}

	uploadURL, err := uploadToCloudinary(pdfBytes, "tickets", registration.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload ticket: %v", err)
		return
	}

	registration.TicketURL = &uploadURL
	if err := database.DB.Save(&registration).Error; err != nil {
		log.Printf("🔥 Failed to store ticket URL for registration %s: %v", registration.ID, err)
		return
	}
	log.Printf("✅ Ticket generated for registration %s", registration.ID)
}

type receiptData struct {
	Heading   string
	Name      string
	ItemName  string
	Amount    string
	Reference string
	Date      string
}

func renderReceiptHTML(data receiptData) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(fileBytes []byte, folder, reference string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("%s/%s_%s", folder, reference, uuid.New().String()),
		Folder:       "pet_marketplace_documents",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
