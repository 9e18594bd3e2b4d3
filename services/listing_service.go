package services

import (
	"context"

	"github.com/pawpal/pet_marketplace/database"
	"github.com/pawpal/pet_marketplace/listing"
	"github.com/pawpal/pet_marketplace/models"
	"github.com/google/uuid"
)

// View rows for the admin and dashboard listings. Each base row is
// enriched by concurrent lookups; a missing relation or a failed lookup
// fills a placeholder instead of dropping the row.

type PayoutReviewRow struct {
	Request         models.PayoutRequest `json:"request"`
	PayeeName       string               `json:"payee_name"`
	PayeeEmail      string               `json:"payee_email"`
	BankDetails     *models.BankDetail   `json:"bank_details"`
	TargetName      string               `json:"target_name"`
	PriorRejections int64                `json:"prior_rejections"`
}

type GroomerReviewRow struct {
	Profile     models.GroomerProfile `json:"profile"`
	OwnerName   string                `json:"owner_name"`
	OwnerEmail  string                `json:"owner_email"`
	BankDetails *models.BankDetail    `json:"bank_details"`
}

type BookingRow struct {
	Booking     models.GroomingBooking `json:"booking"`
	SalonName   string                 `json:"salon_name"`
	PackageName string                 `json:"package_name"`
	OwnerName   string                 `json:"owner_name"`
}

func payeeLookup() listing.Lookup[PayoutReviewRow] {
	return listing.Lookup[PayoutReviewRow]{
		Name: "payee_profile",
		Fetch: func(_ context.Context, row *PayoutReviewRow) error {
			var payee models.User
			if err := database.DB.First(&payee, "id = ?", row.Request.PayeeID).Error; err != nil {
				return err
			}
			row.PayeeName = payee.FullName
			row.PayeeEmail = payee.Email
			return nil
		},
		ApplyMissing: func(row *PayoutReviewRow) {
			row.PayeeName = listing.PlaceholderUnknown
			row.PayeeEmail = listing.PlaceholderNotProvided
		},
		ApplyFailed: func(row *PayoutReviewRow) {
			row.PayeeName = listing.PlaceholderUnavailable
			row.PayeeEmail = listing.PlaceholderUnavailable
		},
	}
}

func payoutBankLookup() listing.Lookup[PayoutReviewRow] {
	return listing.Lookup[PayoutReviewRow]{
		Name: "bank_details",
		Fetch: func(_ context.Context, row *PayoutReviewRow) error {
			var details models.BankDetail
			if err := database.DB.First(&details, "user_id = ?", row.Request.PayeeID).Error; err != nil {
				return err
			}
			row.BankDetails = &details
			return nil
		},
		// A payee with no bank details yet is a valid state, not an error.
		ApplyMissing: func(row *PayoutReviewRow) { row.BankDetails = nil },
		ApplyFailed:  func(row *PayoutReviewRow) { row.BankDetails = nil },
	}
}

func payoutTargetLookup() listing.Lookup[PayoutReviewRow] {
	return listing.Lookup[PayoutReviewRow]{
		Name: "payout_target",
		Fetch: func(_ context.Context, row *PayoutReviewRow) error {
			switch row.Request.TargetType {
			case models.PayoutTargetEvent:
				var event models.PetEvent
				if err := database.DB.First(&event, "id = ?", row.Request.TargetID).Error; err != nil {
					return err
				}
				row.TargetName = event.Title
			default:
				var profile models.GroomerProfile
				if err := database.DB.First(&profile, "user_id = ?", row.Request.TargetID).Error; err != nil {
					return err
				}
				row.TargetName = profile.SalonName
			}
			return nil
		},
		ApplyMissing: func(row *PayoutReviewRow) { row.TargetName = listing.PlaceholderUnknown },
		ApplyFailed:  func(row *PayoutReviewRow) { row.TargetName = listing.PlaceholderUnavailable },
	}
}

func priorRejectionsLookup() listing.Lookup[PayoutReviewRow] {
	return listing.Lookup[PayoutReviewRow]{
		Name: "prior_rejections",
		Fetch: func(_ context.Context, row *PayoutReviewRow) error {
			return database.DB.Model(&models.PayoutRequest{}).
				Where("payee_id = ? AND target_type = ? AND target_id = ? AND status = ? AND id <> ?",
					row.Request.PayeeID, row.Request.TargetType, row.Request.TargetID,
					models.PayoutStatusRejected, row.Request.ID).
				Count(&row.PriorRejections).Error
		},
	}
}

// AdminPayoutQueue is the admin review listing: newest requests first,
// enriched with payee, bank details, target name and rejection history,
// optionally narrowed by a free-text search over the payee fields.
func AdminPayoutQueue(ctx context.Context, status, search string) ([]listing.Enriched[PayoutReviewRow], error) {
	var requests []models.PayoutRequest
	query := database.DB.Order("requested_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}

	rows := make([]*PayoutReviewRow, len(requests))
	for i, r := range requests {
		rows[i] = &PayoutReviewRow{Request: r}
	}

	enriched := listing.Enrich(ctx, rows, []listing.Lookup[PayoutReviewRow]{
		payeeLookup(),
		payoutBankLookup(),
		payoutTargetLookup(),
		priorRejectionsLookup(),
	})

	if search != "" {
		filtered := make([]listing.Enriched[PayoutReviewRow], 0, len(enriched))
		for _, e := range enriched {
			if listing.MatchesQuery(search, e.Row.PayeeName, e.Row.PayeeEmail, e.Row.TargetName) {
				filtered = append(filtered, e)
			}
		}
		enriched = filtered
	}

	return enriched, nil
}

// AdminGroomerQueue lists groomer applications by status, newest first,
// enriched with the applicant's user record and bank details.
func AdminGroomerQueue(ctx context.Context, status, search string) ([]listing.Enriched[GroomerReviewRow], error) {
	var profiles []models.GroomerProfile
	query := database.DB.Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}

	rows := make([]*GroomerReviewRow, len(profiles))
	for i, p := range profiles {
		rows[i] = &GroomerReviewRow{Profile: p}
	}

	enriched := listing.Enrich(ctx, rows, []listing.Lookup[GroomerReviewRow]{
		{
			Name: "owner_profile",
			Fetch: func(_ context.Context, row *GroomerReviewRow) error {
				var user models.User
				if err := database.DB.First(&user, "id = ?", row.Profile.UserID).Error; err != nil {
					return err
				}
				row.OwnerName = user.FullName
				row.OwnerEmail = user.Email
				return nil
			},
			ApplyMissing: func(row *GroomerReviewRow) {
				row.OwnerName = listing.PlaceholderUnknown
				row.OwnerEmail = listing.PlaceholderNotProvided
			},
			ApplyFailed: func(row *GroomerReviewRow) {
				row.OwnerName = listing.PlaceholderUnavailable
				row.OwnerEmail = listing.PlaceholderUnavailable
			},
		},
		{
			Name: "bank_details",
			Fetch: func(_ context.Context, row *GroomerReviewRow) error {
				var details models.BankDetail
				if err := database.DB.First(&details, "user_id = ?", row.Profile.UserID).Error; err != nil {
					return err
				}
				row.BankDetails = &details
				return nil
			},
			ApplyMissing: func(row *GroomerReviewRow) { row.BankDetails = nil },
			ApplyFailed:  func(row *GroomerReviewRow) { row.BankDetails = nil },
		},
	})

	if search != "" {
		filtered := make([]listing.Enriched[GroomerReviewRow], 0, len(enriched))
		for _, e := range enriched {
			address := ""
			if e.Row.Profile.SalonAddress != nil {
				address = *e.Row.Profile.SalonAddress
			}
			contact := ""
			if e.Row.Profile.ContactNumber != nil {
				contact = *e.Row.Profile.ContactNumber
			}
			if listing.MatchesQuery(search, e.Row.Profile.SalonName, address, contact, e.Row.OwnerName, e.Row.OwnerEmail) {
				filtered = append(filtered, e)
			}
		}
		enriched = filtered
	}

	return enriched, nil
}

func bookingLookups(forGroomer bool) []listing.Lookup[BookingRow] {
	lookups := []listing.Lookup[BookingRow]{
		{
			Name: "package",
			Fetch: func(_ context.Context, row *BookingRow) error {
				var pkg models.GroomingPackage
				if err := database.DB.First(&pkg, "id = ?", row.Booking.PackageID).Error; err != nil {
					return err
				}
				row.PackageName = pkg.Name
				return nil
			},
			ApplyMissing: func(row *BookingRow) { row.PackageName = listing.PlaceholderUnknown },
			ApplyFailed:  func(row *BookingRow) { row.PackageName = listing.PlaceholderUnavailable },
		},
	}

	if forGroomer {
		lookups = append(lookups, listing.Lookup[BookingRow]{
			Name: "owner_profile",
			Fetch: func(_ context.Context, row *BookingRow) error {
				var owner models.User
				if err := database.DB.First(&owner, "id = ?", row.Booking.OwnerID).Error; err != nil {
					return err
				}
				row.OwnerName = owner.FullName
				return nil
			},
			ApplyMissing: func(row *BookingRow) { row.OwnerName = listing.PlaceholderUnknown },
			ApplyFailed:  func(row *BookingRow) { row.OwnerName = listing.PlaceholderUnavailable },
		})
	} else {
		lookups = append(lookups, listing.Lookup[BookingRow]{
			Name: "salon",
			Fetch: func(_ context.Context, row *BookingRow) error {
				var profile models.GroomerProfile
				if err := database.DB.First(&profile, "user_id = ?", row.Booking.GroomerID).Error; err != nil {
					return err
				}
				row.SalonName = profile.SalonName
				return nil
			},
			ApplyMissing: func(row *BookingRow) { row.SalonName = listing.PlaceholderUnknown },
			ApplyFailed:  func(row *BookingRow) { row.SalonName = listing.PlaceholderUnavailable },
		})
	}

	return lookups
}

// OwnerBookings lists a pet owner's grooming appointments, soonest first.
func OwnerBookings(ctx context.Context, ownerID uuid.UUID) ([]listing.Enriched[BookingRow], error) {
	var bookings []models.GroomingBooking
	if err := database.DB.Where("owner_id = ?", ownerID).Order("scheduled_at asc").Find(&bookings).Error; err != nil {
		return nil, err
	}
	rows := make([]*BookingRow, len(bookings))
	for i, b := range bookings {
		rows[i] = &BookingRow{Booking: b}
	}
	return listing.Enrich(ctx, rows, bookingLookups(false)), nil
}

// GroomerBookings lists a groomer's appointment book, soonest first.
func GroomerBookings(ctx context.Context, groomerID uuid.UUID) ([]listing.Enriched[BookingRow], error) {
	var bookings []models.GroomingBooking
	if err := database.DB.Where("groomer_id = ?", groomerID).Order("scheduled_at asc").Find(&bookings).Error; err != nil {
		return nil, err
	}
	rows := make([]*BookingRow, len(bookings))
	for i, b := range bookings {
		rows[i] = &BookingRow{Booking: b}
	}
	return listing.Enrich(ctx, rows, bookingLookups(true)), nil
}
