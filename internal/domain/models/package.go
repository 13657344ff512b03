package models

import "time"

// TravelPackage is a bookable travel product. Price fields are snapshotted
// onto bookings at creation time; later edits never reprice past bookings.
type TravelPackage struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Destination    string    `json:"destination"`
	DurationDays   int       `json:"duration_days"`
	PricePerHead   int64     `json:"price_per_head"`
	AdvancePerHead int64     `json:"advance_per_head"`
	MaxOccupants   int       `json:"max_occupants"`
	ImageURL       string    `json:"image_url"`
	IsActive       bool      `json:"is_active"`
	CreatedBy      int64     `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// PackageUpdate supports PATCH-style updates via key presence.
type PackageUpdate struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Destination    *string `json:"destination"`
	DurationDays   *int    `json:"duration_days"`
	PricePerHead   *int64  `json:"price_per_head"`
	AdvancePerHead *int64  `json:"advance_per_head"`
	ImageURL       *string `json:"image_url"`
	IsActive       *bool   `json:"is_active"`
}

// PackageDate is one bookable calendar date of a package with its own
// seat inventory. Invariant: 0 <= SeatsRemaining <= TotalSeats.
type PackageDate struct {
	ID             int64     `json:"id"`
	PackageID      int64     `json:"package_id"`
	TravelDate     string    `json:"travel_date"`
	TotalSeats     int       `json:"total_seats"`
	SeatsRemaining int       `json:"seats_remaining"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasSeats reports whether at least one seat can still be reserved.
func (d PackageDate) HasSeats() bool {
	return d.SeatsRemaining > 0
}
