package models

import (
	"strings"
	"time"
)

// Booking statuses. A pending booking holds a seat; cancellation is the
// only transition that gives the seat back.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

type Booking struct {
	ID            int64      `json:"id"`
	PackageID     int64      `json:"package_id"`
	PackageDateID int64      `json:"package_date_id"`
	UserID        int64      `json:"user_id"`
	TotalAmount   int64      `json:"total_amount"`
	AdvanceDue    int64      `json:"advance_due"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
	Travelers     []Traveler `json:"travelers,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Traveler is one member of a booking's roster.
type Traveler struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Phone string `json:"phone"`
}

// CanTransition reports whether a booking may move from one status to
// another. Cancelled and completed are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCompleted || to == BookingCancelled
	default:
		return false
	}
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	default:
		return false
	}
}

// NormalizeTravelers trims roster fields and drops fully empty rows.
func NormalizeTravelers(in []Traveler) []Traveler {
	out := make([]Traveler, 0, len(in))
	for _, t := range in {
		t.Name = strings.TrimSpace(t.Name)
		t.Phone = strings.TrimSpace(t.Phone)
		if t.Name == "" && t.Phone == "" && t.Age == 0 {
			continue
		}
		out = append(out, t)
	}
	return out
}
