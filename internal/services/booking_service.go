package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intconfig "travel-booking-service/internal/config"
	"travel-booking-service/internal/db"
	"travel-booking-service/internal/domain"
	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/repositories"
	"travel-booking-service/internal/utils"
)

// BookingService drives the booking status machine:
// pending -> confirmed | cancelled; confirmed -> completed | cancelled.
type BookingService struct {
	DB          *sql.DB
	PackageRepo repositories.PackageRepo
	DateRepo    repositories.PackageDateRepo
	BookingRepo repositories.BookingRepo
	Capacity    CapacityService
	AdvanceFlat int64
	RequestID   string
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) advanceFlat() int64 {
	if s.AdvanceFlat > 0 {
		return s.AdvanceFlat
	}
	return 500
}

// CreateBooking validates the roster, reserves a seat and persists the
// booking in one transaction. Prices are snapshotted from the package at
// booking time and never recomputed.
func (s BookingService) CreateBooking(ctx context.Context, userID, packageID, dateID int64, travelers []models.Traveler, notes string) (models.Booking, error) {
	if userID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}

	travelers = models.NormalizeTravelers(travelers)
	if len(travelers) == 0 {
		return models.Booking{}, domain.ValidationError{Field: "travelers", Msg: "at least one traveler required"}
	}
	for i, t := range travelers {
		if t.Name == "" {
			return models.Booking{}, domain.ValidationError{Field: fmt.Sprintf("travelers[%d].name", i), Msg: "required"}
		}
		if t.Age < 0 {
			return models.Booking{}, domain.ValidationError{Field: fmt.Sprintf("travelers[%d].age", i), Msg: "must not be negative"}
		}
	}

	pkg, err := s.PackageRepo.GetByID(ctx, packageID)
	if err != nil {
		return models.Booking{}, err
	}
	if !pkg.IsActive {
		return models.Booking{}, domain.NotFoundError{Resource: "package"}
	}

	date, err := s.DateRepo.GetByID(ctx, dateID)
	if err != nil {
		return models.Booking{}, err
	}
	if date.PackageID != pkg.ID {
		return models.Booking{}, domain.NotFoundError{Resource: "package date"}
	}
	// cheap pre-check; the conditional update below stays authoritative
	if !date.HasSeats() {
		return models.Booking{}, domain.CapacityError{DateID: date.ID}
	}

	heads := int64(len(travelers))
	booking := models.Booking{
		PackageID:     pkg.ID,
		PackageDateID: date.ID,
		UserID:        userID,
		TotalAmount:   pkg.PricePerHead * heads,
		AdvanceDue:    s.advanceDue(pkg, heads),
		Status:        models.BookingPending,
		Notes:         notes,
		Travelers:     travelers,
	}

	err = db.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		if err := s.Capacity.ReserveSeat(ctx, tx, date.ID); err != nil {
			return err
		}
		id, err := repositories.BookingRepo{Q: tx}.Insert(ctx, booking)
		if err != nil {
			return err
		}
		booking.ID = id
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking_id=%d package_id=%d date_id=%d heads=%d", booking.ID, pkg.ID, date.ID, heads))
	return s.GetBooking(ctx, booking.ID)
}

// advanceDue applies the advance policy: a per-head package amount when the
// package defines one, otherwise the configured flat amount per booking.
func (s BookingService) advanceDue(pkg models.TravelPackage, heads int64) int64 {
	if pkg.AdvancePerHead > 0 {
		return pkg.AdvancePerHead * heads
	}
	return s.advanceFlat()
}

// GetBooking loads a booking with its traveler roster.
func (s BookingService) GetBooking(ctx context.Context, bookingID int64) (models.Booking, error) {
	b, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	travelers, err := s.BookingRepo.Travelers(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	b.Travelers = travelers
	return b, nil
}

// ConfirmBooking moves pending -> confirmed. Administrator only.
func (s BookingService) ConfirmBooking(ctx context.Context, bookingID int64, actor models.Actor) error {
	if !actor.IsAdmin {
		return domain.UnauthorizedError{Msg: "administrator required"}
	}
	return s.transition(ctx, bookingID, []string{models.BookingPending}, models.BookingConfirmed)
}

// CompleteBooking moves confirmed -> completed. Administrator only.
func (s BookingService) CompleteBooking(ctx context.Context, bookingID int64, actor models.Actor) error {
	if !actor.IsAdmin {
		return domain.UnauthorizedError{Msg: "administrator required"}
	}
	return s.transition(ctx, bookingID, []string{models.BookingConfirmed}, models.BookingCompleted)
}

func (s BookingService) transition(ctx context.Context, bookingID int64, from []string, to string) error {
	ok, err := s.BookingRepo.TransitionStatus(ctx, bookingID, from, to)
	if err != nil {
		return err
	}
	if !ok {
		b, err := s.BookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		return domain.TransitionError{Resource: "booking", From: b.Status, To: to}
	}
	utils.LogEvent(s.RequestID, "booking", "transition",
		fmt.Sprintf("booking_id=%d to=%s", bookingID, to))
	return nil
}

// CancelBooking moves pending|confirmed -> cancelled and releases the seat.
// Status flip and seat release are one transaction, so a second cancel
// cannot double-release and a crash cannot strand a seat.
func (s BookingService) CancelBooking(ctx context.Context, bookingID int64, actor models.Actor) error {
	b, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin && b.UserID != actor.UserID {
		return domain.UnauthorizedError{Msg: "not the booking owner"}
	}
	if !models.CanTransition(b.Status, models.BookingCancelled) {
		return domain.TransitionError{Resource: "booking", From: b.Status, To: models.BookingCancelled}
	}

	err = db.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		ok, err := repositories.BookingRepo{Q: tx}.TransitionStatus(ctx, bookingID,
			[]string{models.BookingPending, models.BookingConfirmed}, models.BookingCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return domain.TransitionError{Resource: "booking", From: b.Status, To: models.BookingCancelled}
		}
		return s.Capacity.ReleaseSeat(ctx, tx, b.PackageDateID)
	})
	if err != nil {
		return err
	}

	utils.LogEvent(s.RequestID, "booking", "cancel", fmt.Sprintf("booking_id=%d", bookingID))
	return nil
}

// ExpireStaleBookings cancels pending bookings older than the hold window
// and releases their seats, each in its own transaction. Administrator
// triggered; there is no background scheduler.
func (s BookingService) ExpireStaleBookings(ctx context.Context, actor models.Actor, hold time.Duration) (int, error) {
	if !actor.IsAdmin {
		return 0, domain.UnauthorizedError{Msg: "administrator required"}
	}
	if hold <= 0 {
		return 0, domain.ValidationError{Field: "hold", Msg: "must be positive"}
	}

	cutoff := utils.NowUTC().Add(-hold)
	stale, err := s.BookingRepo.ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, b := range stale {
		flipped := false
		err := db.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
			ok, err := repositories.BookingRepo{Q: tx}.TransitionStatus(ctx, b.ID,
				[]string{models.BookingPending}, models.BookingCancelled)
			if err != nil {
				return err
			}
			if !ok {
				// someone confirmed or cancelled it since the scan; skip
				return nil
			}
			flipped = true
			return s.Capacity.ReleaseSeat(ctx, tx, b.PackageDateID)
		})
		if err != nil {
			return expired, err
		}
		if flipped {
			expired++
		}
	}

	utils.LogEvent(s.RequestID, "booking", "expire",
		fmt.Sprintf("scanned=%d expired=%d cutoff=%s", len(stale), expired, utils.FormatDateTime(cutoff)))
	return expired, nil
}
