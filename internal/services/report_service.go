package services

import (
	"context"

	intconfig "travel-booking-service/internal/config"
	"travel-booking-service/internal/db"
	"travel-booking-service/internal/domain"
	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/repositories"
	"travel-booking-service/internal/utils"
)

// ReportService holds the read-only projections. No mutation, no state of
// its own; everything derives from packages, dates, bookings and payments.
type ReportService struct {
	Q           db.DBTX
	BookingRepo repositories.BookingRepo
	PaymentRepo repositories.PaymentRepo
	DateRepo    repositories.PackageDateRepo
}

func (s ReportService) q() db.DBTX {
	if s.Q != nil {
		return s.Q
	}
	return intconfig.DB
}

// PackageAvailability is a package with its open dates.
type PackageAvailability struct {
	Package models.TravelPackage `json:"package"`
	Dates   []models.PackageDate `json:"dates"`
}

// AvailablePackages returns active packages having at least one date with
// seats remaining, each with its open dates soonest first.
func (s ReportService) AvailablePackages(ctx context.Context) ([]PackageAvailability, error) {
	rows, err := s.q().QueryContext(ctx, `
		SELECT DISTINCT p.id, p.title, COALESCE(p.description,''), p.destination, p.duration_days,
		       p.price_per_head, p.advance_per_head, p.max_occupants, p.image_url,
		       p.is_active, p.created_by, p.created_at
		FROM packages p
		JOIN package_dates d ON d.package_id = p.id AND d.seats_remaining > 0
		WHERE p.is_active = 1
		ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	packages := []models.TravelPackage{}
	for rows.Next() {
		p, err := scanReportPackage(rows)
		if err != nil {
			return nil, db.Classify(err)
		}
		packages = append(packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}

	out := make([]PackageAvailability, 0, len(packages))
	for _, p := range packages {
		dates, err := s.DateRepo.ListAvailable(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, PackageAvailability{Package: p, Dates: dates})
	}
	return out, nil
}

func scanReportPackage(rows interface{ Scan(...any) error }) (models.TravelPackage, error) {
	var p models.TravelPackage
	err := rows.Scan(
		&p.ID, &p.Title, &p.Description, &p.Destination, &p.DurationDays,
		&p.PricePerHead, &p.AdvancePerHead, &p.MaxOccupants, &p.ImageURL,
		&p.IsActive, &p.CreatedBy, &p.CreatedAt,
	)
	return p, err
}

// UserBookingView joins a booking with its payments and the package title.
type UserBookingView struct {
	Booking      models.Booking   `json:"booking"`
	PackageTitle string           `json:"package_title"`
	TravelDate   string           `json:"travel_date"`
	Payments     []models.Payment `json:"payments"`
	FullyPaid    bool             `json:"fully_paid"`
}

// UserBookings returns a user's bookings with payment status, newest first.
func (s ReportService) UserBookings(ctx context.Context, userID int64) ([]UserBookingView, error) {
	bookings, err := s.BookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]UserBookingView, 0, len(bookings))
	for _, b := range bookings {
		view := UserBookingView{Booking: b}

		err := s.q().QueryRowContext(ctx, `
			SELECT p.title, DATE_FORMAT(d.travel_date, '%Y-%m-%d')
			FROM bookings b
			JOIN packages p ON p.id = b.package_id
			JOIN package_dates d ON d.id = b.package_date_id
			WHERE b.id=?`, b.ID).Scan(&view.PackageTitle, &view.TravelDate)
		if err != nil {
			return nil, db.Classify(err)
		}

		payments, err := s.PaymentRepo.ListByBooking(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		view.Payments = payments
		view.FullyPaid = fullyPaidFrom(b, payments)
		out = append(out, view)
	}
	return out, nil
}

func fullyPaidFrom(b models.Booking, payments []models.Payment) bool {
	advance, balance := false, false
	for _, p := range payments {
		if p.Status != models.PaymentVerified {
			continue
		}
		switch p.Kind {
		case models.PaymentAdvance:
			advance = true
		case models.PaymentBalance:
			balance = true
		}
	}
	if !advance {
		return false
	}
	return b.TotalAmount <= b.AdvanceDue || balance
}

// RevenueReport aggregates verified payments over a date range.
type RevenueReport struct {
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	VerifiedTotal int64          `json:"verified_total"`
	VerifiedCount int            `json:"verified_count"`
	ByDay         []RevenueDay   `json:"by_day"`
	BookingCounts map[string]int `json:"booking_counts"`
}

type RevenueDay struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
	Count  int    `json:"count"`
}

// Revenue builds the admin revenue/verification report for [start, end].
// Dates are YYYY-MM-DD, inclusive.
func (s ReportService) Revenue(ctx context.Context, startDate, endDate string) (RevenueReport, error) {
	start, err := utils.ParseDate(startDate)
	if err != nil {
		return RevenueReport{}, domain.ValidationError{Field: "start_date", Msg: "expected YYYY-MM-DD"}
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return RevenueReport{}, domain.ValidationError{Field: "end_date", Msg: "expected YYYY-MM-DD"}
	}
	if end.Before(start) {
		return RevenueReport{}, domain.ValidationError{Field: "end_date", Msg: "before start_date"}
	}

	report := RevenueReport{
		StartDate:     utils.FormatDate(start),
		EndDate:       utils.FormatDate(end),
		ByDay:         []RevenueDay{},
		BookingCounts: map[string]int{},
	}

	rows, err := s.q().QueryContext(ctx, `
		SELECT DATE_FORMAT(DATE(verified_at), '%Y-%m-%d'), SUM(amount), COUNT(*)
		FROM payments
		WHERE status=? AND DATE(verified_at) BETWEEN ? AND ?
		GROUP BY DATE(verified_at)
		ORDER BY DATE(verified_at) ASC`,
		models.PaymentVerified, report.StartDate, report.EndDate)
	if err != nil {
		return RevenueReport{}, db.Classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		var day RevenueDay
		if err := rows.Scan(&day.Date, &day.Amount, &day.Count); err != nil {
			return RevenueReport{}, db.Classify(err)
		}
		report.ByDay = append(report.ByDay, day)
		report.VerifiedTotal += day.Amount
		report.VerifiedCount += day.Count
	}
	if err := rows.Err(); err != nil {
		return RevenueReport{}, db.Classify(err)
	}

	statusRows, err := s.q().QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM bookings
		WHERE DATE(created_at) BETWEEN ? AND ?
		GROUP BY status`,
		report.StartDate, report.EndDate)
	if err != nil {
		return RevenueReport{}, db.Classify(err)
	}
	defer statusRows.Close()

	for statusRows.Next() {
		var (
			status string
			count  int
		)
		if err := statusRows.Scan(&status, &count); err != nil {
			return RevenueReport{}, db.Classify(err)
		}
		report.BookingCounts[status] = count
	}
	return report, db.Classify(statusRows.Err())
}
