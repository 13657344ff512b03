package services

import (
	"context"
	"testing"
	"time"

	"travel-booking-service/internal/domain"
	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFullyPaidFrom(t *testing.T) {
	verified := func(kind string) models.Payment {
		return models.Payment{Kind: kind, Status: models.PaymentVerified}
	}

	b := models.Booking{TotalAmount: 10000, AdvanceDue: 1000}
	if fullyPaidFrom(b, []models.Payment{verified(models.PaymentAdvance)}) {
		t.Fatal("balance still outstanding, should not be fully paid")
	}
	if !fullyPaidFrom(b, []models.Payment{verified(models.PaymentAdvance), verified(models.PaymentBalance)}) {
		t.Fatal("advance and balance verified, should be fully paid")
	}
	if fullyPaidFrom(b, []models.Payment{
		{Kind: models.PaymentAdvance, Status: models.PaymentRejected},
		verified(models.PaymentBalance),
	}) {
		t.Fatal("rejected advance must not count")
	}

	covered := models.Booking{TotalAmount: 1000, AdvanceDue: 1000}
	if !fullyPaidFrom(covered, []models.Payment{verified(models.PaymentAdvance)}) {
		t.Fatal("advance covering the total should be fully paid")
	}
}

func TestRevenueValidatesRange(t *testing.T) {
	svc := ReportService{}
	if _, err := svc.Revenue(context.Background(), "not-a-date", "2026-09-30"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for bad start, got %v", err)
	}
	if _, err := svc.Revenue(context.Background(), "2026-09-30", "2026-09-01"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}
}

func TestRevenueAggregatesVerifiedPayments(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments").
		WithArgs(models.PaymentVerified, "2026-09-01", "2026-09-30").
		WillReturnRows(sqlmock.NewRows([]string{"day", "amount", "count"}).
			AddRow("2026-09-03", int64(1500), 2).
			AddRow("2026-09-10", int64(9000), 1))
	mock.ExpectQuery("FROM bookings").
		WithArgs("2026-09-01", "2026-09-30").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("confirmed", 2).
			AddRow("cancelled", 1))

	svc := ReportService{Q: db}
	report, err := svc.Revenue(context.Background(), "2026-09-01", "2026-09-30")
	if err != nil {
		t.Fatalf("expected report, got %v", err)
	}
	if report.VerifiedTotal != 10500 {
		t.Fatalf("verified total = %d, want 10500", report.VerifiedTotal)
	}
	if report.VerifiedCount != 3 {
		t.Fatalf("verified count = %d, want 3", report.VerifiedCount)
	}
	if len(report.ByDay) != 2 {
		t.Fatalf("expected 2 revenue days, got %d", len(report.ByDay))
	}
	if report.BookingCounts["confirmed"] != 2 || report.BookingCounts["cancelled"] != 1 {
		t.Fatalf("booking counts wrong: %v", report.BookingCounts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserBookingsJoinsPaymentsAndTitle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM bookings WHERE user_id=").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "package_id", "package_date_id", "user_id", "total_amount",
			"advance_due", "status", "notes", "created_at", "updated_at",
		}).AddRow(int64(7), int64(1), int64(2), int64(9), int64(1000), int64(1000), models.BookingConfirmed, "", now, now))
	mock.ExpectQuery("JOIN packages").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"title", "travel_date"}).AddRow("Coorg Getaway", "2026-10-01"))
	mock.ExpectQuery("FROM payments WHERE booking_id=").
		WithArgs(int64(7)).
		WillReturnRows(paymentRows(5, models.PaymentAdvance, models.PaymentVerified, 1000))

	svc := ReportService{
		Q:           db,
		BookingRepo: repositories.BookingRepo{Q: db},
		PaymentRepo: repositories.PaymentRepo{Q: db},
	}
	views, err := svc.UserBookings(context.Background(), 9)
	if err != nil {
		t.Fatalf("expected views, got %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	v := views[0]
	if v.PackageTitle != "Coorg Getaway" || v.TravelDate != "2026-10-01" {
		t.Fatalf("join fields wrong: %+v", v)
	}
	if !v.FullyPaid {
		t.Fatal("advance equals total and is verified, view should be fully paid")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
