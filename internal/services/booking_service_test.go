package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"travel-booking-service/internal/domain"
	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newBookingService(db *sql.DB) BookingService {
	return BookingService{
		DB:          db,
		PackageRepo: repositories.PackageRepo{Q: db},
		DateRepo:    repositories.PackageDateRepo{Q: db},
		BookingRepo: repositories.BookingRepo{Q: db},
		Capacity:    CapacityService{DateRepo: repositories.PackageDateRepo{Q: db}},
		AdvanceFlat: 500,
	}
}

func packageRows(id int64, price, advance int64, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "destination", "duration_days",
		"price_per_head", "advance_per_head", "max_occupants", "image_url", "is_active", "created_by", "created_at",
	}).AddRow(id, "Coorg Getaway", "", "Coorg", 3, price, advance, 30, "", active, int64(1), time.Now())
}

func testBookingRows(id int64, status string, total, advance int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "package_id", "package_date_id", "user_id", "total_amount",
		"advance_due", "status", "notes", "created_at", "updated_at",
	}).AddRow(id, int64(1), int64(2), int64(9), total, advance, status, "", now, now)
}

func testDateRows(id, packageID int64, total, remaining int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "package_id", "travel_date", "total_seats", "seats_remaining", "created_at"}).
		AddRow(id, packageID, "2026-10-01", total, remaining, time.Now())
}

func TestCreateBookingReservesSeatAndSnapshotsPrice(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM packages WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(packageRows(1, 5000, 500, true))
	mock.ExpectQuery("FROM package_dates WHERE id=").
		WithArgs(int64(2)).
		WillReturnRows(testDateRows(2, 1, 20, 10))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE package_dates").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(int64(1), int64(2), int64(9), int64(10000), int64(1000), "pending", nil).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO booking_travelers").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO booking_travelers").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("FROM bookings WHERE id=").
		WithArgs(int64(10)).
		WillReturnRows(testBookingRows(10, models.BookingPending, 10000, 1000))
	mock.ExpectQuery("FROM booking_travelers").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "age", "phone"}).
			AddRow("Asha", 30, "98765").
			AddRow("Ravi", 8, ""))

	svc := newBookingService(db)
	travelers := []models.Traveler{
		{Name: "Asha", Age: 30, Phone: "98765"},
		{Name: "Ravi", Age: 8},
	}
	b, err := svc.CreateBooking(context.Background(), 9, 1, 2, travelers, "")
	if err != nil {
		t.Fatalf("expected booking to succeed, got %v", err)
	}
	if b.TotalAmount != 10000 {
		t.Fatalf("total should be price times heads, got %d", b.TotalAmount)
	}
	if b.AdvanceDue != 1000 {
		t.Fatalf("advance should be per-head amount times heads, got %d", b.AdvanceDue)
	}
	if b.Status != models.BookingPending {
		t.Fatalf("new booking should be pending, got %s", b.Status)
	}
	if len(b.Travelers) != 2 {
		t.Fatalf("expected 2 travelers, got %d", len(b.Travelers))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingFlatAdvanceFallback(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// package without a per-head advance falls back to the flat amount
	mock.ExpectQuery("FROM packages WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(packageRows(1, 5000, 0, true))
	mock.ExpectQuery("FROM package_dates WHERE id=").
		WithArgs(int64(2)).
		WillReturnRows(testDateRows(2, 1, 20, 10))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE package_dates").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(int64(1), int64(2), int64(9), int64(5000), int64(500), "pending", nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO booking_travelers").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("FROM bookings WHERE id=").
		WithArgs(int64(11)).
		WillReturnRows(testBookingRows(11, models.BookingPending, 5000, 500))
	mock.ExpectQuery("FROM booking_travelers").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "age", "phone"}).AddRow("Asha", 30, ""))

	svc := newBookingService(db)
	b, err := svc.CreateBooking(context.Background(), 9, 1, 2, []models.Traveler{{Name: "Asha", Age: 30}}, "")
	if err != nil {
		t.Fatalf("expected booking to succeed, got %v", err)
	}
	if b.AdvanceDue != 500 {
		t.Fatalf("advance should fall back to flat amount, got %d", b.AdvanceDue)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingSoldOutRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM packages WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(packageRows(1, 5000, 500, true))
	mock.ExpectQuery("FROM package_dates WHERE id=").
		WithArgs(int64(2)).
		WillReturnRows(testDateRows(2, 1, 20, 1))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE package_dates").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM package_dates WHERE id=").
		WithArgs(int64(2)).
		WillReturnRows(testDateRows(2, 1, 20, 0))
	mock.ExpectRollback()

	svc := newBookingService(db)
	_, err = svc.CreateBooking(context.Background(), 9, 1, 2, []models.Traveler{{Name: "Asha", Age: 30}}, "")
	if !domain.IsCapacity(err) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingSoldOutAtRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// a date already showing zero seats is rejected without a transaction
	mock.ExpectQuery("FROM packages WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(packageRows(1, 5000, 500, true))
	mock.ExpectQuery("FROM package_dates WHERE id=").
		WithArgs(int64(2)).
		WillReturnRows(testDateRows(2, 1, 20, 0))

	svc := newBookingService(db)
	_, err = svc.CreateBooking(context.Background(), 9, 1, 2, []models.Traveler{{Name: "Asha", Age: 30}}, "")
	if !domain.IsCapacity(err) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingRejectsEmptyRoster(t *testing.T) {
	svc := BookingService{}
	_, err := svc.CreateBooking(context.Background(), 9, 1, 2, nil, "")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = svc.CreateBooking(context.Background(), 9, 1, 2, []models.Traveler{{Name: "   "}}, "")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for blank roster, got %v", err)
	}
}

func TestCreateBookingInactivePackage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM packages WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(packageRows(1, 5000, 500, false))

	svc := newBookingService(db)
	_, err = svc.CreateBooking(context.Background(), 9, 1, 2, []models.Traveler{{Name: "Asha", Age: 30}}, "")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found for inactive package, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBookingReleasesSeatInSameTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id=").
		WithArgs(int64(7)).
		WillReturnRows(testBookingRows(7, models.BookingPending, 10000, 1000))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status=").
		WithArgs("cancelled", int64(7), "pending", "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE package_dates").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := newBookingService(db)
	actor := models.Actor{UserID: 9}
	if err := svc.CancelBooking(context.Background(), 7, actor); err != nil {
		t.Fatalf("expected cancel to succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBookingAlreadyCancelled(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// a terminal status fails the transition check before any transaction,
	// so no seat can go back a second time
	mock.ExpectQuery("FROM bookings WHERE id=").
		WithArgs(int64(7)).
		WillReturnRows(testBookingRows(7, models.BookingCancelled, 10000, 1000))

	svc := newBookingService(db)
	err = svc.CancelBooking(context.Background(), 7, models.Actor{UserID: 9})
	if !domain.IsTransition(err) {
		t.Fatalf("expected transition error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBookingOwnerGate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id=").
		WithArgs(int64(7)).
		WillReturnRows(testBookingRows(7, models.BookingPending, 10000, 1000))

	svc := newBookingService(db)
	err = svc.CancelBooking(context.Background(), 7, models.Actor{UserID: 3})
	if !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for non-owner, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConfirmBookingRequiresAdmin(t *testing.T) {
	svc := BookingService{}
	err := svc.ConfirmBooking(context.Background(), 7, models.Actor{UserID: 9})
	if !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestConfirmBookingWrongState(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET status=").
		WithArgs("confirmed", int64(7), "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM bookings WHERE id=").
		WithArgs(int64(7)).
		WillReturnRows(testBookingRows(7, models.BookingCompleted, 10000, 1000))

	svc := newBookingService(db)
	err = svc.ConfirmBooking(context.Background(), 7, models.Actor{UserID: 1, IsAdmin: true})
	if !domain.IsTransition(err) {
		t.Fatalf("expected transition error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExpireStaleBookingsSkipsRacedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	stale := sqlmock.NewRows([]string{
		"id", "package_id", "package_date_id", "user_id", "total_amount",
		"advance_due", "status", "notes", "created_at", "updated_at",
	}).
		AddRow(int64(7), int64(1), int64(2), int64(9), int64(10000), int64(1000), models.BookingPending, "", now, now).
		AddRow(int64(8), int64(1), int64(3), int64(9), int64(5000), int64(500), models.BookingPending, "", now, now)

	mock.ExpectQuery("FROM bookings WHERE status=").
		WithArgs(models.BookingPending, sqlmock.AnyArg()).
		WillReturnRows(stale)

	// first booking expires and its seat goes back
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status=").
		WithArgs("cancelled", int64(7), "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE package_dates").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// second booking was confirmed in the meantime and is left alone
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status=").
		WithArgs("cancelled", int64(8), "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	svc := newBookingService(db)
	expired, err := svc.ExpireStaleBookings(context.Background(), models.Actor{UserID: 1, IsAdmin: true}, 48*time.Hour)
	if err != nil {
		t.Fatalf("expected sweep to succeed, got %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected 1 expired booking, got %d", expired)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
