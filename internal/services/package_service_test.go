package services

import (
	"context"
	"testing"

	"travel-booking-service/internal/domain"
	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRemoveDateBlockedByActiveBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(2), models.BookingPending, models.BookingConfirmed, models.BookingCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	svc := PackageService{
		DateRepo:    repositories.PackageDateRepo{Q: db},
		BookingRepo: repositories.BookingRepo{Q: db},
	}
	err = svc.RemoveDate(context.Background(), models.Actor{UserID: 1, IsAdmin: true}, 2)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict while bookings hold seats, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemoveDateDeletesWhenUnbooked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(2), models.BookingPending, models.BookingConfirmed, models.BookingCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("DELETE FROM package_dates").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := PackageService{
		DateRepo:    repositories.PackageDateRepo{Q: db},
		BookingRepo: repositories.BookingRepo{Q: db},
	}
	if err := svc.RemoveDate(context.Background(), models.Actor{UserID: 1, IsAdmin: true}, 2); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddDateHonorsOccupantCap(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM packages WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(packageRows(1, 5000, 500, true))

	svc := PackageService{
		PackageRepo: repositories.PackageRepo{Q: db},
		DateRepo:    repositories.PackageDateRepo{Q: db},
	}
	_, err = svc.AddDate(context.Background(), models.Actor{UserID: 1, IsAdmin: true}, 1, "2026-10-01", 50)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for seats over the package maximum, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePackageRequiresAdmin(t *testing.T) {
	svc := PackageService{}
	_, err := svc.CreatePackage(context.Background(), models.Actor{UserID: 9}, models.TravelPackage{Title: "Coorg", PricePerHead: 5000})
	if !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
