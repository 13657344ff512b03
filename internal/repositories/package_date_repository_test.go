package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel-booking-service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func dateRows(id, packageID int64, total, remaining int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "package_id", "travel_date", "total_seats", "seats_remaining", "created_at"}).
		AddRow(id, packageID, "2026-10-01", total, remaining, time.Now())
}

func TestReserveSeatDecrementsWhenSeatsRemain(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE package_dates").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := PackageDateRepo{Q: db}
	if err := repo.ReserveSeat(context.Background(), 5); err != nil {
		t.Fatalf("expected reservation to succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveSeatSoldOut(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// guarded update matches no row, then the follow-up read finds the date
	mock.ExpectExec("UPDATE package_dates").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM package_dates WHERE id=").
		WithArgs(int64(5)).
		WillReturnRows(dateRows(5, 1, 20, 0))

	repo := PackageDateRepo{Q: db}
	err = repo.ReserveSeat(context.Background(), 5)
	if !domain.IsCapacity(err) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	var capErr domain.CapacityError
	if !errors.As(err, &capErr) || capErr.DateID != 5 {
		t.Fatalf("capacity error missing date id: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveSeatUnknownDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE package_dates").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM package_dates WHERE id=").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "package_id", "travel_date", "total_seats", "seats_remaining", "created_at"}))

	repo := PackageDateRepo{Q: db}
	err = repo.ReserveSeat(context.Background(), 99)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReleaseSeatCappedAtTotal(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE package_dates").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := PackageDateRepo{Q: db}
	released, err := repo.ReleaseSeat(context.Background(), 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if released {
		t.Fatalf("release should be a no-op once seats_remaining equals total_seats")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
