package repositories

import (
	"context"
	"testing"

	"travel-booking-service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTransitionStatusGuardsSourceStates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET status=").
		WithArgs("cancelled", int64(7), "pending", "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := BookingRepo{Q: db}
	ok, err := repo.TransitionStatus(context.Background(), 7, []string{"pending", "confirmed"}, "cancelled")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok {
		t.Fatalf("expected transition to match the guarded row")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionStatusReportsNoMatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET status=").
		WithArgs("completed", int64(7), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := BookingRepo{Q: db}
	ok, err := repo.TransitionStatus(context.Background(), 7, []string{"confirmed"}, "completed")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatalf("expected no row to match the guard")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLockForUpdateMissingBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := BookingRepo{Q: db}
	if err := repo.LockForUpdate(context.Background(), 99); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionStatusRequiresSourceStates(t *testing.T) {
	repo := BookingRepo{}
	if _, err := repo.TransitionStatus(context.Background(), 7, nil, "cancelled"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
