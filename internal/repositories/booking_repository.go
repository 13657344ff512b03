package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	intconfig "travel-booking-service/internal/config"
	"travel-booking-service/internal/db"
	"travel-booking-service/internal/domain"
	"travel-booking-service/internal/domain/models"
)

type BookingRepo struct {
	Q db.DBTX
}

func (r BookingRepo) q() db.DBTX {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

const bookingColumns = `id, package_id, package_date_id, user_id, total_amount,
	advance_due, status, COALESCE(notes,''), created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID,
		&b.PackageID,
		&b.PackageDateID,
		&b.UserID,
		&b.TotalAmount,
		&b.AdvanceDue,
		&b.Status,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

// GetByID fetches a booking without its traveler roster.
func (r BookingRepo) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	row := r.q().QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, db.Classify(err)
	}
	return b, nil
}

// ListByUser returns a user's bookings, newest first.
func (r BookingRepo) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	if userID <= 0 {
		return nil, domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}
	rows, err := r.q().QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id=? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListByStatus returns bookings in a given status, oldest first.
func (r BookingRepo) ListByStatus(ctx context.Context, status string) ([]models.Booking, error) {
	rows, err := r.q().QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE status=? ORDER BY created_at ASC, id ASC`, status)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListStalePending returns pending bookings created before the cutoff.
func (r BookingRepo) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	rows, err := r.q().QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE status=? AND created_at < ? ORDER BY id ASC`,
		models.BookingPending, cutoff)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, b)
	}
	return out, db.Classify(rows.Err())
}

// Insert creates a booking and its traveler roster. Call inside the same
// transaction as the seat reservation.
func (r BookingRepo) Insert(ctx context.Context, b models.Booking) (int64, error) {
	res, err := r.q().ExecContext(ctx, `
		INSERT INTO bookings
			(package_id, package_date_id, user_id, total_amount, advance_due, status, notes)
		VALUES (?,?,?,?,?,?,?)`,
		b.PackageID, b.PackageDateID, b.UserID, b.TotalAmount, b.AdvanceDue, b.Status, db.NullIfEmpty(b.Notes),
	)
	if err != nil {
		return 0, db.Classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, db.Classify(err)
	}

	for _, t := range b.Travelers {
		if _, err := r.q().ExecContext(ctx,
			`INSERT INTO booking_travelers (booking_id, name, age, phone) VALUES (?,?,?,?)`,
			id, t.Name, t.Age, t.Phone); err != nil {
			return 0, db.Classify(err)
		}
	}
	return id, nil
}

// Travelers returns the roster in insertion order.
func (r BookingRepo) Travelers(ctx context.Context, bookingID int64) ([]models.Traveler, error) {
	rows, err := r.q().QueryContext(ctx,
		`SELECT name, age, phone FROM booking_travelers WHERE booking_id=? ORDER BY id ASC`, bookingID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	out := []models.Traveler{}
	for rows.Next() {
		var t models.Traveler
		if err := rows.Scan(&t.Name, &t.Age, &t.Phone); err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, t)
	}
	return out, db.Classify(rows.Err())
}

// LockForUpdate takes a row lock on the booking. Call inside a transaction;
// concurrent writers against the same booking serialize on it.
func (r BookingRepo) LockForUpdate(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	var got int64
	err := r.q().QueryRowContext(ctx, `SELECT id FROM bookings WHERE id=? FOR UPDATE`, id).Scan(&got)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "booking"}
		}
		return db.Classify(err)
	}
	return nil
}

// TransitionStatus flips the status only when the row is still in one of
// the allowed source states. Returns false when no row matched, which the
// service maps to a TransitionError.
func (r BookingRepo) TransitionStatus(ctx context.Context, id int64, from []string, to string) (bool, error) {
	if id <= 0 {
		return false, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	if len(from) == 0 {
		return false, domain.ValidationError{Field: "status", Msg: "missing source states"}
	}

	query := `UPDATE bookings SET status=?, updated_at=NOW() WHERE id=? AND status IN (?`
	args := []any{to, id, from[0]}
	for _, s := range from[1:] {
		query += `,?`
		args = append(args, s)
	}
	query += `)`

	res, err := r.q().ExecContext(ctx, query, args...)
	if err != nil {
		return false, db.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, db.Classify(err)
	}
	return n > 0, nil
}

// CountActiveByDate counts bookings still holding a seat on a date.
func (r BookingRepo) CountActiveByDate(ctx context.Context, dateID int64) (int, error) {
	var n int
	err := r.q().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE package_date_id=? AND status IN (?,?,?)`,
		dateID, models.BookingPending, models.BookingConfirmed, models.BookingCompleted).Scan(&n)
	if err != nil {
		return 0, db.Classify(err)
	}
	return n, nil
}
