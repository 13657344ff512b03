package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "travel-booking-service/internal/config"
	"travel-booking-service/internal/db"
	"travel-booking-service/internal/domain"
	"travel-booking-service/internal/domain/models"
)

type PaymentRepo struct {
	Q db.DBTX
}

func (r PaymentRepo) q() db.DBTX {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

const paymentColumns = `id, booking_id, kind, amount, proof_ref, status,
	COALESCE(verified_by,0), verified_at, created_at`

func scanPayment(row interface{ Scan(...any) error }) (models.Payment, error) {
	var p models.Payment
	var verifiedAt sql.NullTime
	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.Kind,
		&p.Amount,
		&p.ProofRef,
		&p.Status,
		&p.VerifiedBy,
		&verifiedAt,
		&p.CreatedAt,
	)
	if verifiedAt.Valid {
		t := verifiedAt.Time
		p.VerifiedAt = &t
	}
	return p, err
}

func (r PaymentRepo) GetByID(ctx context.Context, id int64) (models.Payment, error) {
	if id <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "payment_id", Msg: "invalid id"}
	}
	row := r.q().QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=? LIMIT 1`, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, domain.NotFoundError{Resource: "payment"}
		}
		return models.Payment{}, db.Classify(err)
	}
	return p, nil
}

// ListByBooking returns a booking's payment records, oldest first.
func (r PaymentRepo) ListByBooking(ctx context.Context, bookingID int64) ([]models.Payment, error) {
	if bookingID <= 0 {
		return nil, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	rows, err := r.q().QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE booking_id=? ORDER BY created_at ASC, id ASC`, bookingID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, p)
	}
	return out, db.Classify(rows.Err())
}

// HasKind reports whether the booking already carries a non-rejected
// payment record of the given kind. Rejected records do not count; a
// customer re-submits after rejection with a fresh record.
func (r PaymentRepo) HasKind(ctx context.Context, bookingID int64, kind string) (bool, error) {
	var n int
	err := r.q().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM payments
		WHERE booking_id=? AND kind=? AND status <> ?`,
		bookingID, kind, models.PaymentRejected).Scan(&n)
	if err != nil {
		return false, db.Classify(err)
	}
	return n > 0, nil
}

// Insert creates a payment record in pending verification state.
func (r PaymentRepo) Insert(ctx context.Context, p models.Payment) (int64, error) {
	res, err := r.q().ExecContext(ctx, `
		INSERT INTO payments (booking_id, kind, amount, proof_ref, status)
		VALUES (?,?,?,?,?)`,
		p.BookingID, p.Kind, p.Amount, p.ProofRef, models.PaymentPending,
	)
	if err != nil {
		return 0, db.Classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, db.Classify(err)
	}
	return id, nil
}

// Verify records the outcome only while the payment is still pending.
// Returns false when the row was already decided.
func (r PaymentRepo) Verify(ctx context.Context, id, adminID int64, outcome string) (bool, error) {
	if id <= 0 {
		return false, domain.ValidationError{Field: "payment_id", Msg: "invalid id"}
	}
	res, err := r.q().ExecContext(ctx, `
		UPDATE payments SET status=?, verified_by=?, verified_at=NOW()
		WHERE id=? AND status=?`,
		outcome, adminID, id, models.PaymentPending)
	if err != nil {
		return false, db.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, db.Classify(err)
	}
	return n > 0, nil
}
