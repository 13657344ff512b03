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

// PackageDateRepo owns the seat inventory. reserve/release are conditional
// updates so concurrent requests against the last seat resolve in the
// database, not in process memory.
type PackageDateRepo struct {
	Q db.DBTX
}

func (r PackageDateRepo) q() db.DBTX {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

const dateColumns = `id, package_id, DATE_FORMAT(travel_date, '%Y-%m-%d'), total_seats, seats_remaining, created_at`

func scanDate(row interface{ Scan(...any) error }) (models.PackageDate, error) {
	var d models.PackageDate
	err := row.Scan(&d.ID, &d.PackageID, &d.TravelDate, &d.TotalSeats, &d.SeatsRemaining, &d.CreatedAt)
	return d, err
}

func (r PackageDateRepo) GetByID(ctx context.Context, id int64) (models.PackageDate, error) {
	if id <= 0 {
		return models.PackageDate{}, domain.ValidationError{Field: "date_id", Msg: "invalid id"}
	}
	row := r.q().QueryRowContext(ctx, `SELECT `+dateColumns+` FROM package_dates WHERE id=? LIMIT 1`, id)
	d, err := scanDate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PackageDate{}, domain.NotFoundError{Resource: "package date"}
		}
		return models.PackageDate{}, db.Classify(err)
	}
	return d, nil
}

// ListAvailable returns dates of a package with seats remaining, soonest first.
func (r PackageDateRepo) ListAvailable(ctx context.Context, packageID int64) ([]models.PackageDate, error) {
	return r.list(ctx, packageID, true)
}

// ListByPackage returns all dates of a package, soonest first.
func (r PackageDateRepo) ListByPackage(ctx context.Context, packageID int64) ([]models.PackageDate, error) {
	return r.list(ctx, packageID, false)
}

func (r PackageDateRepo) list(ctx context.Context, packageID int64, availableOnly bool) ([]models.PackageDate, error) {
	if packageID <= 0 {
		return nil, domain.ValidationError{Field: "package_id", Msg: "invalid id"}
	}
	query := `SELECT ` + dateColumns + ` FROM package_dates WHERE package_id=?`
	if availableOnly {
		query += ` AND seats_remaining > 0`
	}
	query += ` ORDER BY travel_date ASC`

	rows, err := r.q().QueryContext(ctx, query, packageID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	out := []models.PackageDate{}
	for rows.Next() {
		d, err := scanDate(rows)
		if err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, d)
	}
	return out, db.Classify(rows.Err())
}

// Create inserts a date with a full seat inventory.
func (r PackageDateRepo) Create(ctx context.Context, packageID int64, travelDate string, totalSeats int) (int64, error) {
	res, err := r.q().ExecContext(ctx, `
		INSERT INTO package_dates (package_id, travel_date, total_seats, seats_remaining)
		VALUES (?,?,?,?)`,
		packageID, travelDate, totalSeats, totalSeats,
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

// Delete removes a date row.
func (r PackageDateRepo) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "date_id", Msg: "invalid id"}
	}
	res, err := r.q().ExecContext(ctx, `DELETE FROM package_dates WHERE id=?`, id)
	if err != nil {
		return db.Classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "package date"}
	}
	return nil
}

// ReserveSeat decrements seats_remaining by one. The WHERE guard makes two
// racing reservations against the last seat resolve to exactly one winner.
func (r PackageDateRepo) ReserveSeat(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "date_id", Msg: "invalid id"}
	}
	res, err := r.q().ExecContext(ctx, `
		UPDATE package_dates
		SET seats_remaining = seats_remaining - 1
		WHERE id=? AND seats_remaining > 0`, id)
	if err != nil {
		return db.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return db.Classify(err)
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.CapacityError{DateID: id}
	}
	return nil
}

// ReleaseSeat increments seats_remaining, capped at total_seats. Going past
// the cap would be a logic error; the caller logs a zero-row release.
func (r PackageDateRepo) ReleaseSeat(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, domain.ValidationError{Field: "date_id", Msg: "invalid id"}
	}
	res, err := r.q().ExecContext(ctx, `
		UPDATE package_dates
		SET seats_remaining = seats_remaining + 1
		WHERE id=? AND seats_remaining < total_seats`, id)
	if err != nil {
		return false, db.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, db.Classify(err)
	}
	return n > 0, nil
}
