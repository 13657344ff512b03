package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "travel-booking-service/internal/config"
	"travel-booking-service/internal/db"
	"travel-booking-service/internal/domain"
	"travel-booking-service/internal/domain/models"
)

type PackageRepo struct {
	Q db.DBTX
}

func (r PackageRepo) q() db.DBTX {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

const packageColumns = `id, title, COALESCE(description,''), destination, duration_days,
	price_per_head, advance_per_head, max_occupants, image_url, is_active, created_by, created_at`

func scanPackage(row interface{ Scan(...any) error }) (models.TravelPackage, error) {
	var p models.TravelPackage
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Destination,
		&p.DurationDays,
		&p.PricePerHead,
		&p.AdvancePerHead,
		&p.MaxOccupants,
		&p.ImageURL,
		&p.IsActive,
		&p.CreatedBy,
		&p.CreatedAt,
	)
	return p, err
}

// GetByID fetches a package regardless of active flag.
func (r PackageRepo) GetByID(ctx context.Context, id int64) (models.TravelPackage, error) {
	if id <= 0 {
		return models.TravelPackage{}, domain.ValidationError{Field: "package_id", Msg: "invalid id"}
	}
	row := r.q().QueryRowContext(ctx, `SELECT `+packageColumns+` FROM packages WHERE id=? LIMIT 1`, id)
	p, err := scanPackage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TravelPackage{}, domain.NotFoundError{Resource: "package"}
		}
		return models.TravelPackage{}, db.Classify(err)
	}
	return p, nil
}

// List returns packages, optionally only active ones, newest first.
func (r PackageRepo) List(ctx context.Context, activeOnly bool) ([]models.TravelPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM packages`
	if activeOnly {
		query += ` WHERE is_active=1`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q().QueryContext(ctx, query)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	out := []models.TravelPackage{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, p)
	}
	return out, db.Classify(rows.Err())
}

// Create inserts a package and returns its id.
func (r PackageRepo) Create(ctx context.Context, p models.TravelPackage) (int64, error) {
	res, err := r.q().ExecContext(ctx, `
		INSERT INTO packages
			(title, description, destination, duration_days, price_per_head,
			 advance_per_head, max_occupants, image_url, is_active, created_by)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.Title, p.Description, p.Destination, p.DurationDays, p.PricePerHead,
		p.AdvancePerHead, p.MaxOccupants, p.ImageURL, p.IsActive, p.CreatedBy,
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

// Update performs PATCH-style updates based on key presence.
func (r PackageRepo) Update(ctx context.Context, id int64, upd models.PackageUpdate) error {
	if id <= 0 {
		return domain.ValidationError{Field: "package_id", Msg: "invalid id"}
	}

	sets := []string{}
	args := []any{}

	if upd.Title != nil {
		sets = append(sets, "title=?")
		args = append(args, strings.TrimSpace(*upd.Title))
	}
	if upd.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *upd.Description)
	}
	if upd.Destination != nil {
		sets = append(sets, "destination=?")
		args = append(args, strings.TrimSpace(*upd.Destination))
	}
	if upd.DurationDays != nil {
		sets = append(sets, "duration_days=?")
		args = append(args, *upd.DurationDays)
	}
	if upd.PricePerHead != nil {
		sets = append(sets, "price_per_head=?")
		args = append(args, *upd.PricePerHead)
	}
	if upd.AdvancePerHead != nil {
		sets = append(sets, "advance_per_head=?")
		args = append(args, *upd.AdvancePerHead)
	}
	if upd.ImageURL != nil {
		sets = append(sets, "image_url=?")
		args = append(args, strings.TrimSpace(*upd.ImageURL))
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active=?")
		args = append(args, *upd.IsActive)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	res, err := r.q().ExecContext(ctx, `UPDATE packages SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	if err != nil {
		return db.Classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// either missing or a no-op update; distinguish with a lookup
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
