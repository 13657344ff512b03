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

type UserRepo struct {
	Q db.DBTX
}

func (r UserRepo) q() db.DBTX {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

// GetByEmail returns the user and its password hash for login checks.
func (r UserRepo) GetByEmail(ctx context.Context, email string) (models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.User{}, "", domain.ValidationError{Field: "email", Msg: "required"}
	}

	var (
		u    models.User
		hash string
	)
	err := r.q().QueryRowContext(ctx, `
		SELECT id, name, email, phone, password_hash, role, status, created_at
		FROM users WHERE email=? LIMIT 1`, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &hash, &u.Role, &u.Status, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, "", domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, "", db.Classify(err)
	}
	return u, hash, nil
}

func (r UserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	if id <= 0 {
		return models.User{}, domain.ValidationError{Field: "user_id", Msg: "invalid id"}
	}
	var u models.User
	err := r.q().QueryRowContext(ctx, `
		SELECT id, name, email, phone, role, status, created_at
		FROM users WHERE id=? LIMIT 1`, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Status, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, db.Classify(err)
	}
	return u, nil
}

// EmailTaken reports whether a user already registered with the email.
func (r UserRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.q().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email=?`, strings.ToLower(strings.TrimSpace(email))).Scan(&n)
	if err != nil {
		return false, db.Classify(err)
	}
	return n > 0, nil
}

// Create inserts a user with an already-hashed password.
func (r UserRepo) Create(ctx context.Context, u models.User, passwordHash string) (int64, error) {
	res, err := r.q().ExecContext(ctx, `
		INSERT INTO users (name, email, phone, password_hash, role, status)
		VALUES (?,?,?,?,?,?)`,
		strings.TrimSpace(u.Name),
		strings.ToLower(strings.TrimSpace(u.Email)),
		strings.TrimSpace(u.Phone),
		passwordHash,
		u.Role,
		"active",
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
