package services

import (
	"context"
	"fmt"
	"strings"

	"travel-booking-service/internal/domain"
	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/repositories"
	"travel-booking-service/internal/utils"
)

// PackageService covers administrator management of packages and their
// bookable dates. Browsing goes through ReportService.
type PackageService struct {
	PackageRepo repositories.PackageRepo
	DateRepo    repositories.PackageDateRepo
	BookingRepo repositories.BookingRepo
	RequestID   string
}

func (s PackageService) CreatePackage(ctx context.Context, actor models.Actor, p models.TravelPackage) (models.TravelPackage, error) {
	if !actor.IsAdmin {
		return models.TravelPackage{}, domain.UnauthorizedError{Msg: "administrator required"}
	}

	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return models.TravelPackage{}, domain.ValidationError{Field: "title", Msg: "required"}
	}
	if p.PricePerHead <= 0 {
		return models.TravelPackage{}, domain.ValidationError{Field: "price_per_head", Msg: "must be positive"}
	}
	if p.AdvancePerHead < 0 {
		return models.TravelPackage{}, domain.ValidationError{Field: "advance_per_head", Msg: "must not be negative"}
	}
	if p.DurationDays <= 0 {
		p.DurationDays = 1
	}
	p.IsActive = true
	p.CreatedBy = actor.UserID

	id, err := s.PackageRepo.Create(ctx, p)
	if err != nil {
		return models.TravelPackage{}, err
	}

	utils.LogEvent(s.RequestID, "package", "create", fmt.Sprintf("package_id=%d title=%s", id, p.Title))
	return s.PackageRepo.GetByID(ctx, id)
}

func (s PackageService) UpdatePackage(ctx context.Context, actor models.Actor, id int64, upd models.PackageUpdate) (models.TravelPackage, error) {
	if !actor.IsAdmin {
		return models.TravelPackage{}, domain.UnauthorizedError{Msg: "administrator required"}
	}
	if upd.PricePerHead != nil && *upd.PricePerHead <= 0 {
		return models.TravelPackage{}, domain.ValidationError{Field: "price_per_head", Msg: "must be positive"}
	}
	if upd.AdvancePerHead != nil && *upd.AdvancePerHead < 0 {
		return models.TravelPackage{}, domain.ValidationError{Field: "advance_per_head", Msg: "must not be negative"}
	}
	if err := s.PackageRepo.Update(ctx, id, upd); err != nil {
		return models.TravelPackage{}, err
	}
	utils.LogEvent(s.RequestID, "package", "update", fmt.Sprintf("package_id=%d", id))
	return s.PackageRepo.GetByID(ctx, id)
}

// DeactivatePackage hides a package from browsing without touching
// existing bookings.
func (s PackageService) DeactivatePackage(ctx context.Context, actor models.Actor, id int64) error {
	inactive := false
	_, err := s.UpdatePackage(ctx, actor, id, models.PackageUpdate{IsActive: &inactive})
	return err
}

// GetPackage returns a package with all its dates.
func (s PackageService) GetPackage(ctx context.Context, id int64) (models.TravelPackage, []models.PackageDate, error) {
	p, err := s.PackageRepo.GetByID(ctx, id)
	if err != nil {
		return models.TravelPackage{}, nil, err
	}
	dates, err := s.DateRepo.ListByPackage(ctx, id)
	if err != nil {
		return models.TravelPackage{}, nil, err
	}
	return p, dates, nil
}

func (s PackageService) ListPackages(ctx context.Context, includeInactive bool) ([]models.TravelPackage, error) {
	return s.PackageRepo.List(ctx, !includeInactive)
}

// AddDate opens a calendar date with a full seat inventory.
func (s PackageService) AddDate(ctx context.Context, actor models.Actor, packageID int64, travelDate string, totalSeats int) (models.PackageDate, error) {
	if !actor.IsAdmin {
		return models.PackageDate{}, domain.UnauthorizedError{Msg: "administrator required"}
	}
	if totalSeats <= 0 {
		return models.PackageDate{}, domain.ValidationError{Field: "total_seats", Msg: "must be positive"}
	}
	parsed, err := utils.ParseDate(travelDate)
	if err != nil {
		return models.PackageDate{}, domain.ValidationError{Field: "travel_date", Msg: "expected YYYY-MM-DD"}
	}

	pkg, err := s.PackageRepo.GetByID(ctx, packageID)
	if err != nil {
		return models.PackageDate{}, err
	}
	if pkg.MaxOccupants > 0 && totalSeats > pkg.MaxOccupants {
		return models.PackageDate{}, domain.ValidationError{
			Field: "total_seats",
			Msg:   fmt.Sprintf("exceeds package maximum of %d", pkg.MaxOccupants),
		}
	}

	id, err := s.DateRepo.Create(ctx, packageID, utils.FormatDate(parsed), totalSeats)
	if err != nil {
		return models.PackageDate{}, err
	}

	utils.LogEvent(s.RequestID, "package", "add_date",
		fmt.Sprintf("package_id=%d date_id=%d date=%s seats=%d", packageID, id, travelDate, totalSeats))
	return s.DateRepo.GetByID(ctx, id)
}

// RemoveDate deletes a date that has no booking still holding a seat.
func (s PackageService) RemoveDate(ctx context.Context, actor models.Actor, dateID int64) error {
	if !actor.IsAdmin {
		return domain.UnauthorizedError{Msg: "administrator required"}
	}

	active, err := s.BookingRepo.CountActiveByDate(ctx, dateID)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.ConflictError{Resource: "package date", Msg: fmt.Sprintf("%d active bookings", active)}
	}

	if err := s.DateRepo.Delete(ctx, dateID); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "package", "remove_date", fmt.Sprintf("date_id=%d", dateID))
	return nil
}
