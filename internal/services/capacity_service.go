package services

import (
	"context"
	"fmt"

	"travel-booking-service/internal/db"
	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/repositories"
	"travel-booking-service/internal/utils"
)

// CapacityService is the only component that mutates seat counts.
// Reserve and release take the caller's transaction handle so a status
// change and its seat movement commit or roll back together.
type CapacityService struct {
	DateRepo  repositories.PackageDateRepo
	RequestID string
}

// ReserveSeat takes one seat on the date. Fails with a CapacityError when
// the date is sold out; the conditional update in the repository makes
// racing reservations against the last seat resolve to a single winner.
func (s CapacityService) ReserveSeat(ctx context.Context, q db.DBTX, dateID int64) error {
	return repositories.PackageDateRepo{Q: q}.ReserveSeat(ctx, dateID)
}

// ReleaseSeat gives one seat back, capped at the date's total. A capped
// release means something already over-released; it is logged, not fatal.
func (s CapacityService) ReleaseSeat(ctx context.Context, q db.DBTX, dateID int64) error {
	released, err := repositories.PackageDateRepo{Q: q}.ReleaseSeat(ctx, dateID)
	if err != nil {
		return err
	}
	if !released {
		utils.LogEvent(s.RequestID, "capacity", "release",
			fmt.Sprintf("date_id=%d already at full capacity, release skipped", dateID))
	}
	return nil
}

// AvailableDates lists a package's dates with seats remaining, soonest first.
func (s CapacityService) AvailableDates(ctx context.Context, packageID int64) ([]models.PackageDate, error) {
	return s.DateRepo.ListAvailable(ctx, packageID)
}
