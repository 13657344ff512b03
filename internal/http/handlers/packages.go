package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/http/middleware"
	"travel-booking-service/internal/repositories"
	"travel-booking-service/internal/services"
)

func packageService(c *gin.Context) services.PackageService {
	return services.PackageService{
		PackageRepo: repositories.PackageRepo{},
		DateRepo:    repositories.PackageDateRepo{},
		BookingRepo: repositories.BookingRepo{},
		RequestID:   middleware.GetRequestID(c),
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return 0, false
	}
	return id, true
}

// GET /api/packages: active packages with at least one open date.
func ListAvailablePackages(c *gin.Context) {
	svc := services.ReportService{
		BookingRepo: repositories.BookingRepo{},
		PaymentRepo: repositories.PaymentRepo{},
		DateRepo:    repositories.PackageDateRepo{},
	}
	out, err := svc.AvailablePackages(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": out})
}

// GET /api/packages/:id: package detail with all its dates.
func GetPackage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pkg, dates, err := packageService(c).GetPackage(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"package": pkg, "dates": dates})
}

// GET /api/packages/:id/available-dates: dates with seats remaining.
func GetAvailableDates(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	svc := services.CapacityService{
		DateRepo:  repositories.PackageDateRepo{},
		RequestID: middleware.GetRequestID(c),
	}
	dates, err := svc.AvailableDates(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

// GET /api/admin/packages: all packages, inactive ones included.
func AdminListPackages(c *gin.Context) {
	out, err := packageService(c).ListPackages(c.Request.Context(), true)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": out})
}

// POST /api/admin/packages
func CreatePackage(c *gin.Context) {
	var req models.TravelPackage
	if !BindJSONOrError(c, &req) {
		return
	}
	pkg, err := packageService(c).CreatePackage(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"package": pkg})
}

// PUT /api/admin/packages/:id
func UpdatePackage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.PackageUpdate
	if !BindJSONOrError(c, &req) {
		return
	}
	pkg, err := packageService(c).UpdatePackage(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"package": pkg})
}

// DELETE /api/admin/packages/:id: soft delete via is_active.
func DeactivatePackage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := packageService(c).DeactivatePackage(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "package deactivated"})
}

type addDateRequest struct {
	TravelDate string `json:"travel_date"`
	TotalSeats int    `json:"total_seats"`
}

// POST /api/admin/packages/:id/dates
func AddPackageDate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req addDateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	date, err := packageService(c).AddDate(c.Request.Context(), middleware.GetActor(c), id, req.TravelDate, req.TotalSeats)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"date": date})
}

// DELETE /api/admin/dates/:id
func RemovePackageDate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := packageService(c).RemoveDate(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "date removed"})
}
