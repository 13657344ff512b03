package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/http/middleware"
	"travel-booking-service/internal/repositories"
	"travel-booking-service/internal/services"
)

func bookingService(c *gin.Context) services.BookingService {
	reqID := middleware.GetRequestID(c)
	return services.BookingService{
		PackageRepo: repositories.PackageRepo{},
		DateRepo:    repositories.PackageDateRepo{},
		BookingRepo: repositories.BookingRepo{},
		Capacity: services.CapacityService{
			DateRepo:  repositories.PackageDateRepo{},
			RequestID: reqID,
		},
		AdvanceFlat: env.AdvanceFlat,
		RequestID:   reqID,
	}
}

type createBookingRequest struct {
	PackageID int64             `json:"package_id"`
	DateID    int64             `json:"date_id"`
	Travelers []models.Traveler `json:"travelers"`
	Notes     string            `json:"notes"`
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	actor := middleware.GetActor(c)
	booking, err := bookingService(c).CreateBooking(c.Request.Context(),
		actor.UserID, req.PackageID, req.DateID, req.Travelers, req.Notes)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GET /api/bookings: the caller's own bookings with payment status.
func MyBookings(c *gin.Context) {
	svc := services.ReportService{
		BookingRepo: repositories.BookingRepo{},
		PaymentRepo: repositories.PaymentRepo{},
		DateRepo:    repositories.PackageDateRepo{},
	}
	out, err := svc.UserBookings(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

// GET /api/bookings/:id: the booking with its roster; owner or admin only.
func GetBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	booking, err := bookingService(c).GetBooking(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	actor := middleware.GetActor(c)
	if !actor.IsAdmin && booking.UserID != actor.UserID {
		RespondError(c, http.StatusForbidden, "not the booking owner", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// PUT /api/admin/bookings/:id/confirm
func ConfirmBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := bookingService(c).ConfirmBooking(c.Request.Context(), id, middleware.GetActor(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking confirmed"})
}

// PUT /api/bookings/:id/cancel: owner or admin.
func CancelBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := bookingService(c).CancelBooking(c.Request.Context(), id, middleware.GetActor(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// PUT /api/admin/bookings/:id/complete
func CompleteBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := bookingService(c).CompleteBooking(c.Request.Context(), id, middleware.GetActor(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking completed"})
}

// POST /api/admin/bookings/expire-stale: cancel pending bookings past the
// hold window and free their seats.
func ExpireStaleBookings(c *gin.Context) {
	expired, err := bookingService(c).ExpireStaleBookings(c.Request.Context(), middleware.GetActor(c), env.BookingHold)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": expired})
}

// GET /api/admin/bookings: bookings in a given status for review queues.
func AdminListBookings(c *gin.Context) {
	status := c.DefaultQuery("status", models.BookingPending)
	if !models.ValidStatus(status) {
		RespondError(c, http.StatusBadRequest, "unknown status", nil)
		return
	}
	repo := repositories.BookingRepo{}
	out, err := repo.ListByStatus(c.Request.Context(), status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

// GET /api/bookings/:id/receipt: PDF receipt; owner or admin.
func GetBookingReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	svc := services.DocsService{
		BookingRepo: repositories.BookingRepo{},
		PackageRepo: repositories.PackageRepo{},
		DateRepo:    repositories.PackageDateRepo{},
		PaymentRepo: repositories.PaymentRepo{},
		RequestID:   middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateReceipt(c.Request.Context(), id, middleware.GetActor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
