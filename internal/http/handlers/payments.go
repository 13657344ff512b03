package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/http/middleware"
	"travel-booking-service/internal/repositories"
	"travel-booking-service/internal/services"
)

func paymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		PaymentRepo: repositories.PaymentRepo{},
		BookingRepo: repositories.BookingRepo{},
		RequestID:   middleware.GetRequestID(c),
	}
}

type recordPaymentRequest struct {
	Kind     string `json:"kind"`
	Amount   int64  `json:"amount"`
	ProofRef string `json:"proof_ref"`
}

// POST /api/bookings/:id/payments: submit proof of payment. Owner or admin.
func RecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req recordPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := paymentService(c)
	booking, err := svc.BookingRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	actor := middleware.GetActor(c)
	if !actor.IsAdmin && booking.UserID != actor.UserID {
		RespondError(c, http.StatusForbidden, "not the booking owner", nil)
		return
	}

	payment, err := svc.RecordPayment(c.Request.Context(), id, req.Kind, req.Amount, req.ProofRef)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// GET /api/bookings/:id/payments: payment records plus the derived flag.
func ListBookingPayments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := paymentService(c)
	booking, err := svc.BookingRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	actor := middleware.GetActor(c)
	if !actor.IsAdmin && booking.UserID != actor.UserID {
		RespondError(c, http.StatusForbidden, "not the booking owner", nil)
		return
	}

	payments, err := svc.BookingPayments(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	fullyPaid, err := svc.FullyPaid(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments, "fully_paid": fullyPaid})
}

type verifyPaymentRequest struct {
	Outcome string `json:"outcome"`
}

// PUT /api/admin/payments/:id/verify: decide a pending payment.
func VerifyPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req verifyPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	payment, err := paymentService(c).VerifyPayment(c.Request.Context(), id, middleware.GetActor(c), req.Outcome)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// PUT /api/admin/payments/:id/approve: shorthand for outcome=verified.
func ApprovePayment(c *gin.Context) {
	verifyWithOutcome(c, models.PaymentVerified)
}

// PUT /api/admin/payments/:id/reject: shorthand for outcome=rejected.
// Rejection never cancels the booking; that is a separate admin action.
func RejectPayment(c *gin.Context) {
	verifyWithOutcome(c, models.PaymentRejected)
}

func verifyWithOutcome(c *gin.Context, outcome string) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	payment, err := paymentService(c).VerifyPayment(c.Request.Context(), id, middleware.GetActor(c), outcome)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}
