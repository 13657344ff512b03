package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "travel-booking-service/internal/config"
	"travel-booking-service/internal/db"
	"travel-booking-service/internal/domain"
	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/repositories"
	"travel-booking-service/internal/utils"
)

// PaymentService tracks advance and balance payments per booking and their
// administrator verification. Verification is terminal; a rejected payment
// is replaced with a fresh record, never flipped back to pending.
type PaymentService struct {
	DB          *sql.DB
	PaymentRepo repositories.PaymentRepo
	BookingRepo repositories.BookingRepo
	RequestID   string
}

func (s PaymentService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// RecordPayment stores a proof-of-payment reference in pending state.
// At most one non-rejected record per kind per booking.
func (s PaymentService) RecordPayment(ctx context.Context, bookingID int64, kind string, amount int64, proofRef string) (models.Payment, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if !models.ValidPaymentKind(kind) {
		return models.Payment{}, domain.ValidationError{Field: "kind", Msg: "must be advance or balance"}
	}
	if amount <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}
	proofRef = strings.TrimSpace(proofRef)
	if proofRef == "" {
		return models.Payment{}, domain.ValidationError{Field: "proof_ref", Msg: "required"}
	}

	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return models.Payment{}, err
	}
	if booking.Status == models.BookingCancelled {
		return models.Payment{}, domain.ConflictError{Resource: "booking", Msg: "booking is cancelled"}
	}

	payment := models.Payment{
		BookingID: booking.ID,
		Kind:      kind,
		Amount:    amount,
		ProofRef:  proofRef,
		Status:    models.PaymentPending,
	}

	// The duplicate check is a plain read, so it only holds under a lock.
	// Locking the booking row serializes concurrent submissions; without it
	// two transactions could both count zero and both insert.
	err = db.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		if err := (repositories.BookingRepo{Q: tx}).LockForUpdate(ctx, booking.ID); err != nil {
			return err
		}
		repo := repositories.PaymentRepo{Q: tx}
		exists, err := repo.HasKind(ctx, booking.ID, kind)
		if err != nil {
			return err
		}
		if exists {
			return domain.DuplicatePaymentError{BookingID: booking.ID, Kind: kind}
		}
		id, err := repo.Insert(ctx, payment)
		if err != nil {
			return err
		}
		payment.ID = id
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}

	utils.LogEvent(s.RequestID, "payment", "record",
		fmt.Sprintf("payment_id=%d booking_id=%d kind=%s amount=%d", payment.ID, booking.ID, kind, amount))
	return s.PaymentRepo.GetByID(ctx, payment.ID)
}

// VerifyPayment records the administrator's outcome on a pending payment.
// A rejection never touches booking status; cancelling is a separate
// administrator decision.
func (s PaymentService) VerifyPayment(ctx context.Context, paymentID int64, actor models.Actor, outcome string) (models.Payment, error) {
	if !actor.IsAdmin {
		return models.Payment{}, domain.UnauthorizedError{Msg: "administrator required"}
	}
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	if !models.ValidVerifyOutcome(outcome) {
		return models.Payment{}, domain.ValidationError{Field: "outcome", Msg: "must be verified or rejected"}
	}

	ok, err := s.PaymentRepo.Verify(ctx, paymentID, actor.UserID, outcome)
	if err != nil {
		return models.Payment{}, err
	}
	if !ok {
		p, err := s.PaymentRepo.GetByID(ctx, paymentID)
		if err != nil {
			return models.Payment{}, err
		}
		return models.Payment{}, domain.TransitionError{Resource: "payment", From: p.Status, To: outcome}
	}

	utils.LogEvent(s.RequestID, "payment", "verify",
		fmt.Sprintf("payment_id=%d outcome=%s admin_id=%d", paymentID, outcome, actor.UserID))
	return s.PaymentRepo.GetByID(ctx, paymentID)
}

// FullyPaid reports whether the advance is verified and, when the package
// policy requires a balance (total above the advance), the balance too.
func (s PaymentService) FullyPaid(ctx context.Context, bookingID int64) (bool, error) {
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return false, err
	}
	payments, err := s.PaymentRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return false, err
	}

	advanceVerified := false
	balanceVerified := false
	for _, p := range payments {
		if p.Status != models.PaymentVerified {
			continue
		}
		switch p.Kind {
		case models.PaymentAdvance:
			advanceVerified = true
		case models.PaymentBalance:
			balanceVerified = true
		}
	}

	if !advanceVerified {
		return false, nil
	}
	balanceRequired := booking.TotalAmount > booking.AdvanceDue
	return !balanceRequired || balanceVerified, nil
}

// BookingPayments lists a booking's payment records.
func (s PaymentService) BookingPayments(ctx context.Context, bookingID int64) ([]models.Payment, error) {
	return s.PaymentRepo.ListByBooking(ctx, bookingID)
}
