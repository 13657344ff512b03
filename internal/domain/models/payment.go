package models

import "time"

// Payment kinds. A booking carries at most one non-rejected record per kind.
const (
	PaymentAdvance = "advance"
	PaymentBalance = "balance"
)

// Payment verification states. Verified and rejected are terminal; a
// rejected payment is replaced by a new record, never flipped back.
const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

type Payment struct {
	ID         int64      `json:"id"`
	BookingID  int64      `json:"booking_id"`
	Kind       string     `json:"kind"`
	Amount     int64      `json:"amount"`
	ProofRef   string     `json:"proof_ref"`
	Status     string     `json:"status"`
	VerifiedBy int64      `json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ValidPaymentKind reports whether k is a known payment kind.
func ValidPaymentKind(k string) bool {
	return k == PaymentAdvance || k == PaymentBalance
}

// ValidVerifyOutcome reports whether s is an allowed verification outcome.
func ValidVerifyOutcome(s string) bool {
	return s == PaymentVerified || s == PaymentRejected
}
