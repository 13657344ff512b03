package services

import (
	"testing"

	"travel-booking-service/internal/domain/models"
)

func TestBuildReceiptPDF(t *testing.T) {
	data := receiptData{
		Booking: models.Booking{
			ID:          10,
			TotalAmount: 10000,
			AdvanceDue:  1000,
			Status:      models.BookingConfirmed,
		},
		Package: models.TravelPackage{
			Title:        "Coorg Getaway",
			Destination:  "Coorg",
			DurationDays: 3,
		},
		Date: models.PackageDate{TravelDate: "2026-10-01"},
		Travelers: []models.Traveler{
			{Name: "Asha", Age: 30, Phone: "98765"},
			{Name: "Ravi", Age: 8},
		},
		Payments: []models.Payment{
			{Kind: models.PaymentAdvance, Amount: 1000, Status: models.PaymentVerified, ProofRef: "TXN-1"},
		},
	}

	pdf, filename, err := buildReceiptPDF(data)
	if err != nil {
		t.Fatalf("buildReceiptPDF returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("buildReceiptPDF returned empty data")
	}
	if filename != "RECEIPT_10.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}
