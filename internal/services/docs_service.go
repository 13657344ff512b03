package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"travel-booking-service/internal/domain"
	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/repositories"
	"travel-booking-service/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking receipt PDFs.
type DocsService struct {
	BookingRepo repositories.BookingRepo
	PackageRepo repositories.PackageRepo
	DateRepo    repositories.PackageDateRepo
	PaymentRepo repositories.PaymentRepo
	RequestID   string
}

type receiptData struct {
	Booking   models.Booking
	Package   models.TravelPackage
	Date      models.PackageDate
	Travelers []models.Traveler
	Payments  []models.Payment
}

// GenerateReceipt builds a receipt PDF for the booking. Only the booking's
// owner or an administrator may fetch it.
func (s DocsService) GenerateReceipt(ctx context.Context, bookingID int64, actor models.Actor) ([]byte, string, error) {
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if !actor.IsAdmin && booking.UserID != actor.UserID {
		return nil, "", domain.UnauthorizedError{Msg: "not the booking owner"}
	}

	data := receiptData{Booking: booking}
	if data.Package, err = s.PackageRepo.GetByID(ctx, booking.PackageID); err != nil {
		return nil, "", err
	}
	if data.Date, err = s.DateRepo.GetByID(ctx, booking.PackageDateID); err != nil {
		return nil, "", err
	}
	if data.Travelers, err = s.BookingRepo.Travelers(ctx, bookingID); err != nil {
		return nil, "", err
	}
	if data.Payments, err = s.PaymentRepo.ListByBooking(ctx, bookingID); err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "docs", "receipt", fmt.Sprintf("booking_id=%d", bookingID))
	return buildReceiptPDF(data)
}

func buildReceiptPDF(d receiptData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking No    : #%d", d.Booking.ID),
		fmt.Sprintf("Status        : %s", strings.ToUpper(d.Booking.Status)),
		fmt.Sprintf("Package       : %s", safe(d.Package.Title, "-")),
		fmt.Sprintf("Destination   : %s", safe(d.Package.Destination, "-")),
		fmt.Sprintf("Travel Date   : %s", safe(d.Date.TravelDate, "-")),
		fmt.Sprintf("Duration      : %d day(s)", d.Package.DurationDays),
		fmt.Sprintf("Travelers     : %d", len(d.Travelers)),
		fmt.Sprintf("Total Amount  : %s", utils.FormatRupee(d.Booking.TotalAmount)),
		fmt.Sprintf("Advance Due   : %s", utils.FormatRupee(d.Booking.AdvanceDue)),
		fmt.Sprintf("Issued        : %s", time.Now().Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Traveler Roster")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, t := range d.Travelers {
		pdf.Cell(0, 6, fmt.Sprintf("%d. %s (age %d) %s", i+1, safe(t.Name, "-"), t.Age, t.Phone))
		pdf.Ln(6)
	}

	if len(d.Payments) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Payments")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, p := range d.Payments {
			pdf.Cell(0, 6, fmt.Sprintf("%s %s - %s (ref %s)",
				strings.ToUpper(p.Kind), utils.FormatRupee(p.Amount), p.Status, safe(p.ProofRef, "-")))
			pdf.Ln(6)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this receipt at departure. The booking is confirmed only after the advance payment is verified.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Err: err}
	}

	filename := fmt.Sprintf("RECEIPT_%d.pdf", d.Booking.ID)
	return buf.Bytes(), filename, nil
}

func safe(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
