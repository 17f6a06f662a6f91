package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"parkbooking/internal/db"
)

// Receipt renders the PDF receipt of a booking owned by userID.
func (s *BookingService) Receipt(ctx context.Context, bookingID, userID string) ([]byte, error) {
	b, loc, err := s.OwnedBooking(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	return GenerateReceiptPDF(*b, *loc, time.Now())
}

// GenerateReceiptPDF builds a single-page A4 receipt with a QR code carrying
// the booking id for gate verification.
func GenerateReceiptPDF(b db.Booking, loc db.Location, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.Cell(0, 15, "PARKING BOOKING RECEIPT")
	pdf.Ln(18)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)

	yStart := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, yStart, 120, 55, "F")

	pdf.SetXY(20, yStart+7)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "BOOKING SUMMARY")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range []string{
		fmt.Sprintf("Booking ID: %s", b.ID),
		fmt.Sprintf("Status: %s", b.Status),
		fmt.Sprintf("Vehicle: %s", b.VehicleNumber),
		fmt.Sprintf("Total: %.2f", b.Price),
	} {
		pdf.SetX(20)
		pdf.Cell(0, 8, line)
		pdf.Ln(7)
	}

	qrBytes, err := qrcode.Encode(b.ID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encoding receipt QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(qrBytes))
	pdf.ImageOptions("qr", 145, yStart+5, 45, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	pdf.SetY(yStart + 63)
	drawSectionTitle(pdf, "LOCATION")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, loc.Name)
	pdf.Ln(6)
	pdf.MultiCell(0, 8, fmt.Sprintf("%s, %s", loc.Address, loc.Area), "", "", false)
	pdf.Ln(4)

	drawSectionTitle(pdf, "SCHEDULE")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", b.Date))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Time: %s - %s (%d h)", b.StartTime, b.EndTime, b.Duration))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Rate: %.2f per hour", b.Price/float64(b.Duration)))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(15, 285, 195, 285)
	pdf.SetY(288)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated %s", now.Format("02 Jan 2006 15:04")), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 9, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
}
