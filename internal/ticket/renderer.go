package ticket

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/swiftbus/service-ticketing/internal/domain/booking"
)

// Render produces a PDF ticket for a booking. The output is deterministic
// for a given booking apart from the PDF creation timestamp.
func Render(b *booking.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "SwiftBus Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	writeLine(pdf, "Ticket Number", b.TicketNumber())
	writeLine(pdf, "Booking ID", b.ID().String())
	writeLine(pdf, "From", string(b.Origin()))
	writeLine(pdf, "To", string(b.Destination()))
	writeLine(pdf, "Travel Date", b.TravelDate().Format(booking.TravelDateLayout))
	writeLine(pdf, "Adults", fmt.Sprintf("%d", b.Adults()))
	writeLine(pdf, "Children", fmt.Sprintf("%d", b.Children()))
	writeLine(pdf, "Total Price", fmt.Sprintf("%d %s", b.TotalPrice(), b.Currency()))
	writeLine(pdf, "Status", string(b.Status()))

	passengers := b.Passengers()
	if len(passengers) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, "Passengers", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for i, p := range passengers {
			line := fmt.Sprintf("%d. %s (age %d)", i+1, p.Name, p.Age)
			if p.IDType != "" && p.IDNumber != "" {
				line += fmt.Sprintf(" - %s %s", p.IDType, p.IDNumber)
			}
			pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Please carry a valid ID document matching the passenger details.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket: %w", err)
	}
	return buf.Bytes(), nil
}

func writeLine(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(45, 8, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
}
