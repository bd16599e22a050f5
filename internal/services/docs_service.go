package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// TicketReader loads a ticket with its passengers by PNR.
type TicketReader interface {
	GetTicketByPNR(ctx context.Context, pnr string) (models.Ticket, error)
}

// DocsService renders the e-ticket PDF for a booking.
type DocsService struct {
	Tickets TicketReader
	Loader  func(ctx context.Context, pnr string) (models.Ticket, error)
}

func (s DocsService) GenerateETicket(ctx context.Context, pnr string) ([]byte, string, error) {
	t, err := s.load(ctx, pnr)
	if err != nil {
		return nil, "", err
	}
	utils.LogEventf(ctx, "docs", "generate_eticket", "pnr=%s passengers=%d", t.PNR, len(t.Passengers))
	return buildETicketPDF(t)
}

func (s DocsService) load(ctx context.Context, pnr string) (models.Ticket, error) {
	if s.Loader != nil {
		return s.Loader(ctx, pnr)
	}
	if s.Tickets == nil {
		return models.Ticket{}, domain.InternalError{Msg: "ticket reader not configured"}
	}
	return s.Tickets.GetTicketByPNR(ctx, pnr)
}

func buildETicketPDF(t models.Ticket) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+t.PNR, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	header := []string{
		fmt.Sprintf("PNR          : %s", t.PNR),
		fmt.Sprintf("Status       : %s", t.Status),
		fmt.Sprintf("Booked on    : %s", t.BookingDate.Format("2006-01-02 15:04")),
		fmt.Sprintf("Passengers   : %d", len(t.Passengers)),
	}
	for _, s := range header {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	widths := []float64{10, 60, 14, 22, 36, 48}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"#", "Name", "Age", "Gender", "Status", "Berth"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for i, p := range t.Passengers {
		row := []string{
			strconv.Itoa(i + 1),
			safe(p.Name, "-"),
			strconv.Itoa(p.Age),
			string(p.Gender),
			string(p.Status),
			berthLabel(p),
		}
		for j, v := range row {
			pdf.CellFormat(widths[j], 7, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Carry a valid photo ID. RAC passengers share a side lower berth. Waiting-list passengers may board only once promoted.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "render e-ticket", Err: err}
	}
	return buf.Bytes(), fmt.Sprintf("ETICKET_%s.pdf", utils.SafeFilenamePart(t.PNR)), nil
}

func berthLabel(p models.Passenger) string {
	switch p.Status {
	case domain.PassengerWaitingList:
		if p.WaitingListNumber != nil {
			return fmt.Sprintf("WL %d", *p.WaitingListNumber)
		}
		return "WL"
	case domain.PassengerNoBerth, domain.PassengerCancelled:
		return "-"
	}
	if p.BerthNumber == nil {
		return "-"
	}
	label := strconv.Itoa(*p.BerthNumber)
	if p.BerthType != nil {
		label += " " + string(*p.BerthType)
	}
	if p.Status == domain.PassengerRAC && p.BerthPosition != nil {
		label += fmt.Sprintf(" (RAC %d)", *p.BerthPosition)
	}
	return label
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
