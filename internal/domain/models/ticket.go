package models

import (
	"time"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
)

// Ticket groups the passengers booked under one PNR.
type Ticket struct {
	ID          int64               `db:"id" json:"id"`
	PNR         string              `db:"pnr" json:"pnr"`
	Status      domain.TicketStatus `db:"status" json:"status"`
	BookingDate time.Time           `db:"booking_date" json:"booking_date"`
	Passengers  []Passenger         `db:"-" json:"passengers"`
}

// CancelResult acknowledges a cancellation.
type CancelResult struct {
	Message string `json:"message"`
	PNR     string `json:"pnr"`
}
