package models

import "github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"

// Passenger is one traveller's allocation within a ticket. BerthNumber and
// BerthType are only filled by reads that join the berths table.
type Passenger struct {
	ID                int64                  `db:"id" json:"id"`
	TicketID          int64                  `db:"ticket_id" json:"ticket_id"`
	Name              string                 `db:"name" json:"name"`
	Age               int                    `db:"age" json:"age"`
	Gender            domain.Gender          `db:"gender" json:"gender"`
	BerthID           *int64                 `db:"berth_id" json:"berth_id"`
	BerthPosition     *int                   `db:"berth_position" json:"berth_position"`
	Status            domain.PassengerStatus `db:"status" json:"status"`
	WaitingListNumber *int                   `db:"waiting_list_number" json:"waiting_list_number"`
	BerthNumber       *int                   `db:"berth_number" json:"berth_number,omitempty"`
	BerthType         *domain.BerthType      `db:"berth_type" json:"berth_type,omitempty"`
}

// PassengerUpdate replaces the allocation fields of a passenger. Nil pointers clear the column.
type PassengerUpdate struct {
	Status            domain.PassengerStatus
	BerthID           *int64
	BerthPosition     *int
	WaitingListNumber *int
}

// PassengerInput is one passenger descriptor of a booking request.
type PassengerInput struct {
	Name                  string
	Age                   int
	Gender                domain.Gender
	TravelingWithChildren bool
}
