package repositories

import (
	"context"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
)

// BerthGateway reads and mutates the berth inventory. Finders return nil, nil
// when nothing matches.
type BerthGateway interface {
	FindAvailableConfirmed(ctx context.Context) (*models.Berth, error)
	FindAvailableLower(ctx context.Context) (*models.Berth, error)
	// FindLeastOccupiedRAC returns the RAC berth with free room and the fewest
	// RAC occupants, ties broken by lowest berth number.
	FindLeastOccupiedRAC(ctx context.Context) (*models.RACSlot, error)
	SetStatus(ctx context.Context, id int64, status domain.BerthStatus) error
	Statistics(ctx context.Context) (models.BerthStats, error)
	ListAvailableConfirmed(ctx context.Context) ([]models.Berth, error)
}

type TicketGateway interface {
	// Create inserts a ticket and returns its id. A PNR collision yields domain.ErrDuplicatePNR.
	Create(ctx context.Context, pnr string, status domain.TicketStatus) (int64, error)
	SetStatus(ctx context.Context, id int64, status domain.TicketStatus) error
	FindByPNR(ctx context.Context, pnr string) (models.Ticket, error)
	FindByID(ctx context.Context, id int64) (models.Ticket, error)
	// ListActiveWithPassengers returns non-cancelled tickets, newest booking first,
	// with passengers and berth details embedded.
	ListActiveWithPassengers(ctx context.Context) ([]models.Ticket, error)
}

type PassengerGateway interface {
	Create(ctx context.Context, p models.Passenger) (int64, error)
	Update(ctx context.Context, id int64, upd models.PassengerUpdate) error
	OldestWithStatus(ctx context.Context, status domain.PassengerStatus) (*models.Passenger, error)
	LowestWaitingList(ctx context.Context) (*models.Passenger, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]models.Passenger, error)
	// RenumberWaitingList reassigns waiting-list numbers 1..N by passenger id order.
	RenumberWaitingList(ctx context.Context) error
	CountByStatus(ctx context.Context, status domain.PassengerStatus) (int, error)
	CountOnBerth(ctx context.Context, berthID int64, status domain.PassengerStatus) (int, error)
	CancelAllByTicket(ctx context.Context, ticketID int64) error
}

// Gateway is the set of stores visible inside one transaction.
type Gateway interface {
	Berths() BerthGateway
	Tickets() TicketGateway
	Passengers() PassengerGateway
}

// Store runs fn as one transaction with exclusive access to the coach
// inventory. Any error returned by fn rolls back every write made through the
// gateway.
type Store interface {
	WithinTx(ctx context.Context, fn func(Gateway) error) error
	Ping(ctx context.Context) error
}
