package services

import (
	"context"
	"errors"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/config"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/repositories"
)

// TicketService books and cancels tickets on one coach. Every public
// operation runs inside a single Store transaction.
type TicketService struct {
	Store  repositories.Store
	Policy config.CoachPolicy
	PNR    PNRGenerator
}

func NewTicketService(store repositories.Store, policy config.CoachPolicy) TicketService {
	return TicketService{Store: store, Policy: policy}
}

func (s TicketService) allocator() Allocator { return Allocator{Policy: s.Policy} }

// persistenceError keeps the typed domain errors and wraps everything else as
// an internal failure.
func persistenceError(err error) error {
	if err == nil {
		return nil
	}
	var (
		notFound     domain.NotFoundError
		validation   domain.ValidationError
		conflict     domain.ConflictError
		internal     domain.InternalError
		capacity     domain.CapacityError
		waitlistFull domain.WaitlistFullError
		cancelled    domain.AlreadyCancelledError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &validation), errors.As(err, &conflict),
		errors.As(err, &internal), errors.As(err, &capacity), errors.As(err, &waitlistFull),
		errors.As(err, &cancelled):
		return err
	}
	return domain.InternalError{Msg: "persistence failure", Err: err}
}

func loadTicket(ctx context.Context, g repositories.Gateway, t models.Ticket) (models.Ticket, error) {
	ps, err := g.Passengers().ListByTicket(ctx, t.ID)
	if err != nil {
		return models.Ticket{}, err
	}
	t.Passengers = ps
	return t, nil
}

// GetTicketDetails returns a ticket with its passengers.
func (s TicketService) GetTicketDetails(ctx context.Context, ticketID int64) (models.Ticket, error) {
	if ticketID <= 0 {
		return models.Ticket{}, domain.ValidationError{Field: "ticket_id", Msg: "must be positive"}
	}
	var out models.Ticket
	err := s.Store.WithinTx(ctx, func(g repositories.Gateway) error {
		t, err := g.Tickets().FindByID(ctx, ticketID)
		if err != nil {
			return err
		}
		out, err = loadTicket(ctx, g, t)
		return err
	})
	return out, persistenceError(err)
}

// GetTicketByPNR returns a ticket with its passengers.
func (s TicketService) GetTicketByPNR(ctx context.Context, pnr string) (models.Ticket, error) {
	var out models.Ticket
	err := s.Store.WithinTx(ctx, func(g repositories.Gateway) error {
		t, err := g.Tickets().FindByPNR(ctx, pnr)
		if err != nil {
			return err
		}
		out, err = loadTicket(ctx, g, t)
		return err
	})
	return out, persistenceError(err)
}

// ListBookedTickets returns every non-cancelled ticket, newest first.
func (s TicketService) ListBookedTickets(ctx context.Context) ([]models.Ticket, error) {
	var out []models.Ticket
	err := s.Store.WithinTx(ctx, func(g repositories.Gateway) error {
		var err error
		out, err = g.Tickets().ListActiveWithPassengers(ctx)
		return err
	})
	return out, persistenceError(err)
}

// GetAvailabilitySummary reports remaining capacity per pool and the free confirmed berths.
func (s TicketService) GetAvailabilitySummary(ctx context.Context) (models.AvailabilitySummary, error) {
	var out models.AvailabilitySummary
	err := s.Store.WithinTx(ctx, func(g repositories.Gateway) error {
		st, err := g.Berths().Statistics(ctx)
		if err != nil {
			return err
		}
		berths, err := g.Berths().ListAvailableConfirmed(ctx)
		if err != nil {
			return err
		}
		out = models.AvailabilitySummary{
			Summary: models.AvailabilityCounts{
				AvailableConfirmed:    st.AvailableConfirmed,
				BookedConfirmed:       st.BookedConfirmed,
				RACPassengers:         st.RACPassengers,
				AvailableRAC:          s.Policy.RACPassengers() - st.RACPassengers,
				WaitingListPassengers: st.WaitingListPassengers,
				AvailableWaitingList:  s.Policy.WaitingList - st.WaitingListPassengers,
			},
			AvailableBerths: berths,
		}
		return nil
	})
	return out, persistenceError(err)
}
