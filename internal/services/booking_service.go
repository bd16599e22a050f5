package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/repositories"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/utils"
)

const maxPNRAttempts = 3

// BookTicket allocates berths for a batch of passengers under one new ticket.
// The batch is rejected with CapacityError when the seat-required passengers
// exceed the combined confirmed, RAC and waiting-list room, and rolled back
// entirely with WaitlistFullError if the waiting list overflows mid-way.
func (s TicketService) BookTicket(ctx context.Context, batch []models.PassengerInput) (models.Ticket, error) {
	if len(batch) == 0 {
		return models.Ticket{}, domain.ValidationError{Field: "passengers", Msg: "at least one passenger is required"}
	}
	if limit := s.Policy.MaxPassengersPerBooking; limit > 0 && len(batch) > limit {
		return models.Ticket{}, domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("a maximum of %d passengers can be booked at once", limit)}
	}

	var out models.Ticket
	err := s.Store.WithinTx(ctx, func(g repositories.Gateway) error {
		id, err := s.book(ctx, g, batch)
		if err != nil {
			return err
		}
		t, err := g.Tickets().FindByID(ctx, id)
		if err != nil {
			return err
		}
		out, err = loadTicket(ctx, g, t)
		return err
	})
	if err != nil {
		utils.LogEventf(ctx, "booking", "book_failed", "passengers=%d err=%v", len(batch), err)
		return models.Ticket{}, persistenceError(err)
	}

	counts := map[domain.PassengerStatus]int{}
	for _, p := range out.Passengers {
		counts[p.Status]++
	}
	utils.LogEventf(ctx, "booking", "book", "pnr=%s status=%s confirmed=%d rac=%d waiting=%d no_berth=%d",
		out.PNR, out.Status, counts[domain.PassengerConfirmed], counts[domain.PassengerRAC],
		counts[domain.PassengerWaitingList], counts[domain.PassengerNoBerth])
	return out, nil
}

func (s TicketService) book(ctx context.Context, g repositories.Gateway, batch []models.PassengerInput) (int64, error) {
	alloc := s.allocator()
	seated, exempt := alloc.Partition(batch)

	confirmed, err := g.Passengers().CountByStatus(ctx, domain.PassengerConfirmed)
	if err != nil {
		return 0, err
	}
	rac, err := g.Passengers().CountByStatus(ctx, domain.PassengerRAC)
	if err != nil {
		return 0, err
	}
	waiting, err := g.Passengers().CountByStatus(ctx, domain.PassengerWaitingList)
	if err != nil {
		return 0, err
	}

	room := domain.CapacityError{
		Requested:   len(seated),
		Confirmed:   s.Policy.ConfirmedBerths - confirmed,
		RAC:         s.Policy.RACPassengers() - rac,
		WaitingList: s.Policy.WaitingList - waiting,
	}
	if len(seated) > room.Confirmed+room.RAC+room.WaitingList {
		return 0, room
	}

	ticketID, err := s.createTicket(ctx, g)
	if err != nil {
		return 0, err
	}

	for _, p := range exempt {
		if _, err := g.Passengers().Create(ctx, newPassenger(ticketID, p, models.PassengerUpdate{Status: domain.PassengerNoBerth})); err != nil {
			return 0, err
		}
	}

	ticketStatus := domain.TicketConfirmed
	nextWaiting := waiting + 1
	for _, p := range alloc.Prioritize(seated) {
		upd, ok, err := alloc.Place(ctx, g, p)
		if err != nil {
			return 0, err
		}
		if !ok {
			if nextWaiting > s.Policy.WaitingList {
				return 0, domain.WaitlistFullError{Next: nextWaiting, Limit: s.Policy.WaitingList}
			}
			n := nextWaiting
			nextWaiting++
			upd = models.PassengerUpdate{Status: domain.PassengerWaitingList, WaitingListNumber: &n}
			if ticketStatus == domain.TicketConfirmed {
				ticketStatus = domain.TicketWaitingList
				if err := g.Tickets().SetStatus(ctx, ticketID, ticketStatus); err != nil {
					return 0, err
				}
			}
		}
		if _, err := g.Passengers().Create(ctx, newPassenger(ticketID, p, upd)); err != nil {
			return 0, err
		}
	}
	return ticketID, nil
}

// createTicket inserts the ticket row, regenerating the PNR on collision.
func (s TicketService) createTicket(ctx context.Context, g repositories.Gateway) (int64, error) {
	var lastErr error
	for attempt := 0; attempt < maxPNRAttempts; attempt++ {
		pnr := s.PNR.Next()
		id, err := g.Tickets().Create(ctx, pnr, domain.TicketConfirmed)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, domain.ErrDuplicatePNR) {
			return 0, err
		}
		lastErr = err
		utils.LogEventf(ctx, "booking", "pnr_collision", "pnr=%s attempt=%d", pnr, attempt+1)
	}
	return 0, domain.ConflictError{Resource: "ticket", Msg: "could not allocate a unique pnr", Err: lastErr}
}

func newPassenger(ticketID int64, in models.PassengerInput, upd models.PassengerUpdate) models.Passenger {
	return models.Passenger{
		TicketID:          ticketID,
		Name:              in.Name,
		Age:               in.Age,
		Gender:            in.Gender,
		BerthID:           upd.BerthID,
		BerthPosition:     upd.BerthPosition,
		Status:            upd.Status,
		WaitingListNumber: upd.WaitingListNumber,
	}
}
