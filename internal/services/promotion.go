package services

import (
	"context"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/repositories"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/utils"
)

const cancelledMessage = "Ticket cancelled successfully"

type cascadeReport struct {
	RACToConfirmed     int
	WaitingToConfirmed int
	WaitingToRAC       int
}

// CancelTicket cancels every passenger of the ticket, frees its confirmed
// berths and promotes RAC and waiting-list passengers into the freed capacity.
func (s TicketService) CancelTicket(ctx context.Context, pnr string) (models.CancelResult, error) {
	var report cascadeReport
	err := s.Store.WithinTx(ctx, func(g repositories.Gateway) error {
		t, err := g.Tickets().FindByPNR(ctx, pnr)
		if err != nil {
			return err
		}
		if t.Status == domain.TicketCancelled {
			return domain.AlreadyCancelledError{PNR: t.PNR}
		}
		passengers, err := g.Passengers().ListByTicket(ctx, t.ID)
		if err != nil {
			return err
		}

		if err := g.Tickets().SetStatus(ctx, t.ID, domain.TicketCancelled); err != nil {
			return err
		}
		if err := g.Passengers().CancelAllByTicket(ctx, t.ID); err != nil {
			return err
		}
		var racBerths []int64
		for _, p := range passengers {
			if p.BerthID == nil {
				continue
			}
			switch p.Status {
			case domain.PassengerConfirmed:
				if err := g.Berths().SetStatus(ctx, *p.BerthID, domain.BerthAvailable); err != nil {
					return err
				}
			case domain.PassengerRAC:
				racBerths = append(racBerths, *p.BerthID)
			}
		}

		if report, err = s.cascade(ctx, g); err != nil {
			return err
		}
		for _, id := range racBerths {
			if err := releaseIfEmpty(ctx, g, id); err != nil {
				return err
			}
		}
		return g.Passengers().RenumberWaitingList(ctx)
	})
	if err != nil {
		utils.LogEventf(ctx, "cancel", "cancel_failed", "pnr=%s err=%v", pnr, err)
		return models.CancelResult{}, persistenceError(err)
	}
	utils.LogEventf(ctx, "cancel", "cancel", "pnr=%s rac_to_confirmed=%d wl_to_confirmed=%d wl_to_rac=%d",
		pnr, report.RACToConfirmed, report.WaitingToConfirmed, report.WaitingToRAC)
	return models.CancelResult{Message: cancelledMessage, PNR: pnr}, nil
}

// cascade runs the three promotion phases in order. Each phase is capped at the
// number of passengers eligible when it starts.
func (s TicketService) cascade(ctx context.Context, g repositories.Gateway) (cascadeReport, error) {
	var r cascadeReport
	alloc := s.allocator()

	racCount, err := g.Passengers().CountByStatus(ctx, domain.PassengerRAC)
	if err != nil {
		return r, err
	}
	for i := 0; i < racCount; i++ {
		ok, err := promoteRAC(ctx, g, alloc)
		if err != nil {
			return r, err
		}
		if !ok {
			break
		}
		r.RACToConfirmed++
	}

	waiting, err := g.Passengers().CountByStatus(ctx, domain.PassengerWaitingList)
	if err != nil {
		return r, err
	}
	for i := 0; i < waiting; i++ {
		ok, err := promoteWaiting(ctx, g, alloc, false)
		if err != nil {
			return r, err
		}
		if !ok {
			break
		}
		r.WaitingToConfirmed++
	}

	if waiting, err = g.Passengers().CountByStatus(ctx, domain.PassengerWaitingList); err != nil {
		return r, err
	}
	for i := 0; i < waiting; i++ {
		ok, err := promoteWaiting(ctx, g, alloc, true)
		if err != nil {
			return r, err
		}
		if !ok {
			break
		}
		r.WaitingToRAC++
	}
	return r, nil
}

// promoteRAC moves the oldest RAC passenger onto a free confirmed berth.
func promoteRAC(ctx context.Context, g repositories.Gateway, alloc Allocator) (bool, error) {
	p, err := g.Passengers().OldestWithStatus(ctx, domain.PassengerRAC)
	if err != nil || p == nil {
		return false, err
	}
	berth, err := alloc.TakeConfirmed(ctx, g, false)
	if err != nil {
		return false, err
	}
	if berth == nil {
		utils.LogEventf(ctx, "cascade", "rac_dead_end", "passenger_id=%d no confirmed berth free", p.ID)
		return false, nil
	}
	id := berth.ID
	if err := g.Passengers().Update(ctx, p.ID, models.PassengerUpdate{Status: domain.PassengerConfirmed, BerthID: &id}); err != nil {
		return false, err
	}
	if p.BerthID != nil {
		if err := releaseIfEmpty(ctx, g, *p.BerthID); err != nil {
			return false, err
		}
	}
	return true, refreshTicketStatus(ctx, g, p.TicketID)
}

// promoteWaiting moves the head of the waiting list onto a confirmed berth, or
// onto a RAC slot when toRAC is set.
func promoteWaiting(ctx context.Context, g repositories.Gateway, alloc Allocator, toRAC bool) (bool, error) {
	p, err := g.Passengers().LowestWaitingList(ctx)
	if err != nil || p == nil {
		return false, err
	}

	var upd models.PassengerUpdate
	if toRAC {
		slot, err := alloc.TakeRAC(ctx, g)
		if err != nil || slot == nil {
			return false, err
		}
		id, pos := slot.ID, slot.NextPosition
		upd = models.PassengerUpdate{Status: domain.PassengerRAC, BerthID: &id, BerthPosition: &pos}
	} else {
		berth, err := alloc.TakeConfirmed(ctx, g, false)
		if err != nil || berth == nil {
			return false, err
		}
		id := berth.ID
		upd = models.PassengerUpdate{Status: domain.PassengerConfirmed, BerthID: &id}
	}

	if err := g.Passengers().Update(ctx, p.ID, upd); err != nil {
		return false, err
	}
	if err := refreshTicketStatus(ctx, g, p.TicketID); err != nil {
		return false, err
	}
	return true, g.Passengers().RenumberWaitingList(ctx)
}

// releaseIfEmpty marks a RAC berth AVAILABLE once nobody holds a slot on it.
func releaseIfEmpty(ctx context.Context, g repositories.Gateway, berthID int64) error {
	n, err := g.Passengers().CountOnBerth(ctx, berthID, domain.PassengerRAC)
	if err != nil || n > 0 {
		return err
	}
	return g.Berths().SetStatus(ctx, berthID, domain.BerthAvailable)
}

func refreshTicketStatus(ctx context.Context, g repositories.Gateway, ticketID int64) error {
	ps, err := g.Passengers().ListByTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	statuses := make([]domain.PassengerStatus, 0, len(ps))
	for _, p := range ps {
		statuses = append(statuses, p.Status)
	}
	return g.Tickets().SetStatus(ctx, ticketID, domain.TicketStatusFor(statuses))
}
