package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/config"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/db"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/repositories"
)

func smallPolicy() config.CoachPolicy {
	return config.CoachPolicy{
		ConfirmedBerths:         4,
		RACBerths:               1,
		RACPerBerth:             2,
		WaitingList:             2,
		ChildAge:                5,
		SeniorAge:               60,
		MaxPassengersPerBooking: 5,
	}
}

// sequentialPNR yields a distinct PNR per call.
func sequentialPNR() PNRGenerator {
	ms := int64(1_700_000_000_000)
	return PNRGenerator{
		Now:  func() time.Time { ms++; return time.UnixMilli(ms) },
		Rand: func(int) int { return 7 },
	}
}

func newTestService(policy config.CoachPolicy) (TicketService, *repositories.MemoryStore) {
	store := repositories.NewMemoryStore(db.CoachLayout(policy), policy.RACPerBerth)
	svc := NewTicketService(store, policy)
	svc.PNR = sequentialPNR()
	return svc, store
}

func adults(n int, prefix string) []models.PassengerInput {
	out := make([]models.PassengerInput, n)
	for i := range out {
		out[i] = models.PassengerInput{Name: fmt.Sprintf("%s %d", prefix, i+1), Age: 30, Gender: domain.GenderMale}
	}
	return out
}

func mustBook(t *testing.T, svc TicketService, batch []models.PassengerInput) models.Ticket {
	t.Helper()
	ticket, err := svc.BookTicket(context.Background(), batch)
	if err != nil {
		t.Fatalf("BookTicket returned error: %v", err)
	}
	return ticket
}

// fillAdults books n adults in batches of the maximum size.
func fillAdults(t *testing.T, svc TicketService, n int) {
	t.Helper()
	for n > 0 {
		size := svc.Policy.MaxPassengersPerBooking
		if n < size {
			size = n
		}
		mustBook(t, svc, adults(size, "Filler"))
		n -= size
	}
}

func findPassenger(t *testing.T, ticket models.Ticket, name string) models.Passenger {
	t.Helper()
	for _, p := range ticket.Passengers {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("passenger %q not in ticket %s", name, ticket.PNR)
	return models.Passenger{}
}

func ticketByPNR(t *testing.T, svc TicketService, pnr string) models.Ticket {
	t.Helper()
	ticket, err := svc.GetTicketByPNR(context.Background(), pnr)
	if err != nil {
		t.Fatalf("GetTicketByPNR(%s) returned error: %v", pnr, err)
	}
	return ticket
}

// assertInvariants checks the capacity ledger against the passengers it holds.
func assertInvariants(t *testing.T, svc TicketService) {
	t.Helper()
	ctx := context.Background()
	err := svc.Store.WithinTx(ctx, func(g repositories.Gateway) error {
		st, err := g.Berths().Statistics(ctx)
		if err != nil {
			return err
		}
		if st.AvailableConfirmed+st.BookedConfirmed != svc.Policy.ConfirmedBerths {
			t.Fatalf("confirmed berths: available %d + booked %d != %d", st.AvailableConfirmed, st.BookedConfirmed, svc.Policy.ConfirmedBerths)
		}
		confirmed, err := g.Passengers().CountByStatus(ctx, domain.PassengerConfirmed)
		if err != nil {
			return err
		}
		if confirmed != st.BookedConfirmed {
			t.Fatalf("confirmed passengers %d != booked berths %d", confirmed, st.BookedConfirmed)
		}
		if st.RACPassengers > svc.Policy.RACPassengers() {
			t.Fatalf("rac passengers %d exceed %d", st.RACPassengers, svc.Policy.RACPassengers())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("inspect store: %v", err)
	}

	tickets, err := svc.ListBookedTickets(ctx)
	if err != nil {
		t.Fatalf("ListBookedTickets returned error: %v", err)
	}
	type wl struct {
		id int64
		n  int
	}
	var waiting []wl
	onBerth := map[int64]int{}
	for _, tk := range tickets {
		for _, p := range tk.Passengers {
			switch p.Status {
			case domain.PassengerWaitingList:
				if p.WaitingListNumber == nil {
					t.Fatalf("waiting passenger %d has no number", p.ID)
				}
				waiting = append(waiting, wl{p.ID, *p.WaitingListNumber})
			case domain.PassengerRAC:
				onBerth[*p.BerthID]++
			}
		}
	}
	for id, n := range onBerth {
		if n > svc.Policy.RACPerBerth {
			t.Fatalf("rac berth %d holds %d passengers", id, n)
		}
	}
	if mem, ok := svc.Store.(*repositories.MemoryStore); ok {
		assertBerthStatuses(t, mem.Berths(), tickets)
	}
	for i := range waiting {
		for j := range waiting {
			if waiting[i].id < waiting[j].id && waiting[i].n >= waiting[j].n {
				t.Fatalf("waiting list not ordered by creation: %+v", waiting)
			}
		}
		if waiting[i].n < 1 || waiting[i].n > len(waiting) {
			t.Fatalf("waiting list not contiguous: %+v", waiting)
		}
	}
}

// assertBerthStatuses checks every berth's status against its occupants:
// AVAILABLE holds nobody, BOOKED holds one confirmed passenger, RAC holds at
// least one RAC passenger.
func assertBerthStatuses(t *testing.T, berths []models.Berth, tickets []models.Ticket) {
	t.Helper()
	confirmed := map[int64]int{}
	rac := map[int64]int{}
	for _, tk := range tickets {
		for _, p := range tk.Passengers {
			if p.BerthID == nil {
				continue
			}
			switch p.Status {
			case domain.PassengerConfirmed:
				confirmed[*p.BerthID]++
			case domain.PassengerRAC:
				rac[*p.BerthID]++
			}
		}
	}
	for _, b := range berths {
		c, r := confirmed[b.ID], rac[b.ID]
		var ok bool
		switch b.Status {
		case domain.BerthAvailable:
			ok = c == 0 && r == 0
		case domain.BerthBooked:
			ok = c == 1 && r == 0
		case domain.BerthRAC:
			ok = c == 0 && r >= 1
		}
		if !ok {
			t.Fatalf("berth %d (%s) is %s with %d confirmed and %d rac passengers", b.Number, b.Type, b.Status, c, r)
		}
	}
}
