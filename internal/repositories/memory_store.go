package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
)

// MemoryStore keeps the coach in process memory. Transactions run one at a
// time on a private copy of the state which replaces the committed state only
// when the callback succeeds.
type MemoryStore struct {
	mu          sync.Mutex
	state       memState
	racPerBerth int
	now         func() time.Time
}

type memState struct {
	berths     []models.Berth
	tickets    []models.Ticket
	passengers []models.Passenger
}

func (s memState) clone() memState {
	out := memState{
		berths:     append([]models.Berth(nil), s.berths...),
		tickets:    append([]models.Ticket(nil), s.tickets...),
		passengers: make([]models.Passenger, len(s.passengers)),
	}
	for i, p := range s.passengers {
		out.passengers[i] = clonePassenger(p)
	}
	return out
}

func clonePassenger(p models.Passenger) models.Passenger {
	p.BerthID = cloneInt64(p.BerthID)
	p.BerthPosition = cloneInt(p.BerthPosition)
	p.WaitingListNumber = cloneInt(p.WaitingListNumber)
	p.BerthNumber = nil
	p.BerthType = nil
	return p
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// NewMemoryStore seeds an empty store with layout. Berth ids are assigned from 1.
func NewMemoryStore(layout []models.Berth, racPerBerth int) *MemoryStore {
	berths := make([]models.Berth, len(layout))
	for i, b := range layout {
		b.ID = int64(i + 1)
		if b.Status == "" {
			b.Status = domain.BerthAvailable
		}
		berths[i] = b
	}
	return &MemoryStore{
		state:       memState{berths: berths},
		racPerBerth: racPerBerth,
		now:         time.Now,
	}
}

// SetClock replaces the booking-date clock; used by tests that need a stable order.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(Gateway) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	g := &memGateway{st: &work, racPerBerth: s.racPerBerth, now: s.now}
	if err := fn(g); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

// Berths returns a copy of the committed berth inventory ordered by number.
func (s *MemoryStore) Berths() []models.Berth {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Berth(nil), s.state.berths...)
}

type memGateway struct {
	st          *memState
	racPerBerth int
	now         func() time.Time
}

func (g *memGateway) Berths() BerthGateway         { return memBerths{g} }
func (g *memGateway) Tickets() TicketGateway       { return memTickets{g} }
func (g *memGateway) Passengers() PassengerGateway { return memPassengers{g} }

func (g *memGateway) berth(id int64) *models.Berth {
	if id <= 0 || int(id) > len(g.st.berths) {
		return nil
	}
	return &g.st.berths[id-1]
}

func (g *memGateway) ticket(id int64) *models.Ticket {
	if id <= 0 || int(id) > len(g.st.tickets) {
		return nil
	}
	return &g.st.tickets[id-1]
}

func (g *memGateway) passenger(id int64) *models.Passenger {
	if id <= 0 || int(id) > len(g.st.passengers) {
		return nil
	}
	return &g.st.passengers[id-1]
}

// withBerth returns a copy of p joined with its berth details.
func (g *memGateway) withBerth(p models.Passenger) models.Passenger {
	out := clonePassenger(p)
	if p.BerthID != nil {
		if b := g.berth(*p.BerthID); b != nil {
			n, t := b.Number, b.Type
			out.BerthNumber, out.BerthType = &n, &t
		}
	}
	return out
}

func (g *memGateway) racOccupants(berthID int64) []int {
	taken := []int{}
	for _, p := range g.st.passengers {
		if p.Status == domain.PassengerRAC && p.BerthID != nil && *p.BerthID == berthID {
			pos := 0
			if p.BerthPosition != nil {
				pos = *p.BerthPosition
			}
			taken = append(taken, pos)
		}
	}
	return taken
}

type memBerths struct{ g *memGateway }

func (m memBerths) first(match func(models.Berth) bool) *models.Berth {
	// berths are kept ordered by number
	for _, b := range m.g.st.berths {
		if match(b) {
			out := b
			return &out
		}
	}
	return nil
}

func (m memBerths) FindAvailableConfirmed(context.Context) (*models.Berth, error) {
	return m.first(func(b models.Berth) bool {
		return b.Status == domain.BerthAvailable && b.Type.ConfirmedType()
	}), nil
}

func (m memBerths) FindAvailableLower(context.Context) (*models.Berth, error) {
	return m.first(func(b models.Berth) bool {
		return b.Status == domain.BerthAvailable && b.Type == domain.BerthLower
	}), nil
}

func (m memBerths) FindLeastOccupiedRAC(context.Context) (*models.RACSlot, error) {
	var best *models.RACSlot
	for _, b := range m.g.st.berths {
		if !b.Type.RACType() || (b.Status != domain.BerthAvailable && b.Status != domain.BerthRAC) {
			continue
		}
		taken := m.g.racOccupants(b.ID)
		if len(taken) >= m.g.racPerBerth {
			continue
		}
		if best == nil || len(taken) < best.Occupants {
			best = &models.RACSlot{Berth: b, Occupants: len(taken), NextPosition: domain.LowestFreePosition(taken)}
		}
	}
	return best, nil
}

func (m memBerths) SetStatus(_ context.Context, id int64, status domain.BerthStatus) error {
	b := m.g.berth(id)
	if b == nil {
		return fmt.Errorf("berth %d does not exist", id)
	}
	b.Status = status
	return nil
}

func (m memBerths) Statistics(ctx context.Context) (models.BerthStats, error) {
	var st models.BerthStats
	for _, b := range m.g.st.berths {
		if !b.Type.ConfirmedType() {
			continue
		}
		switch b.Status {
		case domain.BerthAvailable:
			st.AvailableConfirmed++
		case domain.BerthBooked:
			st.BookedConfirmed++
		}
	}
	p := memPassengers{m.g}
	st.RACPassengers, _ = p.CountByStatus(ctx, domain.PassengerRAC)
	st.WaitingListPassengers, _ = p.CountByStatus(ctx, domain.PassengerWaitingList)
	return st, nil
}

func (m memBerths) ListAvailableConfirmed(context.Context) ([]models.Berth, error) {
	out := []models.Berth{}
	for _, b := range m.g.st.berths {
		if b.Status == domain.BerthAvailable && b.Type.ConfirmedType() {
			out = append(out, b)
		}
	}
	return out, nil
}

type memTickets struct{ g *memGateway }

func (m memTickets) Create(_ context.Context, pnr string, status domain.TicketStatus) (int64, error) {
	for _, t := range m.g.st.tickets {
		if t.PNR == pnr {
			return 0, fmt.Errorf("pnr %s: %w", pnr, domain.ErrDuplicatePNR)
		}
	}
	id := int64(len(m.g.st.tickets) + 1)
	m.g.st.tickets = append(m.g.st.tickets, models.Ticket{
		ID:          id,
		PNR:         pnr,
		Status:      status,
		BookingDate: m.g.now(),
	})
	return id, nil
}

func (m memTickets) SetStatus(_ context.Context, id int64, status domain.TicketStatus) error {
	t := m.g.ticket(id)
	if t == nil {
		return fmt.Errorf("ticket %d does not exist", id)
	}
	t.Status = status
	return nil
}

func (m memTickets) FindByPNR(_ context.Context, pnr string) (models.Ticket, error) {
	for _, t := range m.g.st.tickets {
		if t.PNR == pnr {
			return t, nil
		}
	}
	return models.Ticket{}, domain.NotFoundError{Resource: "ticket"}
}

func (m memTickets) FindByID(_ context.Context, id int64) (models.Ticket, error) {
	t := m.g.ticket(id)
	if t == nil {
		return models.Ticket{}, domain.NotFoundError{Resource: "ticket"}
	}
	return *t, nil
}

func (m memTickets) ListActiveWithPassengers(ctx context.Context) ([]models.Ticket, error) {
	out := []models.Ticket{}
	for _, t := range m.g.st.tickets {
		if t.Status == domain.TicketCancelled {
			continue
		}
		ps, _ := memPassengers{m.g}.ListByTicket(ctx, t.ID)
		if len(ps) == 0 {
			continue
		}
		t.Passengers = ps
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.After(out[j].BookingDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type memPassengers struct{ g *memGateway }

func (m memPassengers) Create(_ context.Context, p models.Passenger) (int64, error) {
	if m.g.ticket(p.TicketID) == nil {
		return 0, fmt.Errorf("ticket %d does not exist", p.TicketID)
	}
	if p.BerthID != nil && m.g.berth(*p.BerthID) == nil {
		return 0, fmt.Errorf("berth %d does not exist", *p.BerthID)
	}
	p = clonePassenger(p)
	p.ID = int64(len(m.g.st.passengers) + 1)
	m.g.st.passengers = append(m.g.st.passengers, p)
	return p.ID, nil
}

func (m memPassengers) Update(_ context.Context, id int64, upd models.PassengerUpdate) error {
	p := m.g.passenger(id)
	if p == nil {
		return fmt.Errorf("passenger %d does not exist", id)
	}
	if upd.BerthID != nil && m.g.berth(*upd.BerthID) == nil {
		return fmt.Errorf("berth %d does not exist", *upd.BerthID)
	}
	p.Status = upd.Status
	p.BerthID = cloneInt64(upd.BerthID)
	p.BerthPosition = cloneInt(upd.BerthPosition)
	p.WaitingListNumber = cloneInt(upd.WaitingListNumber)
	return nil
}

func (m memPassengers) OldestWithStatus(_ context.Context, status domain.PassengerStatus) (*models.Passenger, error) {
	for _, p := range m.g.st.passengers {
		if p.Status == status {
			out := clonePassenger(p)
			return &out, nil
		}
	}
	return nil, nil
}

func (m memPassengers) LowestWaitingList(context.Context) (*models.Passenger, error) {
	var best *models.Passenger
	for i := range m.g.st.passengers {
		p := &m.g.st.passengers[i]
		if p.Status != domain.PassengerWaitingList {
			continue
		}
		if best == nil || waitingNumber(p) < waitingNumber(best) {
			best = p
		}
	}
	if best == nil {
		return nil, nil
	}
	out := clonePassenger(*best)
	return &out, nil
}

func waitingNumber(p *models.Passenger) int {
	if p.WaitingListNumber == nil {
		return 0
	}
	return *p.WaitingListNumber
}

func (m memPassengers) ListByTicket(_ context.Context, ticketID int64) ([]models.Passenger, error) {
	out := []models.Passenger{}
	for _, p := range m.g.st.passengers {
		if p.TicketID == ticketID {
			out = append(out, m.g.withBerth(p))
		}
	}
	return out, nil
}

func (m memPassengers) RenumberWaitingList(context.Context) error {
	n := 0
	for i := range m.g.st.passengers {
		p := &m.g.st.passengers[i]
		if p.Status != domain.PassengerWaitingList {
			continue
		}
		n++
		num := n
		p.WaitingListNumber = &num
	}
	return nil
}

func (m memPassengers) CountByStatus(_ context.Context, status domain.PassengerStatus) (int, error) {
	n := 0
	for _, p := range m.g.st.passengers {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

func (m memPassengers) CountOnBerth(_ context.Context, berthID int64, status domain.PassengerStatus) (int, error) {
	n := 0
	for _, p := range m.g.st.passengers {
		if p.Status == status && p.BerthID != nil && *p.BerthID == berthID {
			n++
		}
	}
	return n, nil
}

func (m memPassengers) CancelAllByTicket(_ context.Context, ticketID int64) error {
	for i := range m.g.st.passengers {
		if m.g.st.passengers[i].TicketID == ticketID {
			m.g.st.passengers[i].Status = domain.PassengerCancelled
		}
	}
	return nil
}
