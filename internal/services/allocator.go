package services

import (
	"context"
	"sort"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/config"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/repositories"
)

// Allocator holds the single-passenger placement rules shared by booking and
// the promotion cascade.
type Allocator struct {
	Policy config.CoachPolicy
}

func (a Allocator) seatRequired(p models.PassengerInput) bool { return p.Age >= a.Policy.ChildAge }

func (a Allocator) senior(p models.PassengerInput) bool { return p.Age >= a.Policy.SeniorAge }

func (a Allocator) femaleWithChildren(p models.PassengerInput) bool {
	return p.TravelingWithChildren && p.Gender == domain.GenderFemale
}

// PrefersLower reports whether p gets a lower berth first when one is free.
func (a Allocator) PrefersLower(p models.PassengerInput) bool {
	return a.senior(p) || a.femaleWithChildren(p)
}

func (a Allocator) rank(p models.PassengerInput) int {
	switch {
	case a.senior(p):
		return 0
	case a.femaleWithChildren(p):
		return 1
	}
	return 2
}

// Partition splits a batch into seat-required and seat-exempt passengers, keeping input order.
func (a Allocator) Partition(batch []models.PassengerInput) (seated, exempt []models.PassengerInput) {
	for _, p := range batch {
		if a.seatRequired(p) {
			seated = append(seated, p)
		} else {
			exempt = append(exempt, p)
		}
	}
	return seated, exempt
}

// Prioritize returns a copy of batch with seniors first, then women travelling
// with children, everyone else in input order.
func (a Allocator) Prioritize(batch []models.PassengerInput) []models.PassengerInput {
	out := append([]models.PassengerInput(nil), batch...)
	sort.SliceStable(out, func(i, j int) bool { return a.rank(out[i]) < a.rank(out[j]) })
	return out
}

// TakeConfirmed books a confirmed-type berth, trying a lower berth first when
// preferLower is set. It returns nil when no confirmed-type berth is free.
func (a Allocator) TakeConfirmed(ctx context.Context, g repositories.Gateway, preferLower bool) (*models.Berth, error) {
	var berth *models.Berth
	var err error
	if preferLower {
		if berth, err = g.Berths().FindAvailableLower(ctx); err != nil {
			return nil, err
		}
	}
	if berth == nil {
		if berth, err = g.Berths().FindAvailableConfirmed(ctx); err != nil {
			return nil, err
		}
	}
	if berth == nil {
		return nil, nil
	}
	if err := g.Berths().SetStatus(ctx, berth.ID, domain.BerthBooked); err != nil {
		return nil, err
	}
	return berth, nil
}

// TakeRAC reserves a slot on the least occupied RAC berth and marks the berth
// RAC when it was empty. It returns nil when every RAC berth is full.
func (a Allocator) TakeRAC(ctx context.Context, g repositories.Gateway) (*models.RACSlot, error) {
	slot, err := g.Berths().FindLeastOccupiedRAC(ctx)
	if err != nil || slot == nil {
		return nil, err
	}
	if slot.Occupants == 0 {
		if err := g.Berths().SetStatus(ctx, slot.ID, domain.BerthRAC); err != nil {
			return nil, err
		}
	}
	return slot, nil
}

// Place assigns one seat-required passenger to a confirmed berth or, failing
// that, a RAC slot. ok is false when both pools are exhausted.
func (a Allocator) Place(ctx context.Context, g repositories.Gateway, p models.PassengerInput) (upd models.PassengerUpdate, ok bool, err error) {
	berth, err := a.TakeConfirmed(ctx, g, a.PrefersLower(p))
	if err != nil {
		return upd, false, err
	}
	if berth != nil {
		id := berth.ID
		return models.PassengerUpdate{Status: domain.PassengerConfirmed, BerthID: &id}, true, nil
	}

	slot, err := a.TakeRAC(ctx, g)
	if err != nil {
		return upd, false, err
	}
	if slot != nil {
		id, pos := slot.ID, slot.NextPosition
		return models.PassengerUpdate{Status: domain.PassengerRAC, BerthID: &id, BerthPosition: &pos}, true, nil
	}
	return upd, false, nil
}
