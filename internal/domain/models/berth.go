package models

import "github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"

// Berth is one physical berth of the coach. Berths are seeded once and only
// their status changes afterwards.
type Berth struct {
	ID     int64              `db:"id" json:"id"`
	Number int                `db:"berth_number" json:"berth_number"`
	Type   domain.BerthType   `db:"berth_type" json:"berth_type"`
	Status domain.BerthStatus `db:"status" json:"status,omitempty"`
}

// RACSlot is a RAC-capable berth with room for at least one more passenger.
type RACSlot struct {
	Berth
	Occupants    int `db:"occupants"`
	NextPosition int `db:"next_position"`
}

// BerthStats aggregates coach occupancy by category.
type BerthStats struct {
	AvailableConfirmed    int `db:"available_confirmed" json:"available_confirmed"`
	BookedConfirmed       int `db:"booked_confirmed" json:"booked_confirmed"`
	RACPassengers         int `db:"rac_passengers" json:"rac_passengers"`
	WaitingListPassengers int `db:"waiting_list_passengers" json:"waiting_list_passengers"`
}

// AvailabilitySummary is the public view of remaining capacity.
type AvailabilitySummary struct {
	Summary         AvailabilityCounts `json:"summary"`
	AvailableBerths []Berth            `json:"available_berths"`
}

type AvailabilityCounts struct {
	AvailableConfirmed    int `json:"available_confirmed"`
	BookedConfirmed       int `json:"booked_confirmed"`
	RACPassengers         int `json:"rac_passengers"`
	AvailableRAC          int `json:"available_rac"`
	WaitingListPassengers int `json:"waiting_list_passengers"`
	AvailableWaitingList  int `json:"available_waiting_list"`
}
