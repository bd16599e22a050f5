package domain

// BerthType is the physical kind of a berth in the coach.
type BerthType string

const (
	BerthLower     BerthType = "LOWER"
	BerthMiddle    BerthType = "MIDDLE"
	BerthUpper     BerthType = "UPPER"
	BerthSideLower BerthType = "SIDE_LOWER"
	BerthSideUpper BerthType = "SIDE_UPPER"
)

// ConfirmedType reports whether a single confirmed passenger can hold the berth.
func (t BerthType) ConfirmedType() bool {
	switch t {
	case BerthLower, BerthMiddle, BerthUpper:
		return true
	}
	return false
}

// RACType reports whether the berth can be shared by RAC passengers.
func (t BerthType) RACType() bool { return t == BerthSideLower }

// BerthStatus reflects the occupancy of a berth.
type BerthStatus string

const (
	BerthAvailable BerthStatus = "AVAILABLE"
	BerthBooked    BerthStatus = "BOOKED"
	BerthRAC       BerthStatus = "RAC"
)

// TicketStatus is the aggregate status of a reservation.
type TicketStatus string

const (
	TicketConfirmed   TicketStatus = "CONFIRMED"
	TicketRAC         TicketStatus = "RAC"
	TicketWaitingList TicketStatus = "WAITING_LIST"
	TicketCancelled   TicketStatus = "CANCELLED"
)

// PassengerStatus is one passenger's allocation state.
type PassengerStatus string

const (
	PassengerConfirmed   PassengerStatus = "CONFIRMED"
	PassengerRAC         PassengerStatus = "RAC"
	PassengerWaitingList PassengerStatus = "WAITING_LIST"
	PassengerNoBerth     PassengerStatus = "NO_BERTH"
	PassengerCancelled   PassengerStatus = "CANCELLED"
)

// Gender as accepted at booking time.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// TicketStatusFor derives a ticket status from its passengers' statuses:
// any waiting passenger keeps the ticket on the waiting list, otherwise any
// RAC passenger makes it RAC, otherwise it is confirmed.
func TicketStatusFor(statuses []PassengerStatus) TicketStatus {
	hasRAC := false
	for _, s := range statuses {
		switch s {
		case PassengerWaitingList:
			return TicketWaitingList
		case PassengerRAC:
			hasRAC = true
		}
	}
	if hasRAC {
		return TicketRAC
	}
	return TicketConfirmed
}

// LowestFreePosition returns the smallest slot number (from 1) not present in taken.
func LowestFreePosition(taken []int) int {
	used := make(map[int]bool, len(taken))
	for _, p := range taken {
		used[p] = true
	}
	pos := 1
	for used[pos] {
		pos++
	}
	return pos
}
