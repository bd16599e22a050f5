package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicatePNR is returned by the ticket store when a generated PNR already exists.
var ErrDuplicatePNR = errors.New("duplicate pnr")

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// CapacityError rejects a whole booking batch before any record is written.
type CapacityError struct {
	Requested   int
	Confirmed   int
	RAC         int
	WaitingList int
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("No tickets available. Requested=%d, Available: Confirmed=%d, RAC=%d, Waiting List=%d",
		e.Requested, e.Confirmed, e.RAC, e.WaitingList)
}

// WaitlistFullError aborts a booking mid-allocation; every write of the booking is rolled back.
type WaitlistFullError struct {
	Next  int
	Limit int
}

func (e WaitlistFullError) Error() string {
	return fmt.Sprintf("No tickets available. Waiting list is full (next=%d, limit=%d)", e.Next, e.Limit)
}

type AlreadyCancelledError struct {
	PNR string
}

func (e AlreadyCancelledError) Error() string {
	if e.PNR == "" {
		return "ticket is already cancelled"
	}
	return fmt.Sprintf("ticket %s is already cancelled", e.PNR)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsCapacity(err error) bool {
	var target CapacityError
	return errors.As(err, &target)
}

func IsWaitlistFull(err error) bool {
	var target WaitlistFullError
	return errors.As(err, &target)
}

func IsAlreadyCancelled(err error) bool {
	var target AlreadyCancelledError
	return errors.As(err, &target)
}
