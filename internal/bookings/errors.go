package bookings

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrAlreadyFinalized    = errors.New("booking is already completed or cancelled")
	ErrPaymentNotPending   = errors.New("payment has already been initiated or settled")
	ErrNotOwner            = errors.New("booking belongs to another user")
	ErrMomoNumberRequired  = errors.New("mobile money number is required for momo payments")
	ErrTotalAmountMismatch = errors.New("total amount must equal booking price plus service fee")
)

// SeatOutOfRangeError reports a seat number that does not exist on the
// requested bus type.
type SeatOutOfRangeError struct {
	SeatNumber int
	BusType    BusType
}

func (e *SeatOutOfRangeError) Error() string {
	return fmt.Sprintf("seat %d does not exist on a %s (capacity %d)", e.SeatNumber, e.BusType, e.BusType.Capacity())
}

// DuplicateSeatError reports a seat number requested more than once
// within a single booking request.
type DuplicateSeatError struct {
	SeatNumbers []int
}

func (e *DuplicateSeatError) Error() string {
	return fmt.Sprintf("duplicate seat number(s) in request: %s", joinSeats(e.SeatNumbers))
}

// SeatConflictError reports seats that are already held by another active
// booking on the same bus and travel date.
type SeatConflictError struct {
	SeatNumbers []int
	BusNumber   string
	TravelDate  time.Time
}

func (e *SeatConflictError) Error() string {
	seats := joinSeats(e.SeatNumbers)
	noun := "Seats"
	verb := "are"
	if len(e.SeatNumbers) == 1 {
		noun = "Seat"
		verb = "is"
	}
	return fmt.Sprintf("%s %s %s already booked on bus %s for %s",
		noun, seats, verb, e.BusNumber, e.TravelDate.Format("2006-01-02"))
}

func joinSeats(seats []int) string {
	sorted := make([]int, len(seats))
	copy(sorted, seats)
	sort.Ints(sorted)

	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
