package bookings

import (
	"fmt"
	"time"
)

// BusType is the capacity class of a bus
type BusType string

const (
	BusType30 BusType = "30-seater"
	BusType56 BusType = "56-seater"
	BusType70 BusType = "70-seater"
)

// Capacity returns the seat count for the bus type, or 0 for unknown types.
func (t BusType) Capacity() int {
	switch t {
	case BusType30:
		return 30
	case BusType56:
		return 56
	case BusType70:
		return 70
	}
	return 0
}

// IsValid reports whether the bus type is one of the known capacity classes.
func (t BusType) IsValid() bool {
	return t.Capacity() > 0
}

// IsValidSeatNumber reports whether n addresses a real seat on the given
// bus type. Seat numbering starts at 1.
func IsValidSeatNumber(n int, busType BusType) bool {
	return n >= 1 && n <= busType.Capacity()
}

// SeatKey is the unit of booking contention. Two reservations conflict
// exactly when their SeatKeys are equal and both are active.
type SeatKey struct {
	AgencyName string
	BusNumber  string
	TravelDate time.Time
	SeatNumber int
}

// SeatKeyOf builds the conflict key for one seat of a booking.
func SeatKeyOf(b *Booking, seatNumber int) SeatKey {
	return SeatKey{
		AgencyName: b.AgencyName,
		BusNumber:  b.BusNumber,
		TravelDate: NormalizeTravelDate(b.TravelDate),
		SeatNumber: seatNumber,
	}
}

func (k SeatKey) String() string {
	return fmt.Sprintf("%s/%s/%s/seat-%d", k.AgencyName, k.BusNumber, k.TravelDate.Format("2006-01-02"), k.SeatNumber)
}

// NormalizeTravelDate truncates a timestamp to calendar-date granularity
// in UTC. Contention is per travel day, not per departure instant.
func NormalizeTravelDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
