package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBusTypeCapacity(t *testing.T) {
	assert.Equal(t, 30, BusType30.Capacity())
	assert.Equal(t, 56, BusType56.Capacity())
	assert.Equal(t, 70, BusType70.Capacity())
	assert.Equal(t, 0, BusType("40-seater").Capacity())
}

func TestBusTypeIsValid(t *testing.T) {
	assert.True(t, BusType56.IsValid())
	assert.False(t, BusType("").IsValid())
	assert.False(t, BusType("minibus").IsValid())
}

func TestIsValidSeatNumber(t *testing.T) {
	assert.True(t, IsValidSeatNumber(1, BusType30))
	assert.True(t, IsValidSeatNumber(30, BusType30))
	assert.False(t, IsValidSeatNumber(31, BusType30))
	assert.False(t, IsValidSeatNumber(0, BusType70))
	assert.False(t, IsValidSeatNumber(-3, BusType56))
	assert.True(t, IsValidSeatNumber(70, BusType70))
}

func TestNormalizeTravelDate(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	d := NormalizeTravelDate(time.Date(2024, 6, 1, 23, 45, 0, 0, loc))

	assert.Equal(t, time.UTC, d.Location())
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, 0, d.Minute())
	// 23:45 WAT is 22:45 UTC, still June 1st
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)
}

func TestSeatKeyOf(t *testing.T) {
	booking := &Booking{
		AgencyName: "Metro",
		BusNumber:  "MT-01",
		TravelDate: time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC),
	}

	key := SeatKeyOf(booking, 12)
	assert.Equal(t, "Metro", key.AgencyName)
	assert.Equal(t, "MT-01", key.BusNumber)
	assert.Equal(t, 12, key.SeatNumber)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), key.TravelDate)
	assert.Equal(t, "Metro/MT-01/2024-06-01/seat-12", key.String())
}

func TestSeatKeyEquality(t *testing.T) {
	a := &Booking{AgencyName: "Metro", BusNumber: "MT-01", TravelDate: time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)}
	b := &Booking{AgencyName: "Metro", BusNumber: "MT-01", TravelDate: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)}

	// Same calendar day, different departure instants: same contention unit.
	assert.Equal(t, SeatKeyOf(a, 7), SeatKeyOf(b, 7))
	assert.NotEqual(t, SeatKeyOf(a, 7), SeatKeyOf(b, 8))
}
