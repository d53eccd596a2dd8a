package bookings

import (
	"time"

	"github.com/google/uuid"
)

// CreateBookingResponse is returned on successful booking creation.
// PaymentRequired tells the client to call the payment initiation
// endpoint for momo bookings.
type CreateBookingResponse struct {
	Booking         *Booking `json:"booking"`
	PaymentRequired bool     `json:"paymentRequired"`
}

// TripSummary is a trimmed booking view for history/upcoming listings
type TripSummary struct {
	ID          uuid.UUID `json:"id"`
	Reference   string    `json:"reference"`
	Agency      string    `json:"agency"`
	Route       string    `json:"route"`
	Seats       int       `json:"seats"`
	TotalAmount float64   `json:"totalAmount"`
	TravelDate  time.Time `json:"date"`
	Status      Status    `json:"status"`
}

// NewTripSummary projects a booking onto the listing shape.
func NewTripSummary(b *Booking) TripSummary {
	return TripSummary{
		ID:          b.ID,
		Reference:   b.BookingReference,
		Agency:      b.AgencyName,
		Route:       b.Route(),
		Seats:       len(b.Seats),
		TotalAmount: b.TotalAmount,
		TravelDate:  b.TravelDate,
		Status:      b.Status,
	}
}
