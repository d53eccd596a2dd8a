package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType classifies a booking lifecycle event
type EventType string

const (
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventPaymentCompleted EventType = "payment.completed"
)

// BookingEvent is the message published to the booking events topic.
// Partitioned by booking reference so events for one booking stay ordered.
type BookingEvent struct {
	ID               uuid.UUID `json:"id"`
	Type             EventType `json:"type"`
	BookingID        uuid.UUID `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	UserID           uuid.UUID `json:"user_id"`
	AgencyName       string    `json:"agency_name"`
	BusNumber        string    `json:"bus_number"`
	Route            string    `json:"route"`
	TravelDate       time.Time `json:"travel_date"`
	SeatCount        int       `json:"seat_count"`
	TotalAmount      float64   `json:"total_amount"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// PartitionKey routes all events of one booking to the same partition.
func (e *BookingEvent) PartitionKey() string {
	return e.BookingReference
}

// ToJSON serializes the event for the wire.
func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
