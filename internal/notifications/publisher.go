package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"busly/internal/bookings"
	"busly/pkg/logger"
)

// publishTimeout bounds a single background publish so a broker outage
// cannot pile up goroutines forever.
const publishTimeout = 10 * time.Second

// Publisher adapts the Kafka producer to the event hooks the booking and
// payment services expect. Publishing happens off the request path; a
// failed publish is logged, never surfaced to the user.
type Publisher struct {
	producer EventProducer
	log      *logger.Logger
}

func NewPublisher(producer EventProducer) *Publisher {
	return &Publisher{
		producer: producer,
		log:      logger.GetDefault(),
	}
}

// BookingConfirmed publishes a confirmation event for a booking.
func (p *Publisher) BookingConfirmed(ctx context.Context, booking *bookings.Booking) {
	p.publishAsync(eventFromBooking(EventBookingConfirmed, booking))
}

// BookingCancelled publishes a cancellation event for a booking.
func (p *Publisher) BookingCancelled(ctx context.Context, booking *bookings.Booking) {
	p.publishAsync(eventFromBooking(EventBookingCancelled, booking))
}

// PaymentCompleted publishes a payment completion event for a booking.
func (p *Publisher) PaymentCompleted(ctx context.Context, booking *bookings.Booking) {
	p.publishAsync(eventFromBooking(EventPaymentCompleted, booking))
}

func (p *Publisher) publishAsync(event *BookingEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.producer.Publish(ctx, event); err != nil {
			p.log.Error("failed to publish booking event",
				"type", string(event.Type),
				"booking_reference", event.BookingReference,
				"error", err)
		}
	}()
}

func eventFromBooking(eventType EventType, booking *bookings.Booking) *BookingEvent {
	return &BookingEvent{
		ID:               uuid.New(),
		Type:             eventType,
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		UserID:           booking.UserID,
		AgencyName:       booking.AgencyName,
		BusNumber:        booking.BusNumber,
		Route:            booking.Route(),
		TravelDate:       booking.TravelDate,
		SeatCount:        len(booking.Seats),
		TotalAmount:      booking.TotalAmount,
		OccurredAt:       time.Now(),
	}
}
