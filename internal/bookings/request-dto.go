package bookings

import "time"

// AgencyRef identifies the bus being booked
type AgencyRef struct {
	Name      string  `json:"name" validate:"required"`
	BusNumber string  `json:"busNumber" validate:"required"`
	BusType   BusType `json:"busType" validate:"required,oneof=30-seater 56-seater 70-seater"`
}

// SeatRequest is one seat plus its passenger
type SeatRequest struct {
	SeatNumber       int    `json:"seatNumber" validate:"required,gt=0"`
	PassengerName    string `json:"passengerName" validate:"required"`
	PassengerContact string `json:"passengerContact" validate:"required"`
}

// PaymentRequest selects the payment method for a booking
type PaymentRequest struct {
	Method     PaymentMethod `json:"method" validate:"required,oneof=cash momo"`
	MomoNumber string        `json:"momoNumber,omitempty"`
}

// CreateBookingRequest is the booking creation payload
type CreateBookingRequest struct {
	KickoffLocation string         `json:"kickoffLocation" validate:"required"`
	Destination     string         `json:"destination" validate:"required"`
	Agency          AgencyRef      `json:"agency" validate:"required"`
	Seats           []SeatRequest  `json:"seats" validate:"required,min=1,dive"`
	BookingPrice    float64        `json:"bookingPrice" validate:"required,gt=0"`
	ServiceFee      float64        `json:"serviceFee" validate:"gte=0"`
	TotalAmount     *float64       `json:"totalAmount,omitempty"`
	Payment         PaymentRequest `json:"payment" validate:"required"`
	TravelDate      time.Time      `json:"travelDate" validate:"required"`
}
