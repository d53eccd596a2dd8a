package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is the root entity of the ledger. Its seats are written in the
// same transaction as the booking row, so a booking and its reservations
// are always visible as a single atomic unit.
type Booking struct {
	ID               uuid.UUID     `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	BookingReference string        `json:"booking_reference" gorm:"uniqueIndex;not null"`
	UserID           uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	AgencyName       string        `json:"agency_name" gorm:"not null"`
	BusNumber        string        `json:"bus_number" gorm:"not null"`
	BusType          BusType       `json:"bus_type" gorm:"type:varchar(20);not null"`
	KickoffLocation  string        `json:"kickoff_location" gorm:"not null"`
	Destination      string        `json:"destination" gorm:"not null"`
	TravelDate       time.Time     `json:"travel_date" gorm:"type:date;not null;index"`
	BookingPrice     float64       `json:"booking_price" gorm:"not null"`
	ServiceFee       float64       `json:"service_fee" gorm:"not null"`
	TotalAmount      float64       `json:"total_amount" gorm:"not null"`
	Status           Status        `json:"status" gorm:"type:varchar(20);not null;index"`
	Seats            []BookingSeat `json:"seats" gorm:"foreignKey:BookingID"`
	Payment          *Payment      `json:"payment,omitempty" gorm:"foreignKey:BookingID"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// Route returns the human-readable route of the booking.
func (b *Booking) Route() string {
	return b.KickoffLocation + " → " + b.Destination
}

// SeatNumbers returns the seat numbers of the booking in request order.
func (b *Booking) SeatNumbers() []int {
	numbers := make([]int, len(b.Seats))
	for i, seat := range b.Seats {
		numbers[i] = seat.SeatNumber
	}
	return numbers
}

// BookingSeat is one reserved seat. The conflict key columns are
// denormalized from the parent booking so the partial unique index
// over (agency_name, bus_number, travel_date, seat_number) WHERE active
// can guard double-booking without a join. Cancellation flips active
// to false, which frees the seat for reuse while keeping history.
type BookingSeat struct {
	ID               uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	BookingID        uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	AgencyName       string    `json:"agency_name" gorm:"not null"`
	BusNumber        string    `json:"bus_number" gorm:"not null"`
	TravelDate       time.Time `json:"travel_date" gorm:"type:date;not null"`
	SeatNumber       int       `json:"seat_number" gorm:"not null"`
	PassengerName    string    `json:"passenger_name" gorm:"not null"`
	PassengerContact string    `json:"passenger_contact" gorm:"not null"`
	Active           bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName sets the table name for BookingSeat
func (BookingSeat) TableName() string {
	return "booking_seats"
}

// Payment is the gateway-facing sub-record of a booking. Mutated only by
// the payment workflow.
type Payment struct {
	ID             uuid.UUID     `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	BookingID      uuid.UUID     `json:"booking_id" gorm:"type:uuid;not null;uniqueIndex"`
	Method         PaymentMethod `json:"method" gorm:"type:varchar(10);not null"`
	Status         PaymentStatus `json:"status" gorm:"type:varchar(20);not null"`
	MomoNumber     string        `json:"momo_number,omitempty"`
	TransactionID  *string       `json:"transaction_id,omitempty"`
	AmountReceived *float64      `json:"amount_received,omitempty"`
	InitiatedAt    *time.Time    `json:"initiated_at,omitempty"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}
