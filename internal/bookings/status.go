package bookings

// Status represents the lifecycle state of a booking
type Status string

const (
	// StatusPending means the booking awaits mobile-money payment confirmation
	StatusPending Status = "pending"
	// StatusConfirmed means the seats are held for travel
	StatusConfirmed Status = "confirmed"
	// StatusCancelled means the booking was voided and its seats freed
	StatusCancelled Status = "cancelled"
	// StatusCompleted means the travel date has passed
	StatusCompleted Status = "completed"
)

// IsFinal reports whether the booking can no longer be cancelled.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PaymentMethod is how a booking is paid for
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodMomo PaymentMethod = "momo"
)

// IsValid reports whether the payment method is supported.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodMomo
}

// PaymentStatus tracks the gateway interaction for a momo booking.
// It moves pending -> initiated -> completed | failed; completed and
// failed are terminal.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// IsTerminal reports whether the payment can no longer change state.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}
