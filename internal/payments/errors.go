package payments

import (
	"errors"
	"fmt"

	"busly/internal/bookings"
)

var (
	// ErrPaymentNotPending is raised from the storage layer when the
	// status-guarded pending->initiated update matches no row.
	ErrPaymentNotPending = bookings.ErrPaymentNotPending
	ErrNotMomoBooking    = errors.New("booking is not payable by mobile money")
)

// InitiationError reports a failed gateway initiation. The booking's
// payment record has already been marked failed when this is returned.
type InitiationError struct {
	Reason string
	Err    error
}

func (e *InitiationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("payment initiation failed: %s", e.Reason)
	}
	return "payment processing failed"
}

func (e *InitiationError) Unwrap() error {
	return e.Err
}

// VerificationError reports a transport failure while querying the
// gateway. It means "outcome unknown", never "payment failed": the
// caller should retry; no payment state was mutated.
type VerificationError struct {
	TransactionID string
	Err           error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("payment verification failed for transaction %s", e.TransactionID)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}
