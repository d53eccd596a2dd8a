package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"busly/internal/bookings"
	"busly/pkg/logger"
)

// EventPublisher receives payment lifecycle events. A nil publisher
// disables publishing.
type EventPublisher interface {
	PaymentCompleted(ctx context.Context, booking *bookings.Booking)
}

// InitiateResponse is returned to the client after a successful
// gateway initiation
type InitiateResponse struct {
	TransactionID string    `json:"transactionId"`
	PaymentStatus string    `json:"paymentStatus"`
	Instructions  string    `json:"instructions,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// WebhookPayload is the gateway's asynchronous payment notification.
// Delivery is at-least-once; handling must be idempotent. Amount is in
// cents, matching the initiation payload.
type WebhookPayload struct {
	TransactionID string  `json:"transactionId"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
}

type Service interface {
	InitiatePayment(ctx context.Context, bookingID, userID uuid.UUID) (*InitiateResponse, error)
	VerifyPayment(ctx context.Context, transactionID string) (bool, error)
	HandleWebhook(ctx context.Context, payload *WebhookPayload) error
}

type service struct {
	repo      bookings.Repository
	gateway   Gateway
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewService creates a new payment service instance. publisher may be nil.
func NewService(repo bookings.Repository, gateway Gateway, publisher EventPublisher) Service {
	return &service{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		log:       logger.GetDefault(),
		now:       time.Now,
	}
}

// InitiatePayment asks the gateway to collect the booking total from the
// stored mobile-money number. Any gateway failure marks the payment
// failed so the booking never dangles in pending, and surfaces an
// InitiationError to the caller.
func (s *service) InitiatePayment(ctx context.Context, bookingID, userID uuid.UUID) (*InitiateResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, bookings.ErrNotOwner
	}
	if booking.Payment == nil || booking.Payment.Method != bookings.PaymentMethodMomo {
		return nil, ErrNotMomoBooking
	}
	if booking.Payment.Status != bookings.PaymentStatusPending {
		return nil, ErrPaymentNotPending
	}

	// The pending->initiated transition is the mutual-exclusion point.
	// The status-guarded update matches at most one concurrent claimant,
	// so the gateway is asked to collect at most once per booking; a
	// gateway failure below rolls the claim into failed.
	now := s.now()
	if err := s.repo.ClaimPaymentInitiation(ctx, bookingID, now); err != nil {
		return nil, err
	}

	s.log.LogPaymentInitiated(ctx, bookingID.String(), MaskMomoNumber(booking.Payment.MomoNumber), booking.TotalAmount)

	result, err := s.gateway.Initiate(ctx, &InitiateRequest{
		Amount:     booking.TotalAmount,
		MomoNumber: booking.Payment.MomoNumber,
		Reference:  "booking_" + bookingID.String(),
	})
	if err != nil {
		s.log.ErrorWithContext(ctx, "payment initiation failed", err, map[string]interface{}{
			"booking_id": bookingID.String(),
			"amount":     booking.TotalAmount,
		})

		// Local recovery: persist the failure so the booking is always
		// resumable from stored state alone.
		if markErr := s.repo.UpdatePayment(ctx, bookingID, map[string]interface{}{
			"status": bookings.PaymentStatusFailed,
		}); markErr != nil {
			s.log.ErrorWithContext(ctx, "failed to mark payment as failed", markErr, map[string]interface{}{
				"booking_id": bookingID.String(),
			})
		}

		return nil, &InitiationError{Reason: err.Error(), Err: err}
	}

	err = s.repo.UpdatePayment(ctx, bookingID, map[string]interface{}{
		"transaction_id": result.TransactionID,
	})
	if err != nil {
		return nil, err
	}

	return &InitiateResponse{
		TransactionID: result.TransactionID,
		PaymentStatus: string(bookings.PaymentStatusInitiated),
		Instructions:  result.Instructions,
		Timestamp:     now,
	}, nil
}

// VerifyPayment polls the gateway for the transaction outcome. A
// successful gateway status applies the completion transition
// idempotently; a non-success status returns false without touching any
// state, since only initiation failures and explicit webhooks may mark
// a payment failed. Transport failures surface as VerificationError so
// the polling caller knows to retry.
func (s *service) VerifyPayment(ctx context.Context, transactionID string) (bool, error) {
	status, err := s.gateway.GetStatus(ctx, transactionID)
	if err != nil {
		return false, &VerificationError{TransactionID: transactionID, Err: err}
	}

	if !status.Successful() {
		return false, nil
	}

	if err := s.completePayment(ctx, transactionID, nil); err != nil {
		return false, err
	}
	return true, nil
}

// HandleWebhook applies a gateway notification. Idempotent by
// transaction id: duplicates and already-completed payments no-op, and
// an unknown transaction is logged and acknowledged so the gateway does
// not retry forever.
func (s *service) HandleWebhook(ctx context.Context, payload *WebhookPayload) error {
	s.log.LogWebhookReceived(ctx, payload.TransactionID, payload.Status)

	if payload.Status != GatewayStatusSuccessful {
		return nil
	}

	amountReceived := payload.Amount / 100
	err := s.completePayment(ctx, payload.TransactionID, &amountReceived)
	if errors.Is(err, bookings.ErrBookingNotFound) {
		s.log.Warn("webhook for unknown transaction acknowledged",
			"transaction_id", payload.TransactionID)
		return nil
	}
	return err
}

func (s *service) completePayment(ctx context.Context, transactionID string, amountReceived *float64) error {
	booking, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return err
	}

	alreadyCompleted := booking.Payment != nil && booking.Payment.Status == bookings.PaymentStatusCompleted

	// Reconciliation is advisory: the authoritative signal is the
	// gateway reporting success, but a mismatched amount is worth a log.
	if amountReceived != nil && *amountReceived != booking.TotalAmount {
		s.log.Warn("webhook amount does not match booking total",
			"transaction_id", transactionID,
			"amount_received", *amountReceived,
			"total_amount", booking.TotalAmount)
	}

	if err := s.repo.ConfirmBookingPayment(ctx, booking.ID, amountReceived, s.now()); err != nil {
		return err
	}

	if !alreadyCompleted {
		s.log.LogPaymentCompleted(ctx, transactionID, booking.ID.String())
		if s.publisher != nil {
			booking.Status = bookings.StatusConfirmed
			s.publisher.PaymentCompleted(ctx, booking)
		}
	}
	return nil
}
