package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStats aggregates a user's booking counts for the stats endpoint.
type UserStats struct {
	TotalBookings int64 `json:"totalBookings"`
	PastTrips     int64 `json:"pastTrips"`
	UpcomingTrips int64 `json:"upcomingTrips"`
}

type Repository interface {
	// Write path
	CreateBooking(ctx context.Context, booking *Booking) error
	CancelBooking(ctx context.Context, bookingID uuid.UUID, cancelledAt time.Time) error

	// Lookups
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*Booking, error)

	// User projections
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	GetUserStats(ctx context.Context, userID uuid.UUID, now time.Time) (*UserStats, error)
	ListHistory(ctx context.Context, userID uuid.UUID, now time.Time) ([]Booking, error)
	ListUpcoming(ctx context.Context, userID uuid.UUID, now time.Time) ([]Booking, error)

	// Payment bookkeeping (used by the payment workflow)
	ClaimPaymentInitiation(ctx context.Context, bookingID uuid.UUID, initiatedAt time.Time) error
	UpdatePayment(ctx context.Context, bookingID uuid.UUID, updates map[string]interface{}) error
	ConfirmBookingPayment(ctx context.Context, bookingID uuid.UUID, amountReceived *float64, completedAt time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateBooking persists the booking, its seats and its payment record in
// one transaction. The partial unique index on booking_seats rejects the
// whole transaction if any seat is already actively held, so concurrent
// requests for the same seat can never both commit. A unique violation
// surfaces as gorm.ErrDuplicatedKey (TranslateError); the caller
// disambiguates seat conflicts from reference collisions.
func (r *repository) CreateBooking(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Preload("Payment").
		First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Preload("Payment").
		First(&booking, "booking_reference = ?", reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByTransactionID(ctx context.Context, transactionID string) (*Booking, error) {
	var payment Payment
	err := r.db.WithContext(ctx).
		First(&payment, "transaction_id = ?", transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, payment.BookingID)
}

// CancelBooking flips the booking to cancelled and deactivates its seats
// in one transaction. Deactivating the seat rows is what frees the seats:
// the unique index only covers active rows.
func (r *repository) CancelBooking(ctx context.Context, bookingID uuid.UUID, cancelledAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Booking{}).
			Where("id = ? AND status NOT IN ?", bookingID, []Status{StatusCompleted, StatusCancelled}).
			Updates(map[string]interface{}{
				"status":       StatusCancelled,
				"cancelled_at": cancelledAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Zero rows means either the booking does not exist or it hit
			// a final status between the caller's read and this write.
			var count int64
			if err := tx.Model(&Booking{}).Where("id = ?", bookingID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrBookingNotFound
			}
			return ErrAlreadyFinalized
		}

		return tx.Model(&BookingSeat{}).
			Where("booking_id = ?", bookingID).
			Update("active", false).Error
	})
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Preload("Payment").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) GetUserStats(ctx context.Context, userID uuid.UUID, now time.Time) (*UserStats, error) {
	stats := &UserStats{}

	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("user_id = ? AND status = ?", userID, StatusConfirmed).
		Count(&stats.TotalBookings).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Model(&Booking{}).
		Where("user_id = ? AND status = ? AND travel_date < ?", userID, StatusCompleted, now).
		Count(&stats.PastTrips).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Model(&Booking{}).
		Where("user_id = ? AND status = ? AND travel_date >= ?", userID, StatusConfirmed, now).
		Count(&stats.UpcomingTrips).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *repository) ListHistory(ctx context.Context, userID uuid.UUID, now time.Time) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("user_id = ? AND (status IN ? OR travel_date < ?)",
			userID, []Status{StatusCompleted, StatusCancelled}, now).
		Order("travel_date DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListUpcoming(ctx context.Context, userID uuid.UUID, now time.Time) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("user_id = ? AND status = ? AND travel_date >= ?", userID, StatusConfirmed, now).
		Order("travel_date ASC").
		Find(&bookings).Error
	return bookings, err
}

// ClaimPaymentInitiation flips a pending payment to initiated, guarded on
// the current status in the WHERE clause. Concurrent initiation attempts
// for the same booking race on this update: exactly one matches the
// pending row, the rest affect zero rows and get ErrPaymentNotPending.
func (r *repository) ClaimPaymentInitiation(ctx context.Context, bookingID uuid.UUID, initiatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("booking_id = ? AND status = ?", bookingID, PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":       PaymentStatusInitiated,
			"initiated_at": initiatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotPending
	}
	return nil
}

func (r *repository) UpdatePayment(ctx context.Context, bookingID uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("booking_id = ?", bookingID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ConfirmBookingPayment applies the completion transition atomically:
// payment -> completed, booking -> confirmed. Idempotent by design; the
// payment update is guarded on the status not already being completed so
// a duplicated webhook cannot overwrite completed_at.
func (r *repository) ConfirmBookingPayment(ctx context.Context, bookingID uuid.UUID, amountReceived *float64, completedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       PaymentStatusCompleted,
			"completed_at": completedAt,
		}
		if amountReceived != nil {
			updates["amount_received"] = *amountReceived
		}

		err := tx.Model(&Payment{}).
			Where("booking_id = ? AND status <> ?", bookingID, PaymentStatusCompleted).
			Updates(updates).Error
		if err != nil {
			return err
		}

		return tx.Model(&Booking{}).
			Where("id = ? AND status <> ?", bookingID, StatusCancelled).
			Update("status", StatusConfirmed).Error
	})
}
