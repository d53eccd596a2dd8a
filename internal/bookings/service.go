package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"busly/pkg/logger"
)

// referenceRetries bounds the retry loop for booking-reference
// collisions. A collision requires two references generated in the same
// millisecond with the same random suffix, so one retry almost always
// suffices.
const referenceRetries = 3

// EventPublisher receives booking lifecycle events. Implementations must
// not block the request path; a nil publisher disables publishing.
type EventPublisher interface {
	BookingConfirmed(ctx context.Context, booking *Booking)
	BookingCancelled(ctx context.Context, booking *Booking)
}

// Service interface defines the contract for booking business logic
type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *CreateBookingRequest) (*CreateBookingResponse, error)
	GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error

	ListBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
	GetTravelHistory(ctx context.Context, userID uuid.UUID) ([]TripSummary, error)
	GetUpcomingTrips(ctx context.Context, userID uuid.UUID) ([]TripSummary, error)
}

type service struct {
	repo      Repository
	conflicts ConflictDetector
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewService creates a new booking service instance. publisher may be nil.
func NewService(repo Repository, conflicts ConflictDetector, publisher EventPublisher) Service {
	return &service{
		repo:      repo,
		conflicts: conflicts,
		publisher: publisher,
		log:       logger.GetDefault(),
		now:       time.Now,
	}
}

// CreateBooking validates the request, runs the advisory conflict check,
// then commits booking+seats+payment atomically. The partial unique
// index on active seat rows is the authoritative conflict guard: if two
// requests race past the advisory check, exactly one commit succeeds and
// the other fails with a SeatConflictError sourced from a follow-up
// conflict query.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req *CreateBookingRequest) (*CreateBookingResponse, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	travelDate := NormalizeTravelDate(req.TravelDate)
	seatNumbers := make([]int, len(req.Seats))
	for i, seat := range req.Seats {
		seatNumbers[i] = seat.SeatNumber
	}

	// Advisory pre-check for early user feedback. Not authoritative: a
	// concurrent writer may still take these seats before our commit.
	taken, err := s.conflicts.FindConflicts(ctx, req.Agency.Name, req.Agency.BusNumber, travelDate, seatNumbers)
	if err != nil {
		return nil, fmt.Errorf("conflict pre-check failed: %w", err)
	}
	if len(taken) > 0 {
		s.log.LogSeatConflict(ctx, req.Agency.Name, req.Agency.BusNumber, taken)
		return nil, &SeatConflictError{SeatNumbers: taken, BusNumber: req.Agency.BusNumber, TravelDate: travelDate}
	}

	booking := s.buildBooking(userID, req, travelDate)

	for attempt := 0; attempt < referenceRetries; attempt++ {
		booking.BookingReference = GenerateBookingReference(req.Agency.Name)

		err = s.repo.CreateBooking(ctx, booking)
		if err == nil {
			s.log.LogBookingCreated(ctx, booking.BookingReference, booking.AgencyName, booking.BusNumber, userID.String(), len(booking.Seats))
			if booking.Status == StatusConfirmed && s.publisher != nil {
				s.publisher.BookingConfirmed(ctx, booking)
			}
			return &CreateBookingResponse{
				Booking:         booking,
				PaymentRequired: req.Payment.Method == PaymentMethodMomo,
			}, nil
		}

		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create booking: %w", err)
		}

		// A unique violation is either the seat index or the reference
		// index. Re-running the conflict detector disambiguates: seats
		// now taken means a racing booking won; an empty result means
		// our generated reference collided, so retry with a fresh one.
		taken, cErr := s.conflicts.FindConflicts(ctx, req.Agency.Name, req.Agency.BusNumber, travelDate, seatNumbers)
		if cErr != nil {
			return nil, fmt.Errorf("conflict diagnosis failed: %w", cErr)
		}
		if len(taken) > 0 {
			s.log.LogSeatConflict(ctx, req.Agency.Name, req.Agency.BusNumber, taken)
			return nil, &SeatConflictError{SeatNumbers: taken, BusNumber: req.Agency.BusNumber, TravelDate: travelDate}
		}
	}

	return nil, fmt.Errorf("failed to generate a unique booking reference after %d attempts", referenceRetries)
}

func validateBookingRequest(req *CreateBookingRequest) error {
	if !req.Agency.BusType.IsValid() {
		return fmt.Errorf("invalid bus type %q", req.Agency.BusType)
	}

	seen := make(map[int]bool, len(req.Seats))
	var duplicates []int
	for _, seat := range req.Seats {
		if !IsValidSeatNumber(seat.SeatNumber, req.Agency.BusType) {
			return &SeatOutOfRangeError{SeatNumber: seat.SeatNumber, BusType: req.Agency.BusType}
		}
		if seen[seat.SeatNumber] {
			duplicates = append(duplicates, seat.SeatNumber)
		}
		seen[seat.SeatNumber] = true
	}
	if len(duplicates) > 0 {
		return &DuplicateSeatError{SeatNumbers: duplicates}
	}

	if req.Payment.Method == PaymentMethodMomo && req.Payment.MomoNumber == "" {
		return ErrMomoNumberRequired
	}

	if req.TotalAmount != nil && *req.TotalAmount != req.BookingPrice+req.ServiceFee {
		return ErrTotalAmountMismatch
	}

	return nil
}

func (s *service) buildBooking(userID uuid.UUID, req *CreateBookingRequest, travelDate time.Time) *Booking {
	booking := &Booking{
		UserID:          userID,
		AgencyName:      req.Agency.Name,
		BusNumber:       req.Agency.BusNumber,
		BusType:         req.Agency.BusType,
		KickoffLocation: req.KickoffLocation,
		Destination:     req.Destination,
		TravelDate:      travelDate,
		BookingPrice:    req.BookingPrice,
		ServiceFee:      req.ServiceFee,
		TotalAmount:     req.BookingPrice + req.ServiceFee,
	}

	booking.Seats = make([]BookingSeat, len(req.Seats))
	for i, seat := range req.Seats {
		booking.Seats[i] = BookingSeat{
			AgencyName:       req.Agency.Name,
			BusNumber:        req.Agency.BusNumber,
			TravelDate:       travelDate,
			SeatNumber:       seat.SeatNumber,
			PassengerName:    seat.PassengerName,
			PassengerContact: seat.PassengerContact,
			Active:           true,
		}
	}

	payment := &Payment{
		Method:     req.Payment.Method,
		MomoNumber: req.Payment.MomoNumber,
	}
	if req.Payment.Method == PaymentMethodCash {
		// Cash is settled offline at boarding; there is no gateway
		// interaction, so the booking is confirmed immediately.
		now := s.now()
		payment.Status = PaymentStatusCompleted
		payment.CompletedAt = &now
		booking.Status = StatusConfirmed
	} else {
		payment.Status = PaymentStatusPending
		booking.Status = StatusPending
	}
	booking.Payment = payment

	return booking
}

func (s *service) GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotOwner
	}
	return booking, nil
}

// CancelBooking voids a booking and frees its seats for immediate reuse.
func (s *service) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return ErrNotOwner
	}
	if booking.Status.IsFinal() {
		return ErrAlreadyFinalized
	}

	if err := s.repo.CancelBooking(ctx, bookingID, s.now()); err != nil {
		return err
	}

	s.log.LogBookingCancelled(ctx, bookingID.String(), userID.String())
	if s.publisher != nil {
		booking.Status = StatusCancelled
		s.publisher.BookingCancelled(ctx, booking)
	}
	return nil
}

func (s *service) ListBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	return s.repo.GetUserStats(ctx, userID, s.now())
}

func (s *service) GetTravelHistory(ctx context.Context, userID uuid.UUID) ([]TripSummary, error) {
	bookings, err := s.repo.ListHistory(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	return toTripSummaries(bookings), nil
}

func (s *service) GetUpcomingTrips(ctx context.Context, userID uuid.UUID) ([]TripSummary, error) {
	bookings, err := s.repo.ListUpcoming(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	return toTripSummaries(bookings), nil
}

func toTripSummaries(bookings []Booking) []TripSummary {
	summaries := make([]TripSummary, len(bookings))
	for i := range bookings {
		summaries[i] = NewTripSummary(&bookings[i])
	}
	return summaries
}
