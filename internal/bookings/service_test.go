package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeLedger is an in-memory Repository that enforces the same
// invariants as the real storage layer: one active reservation per seat
// key and globally unique booking references, both reported as
// gorm.ErrDuplicatedKey the way TranslateError does.
type fakeLedger struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking

	// failRefs forces the next n creates to fail as reference
	// collisions, exercising the retry loop.
	failRefs int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{bookings: make(map[uuid.UUID]*Booking)}
}

func (f *fakeLedger) CreateBooking(ctx context.Context, booking *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRefs > 0 {
		f.failRefs--
		return gorm.ErrDuplicatedKey
	}

	for _, existing := range f.bookings {
		if existing.BookingReference == booking.BookingReference {
			return gorm.ErrDuplicatedKey
		}
		for _, seat := range existing.Seats {
			if !seat.Active {
				continue
			}
			for _, candidate := range booking.Seats {
				if seat.AgencyName == candidate.AgencyName &&
					seat.BusNumber == candidate.BusNumber &&
					seat.TravelDate.Equal(candidate.TravelDate) &&
					seat.SeatNumber == candidate.SeatNumber {
					return gorm.ErrDuplicatedKey
				}
			}
		}
	}

	booking.ID = uuid.New()
	for i := range booking.Seats {
		booking.Seats[i].BookingID = booking.ID
	}
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeLedger) CancelBooking(ctx context.Context, bookingID uuid.UUID, cancelledAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[bookingID]
	if !ok {
		return ErrBookingNotFound
	}
	booking.Status = StatusCancelled
	booking.CancelledAt = &cancelledAt
	for i := range booking.Seats {
		booking.Seats[i].Active = false
	}
	return nil
}

func (f *fakeLedger) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (f *fakeLedger) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.BookingReference == reference {
			return booking, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeLedger) GetByTransactionID(ctx context.Context, transactionID string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.Payment != nil && booking.Payment.TransactionID != nil && *booking.Payment.TransactionID == transactionID {
			return booking, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeLedger) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (f *fakeLedger) GetUserStats(ctx context.Context, userID uuid.UUID, now time.Time) (*UserStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &UserStats{}
	for _, booking := range f.bookings {
		if booking.UserID != userID {
			continue
		}
		if booking.Status == StatusConfirmed {
			stats.TotalBookings++
			if !booking.TravelDate.Before(now) {
				stats.UpcomingTrips++
			}
		}
		if booking.Status == StatusCompleted && booking.TravelDate.Before(now) {
			stats.PastTrips++
		}
	}
	return stats, nil
}

func (f *fakeLedger) ListHistory(ctx context.Context, userID uuid.UUID, now time.Time) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, booking := range f.bookings {
		if booking.UserID != userID {
			continue
		}
		if booking.Status == StatusCompleted || booking.Status == StatusCancelled || booking.TravelDate.Before(now) {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListUpcoming(ctx context.Context, userID uuid.UUID, now time.Time) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, booking := range f.bookings {
		if booking.UserID == userID && booking.Status == StatusConfirmed && !booking.TravelDate.Before(now) {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (f *fakeLedger) ClaimPaymentInitiation(ctx context.Context, bookingID uuid.UUID, initiatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok || booking.Payment == nil {
		return ErrBookingNotFound
	}
	if booking.Payment.Status != PaymentStatusPending {
		return ErrPaymentNotPending
	}
	booking.Payment.Status = PaymentStatusInitiated
	booking.Payment.InitiatedAt = &initiatedAt
	return nil
}

func (f *fakeLedger) UpdatePayment(ctx context.Context, bookingID uuid.UUID, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok || booking.Payment == nil {
		return ErrBookingNotFound
	}
	applyPaymentUpdates(booking.Payment, updates)
	return nil
}

func (f *fakeLedger) ConfirmBookingPayment(ctx context.Context, bookingID uuid.UUID, amountReceived *float64, completedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return ErrBookingNotFound
	}
	if booking.Payment != nil && booking.Payment.Status != PaymentStatusCompleted {
		booking.Payment.Status = PaymentStatusCompleted
		booking.Payment.CompletedAt = &completedAt
		if amountReceived != nil {
			booking.Payment.AmountReceived = amountReceived
		}
	}
	if booking.Status != StatusCancelled {
		booking.Status = StatusConfirmed
	}
	return nil
}

func applyPaymentUpdates(payment *Payment, updates map[string]interface{}) {
	if v, ok := updates["status"]; ok {
		payment.Status = v.(PaymentStatus)
	}
	if v, ok := updates["transaction_id"]; ok {
		id := v.(string)
		payment.TransactionID = &id
	}
	if v, ok := updates["initiated_at"]; ok {
		at := v.(time.Time)
		payment.InitiatedAt = &at
	}
}

// fakeDetector answers conflict queries straight from the fake ledger.
type fakeDetector struct {
	ledger *fakeLedger
}

func (d *fakeDetector) FindConflicts(ctx context.Context, agencyName, busNumber string, travelDate time.Time, candidateSeats []int) ([]int, error) {
	d.ledger.mu.Lock()
	defer d.ledger.mu.Unlock()

	candidates := make(map[int]bool, len(candidateSeats))
	for _, n := range candidateSeats {
		candidates[n] = true
	}

	var taken []int
	seen := make(map[int]bool)
	for _, booking := range d.ledger.bookings {
		for _, seat := range booking.Seats {
			if seat.Active && seat.AgencyName == agencyName && seat.BusNumber == busNumber &&
				seat.TravelDate.Equal(NormalizeTravelDate(travelDate)) &&
				candidates[seat.SeatNumber] && !seen[seat.SeatNumber] {
				taken = append(taken, seat.SeatNumber)
				seen[seat.SeatNumber] = true
			}
		}
	}
	return taken, nil
}

func newTestService(ledger *fakeLedger) Service {
	return NewService(ledger, &fakeDetector{ledger: ledger}, nil)
}

func metroRequest(seats []SeatRequest, method PaymentMethod) *CreateBookingRequest {
	req := &CreateBookingRequest{
		KickoffLocation: "Douala",
		Destination:     "Yaoundé",
		Agency:          AgencyRef{Name: "Metro", BusNumber: "MT-01", BusType: BusType56},
		Seats:           seats,
		BookingPrice:    5000,
		ServiceFee:      500,
		Payment:         PaymentRequest{Method: method},
		TravelDate:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	if method == PaymentMethodMomo {
		req.Payment.MomoNumber = "237670000111"
	}
	return req
}

func TestCreateBookingCash(t *testing.T) {
	svc := newTestService(newFakeLedger())

	resp, err := svc.CreateBooking(context.Background(), uuid.New(), metroRequest([]SeatRequest{
		{SeatNumber: 12, PassengerName: "Alice", PassengerContact: "000"},
		{SeatNumber: 13, PassengerName: "Bob", PassengerContact: "111"},
	}, PaymentMethodCash))

	require.NoError(t, err)
	assert.False(t, resp.PaymentRequired)
	assert.Equal(t, StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, float64(5500), resp.Booking.TotalAmount)
	assert.Len(t, resp.Booking.Seats, 2)
	assert.NotEmpty(t, resp.Booking.BookingReference)
	require.NotNil(t, resp.Booking.Payment)
	assert.Equal(t, PaymentStatusCompleted, resp.Booking.Payment.Status)
}

func TestCreateBookingMomoStartsPending(t *testing.T) {
	svc := newTestService(newFakeLedger())

	resp, err := svc.CreateBooking(context.Background(), uuid.New(), metroRequest([]SeatRequest{
		{SeatNumber: 1, PassengerName: "Alice", PassengerContact: "000"},
	}, PaymentMethodMomo))

	require.NoError(t, err)
	assert.True(t, resp.PaymentRequired)
	assert.Equal(t, StatusPending, resp.Booking.Status)
	require.NotNil(t, resp.Booking.Payment)
	assert.Equal(t, PaymentStatusPending, resp.Booking.Payment.Status)
	assert.Nil(t, resp.Booking.Payment.TransactionID)
}

func TestCreateBookingSeatConflict(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, uuid.New(), metroRequest([]SeatRequest{
		{SeatNumber: 12, PassengerName: "Alice", PassengerContact: "000"},
	}, PaymentMethodCash))
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, uuid.New(), metroRequest([]SeatRequest{
		{SeatNumber: 12, PassengerName: "Eve", PassengerContact: "222"},
	}, PaymentMethodCash))

	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int{12}, conflict.SeatNumbers)
	assert.Equal(t, "MT-01", conflict.BusNumber)
	assert.Contains(t, conflict.Error(), "12")
	assert.Contains(t, conflict.Error(), "MT-01")
	assert.Len(t, ledger.bookings, 1)
}

func TestCreateBookingDuplicateSeatInRequest(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), metroRequest([]SeatRequest{
		{SeatNumber: 5, PassengerName: "Alice", PassengerContact: "000"},
		{SeatNumber: 5, PassengerName: "Bob", PassengerContact: "111"},
	}, PaymentMethodCash))

	var dup *DuplicateSeatError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []int{5}, dup.SeatNumbers)
	assert.Empty(t, ledger.bookings, "nothing must be persisted")
}

func TestCreateBookingSeatOutOfRange(t *testing.T) {
	svc := newTestService(newFakeLedger())

	req := metroRequest([]SeatRequest{
		{SeatNumber: 57, PassengerName: "Alice", PassengerContact: "000"},
	}, PaymentMethodCash)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), req)

	var rangeErr *SeatOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 57, rangeErr.SeatNumber)
}

func TestCreateBookingMomoRequiresNumber(t *testing.T) {
	svc := newTestService(newFakeLedger())

	req := metroRequest([]SeatRequest{
		{SeatNumber: 3, PassengerName: "Alice", PassengerContact: "000"},
	}, PaymentMethodMomo)
	req.Payment.MomoNumber = ""

	_, err := svc.CreateBooking(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrMomoNumberRequired)
}

func TestCreateBookingTotalAmountMismatch(t *testing.T) {
	svc := newTestService(newFakeLedger())

	req := metroRequest([]SeatRequest{
		{SeatNumber: 3, PassengerName: "Alice", PassengerContact: "000"},
	}, PaymentMethodCash)
	wrong := 9999.0
	req.TotalAmount = &wrong

	_, err := svc.CreateBooking(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrTotalAmountMismatch)
}

func TestCreateBookingTotalAmountMatchAccepted(t *testing.T) {
	svc := newTestService(newFakeLedger())

	req := metroRequest([]SeatRequest{
		{SeatNumber: 3, PassengerName: "Alice", PassengerContact: "000"},
	}, PaymentMethodCash)
	total := 5500.0
	req.TotalAmount = &total

	resp, err := svc.CreateBooking(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.Equal(t, 5500.0, resp.Booking.TotalAmount)
}

func TestCreateBookingRetriesReferenceCollision(t *testing.T) {
	ledger := newFakeLedger()
	ledger.failRefs = 2
	svc := newTestService(ledger)

	resp, err := svc.CreateBooking(context.Background(), uuid.New(), metroRequest([]SeatRequest{
		{SeatNumber: 8, PassengerName: "Alice", PassengerContact: "000"},
	}, PaymentMethodCash))

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Booking.BookingReference)
}

func TestCreateBookingReferenceRetriesExhausted(t *testing.T) {
	ledger := newFakeLedger()
	ledger.failRefs = referenceRetries
	svc := newTestService(ledger)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), metroRequest([]SeatRequest{
		{SeatNumber: 8, PassengerName: "Alice", PassengerContact: "000"},
	}, PaymentMethodCash))

	require.Error(t, err)
	var conflict *SeatConflictError
	assert.False(t, errors.As(err, &conflict))
}

func TestCancelBookingFreesSeats(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ctx := context.Background()
	userID := uuid.New()

	resp, err := svc.CreateBooking(ctx, userID, metroRequest([]SeatRequest{
		{SeatNumber: 20, PassengerName: "Alice", PassengerContact: "000"},
	}, PaymentMethodCash))
	require.NoError(t, err)

	require.NoError(t, svc.CancelBooking(ctx, resp.Booking.ID, userID))

	// The same seat is immediately bookable again.
	again, err := svc.CreateBooking(ctx, uuid.New(), metroRequest([]SeatRequest{
		{SeatNumber: 20, PassengerName: "Eve", PassengerContact: "222"},
	}, PaymentMethodCash))
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, again.Booking.Status)
}

func TestCancelBookingAlreadyFinalized(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ctx := context.Background()
	userID := uuid.New()

	resp, err := svc.CreateBooking(ctx, userID, metroRequest([]SeatRequest{
		{SeatNumber: 21, PassengerName: "Alice", PassengerContact: "000"},
	}, PaymentMethodCash))
	require.NoError(t, err)

	require.NoError(t, svc.CancelBooking(ctx, resp.Booking.ID, userID))
	assert.ErrorIs(t, svc.CancelBooking(ctx, resp.Booking.ID, userID), ErrAlreadyFinalized)
}

func TestCancelBookingOwnership(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	resp, err := svc.CreateBooking(ctx, uuid.New(), metroRequest([]SeatRequest{
		{SeatNumber: 22, PassengerName: "Alice", PassengerContact: "000"},
	}, PaymentMethodCash))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelBooking(ctx, resp.Booking.ID, uuid.New()), ErrNotOwner)
}

func TestConcurrentBookingsExactlyOneWins(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	const contenders = 8
	var wg sync.WaitGroup
	results := make(chan error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, uuid.New(), metroRequest([]SeatRequest{
				{SeatNumber: 42, PassengerName: "Racer", PassengerContact: "000"},
			}, PaymentMethodCash))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var conflict *SeatConflictError
		if errors.As(err, &conflict) {
			conflicts++
		} else {
			t.Fatalf("unexpected error under contention: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "exactly one contender must win seat 42")
	assert.Equal(t, contenders-1, conflicts)
	assert.Len(t, ledger.bookings, 1)
}

func TestDisjointnessAfterMixedOperations(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.CreateBooking(ctx, userID, metroRequest([]SeatRequest{
		{SeatNumber: 1, PassengerName: "A", PassengerContact: "0"},
		{SeatNumber: 2, PassengerName: "B", PassengerContact: "1"},
	}, PaymentMethodCash))
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, userID, metroRequest([]SeatRequest{
		{SeatNumber: 3, PassengerName: "C", PassengerContact: "2"},
	}, PaymentMethodCash))
	require.NoError(t, err)

	require.NoError(t, svc.CancelBooking(ctx, first.Booking.ID, userID))

	_, err = svc.CreateBooking(ctx, userID, metroRequest([]SeatRequest{
		{SeatNumber: 2, PassengerName: "D", PassengerContact: "3"},
	}, PaymentMethodCash))
	require.NoError(t, err)

	// Union of active seat numbers per bus/date must have no duplicates.
	seen := make(map[int]bool)
	for _, booking := range ledger.bookings {
		for _, seat := range booking.Seats {
			if !seat.Active {
				continue
			}
			assert.False(t, seen[seat.SeatNumber], "seat %d reserved twice", seat.SeatNumber)
			seen[seat.SeatNumber] = true
		}
	}
}

func TestUserProjections(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ctx := context.Background()
	userID := uuid.New()

	future := metroRequest([]SeatRequest{
		{SeatNumber: 10, PassengerName: "A", PassengerContact: "0"},
	}, PaymentMethodCash)
	future.TravelDate = time.Now().AddDate(0, 0, 7)
	_, err := svc.CreateBooking(ctx, userID, future)
	require.NoError(t, err)

	past := metroRequest([]SeatRequest{
		{SeatNumber: 11, PassengerName: "B", PassengerContact: "1"},
	}, PaymentMethodCash)
	past.TravelDate = time.Now().AddDate(0, 0, -7)
	_, err = svc.CreateBooking(ctx, userID, past)
	require.NoError(t, err)

	upcoming, err := svc.GetUpcomingTrips(ctx, userID)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, 1, upcoming[0].Seats)
	assert.Equal(t, "Douala → Yaoundé", upcoming[0].Route)

	history, err := svc.GetTravelHistory(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	stats, err := svc.GetUserStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.UpcomingTrips)
}
