package bookings

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	return db, mock
}

func TestFindConflictsEmptyCandidates(t *testing.T) {
	db, mock := openMockDB(t)
	detector := NewConflictDetector(db)

	taken, err := detector.FindConflicts(context.Background(), "Metro", "MT-01", time.Now(), nil)
	require.NoError(t, err)
	assert.Empty(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindConflictsReturnsTakenSeats(t *testing.T) {
	db, mock := openMockDB(t)
	detector := NewConflictDetector(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "seat_number" FROM "booking_seats"`)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow(12).AddRow(14))

	taken, err := detector.FindConflicts(context.Background(), "Metro", "MT-01",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), []int{12, 13, 14})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{12, 14}, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingDeactivatesSeats(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewRepository(db)
	bookingID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "booking_seats" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.CancelBooking(context.Background(), bookingID, time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingNotFound(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "bookings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	err := repo.CancelBooking(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingAlreadyFinalizedRow(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewRepository(db)

	// The booking exists but its status no longer matches the guard, so
	// the update touches nothing and the cancellation is refused.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "bookings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.CancelBooking(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimPaymentInitiation(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ClaimPaymentInitiation(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimPaymentInitiationLost(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewRepository(db)

	// The payment row is no longer pending, so the guarded update
	// matches nothing and the caller loses the claim.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.ClaimPaymentInitiation(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrPaymentNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentNotFound(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdatePayment(context.Background(), uuid.New(), map[string]interface{}{
		"status": PaymentStatusFailed,
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmBookingPaymentTransitions(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewRepository(db)
	bookingID := uuid.New()
	amount := 5500.0

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ConfirmBookingPayment(context.Background(), bookingID, &amount, time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
