package bookings

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ConflictDetector answers "which of these seats are already taken" for a
// given bus and travel date. It is advisory only: it runs before the
// write for early user feedback, and after a constraint violation to
// recover exactly which seats collided. The authoritative decision is
// always the partial unique index enforced at commit time, because a
// pre-check can race with a concurrent write.
type ConflictDetector interface {
	FindConflicts(ctx context.Context, agencyName, busNumber string, travelDate time.Time, candidateSeats []int) ([]int, error)
}

type conflictDetector struct {
	db *gorm.DB
}

func NewConflictDetector(db *gorm.DB) ConflictDetector {
	return &conflictDetector{db: db}
}

func (d *conflictDetector) FindConflicts(ctx context.Context, agencyName, busNumber string, travelDate time.Time, candidateSeats []int) ([]int, error) {
	if len(candidateSeats) == 0 {
		return nil, nil
	}

	var taken []int
	err := d.db.WithContext(ctx).
		Model(&BookingSeat{}).
		Where("agency_name = ? AND bus_number = ? AND travel_date = ? AND active = ? AND seat_number IN ?",
			agencyName, busNumber, NormalizeTravelDate(travelDate), true, candidateSeats).
		Pluck("seat_number", &taken).Error
	if err != nil {
		return nil, err
	}
	return taken, nil
}
