package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints installs the database constraints the booking core
// depends on for concurrency control. The partial unique index is the
// authoritative guard against double-booking a seat: it is scoped to
// active seat rows, so cancelling a booking frees its seats for reuse
// without deleting history.
func MigrateConstraints(db *gorm.DB) error {
	// Exactly one active reservation per (agency, bus, travel date, seat)
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_seat_per_departure
		ON booking_seats (agency_name, bus_number, travel_date, seat_number)
		WHERE active;
	`).Error
	if err != nil {
		return err
	}

	// Index for seat availability / conflict-detector queries
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booking_seats_departure
		ON booking_seats (agency_name, bus_number, travel_date);
	`).Error
	if err != nil {
		return err
	}

	// Index for payment lookups by gateway transaction id (webhooks, polling)
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_payments_transaction_id
		ON payments (transaction_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
