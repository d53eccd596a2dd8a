package database

import (
	"busly/internal/agencies"
	"busly/internal/bookings"
	"busly/internal/travels"
	"busly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&agencies.Agency{},
		&travels.Travel{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
		&bookings.Payment{},
	)
}
