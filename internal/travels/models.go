package travels

import (
	"time"

	"github.com/google/uuid"

	"busly/internal/agencies"
)

// TravelStatus represents the lifecycle state of a scheduled departure
type TravelStatus string

const (
	StatusScheduled TravelStatus = "scheduled"
	StatusBoarding  TravelStatus = "boarding"
	StatusDeparted  TravelStatus = "departed"
	StatusArrived   TravelStatus = "arrived"
	StatusCancelled TravelStatus = "cancelled"
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s TravelStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusBoarding, StatusDeparted, StatusArrived, StatusCancelled:
		return true
	}
	return false
}

// Travel represents a scheduled bus departure operated by an agency
type Travel struct {
	ID                uuid.UUID        `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	AgencyID          uuid.UUID        `json:"agency_id" gorm:"type:uuid;not null;index"`
	Agency            *agencies.Agency `json:"agency,omitempty" gorm:"foreignKey:AgencyID"`
	BusNumber         string           `json:"bus_number" gorm:"not null"`
	DepartureLocation string           `json:"departure_location" gorm:"not null"`
	DepartureTime     time.Time        `json:"departure_time" gorm:"not null;index"`
	ArrivalLocation   string           `json:"arrival_location" gorm:"not null"`
	ArrivalTime       time.Time        `json:"arrival_time" gorm:"not null"`
	AvailableSeats    int              `json:"available_seats" gorm:"not null"`
	Price             float64          `json:"price" gorm:"not null"`
	Status            TravelStatus     `json:"status" gorm:"type:varchar(20);default:'scheduled'"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// TableName sets the table name for Travel
func (Travel) TableName() string {
	return "travels"
}

// CreateTravelRequest represents the travel creation payload
type CreateTravelRequest struct {
	AgencyID          string    `json:"agency_id" validate:"required,uuid"`
	BusNumber         string    `json:"bus_number" validate:"required"`
	DepartureLocation string    `json:"departure_location" validate:"required"`
	DepartureTime     time.Time `json:"departure_time" validate:"required"`
	ArrivalLocation   string    `json:"arrival_location" validate:"required"`
	ArrivalTime       time.Time `json:"arrival_time" validate:"required"`
	AvailableSeats    int       `json:"available_seats" validate:"required,gt=0"`
	Price             float64   `json:"price" validate:"required,gt=0"`
}

// UpdateTravelStatusRequest represents a status transition payload
type UpdateTravelStatusRequest struct {
	Status TravelStatus `json:"status" validate:"required"`
}
