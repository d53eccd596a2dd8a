package agencies

import (
	"time"

	"github.com/google/uuid"
)

// Agency represents a travel agency operating buses
type Agency struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name         string    `json:"name" gorm:"uniqueIndex;not null"`
	Destinations []string  `json:"destinations" gorm:"serializer:json"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName sets the table name for Agency
func (Agency) TableName() string {
	return "agencies"
}

// CreateAgencyRequest represents the agency creation payload
type CreateAgencyRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=100"`
	Destinations []string `json:"destinations"`
}

// UpdateAgencyRequest represents the agency update payload
type UpdateAgencyRequest struct {
	Name         string   `json:"name,omitempty"`
	Destinations []string `json:"destinations,omitempty"`
}
