package travels

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTravelNotFound = errors.New("travel not found")

type Repository interface {
	Create(ctx context.Context, travel *Travel) error
	List(ctx context.Context) ([]Travel, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Travel, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status TravelStatus) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, travel *Travel) error {
	return r.db.WithContext(ctx).Create(travel).Error
}

func (r *repository) List(ctx context.Context) ([]Travel, error) {
	var travels []Travel
	err := r.db.WithContext(ctx).
		Preload("Agency").
		Order("departure_time ASC").
		Find(&travels).Error
	return travels, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Travel, error) {
	var travel Travel
	err := r.db.WithContext(ctx).
		Preload("Agency").
		First(&travel, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTravelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &travel, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status TravelStatus) error {
	result := r.db.WithContext(ctx).
		Model(&Travel{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTravelNotFound
	}
	return nil
}
