package agencies

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAgencyNotFound = errors.New("agency not found")

type Repository interface {
	Create(ctx context.Context, agency *Agency) error
	List(ctx context.Context) ([]Agency, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Agency, error)
	GetByName(ctx context.Context, name string) (*Agency, error)
	Update(ctx context.Context, agency *Agency) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, agency *Agency) error {
	return r.db.WithContext(ctx).Create(agency).Error
}

func (r *repository) List(ctx context.Context) ([]Agency, error) {
	var agencies []Agency
	err := r.db.WithContext(ctx).Order("name ASC").Find(&agencies).Error
	return agencies, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Agency, error) {
	var agency Agency
	err := r.db.WithContext(ctx).First(&agency, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgencyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &agency, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Agency, error) {
	var agency Agency
	err := r.db.WithContext(ctx).First(&agency, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgencyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &agency, nil
}

func (r *repository) Update(ctx context.Context, agency *Agency) error {
	return r.db.WithContext(ctx).Save(agency).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Agency{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAgencyNotFound
	}
	return nil
}
