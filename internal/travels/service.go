package travels

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"busly/pkg/cache"
	"busly/pkg/logger"
)

var ErrInvalidStatus = errors.New("invalid travel status")

const travelListCacheKey = "busly:travels:list"

type Service interface {
	Create(ctx context.Context, req *CreateTravelRequest) (*Travel, error)
	List(ctx context.Context) ([]Travel, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Travel, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status TravelStatus) error
}

type service struct {
	repo    Repository
	cache   cache.Service
	listTTL time.Duration
	log     *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, listTTL time.Duration) Service {
	return &service{
		repo:    repo,
		cache:   cacheService,
		listTTL: listTTL,
		log:     logger.GetDefault(),
	}
}

func (s *service) Create(ctx context.Context, req *CreateTravelRequest) (*Travel, error) {
	agencyID, err := uuid.Parse(req.AgencyID)
	if err != nil {
		return nil, err
	}

	travel := &Travel{
		AgencyID:          agencyID,
		BusNumber:         req.BusNumber,
		DepartureLocation: req.DepartureLocation,
		DepartureTime:     req.DepartureTime,
		ArrivalLocation:   req.ArrivalLocation,
		ArrivalTime:       req.ArrivalTime,
		AvailableSeats:    req.AvailableSeats,
		Price:             req.Price,
		Status:            StatusScheduled,
	}
	if err := s.repo.Create(ctx, travel); err != nil {
		return nil, err
	}
	s.invalidateList(ctx)
	return travel, nil
}

func (s *service) List(ctx context.Context) ([]Travel, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	var travels []Travel
	err := s.cache.GetOrSet(ctx, travelListCacheKey, s.listTTL, func() (interface{}, error) {
		return s.repo.List(ctx)
	}, &travels)
	if err != nil {
		s.log.Warn("travel list cache unavailable, serving from database", "error", err)
		return s.repo.List(ctx)
	}
	return travels, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Travel, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status TravelStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

func (s *service) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, travelListCacheKey); err != nil {
		s.log.Warn("failed to invalidate travel list cache", "error", err)
	}
}
