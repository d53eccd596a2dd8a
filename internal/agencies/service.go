package agencies

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"busly/pkg/cache"
	"busly/pkg/logger"
)

var ErrAgencyNameTaken = errors.New("agency with this name already exists")

const agencyListCacheKey = "busly:agencies:list"

type Service interface {
	Create(ctx context.Context, req *CreateAgencyRequest) (*Agency, error)
	List(ctx context.Context) ([]Agency, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Agency, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateAgencyRequest) (*Agency, error)
	Delete(ctx context.Context, id uuid.UUID) error
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

func (s *service) Create(ctx context.Context, req *CreateAgencyRequest) (*Agency, error) {
	agency := &Agency{
		Name:         req.Name,
		Destinations: req.Destinations,
	}
	if err := s.repo.Create(ctx, agency); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAgencyNameTaken
		}
		return nil, err
	}
	s.invalidateList(ctx)
	return agency, nil
}

func (s *service) List(ctx context.Context) ([]Agency, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	var agencies []Agency
	err := s.cache.GetOrSet(ctx, agencyListCacheKey, s.listTTL, func() (interface{}, error) {
		return s.repo.List(ctx)
	}, &agencies)
	if err != nil {
		// cache trouble must not take the listing down
		s.log.Warn("agency list cache unavailable, serving from database", "error", err)
		return s.repo.List(ctx)
	}
	return agencies, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Agency, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req *UpdateAgencyRequest) (*Agency, error) {
	agency, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		agency.Name = req.Name
	}
	if req.Destinations != nil {
		agency.Destinations = req.Destinations
	}
	if err := s.repo.Update(ctx, agency); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAgencyNameTaken
		}
		return nil, err
	}
	s.invalidateList(ctx)
	return agency, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

func (s *service) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, agencyListCacheKey); err != nil {
		s.log.Warn("failed to invalidate agency list cache", "error", err)
	}
}
