package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"tripsapi/internal/domain"
	internalRedis "tripsapi/internal/redis"
	"tripsapi/internal/repository"
)

// TripService handles trip listing.
type TripService struct {
	tripRepo repository.TripRepository
	cache    internalRedis.TripPageCacheInterface
	logger   logrus.FieldLogger
}

// NewTripService creates a new TripService. cache may be nil.
func NewTripService(
	tripRepo repository.TripRepository,
	cache internalRedis.TripPageCacheInterface,
	logger logrus.FieldLogger,
) *TripService {
	return &TripService{
		tripRepo: tripRepo,
		cache:    cache,
		logger:   logger,
	}
}

// ListTripsRequest contains the pagination parameters for listing trips.
type ListTripsRequest struct {
	Page     int
	PageSize int
}

// ListTrips returns one page of trips ordered by start date, newest first.
func (s *TripService) ListTrips(ctx context.Context, req ListTripsRequest) (*domain.TripPage, error) {
	if req.Page <= 0 {
		return nil, ErrInvalidPage
	}

	if req.PageSize <= 0 {
		return nil, ErrInvalidPageSize
	}

	// The generation is read before the database so a page loaded across a
	// concurrent invalidation is stored where later reads cannot see it.
	var (
		generation int64
		cacheable  bool
	)
	if s.cache != nil {
		cached, gen, err := s.cache.GetPage(ctx, req.Page, req.PageSize)
		switch {
		case err != nil:
			s.logger.WithError(err).Warn("trip page cache read failed")
		case cached != nil:
			return cached, nil
		default:
			generation, cacheable = gen, true
		}
	}

	// The offset is page-1 rows, not (page-1)*pageSize rows.
	offset := req.Page - 1

	trips, err := s.tripRepo.ListPage(ctx, offset, req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	total, err := s.tripRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count trips: %w", err)
	}

	tripPage := &domain.TripPage{
		PageNum:  req.Page,
		PageSize: req.PageSize,
		AllPages: total,
		Trips:    trips,
	}

	if cacheable {
		if err := s.cache.SetPage(ctx, generation, tripPage); err != nil {
			s.logger.WithError(err).Warn("trip page cache write failed")
		}
	}

	return tripPage, nil
}

// invalidateTripPages drops cached trip pages after a write.
func invalidateTripPages(ctx context.Context, cache internalRedis.TripPageCacheInterface, logger logrus.FieldLogger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.WithError(err).Warn("trip page cache invalidation failed")
	}
}
