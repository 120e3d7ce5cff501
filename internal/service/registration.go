package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"tripsapi/internal/domain"
	internalRedis "tripsapi/internal/redis"
	"tripsapi/internal/repository"
)

// RegistrationService registers new clients onto trips.
type RegistrationService struct {
	transactor          repository.Transactor
	locks               internalRedis.PeselLockInterface
	cache               internalRedis.TripPageCacheInterface
	notificationService *NotificationService
	logger              logrus.FieldLogger
	now                 func() time.Time
}

// RegistrationOption configures a RegistrationService.
type RegistrationOption func(*RegistrationService)

// WithClock overrides the clock used for the start date check and
// RegisteredAt.
func WithClock(now func() time.Time) RegistrationOption {
	return func(s *RegistrationService) {
		s.now = now
	}
}

// WithPeselLock serialises registrations sharing a Pesel.
func WithPeselLock(locks internalRedis.PeselLockInterface) RegistrationOption {
	return func(s *RegistrationService) {
		s.locks = locks
	}
}

// WithTripPageCache invalidates cached trip pages after a registration.
func WithTripPageCache(cache internalRedis.TripPageCacheInterface) RegistrationOption {
	return func(s *RegistrationService) {
		s.cache = cache
	}
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(
	transactor repository.Transactor,
	notificationService *NotificationService,
	logger logrus.FieldLogger,
	opts ...RegistrationOption,
) *RegistrationService {
	s := &RegistrationService{
		transactor:          transactor,
		notificationService: notificationService,
		logger:              logger,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterClientRequest contains the parameters for registering a client.
type RegisterClientRequest struct {
	TripID      int
	FirstName   string
	LastName    string
	Email       string
	Telephone   string
	Pesel       string
	PaymentDate *time.Time
}

// RegisterClientResponse contains the rows created by a registration.
type RegisterClientResponse struct {
	Client     *domain.Client
	ClientTrip *domain.ClientTrip
}

// RegisterClient creates a client and registers it onto a trip. Both rows
// are written in one transaction.
func (s *RegistrationService) RegisterClient(ctx context.Context, req RegisterClientRequest) (*RegisterClientResponse, error) {
	if req.Pesel == "" {
		return nil, ErrInvalidPesel
	}

	if s.locks != nil {
		release, err := s.acquirePeselLock(ctx, req.Pesel)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	var result *RegisterClientResponse
	err := s.transactor.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		_, err := store.Clients().GetByPesel(ctx, req.Pesel)
		if err == nil {
			return ErrPeselExists
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to look up client by pesel: %w", err)
		}

		trip, err := store.Trips().GetByID(ctx, req.TripID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTripNotFound
			}
			return fmt.Errorf("failed to load trip: %w", err)
		}

		now := s.now()
		if trip.HasStarted(now) {
			return ErrTripAlreadyStarted
		}

		client := &domain.Client{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Telephone: req.Telephone,
			Pesel:     req.Pesel,
		}
		if err := store.Clients().Create(ctx, client); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrPeselExists
			}
			return fmt.Errorf("failed to create client: %w", err)
		}

		clientTrip := &domain.ClientTrip{
			ClientID:     client.ID,
			TripID:       trip.ID,
			RegisteredAt: now,
			PaymentDate:  req.PaymentDate,
		}
		if err := store.ClientTrips().Create(ctx, clientTrip); err != nil {
			return fmt.Errorf("failed to register client on trip: %w", err)
		}

		result = &RegisterClientResponse{Client: client, ClientTrip: clientTrip}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateTripPages(ctx, s.cache, s.logger)

	if s.notificationService != nil {
		s.notificationService.NotifyClientRegistered(ctx, result.Client, result.ClientTrip)
	}

	return result, nil
}

// acquirePeselLock takes the Pesel lock. Redis failures are logged and the
// registration continues unlocked.
func (s *RegistrationService) acquirePeselLock(ctx context.Context, pesel string) (func(), error) {
	token, acquired, err := s.locks.AcquirePeselLock(ctx, pesel)
	if err != nil {
		s.logger.WithError(err).Warn("pesel lock unavailable, registering without lock")
		return func() {}, nil
	}

	if !acquired {
		return nil, ErrRegistrationInProgress
	}

	return func() {
		if err := s.locks.ReleasePeselLock(context.WithoutCancel(ctx), pesel, token); err != nil {
			s.logger.WithError(err).Warn("failed to release pesel lock")
		}
	}, nil
}
