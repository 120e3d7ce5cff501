package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	internalRedis "tripsapi/internal/redis"
	"tripsapi/internal/repository"
)

// ClientService handles client lifecycle operations.
type ClientService struct {
	transactor          repository.Transactor
	cache               internalRedis.TripPageCacheInterface
	notificationService *NotificationService
	logger              logrus.FieldLogger
}

// NewClientService creates a new ClientService. cache and
// notificationService may be nil.
func NewClientService(
	transactor repository.Transactor,
	cache internalRedis.TripPageCacheInterface,
	notificationService *NotificationService,
	logger logrus.FieldLogger,
) *ClientService {
	return &ClientService{
		transactor:          transactor,
		cache:               cache,
		notificationService: notificationService,
		logger:              logger,
	}
}

// DeleteClient removes a client that has no trip registrations. Ids that
// match no client, including zero and negative ones, yield ErrClientNotFound.
func (s *ClientService) DeleteClient(ctx context.Context, clientID int) error {
	err := s.transactor.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		if _, err := store.Clients().GetByID(ctx, clientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrClientNotFound
			}
			return fmt.Errorf("failed to load client: %w", err)
		}

		registrations, err := store.ClientTrips().CountByClientID(ctx, clientID)
		if err != nil {
			return fmt.Errorf("failed to count client registrations: %w", err)
		}

		if registrations > 0 {
			return ErrClientHasTrips
		}

		if err := store.Clients().Delete(ctx, clientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrClientNotFound
			}
			return fmt.Errorf("failed to delete client: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	invalidateTripPages(ctx, s.cache, s.logger)

	if s.notificationService != nil {
		s.notificationService.NotifyClientRemoved(ctx, clientID)
	}

	return nil
}
