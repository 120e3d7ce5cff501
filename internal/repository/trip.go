package repository

import (
	"context"

	"tripsapi/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// GetByID retrieves a trip by ID without its countries or clients.
	GetByID(ctx context.Context, id int) (*domain.Trip, error)

	// ListPage retrieves up to limit trips ordered by DateFrom descending,
	// skipping offset rows. Countries and clients are populated.
	ListPage(ctx context.Context, offset, limit int) ([]*domain.Trip, error)

	// Count returns the total number of trips.
	Count(ctx context.Context) (int, error)
}
