package repository

import (
	"context"

	"tripsapi/internal/domain"
)

// ClientRepository defines the persistence operations for clients.
type ClientRepository interface {
	// Create persists a new client and sets its generated ID.
	Create(ctx context.Context, client *domain.Client) error

	// GetByID retrieves a client by ID.
	GetByID(ctx context.Context, id int) (*domain.Client, error)

	// GetByPesel retrieves a client by Pesel.
	GetByPesel(ctx context.Context, pesel string) (*domain.Client, error)

	// Delete removes a client by ID.
	Delete(ctx context.Context, id int) error
}

// ClientTripRepository defines the persistence operations for registrations.
type ClientTripRepository interface {
	// Create persists a new registration.
	Create(ctx context.Context, clientTrip *domain.ClientTrip) error

	// CountByClientID returns the number of registrations of a client.
	CountByClientID(ctx context.Context, clientID int) (int, error)
}
