package postgres

import (
	"context"
	"database/sql"

	"tripsapi/internal/domain"
	"tripsapi/internal/repository"
)

// ClientTripRepository is a PostgreSQL implementation of repository.ClientTripRepository.
type ClientTripRepository struct {
	q Querier
}

// NewClientTripRepositoryWithTx creates a registration repository using a transaction.
func NewClientTripRepositoryWithTx(tx *sql.Tx) *ClientTripRepository {
	return &ClientTripRepository{q: tx}
}

// Create persists a new registration.
func (r *ClientTripRepository) Create(ctx context.Context, clientTrip *domain.ClientTrip) error {
	query := `
		INSERT INTO client_trip (id_client, id_trip, registered_at, payment_date)
		VALUES ($1, $2, $3, $4)
	`

	var paymentDate sql.NullTime
	if clientTrip.PaymentDate != nil {
		paymentDate = sql.NullTime{Time: *clientTrip.PaymentDate, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		clientTrip.ClientID,
		clientTrip.TripID,
		clientTrip.RegisteredAt,
		paymentDate,
	)

	return mapError(err)
}

// CountByClientID returns the number of registrations of a client.
func (r *ClientTripRepository) CountByClientID(ctx context.Context, clientID int) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM client_trip WHERE id_client = $1`, clientID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure ClientTripRepository implements repository.ClientTripRepository.
var _ repository.ClientTripRepository = (*ClientTripRepository)(nil)
