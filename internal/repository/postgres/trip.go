package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"tripsapi/internal/domain"
	"tripsapi/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id int) (*domain.Trip, error) {
	query := `
		SELECT id_trip, name, description, date_from, date_to, max_people
		FROM trip WHERE id_trip = $1
	`

	var trip domain.Trip
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&trip.ID,
		&trip.Name,
		&trip.Description,
		&trip.DateFrom,
		&trip.DateTo,
		&trip.MaxPeople,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return &trip, nil
}

// ListPage retrieves a page of trips with their countries and clients.
func (r *TripRepository) ListPage(ctx context.Context, offset, limit int) ([]*domain.Trip, error) {
	query := `
		SELECT id_trip, name, description, date_from, date_to, max_people
		FROM trip
		ORDER BY date_from DESC, id_trip DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := r.q.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]*domain.Trip, 0, limit)
	byID := make(map[int]*domain.Trip, limit)
	ids := make([]int64, 0, limit)
	for rows.Next() {
		trip := &domain.Trip{
			Countries: []domain.Country{},
			Clients:   []domain.ClientName{},
		}
		if err := rows.Scan(
			&trip.ID,
			&trip.Name,
			&trip.Description,
			&trip.DateFrom,
			&trip.DateTo,
			&trip.MaxPeople,
		); err != nil {
			return nil, err
		}
		trips = append(trips, trip)
		byID[trip.ID] = trip
		ids = append(ids, int64(trip.ID))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return trips, nil
	}

	if err := r.loadCountries(ctx, ids, byID); err != nil {
		return nil, err
	}
	if err := r.loadClients(ctx, ids, byID); err != nil {
		return nil, err
	}

	return trips, nil
}

func (r *TripRepository) loadCountries(ctx context.Context, ids []int64, byID map[int]*domain.Trip) error {
	query := `
		SELECT ct.id_trip, c.id_country, c.name
		FROM country_trip ct
		JOIN country c ON c.id_country = ct.id_country
		WHERE ct.id_trip = ANY($1)
		ORDER BY ct.id_trip, c.name
	`

	rows, err := r.q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tripID int
		var country domain.Country
		if err := rows.Scan(&tripID, &country.ID, &country.Name); err != nil {
			return err
		}
		if trip, ok := byID[tripID]; ok {
			trip.Countries = append(trip.Countries, country)
		}
	}

	return rows.Err()
}

func (r *TripRepository) loadClients(ctx context.Context, ids []int64, byID map[int]*domain.Trip) error {
	query := `
		SELECT ct.id_trip, c.first_name, c.last_name
		FROM client_trip ct
		JOIN client c ON c.id_client = ct.id_client
		WHERE ct.id_trip = ANY($1)
		ORDER BY ct.id_trip, ct.registered_at, c.id_client
	`

	rows, err := r.q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tripID int
		var name domain.ClientName
		if err := rows.Scan(&tripID, &name.FirstName, &name.LastName); err != nil {
			return err
		}
		if trip, ok := byID[tripID]; ok {
			trip.Clients = append(trip.Clients, name)
		}
	}

	return rows.Err()
}

// Count returns the total number of trips.
func (r *TripRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM trip`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
