package postgres

import (
	"context"
	"database/sql"

	"tripsapi/internal/domain"
	"tripsapi/internal/repository"
)

// ClientRepository is a PostgreSQL implementation of repository.ClientRepository.
type ClientRepository struct {
	q Querier
}

// NewClientRepository creates a new PostgreSQL client repository.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{q: db}
}

// Create persists a new client and sets its generated ID.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO client (first_name, last_name, email, telephone, pesel)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_client
	`

	err := r.q.QueryRowContext(ctx, query,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Telephone,
		client.Pesel,
	).Scan(&client.ID)

	return mapError(err)
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id int) (*domain.Client, error) {
	query := `
		SELECT id_client, first_name, last_name, email, telephone, pesel
		FROM client WHERE id_client = $1
	`
	return r.getOne(ctx, query, id)
}

// GetByPesel retrieves a client by Pesel.
func (r *ClientRepository) GetByPesel(ctx context.Context, pesel string) (*domain.Client, error) {
	query := `
		SELECT id_client, first_name, last_name, email, telephone, pesel
		FROM client WHERE pesel = $1
		LIMIT 1
	`
	return r.getOne(ctx, query, pesel)
}

func (r *ClientRepository) getOne(ctx context.Context, query string, arg any) (*domain.Client, error) {
	var client domain.Client
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&client.ID,
		&client.FirstName,
		&client.LastName,
		&client.Email,
		&client.Telephone,
		&client.Pesel,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &client, nil
}

// Delete removes a client by ID.
func (r *ClientRepository) Delete(ctx context.Context, id int) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM client WHERE id_client = $1`, id)
	if err != nil {
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Ensure ClientRepository implements repository.ClientRepository.
var _ repository.ClientRepository = (*ClientRepository)(nil)
