package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"tripsapi/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Store is a PostgreSQL implementation of repository.Store.
type Store struct {
	trips       *TripRepository
	clients     *ClientRepository
	clientTrips *ClientTripRepository
}

func newStore(q Querier) *Store {
	return &Store{
		trips:       &TripRepository{q: q},
		clients:     &ClientRepository{q: q},
		clientTrips: &ClientTripRepository{q: q},
	}
}

func (s *Store) Trips() repository.TripRepository             { return s.trips }
func (s *Store) Clients() repository.ClientRepository         { return s.clients }
func (s *Store) ClientTrips() repository.ClientTripRepository { return s.clientTrips }

// Transactor is a PostgreSQL implementation of repository.Transactor.
type Transactor struct {
	db     *sql.DB
	logger logrus.FieldLogger
}

// NewTransactor creates a new Transactor.
func NewTransactor(db *sql.DB, logger logrus.FieldLogger) *Transactor {
	return &Transactor{db: db, logger: logger}
}

// WithinTx runs fn with a store bound to a new transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn repository.TxFunc) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				t.logger.WithError(rbErr).Error("failed to roll back transaction")
			}
		}
	}()

	if err = fn(ctx, newStore(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Ensure Store and Transactor implement the repository interfaces.
var (
	_ repository.Store      = (*Store)(nil)
	_ repository.Transactor = (*Transactor)(nil)
)
