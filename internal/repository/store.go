package repository

import "context"

// Store bundles the repositories bound to one unit of work.
type Store interface {
	Trips() TripRepository
	Clients() ClientRepository
	ClientTrips() ClientTripRepository
}

// TxFunc runs inside a transaction. Returning an error rolls it back.
type TxFunc func(ctx context.Context, store Store) error

// Transactor runs functions inside a transaction.
type Transactor interface {
	// WithinTx commits when fn returns nil and rolls back otherwise,
	// including when fn panics.
	WithinTx(ctx context.Context, fn TxFunc) error
}
