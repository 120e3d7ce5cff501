package service

import "errors"

var (
	// ErrInvalidPage is returned when the requested page number is not positive.
	ErrInvalidPage = errors.New("page must be a positive integer")

	// ErrInvalidPageSize is returned when the requested page size is not positive.
	ErrInvalidPageSize = errors.New("pageSize must be a positive integer")

	// ErrInvalidClientID is returned when the client id is not an integer.
	ErrInvalidClientID = errors.New("invalid client id")

	// ErrInvalidTripID is returned when the trip id is not an integer.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidPesel is returned when the Pesel is empty.
	ErrInvalidPesel = errors.New("pesel is required")

	// ErrClientNotFound is returned when the client does not exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrTripNotFound is returned when the trip does not exist.
	ErrTripNotFound = errors.New("trip not found")

	// ErrClientHasTrips is returned when deleting a client with registrations.
	ErrClientHasTrips = errors.New("client has assigned trips")

	// ErrPeselExists is returned when a client with the same Pesel exists.
	ErrPeselExists = errors.New("client with given pesel already exists")

	// ErrRegistrationInProgress is returned when another registration holds
	// the lock for the same Pesel.
	ErrRegistrationInProgress = errors.New("registration for given pesel already in progress")

	// ErrTripAlreadyStarted is returned when registering onto a trip whose
	// start date is not in the future.
	ErrTripAlreadyStarted = errors.New("trip already started")
)
