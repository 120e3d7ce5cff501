package domain

import "time"

// Client represents a person that can be registered on trips.
type Client struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
	Telephone string
	Pesel     string
}

// ClientName is the projection of a client shown in trip listings.
type ClientName struct {
	FirstName string
	LastName  string
}

// ClientTrip represents one client's registration on one trip.
type ClientTrip struct {
	ClientID     int
	TripID       int
	RegisteredAt time.Time
	PaymentDate  *time.Time
}
