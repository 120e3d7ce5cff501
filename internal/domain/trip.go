package domain

import "time"

// Trip represents an organised trip clients can register for.
type Trip struct {
	ID          int
	Name        string
	Description string
	DateFrom    time.Time
	DateTo      time.Time
	MaxPeople   int
	Countries   []Country
	Clients     []ClientName
}

// HasStarted reports whether the trip has already begun at the given time.
// A trip starting exactly at now counts as started.
func (t *Trip) HasStarted(now time.Time) bool {
	return !t.DateFrom.After(now)
}

// Country represents a country visited by one or more trips.
type Country struct {
	ID   int
	Name string
}

// TripPage is one page of the trip listing.
type TripPage struct {
	PageNum  int
	PageSize int
	AllPages int // total number of trips, not pages
	Trips    []*Trip
}
