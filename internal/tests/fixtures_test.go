package tests

import (
	"time"

	"tripsapi/internal/domain"
	"tripsapi/internal/logger"
	"tripsapi/internal/service"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

// seedTrips adds five trips, two countries and no clients.
// Trip IDs 1..5 start on consecutive days after testNow, except trip 1
// which started yesterday.
func seedTrips(db *MockDB) {
	db.AddCountry(domain.Country{ID: 1, Name: "Poland"})
	db.AddCountry(domain.Country{ID: 2, Name: "Italy"})

	db.AddTrip(&domain.Trip{
		ID: 1, Name: "Started", DateFrom: testNow.Add(-24 * time.Hour), DateTo: testNow.Add(48 * time.Hour), MaxPeople: 10,
	}, 1)
	for id := 2; id <= 5; id++ {
		from := testNow.Add(time.Duration(id) * 24 * time.Hour)
		db.AddTrip(&domain.Trip{
			ID: id, Name: "Trip", Description: "future trip", DateFrom: from, DateTo: from.Add(72 * time.Hour), MaxPeople: 20,
		}, 1, 2)
	}
}

func newRegistrationService(db *MockDB, opts ...service.RegistrationOption) *service.RegistrationService {
	log := logger.Discard()
	opts = append([]service.RegistrationOption{service.WithClock(fixedClock(testNow))}, opts...)
	return service.NewRegistrationService(db, service.NewNotificationService(log), log, opts...)
}

func newClientService(db *MockDB) *service.ClientService {
	log := logger.Discard()
	return service.NewClientService(db, nil, service.NewNotificationService(log), log)
}

func newTripService(db *MockDB) *service.TripService {
	return service.NewTripService(db.TripRepository(), nil, logger.Discard())
}

func validRegistration(tripID int, pesel string) service.RegisterClientRequest {
	return service.RegisterClientRequest{
		TripID:    tripID,
		FirstName: "Jan",
		LastName:  "Kowalski",
		Email:     "jan@example.com",
		Telephone: "+48 600 000 000",
		Pesel:     pesel,
	}
}

func clientFixture(id int, pesel string) *domain.Client {
	return &domain.Client{
		ID:        id,
		FirstName: "Client",
		LastName:  pesel,
		Email:     "client" + pesel + "@example.com",
		Telephone: "600000000",
		Pesel:     pesel,
	}
}

func clientTripFixture(clientID, tripID int) domain.ClientTrip {
	return domain.ClientTrip{ClientID: clientID, TripID: tripID, RegisteredAt: testNow.Add(-time.Hour)}
}
