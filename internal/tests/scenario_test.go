package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripsapi/internal/domain"
	"tripsapi/internal/logger"
	"tripsapi/internal/service"
)

// ──────────────────────────────────────────────
// 5. END-TO-END SCENARIOS
// ──────────────────────────────────────────────

func findTrip(t *testing.T, page *domain.TripPage, id int) *domain.Trip {
	t.Helper()
	for _, trip := range page.Trips {
		if trip.ID == id {
			return trip
		}
	}
	t.Fatalf("trip %d not in page", id)
	return nil
}

func TestScenario_RegisterThenListThenDuplicate(t *testing.T) {
	t.Parallel()

	db := NewMockDB()
	db.AddCountry(domain.Country{ID: 1, Name: "Poland"})
	db.AddTrip(&domain.Trip{
		ID: 5, Name: "Tatra", DateFrom: testNow.Add(24 * time.Hour), DateTo: testNow.Add(96 * time.Hour), MaxPeople: 12,
	}, 1)
	db.AddTrip(&domain.Trip{
		ID: 6, Name: "Baltic", DateFrom: testNow.Add(48 * time.Hour), DateTo: testNow.Add(120 * time.Hour), MaxPeople: 12,
	}, 1)

	// Shared cache so a stale page would be caught.
	cache := NewMockTripPageCache()
	log := logger.Discard()
	tripService := service.NewTripService(db.TripRepository(), cache, log)
	registration := newRegistrationService(db, service.WithTripPageCache(cache))
	ctx := context.Background()
	list := service.ListTripsRequest{Page: 1, PageSize: 10}

	before, err := tripService.ListTrips(ctx, list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findTrip(t, before, 5).Clients) != 0 {
		t.Fatal("trip 5 should start without clients")
	}

	req := validRegistration(5, "123")
	req.FirstName, req.LastName = "Ewa", "Zielinska"
	if _, err := registration.RegisterClient(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, err := tripService.ListTrips(ctx, list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clients := findTrip(t, after, 5).Clients
	if len(clients) != 1 || clients[0] != (domain.ClientName{FirstName: "Ewa", LastName: "Zielinska"}) {
		t.Fatalf("expected Ewa Zielinska on trip 5, got %+v", clients)
	}

	// Same Pesel onto a different trip.
	_, err = registration.RegisterClient(ctx, validRegistration(6, "123"))
	if !errors.Is(err, service.ErrPeselExists) {
		t.Fatalf("expected ErrPeselExists, got %v", err)
	}

	final, err := tripService.ListTrips(ctx, list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findTrip(t, final, 5).Clients) != 1 {
		t.Error("trip 5 clients must be unchanged")
	}
	if len(findTrip(t, final, 6).Clients) != 0 {
		t.Error("trip 6 must have no clients")
	}
}

func TestScenario_RegisteredClientCannotBeDeleted(t *testing.T) {
	t.Parallel()

	db := NewMockDB()
	seedTrips(db)
	registration := newRegistrationService(db)
	clientService := newClientService(db)
	ctx := context.Background()

	result, err := registration.RegisterClient(ctx, validRegistration(4, "555"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := clientService.DeleteClient(ctx, result.Client.ID); !errors.Is(err, service.ErrClientHasTrips) {
		t.Errorf("expected ErrClientHasTrips, got %v", err)
	}
	if !db.HasClient(result.Client.ID) {
		t.Error("client must remain")
	}
}
