package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"tripsapi/internal/domain"
	"tripsapi/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK DATABASE
// ──────────────────────────────────────────────

// MockDB is an in-memory stand-in for the relational store. Writes made
// inside WithinTx are discarded when the transaction rolls back.
type MockDB struct {
	mu sync.Mutex

	trips        map[int]*domain.Trip
	countries    map[int]domain.Country
	countryTrips map[int][]int // trip ID -> country IDs
	clients      map[int]*domain.Client
	clientTrips  []domain.ClientTrip
	nextClientID int

	// Counters for verification
	BeginCallCount    int32
	CommitCallCount   int32
	RollbackCallCount int32
	ListPageCallCount int32
	CountCallCount    int32

	// Error injection
	CreateClientError     error
	CreateClientTripError error
	GetByPeselError       error
	ListPageError         error
	CommitError           error
}

// NewMockDB creates an empty mock database.
func NewMockDB() *MockDB {
	return &MockDB{
		trips:        make(map[int]*domain.Trip),
		countries:    make(map[int]domain.Country),
		countryTrips: make(map[int][]int),
		clients:      make(map[int]*domain.Client),
		nextClientID: 1,
	}
}

// AddCountry adds a country.
func (m *MockDB) AddCountry(country domain.Country) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countries[country.ID] = country
}

// AddTrip adds a trip visiting the given countries.
func (m *MockDB) AddTrip(trip *domain.Trip, countryIDs ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *trip
	stored.Countries = nil
	stored.Clients = nil
	m.trips[trip.ID] = &stored
	m.countryTrips[trip.ID] = append([]int(nil), countryIDs...)
}

// AddClient adds a client, assigning an ID when none is set.
func (m *MockDB) AddClient(client *domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertClient(client)
}

// AddClientTrip adds a registration.
func (m *MockDB) AddClientTrip(clientTrip domain.ClientTrip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clientTrips = append(m.clientTrips, clientTrip)
}

// CountClients returns the number of clients.
func (m *MockDB) CountClients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// CountClientTrips returns the number of registrations.
func (m *MockDB) CountClientTrips() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clientTrips)
}

// HasClient reports whether a client exists.
func (m *MockDB) HasClient(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.clients[id]
	return ok
}

// ClientTripsFor returns the registrations of a client.
func (m *MockDB) ClientTripsFor(clientID int) []domain.ClientTrip {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.ClientTrip
	for _, ct := range m.clientTrips {
		if ct.ClientID == clientID {
			result = append(result, ct)
		}
	}
	return result
}

func (m *MockDB) insertClient(client *domain.Client) {
	if client.ID == 0 {
		client.ID = m.nextClientID
	}
	if client.ID >= m.nextClientID {
		m.nextClientID = client.ID + 1
	}
	stored := *client
	m.clients[client.ID] = &stored
}

type snapshot struct {
	clients      map[int]*domain.Client
	clientTrips  []domain.ClientTrip
	nextClientID int
}

func (m *MockDB) snapshot() snapshot {
	clients := make(map[int]*domain.Client, len(m.clients))
	for id, c := range m.clients {
		stored := *c
		clients[id] = &stored
	}
	return snapshot{
		clients:      clients,
		clientTrips:  append([]domain.ClientTrip(nil), m.clientTrips...),
		nextClientID: m.nextClientID,
	}
}

func (m *MockDB) restore(s snapshot) {
	m.clients = s.clients
	m.clientTrips = s.clientTrips
	m.nextClientID = s.nextClientID
}

// Store returns a store running each call outside any transaction.
func (m *MockDB) Store() repository.Store {
	return &mockStore{db: m, lock: true}
}

// TripRepository returns a trip repository running outside any transaction.
func (m *MockDB) TripRepository() repository.TripRepository {
	return &mockStore{db: m, lock: true}
}

// WithinTx implements repository.Transactor. Transactions are serialised.
func (m *MockDB) WithinTx(ctx context.Context, fn repository.TxFunc) (err error) {
	atomic.AddInt32(&m.BeginCallCount, 1)

	m.mu.Lock()
	defer m.mu.Unlock()

	saved := m.snapshot()

	defer func() {
		if p := recover(); p != nil {
			atomic.AddInt32(&m.RollbackCallCount, 1)
			m.restore(saved)
			panic(p)
		}
		if err != nil {
			atomic.AddInt32(&m.RollbackCallCount, 1)
			m.restore(saved)
		}
	}()

	if err = fn(ctx, &mockStore{db: m}); err != nil {
		return err
	}

	if m.CommitError != nil {
		return m.CommitError
	}

	atomic.AddInt32(&m.CommitCallCount, 1)
	return nil
}

// ──────────────────────────────────────────────
// MOCK STORE
// ──────────────────────────────────────────────

// mockStore implements the repositories on top of MockDB. Inside a
// transaction the lock is already held by WithinTx.
type mockStore struct {
	db   *MockDB
	lock bool
}

func (s *mockStore) acquire() func() {
	if !s.lock {
		return func() {}
	}
	s.db.mu.Lock()
	return s.db.mu.Unlock
}

func (s *mockStore) Trips() repository.TripRepository             { return s }
func (s *mockStore) Clients() repository.ClientRepository         { return (*mockClientRepo)(s) }
func (s *mockStore) ClientTrips() repository.ClientTripRepository { return (*mockClientTripRepo)(s) }

func (s *mockStore) GetByID(ctx context.Context, id int) (*domain.Trip, error) {
	defer s.acquire()()
	trip, ok := s.db.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *trip
	return &found, nil
}

func (s *mockStore) ListPage(ctx context.Context, offset, limit int) ([]*domain.Trip, error) {
	atomic.AddInt32(&s.db.ListPageCallCount, 1)
	if s.db.ListPageError != nil {
		return nil, s.db.ListPageError
	}
	defer s.acquire()()

	all := make([]*domain.Trip, 0, len(s.db.trips))
	for _, t := range s.db.trips {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].DateFrom.Equal(all[j].DateFrom) {
			return all[i].DateFrom.After(all[j].DateFrom)
		}
		return all[i].ID > all[j].ID
	})

	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	result := make([]*domain.Trip, 0, end-offset)
	for _, t := range all[offset:end] {
		trip := *t
		trip.Countries = []domain.Country{}
		trip.Clients = []domain.ClientName{}
		for _, countryID := range s.db.countryTrips[t.ID] {
			trip.Countries = append(trip.Countries, s.db.countries[countryID])
		}
		for _, ct := range s.db.clientTrips {
			if ct.TripID != t.ID {
				continue
			}
			if c, ok := s.db.clients[ct.ClientID]; ok {
				trip.Clients = append(trip.Clients, domain.ClientName{FirstName: c.FirstName, LastName: c.LastName})
			}
		}
		result = append(result, &trip)
	}
	return result, nil
}

func (s *mockStore) Count(ctx context.Context) (int, error) {
	atomic.AddInt32(&s.db.CountCallCount, 1)
	defer s.acquire()()
	return len(s.db.trips), nil
}

type mockClientRepo mockStore

func (r *mockClientRepo) store() *mockStore { return (*mockStore)(r) }

func (r *mockClientRepo) Create(ctx context.Context, client *domain.Client) error {
	if r.db.CreateClientError != nil {
		return r.db.CreateClientError
	}
	defer r.store().acquire()()
	client.ID = 0
	r.db.insertClient(client)
	return nil
}

func (r *mockClientRepo) GetByID(ctx context.Context, id int) (*domain.Client, error) {
	defer r.store().acquire()()
	client, ok := r.db.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *client
	return &found, nil
}

func (r *mockClientRepo) GetByPesel(ctx context.Context, pesel string) (*domain.Client, error) {
	if r.db.GetByPeselError != nil {
		return nil, r.db.GetByPeselError
	}
	defer r.store().acquire()()
	for _, c := range r.db.clients {
		if c.Pesel == pesel {
			found := *c
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *mockClientRepo) Delete(ctx context.Context, id int) error {
	defer r.store().acquire()()
	if _, ok := r.db.clients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.clients, id)
	return nil
}

type mockClientTripRepo mockStore

func (r *mockClientTripRepo) Create(ctx context.Context, clientTrip *domain.ClientTrip) error {
	if r.db.CreateClientTripError != nil {
		return r.db.CreateClientTripError
	}
	defer (*mockStore)(r).acquire()()
	r.db.clientTrips = append(r.db.clientTrips, *clientTrip)
	return nil
}

func (r *mockClientTripRepo) CountByClientID(ctx context.Context, clientID int) (int, error) {
	defer (*mockStore)(r).acquire()()
	count := 0
	for _, ct := range r.db.clientTrips {
		if ct.ClientID == clientID {
			count++
		}
	}
	return count, nil
}

// Ensure mocks implement the repository interfaces.
var (
	_ repository.Transactor           = (*MockDB)(nil)
	_ repository.Store                = (*mockStore)(nil)
	_ repository.TripRepository       = (*mockStore)(nil)
	_ repository.ClientRepository     = (*mockClientRepo)(nil)
	_ repository.ClientTripRepository = (*mockClientTripRepo)(nil)
)

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockTripPageCache is an in-memory trip page cache with generation keys.
type MockTripPageCache struct {
	mu         sync.Mutex
	generation int64
	pages      map[pageKey]*domain.TripPage

	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	GetError error
}

type pageKey struct {
	generation     int64
	page, pageSize int
}

// NewMockTripPageCache creates a new mock cache.
func NewMockTripPageCache() *MockTripPageCache {
	return &MockTripPageCache{pages: make(map[pageKey]*domain.TripPage)}
}

func (m *MockTripPageCache) GetPage(ctx context.Context, page, pageSize int) (*domain.TripPage, int64, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, 0, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pages[pageKey{m.generation, page, pageSize}], m.generation, nil
}

func (m *MockTripPageCache) SetPage(ctx context.Context, generation int64, tripPage *domain.TripPage) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[pageKey{generation, tripPage.PageNum, tripPage.PageSize}] = tripPage
	return nil
}

func (m *MockTripPageCache) Invalidate(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	return nil
}

// MockPeselLock is an in-memory Pesel lock store.
type MockPeselLock struct {
	mu    sync.Mutex
	locks map[string]string

	AcquireCallCount int32
	ReleaseCallCount int32

	AcquireError error
}

// NewMockPeselLock creates a new mock lock store.
func NewMockPeselLock() *MockPeselLock {
	return &MockPeselLock{locks: make(map[string]string)}
}

// Hold marks a Pesel as locked by someone else.
func (m *MockPeselLock) Hold(pesel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[pesel] = "held-by-other"
}

// IsLocked reports whether a Pesel is locked.
func (m *MockPeselLock) IsLocked(pesel string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.locks[pesel]
	return ok
}

func (m *MockPeselLock) AcquirePeselLock(ctx context.Context, pesel string) (string, bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[pesel]; held {
		return "", false, nil
	}
	token := "token-" + pesel
	m.locks[pesel] = token
	return token, true, nil
}

func (m *MockPeselLock) ReleasePeselLock(ctx context.Context, pesel, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[pesel] == token {
		delete(m.locks, pesel)
	}
	return nil
}

// ──────────────────────────────────────────────
// HELPERS
// ──────────────────────────────────────────────

var errInjected = errors.New("injected failure")

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
