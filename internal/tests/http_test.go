package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripsapi/internal/app"
	"tripsapi/internal/config"
	"tripsapi/internal/handler"
	"tripsapi/internal/logger"
	"tripsapi/internal/middleware"
)

// ──────────────────────────────────────────────
// 6. HTTP API
// ──────────────────────────────────────────────

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	db     *MockDB
	router *gin.Engine
}

func newTestServer(t *testing.T, redisClient *redis.Client) *testServer {
	t.Helper()

	db := NewMockDB()
	seedTrips(db)

	tripHandler := handler.NewTripHandler(newTripService(db), config.PaginationConfig{DefaultPage: 1, DefaultPageSize: 10})
	clientHandler := handler.NewClientHandler(newClientService(db), newRegistrationService(db))

	router := app.NewRouter(app.RouterDeps{
		TripHandler:   tripHandler,
		ClientHandler: clientHandler,
		RedisClient:   redisClient,
		Logger:        logger.Discard(),
		Server:        config.ServerConfig{AllowedOrigins: []string{"*"}},
	})

	return &testServer{db: db, router: router}
}

func (s *testServer) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

const validBody = `{
	"FirstName": "Jan",
	"LastName": "Kowalski",
	"Email": "jan@example.com",
	"Telephone": "600000000",
	"Pesel": "90010112345",
	"PaymentDate": "2026-10-01"
}`

func TestHTTP_Health(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestHTTP_RequestIDEchoed(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/health", "", map[string]string{middleware.RequestIDHeader: "req-42"})
	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
}

func TestHTTP_ListTrips(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/api/trips?page=1&pageSize=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp handler.TripPageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.PageNum)
	assert.Equal(t, 2, resp.PageSize)
	assert.Equal(t, 5, resp.AllPages)
	require.Len(t, resp.Trips, 2)
	assert.Equal(t, []handler.CountryResponse{{Name: "Poland"}, {Name: "Italy"}}, resp.Trips[0].Countries)
	assert.NotNil(t, resp.Trips[0].Clients)

	// Raw keys are part of the contract.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{"pageNum", "pageSize", "allPages", "trips"} {
		assert.Contains(t, raw, key)
	}
	trip := raw["trips"].([]any)[0].(map[string]any)
	for _, key := range []string{"Name", "Description", "DateFrom", "DateTo", "MaxPeople", "Countries", "Clients"} {
		assert.Contains(t, trip, key)
	}
}

func TestHTTP_ListTrips_Defaults(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/api/trips", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp handler.TripPageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.PageNum)
	assert.Equal(t, 10, resp.PageSize)
	assert.Len(t, resp.Trips, 5)
}

func TestHTTP_ListTrips_BadPagination(t *testing.T) {
	s := newTestServer(t, nil)

	for _, query := range []string{"page=0", "pageSize=0", "page=-1", "page=abc", "pageSize=1.5"} {
		w := s.do(http.MethodGet, "/api/trips?"+query, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
		assert.NotEmpty(t, decodeError(t, w).Error, query)
	}
	assert.Zero(t, s.db.ListPageCallCount)
}

func TestHTTP_DeleteClient(t *testing.T) {
	s := newTestServer(t, nil)
	s.db.AddClient(clientFixture(1, "111"))
	s.db.AddClient(clientFixture(2, "222"))
	s.db.AddClientTrip(clientTripFixture(2, 3))

	w := s.do(http.MethodDelete, "/api/trips/1", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"Removed client"`, w.Body.String())
	assert.False(t, s.db.HasClient(1))

	w = s.do(http.MethodDelete, "/api/trips/1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/trips/2", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, s.db.HasClient(2))

	w = s.do(http.MethodDelete, "/api/trips/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTP_NonPositiveIDsNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodDelete, "/api/trips/0", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/trips/-3", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/trips/0/clients", validBody, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/trips/-1/clients", validBody, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, s.db.CountClients())
}

func TestHTTP_RegisterClient(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/api/trips/5/clients", validBody, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Client registered for trip"}`, w.Body.String())
	assert.Equal(t, 1, s.db.CountClients())
	assert.Equal(t, 1, s.db.CountClientTrips())

	// Same Pesel again.
	w = s.do(http.MethodPost, "/api/trips/4/clients", validBody, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, s.db.CountClients())
}

func TestHTTP_RegisterClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"trip started", "/api/trips/1/clients", validBody, http.StatusBadRequest},
		{"trip missing", "/api/trips/99/clients", validBody, http.StatusNotFound},
		{"trip id not a number", "/api/trips/x/clients", validBody, http.StatusBadRequest},
		{"malformed json", "/api/trips/5/clients", `{"FirstName":`, http.StatusBadRequest},
		{"bad payment date", "/api/trips/5/clients", strings.Replace(validBody, "2026-10-01", "yesterday", 1), http.StatusBadRequest},
		{"bad email", "/api/trips/5/clients", strings.Replace(validBody, "jan@example.com", "jan", 1), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)

			w := s.do(http.MethodPost, tt.path, tt.body, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Zero(t, s.db.CountClients())
		})
	}
}

func TestHTTP_RegisterClient_MissingFieldsReported(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/api/trips/5/clients", `{"FirstName":"Jan"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeError(t, w)
	assert.Equal(t, "is required", resp.Fields["Pesel"])
	assert.Equal(t, "is required", resp.Fields["Email"])
	assert.NotContains(t, resp.Fields, "FirstName")
}

func TestHTTP_RegisterClient_InternalErrorHidden(t *testing.T) {
	s := newTestServer(t, nil)
	s.db.CreateClientTripError = errInjected

	w := s.do(http.MethodPost, "/api/trips/5/clients", validBody, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeError(t, w).Error)
	assert.NotContains(t, w.Body.String(), errInjected.Error())
	assert.Zero(t, s.db.CountClients())
}

func TestHTTP_RegisterClient_IdempotentReplay(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := newTestServer(t, client)
	headers := map[string]string{"Idempotency-Key": "abc"}

	first := s.do(http.MethodPost, "/api/trips/5/clients", validBody, headers)
	require.Equal(t, http.StatusOK, first.Code)

	second := s.do(http.MethodPost, "/api/trips/5/clients", validBody, headers)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, s.db.CountClients())

	// A different key is a different request.
	third := s.do(http.MethodPost, "/api/trips/5/clients", validBody, map[string]string{"Idempotency-Key": "def"})
	assert.Equal(t, http.StatusBadRequest, third.Code)
}

func TestHTTP_RegisterClient_CorrectedRetryWithSameKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := newTestServer(t, client)
	headers := map[string]string{"Idempotency-Key": "retry"}

	rejected := s.do(http.MethodPost, "/api/trips/5/clients", `{"FirstName":"Jan"}`, headers)
	require.Equal(t, http.StatusBadRequest, rejected.Code)

	fixed := s.do(http.MethodPost, "/api/trips/5/clients", validBody, headers)
	assert.Equal(t, http.StatusOK, fixed.Code)
	assert.Empty(t, fixed.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, 1, s.db.CountClients())
}

func TestHTTP_RateLimited(t *testing.T) {
	db := NewMockDB()
	seedTrips(db)

	router := app.NewRouter(app.RouterDeps{
		TripHandler:   handler.NewTripHandler(newTripService(db), config.PaginationConfig{DefaultPage: 1, DefaultPageSize: 10}),
		ClientHandler: handler.NewClientHandler(newClientService(db), newRegistrationService(db)),
		Logger:        logger.Discard(),
		RateLimit:     config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 2},
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
