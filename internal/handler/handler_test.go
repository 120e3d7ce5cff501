package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripsapi/internal/repository"
	"tripsapi/internal/service"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrInvalidPage, http.StatusBadRequest},
		{service.ErrInvalidPageSize, http.StatusBadRequest},
		{service.ErrInvalidClientID, http.StatusBadRequest},
		{service.ErrInvalidTripID, http.StatusBadRequest},
		{service.ErrClientNotFound, http.StatusNotFound},
		{service.ErrTripNotFound, http.StatusNotFound},
		{repository.ErrNotFound, http.StatusNotFound},
		{service.ErrPeselExists, http.StatusBadRequest},
		{service.ErrClientHasTrips, http.StatusBadRequest},
		{service.ErrRegistrationInProgress, http.StatusBadRequest},
		{service.ErrTripAlreadyStarted, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", service.ErrTripNotFound), http.StatusNotFound},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mapErrorToHTTPStatus(tt.err), tt.err.Error())
	}
}

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2026-10-01"`, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
		{`"2026-10-01T08:30:00"`, time.Date(2026, 10, 1, 8, 30, 0, 0, time.UTC)},
		{`"2026-10-01T08:30:00Z"`, time.Date(2026, 10, 1, 8, 30, 0, 0, time.UTC)},
		{`"2026-10-01T10:30:00+02:00"`, time.Date(2026, 10, 1, 8, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(tt.in), &d), tt.in)
		assert.True(t, d.Equal(tt.want), "%s parsed as %v", tt.in, d.Time)
	}
}

func TestDate_UnmarshalJSON_NullAndInvalid(t *testing.T) {
	var body struct {
		PaymentDate *Date `json:"PaymentDate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"PaymentDate":null}`), &body))
	assert.Nil(t, body.PaymentDate)

	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`42`), &d))
}
