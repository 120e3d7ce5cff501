package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripsapi/internal/repository"
	"tripsapi/internal/service"
)

// timeLayout is the format used for timestamps in responses.
const timeLayout = "2006-01-02T15:04:05Z07:00"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse represents a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Internal errors are attached to the context for logging and hidden from
// the client.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrTripNotFound):
		return http.StatusNotFound

	// Invalid arguments
	case errors.Is(err, service.ErrInvalidPage),
		errors.Is(err, service.ErrInvalidPageSize),
		errors.Is(err, service.ErrInvalidClientID),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidPesel):
		return http.StatusBadRequest

	// Conflicts and invalid state are reported as bad requests
	case errors.Is(err, service.ErrPeselExists),
		errors.Is(err, service.ErrClientHasTrips),
		errors.Is(err, service.ErrRegistrationInProgress),
		errors.Is(err, service.ErrTripAlreadyStarted):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
