package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripsapi/internal/config"
	"tripsapi/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
	pagination  config.PaginationConfig
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService, pagination config.PaginationConfig) *TripHandler {
	return &TripHandler{tripService: tripService, pagination: pagination}
}

// listTripsQuery binds the pagination query string.
type listTripsQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// TripPageResponse is the HTTP response for trip listing.
type TripPageResponse struct {
	PageNum  int            `json:"pageNum"`
	PageSize int            `json:"pageSize"`
	AllPages int            `json:"allPages"`
	Trips    []TripResponse `json:"trips"`
}

// TripResponse is one trip in the listing.
type TripResponse struct {
	Name        string               `json:"Name"`
	Description string               `json:"Description"`
	DateFrom    string               `json:"DateFrom"`
	DateTo      string               `json:"DateTo"`
	MaxPeople   int                  `json:"MaxPeople"`
	Countries   []CountryResponse    `json:"Countries"`
	Clients     []ClientNameResponse `json:"Clients"`
}

// CountryResponse contains country details in the response.
type CountryResponse struct {
	Name string `json:"Name"`
}

// ClientNameResponse contains the name of a registered client.
type ClientNameResponse struct {
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
}

// GetAll handles GET /api/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	query := listTripsQuery{
		Page:     h.pagination.DefaultPage,
		PageSize: h.pagination.DefaultPageSize,
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "page and pageSize must be integers"})
		return
	}

	tripPage, err := h.tripService.ListTrips(c.Request.Context(), service.ListTripsRequest{
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := TripPageResponse{
		PageNum:  tripPage.PageNum,
		PageSize: tripPage.PageSize,
		AllPages: tripPage.AllPages,
		Trips:    make([]TripResponse, 0, len(tripPage.Trips)),
	}

	for _, trip := range tripPage.Trips {
		tr := TripResponse{
			Name:        trip.Name,
			Description: trip.Description,
			DateFrom:    trip.DateFrom.Format(timeLayout),
			DateTo:      trip.DateTo.Format(timeLayout),
			MaxPeople:   trip.MaxPeople,
			Countries:   make([]CountryResponse, 0, len(trip.Countries)),
			Clients:     make([]ClientNameResponse, 0, len(trip.Clients)),
		}
		for _, country := range trip.Countries {
			tr.Countries = append(tr.Countries, CountryResponse{Name: country.Name})
		}
		for _, client := range trip.Clients {
			tr.Clients = append(tr.Clients, ClientNameResponse{
				FirstName: client.FirstName,
				LastName:  client.LastName,
			})
		}
		response.Trips = append(response.Trips, tr)
	}

	respondJSON(c, http.StatusOK, response)
}
