package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripsapi/internal/service"
)

// ClientHandler handles HTTP requests for clients and their registrations.
type ClientHandler struct {
	clientService       *service.ClientService
	registrationService *service.RegistrationService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService *service.ClientService, registrationService *service.RegistrationService) *ClientHandler {
	return &ClientHandler{
		clientService:       clientService,
		registrationService: registrationService,
	}
}

// RegisterClientRequest is the HTTP request body for registering a client.
type RegisterClientRequest struct {
	FirstName   string `json:"FirstName" binding:"required,max=120"`
	LastName    string `json:"LastName" binding:"required,max=120"`
	Email       string `json:"Email" binding:"required,email,max=120"`
	Telephone   string `json:"Telephone" binding:"required,max=120"`
	Pesel       string `json:"Pesel" binding:"required,max=120"`
	PaymentDate *Date  `json:"PaymentDate"`
}

// DeleteClient handles DELETE /api/trips/:idClient
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("idClient"))
	if err != nil {
		respondError(c, service.ErrInvalidClientID)
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), clientID); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "Removed client")
}

// RegisterClient handles POST /api/trips/:idTrip/clients
func (h *ClientHandler) RegisterClient(c *gin.Context) {
	tripID, err := strconv.Atoi(c.Param("idTrip"))
	if err != nil {
		respondError(c, service.ErrInvalidTripID)
		return
	}

	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	registration := service.RegisterClientRequest{
		TripID:    tripID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Telephone: req.Telephone,
		Pesel:     req.Pesel,
	}
	if req.PaymentDate != nil && !req.PaymentDate.IsZero() {
		paymentDate := req.PaymentDate.Time
		registration.PaymentDate = &paymentDate
	}

	if _, err := h.registrationService.RegisterClient(c.Request.Context(), registration); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, MessageResponse{Message: "Client registered for trip"})
}
