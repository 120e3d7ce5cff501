package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"tripsapi/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationClientRegistered NotificationType = "CLIENT_REGISTERED"
	NotificationClientRemoved    NotificationType = "CLIENT_REMOVED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type      NotificationType
	ClientID  int
	TripID    int
	Email     string
	Message   string
	CreatedAt time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// Delivery is a structured log line until an e-mail provider is wired.
	logger logrus.FieldLogger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(logger logrus.FieldLogger) *NotificationService {
	return &NotificationService{logger: logger}
}

// NotifyClientRegistered confirms a registration to the client.
func (s *NotificationService) NotifyClientRegistered(ctx context.Context, client *domain.Client, clientTrip *domain.ClientTrip) {
	s.send(ctx, Notification{
		Type:      NotificationClientRegistered,
		ClientID:  client.ID,
		TripID:    clientTrip.TripID,
		Email:     client.Email,
		Message:   "You have been registered for the trip",
		CreatedAt: clientTrip.RegisteredAt,
	})
}

// NotifyClientRemoved records the removal of a client.
func (s *NotificationService) NotifyClientRemoved(ctx context.Context, clientID int) {
	s.send(ctx, Notification{
		Type:      NotificationClientRemoved,
		ClientID:  clientID,
		Message:   "Client removed",
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(_ context.Context, n Notification) {
	s.logger.WithFields(logrus.Fields{
		"type":      "notification",
		"kind":      n.Type,
		"client_id": n.ClientID,
		"trip_id":   n.TripID,
		"email":     n.Email,
		"sent_at":   n.CreatedAt,
	}).Info(n.Message)
}
