package tracking

import (
	"context"
	"fmt"
	"time"

	"foodcourt/internal/logger"
	"foodcourt/internal/models"
)

// Service provides the customer-facing order feed
type Service struct {
	repo   FeedRepo
	window time.Duration
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a feed over orders placed within window of now
func NewService(repo FeedRepo, window time.Duration, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		window: window,
		logger: log,
		now:    time.Now,
	}
}

// CustomerOrders returns the customer's recent orders, newest first. An
// unknown customer simply has an empty feed.
func (s *Service) CustomerOrders(ctx context.Context, customerID, requestID string) ([]models.CustomerOrder, error) {
	if err := validateCustomerID(customerID); err != nil {
		return nil, err
	}

	orders, err := s.repo.CustomerOrders(ctx, customerID, s.since())
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to query customer orders", requestID, err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	for i := range orders {
		o := &orders[i]
		if o.PrepStartTime != nil && o.PrepEndTime != nil {
			minutes := int(o.PrepEndTime.Sub(*o.PrepStartTime).Minutes())
			o.ActualPrepMinutes = &minutes
		}
		o.NeedsNotification = models.NeedsNotification(o.KitchenStatus, o.OrderStatus)
	}

	s.logger.Debug("customer_orders_loaded", fmt.Sprintf("Loaded %d orders", len(orders)), requestID, map[string]interface{}{
		"customer_id": customerID,
		"count":       len(orders),
	})
	return orders, nil
}

// NotificationCount reports how many of the customer's orders are ready
// for pickup.
func (s *Service) NotificationCount(ctx context.Context, customerID, requestID string) (*models.NotificationSummary, error) {
	if err := validateCustomerID(customerID); err != nil {
		return nil, err
	}

	ids, err := s.repo.ReadyOrderIDs(ctx, customerID, s.since())
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to query ready orders", requestID, err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	return &models.NotificationSummary{
		CustomerID:  customerID,
		Count:       len(ids),
		ReadyOrders: ids,
	}, nil
}

func (s *Service) since() time.Time {
	return s.now().UTC().Add(-s.window)
}

func validateCustomerID(customerID string) error {
	if customerID == "" {
		return models.ValidationError{Field: "customer_id", Message: "customer_id is required"}
	}
	if len(customerID) > 50 {
		return models.ValidationError{Field: "customer_id", Message: "customer_id must be at most 50 characters"}
	}
	return nil
}
