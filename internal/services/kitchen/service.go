package kitchen

import (
	"context"
	"fmt"
	"time"

	"foodcourt/internal/logger"
	"foodcourt/internal/metrics"
	"foodcourt/internal/models"
)

// Store is the persistence the kitchen service needs
type Store interface {
	MarkReady(ctx context.Context, prepID string, endTime time.Time) (*models.StatusTransition, error)
	ActiveOrders(ctx context.Context, shopID string) ([]models.ActiveOrder, error)
}

// Publisher notifies customers of kitchen progress
type Publisher interface {
	PublishStatusUpdate(ctx context.Context, msg *models.StatusUpdateMessage) error
}

type Service struct {
	store     Store
	publisher Publisher
	metrics   *metrics.Registry
	logger    *logger.Logger
	now       func() time.Time
}

// NewService wires the kitchen service. publisher may be nil.
func NewService(store Store, publisher Publisher, m *metrics.Registry, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    log,
		now:       time.Now,
	}
}

// AdvanceStatus applies a kitchen status change. Ready is the only status a
// preparation record can move to.
func (s *Service) AdvanceStatus(ctx context.Context, prepID, newStatus, requestID string) (*models.StatusTransition, error) {
	if prepID == "" {
		return nil, models.ValidationError{Field: "prep_id", Message: "prep_id is required"}
	}

	status, ok := models.ParseKitchenStatus(newStatus)
	if !ok {
		return nil, models.ValidationError{Field: "status", Message: fmt.Sprintf("unknown kitchen status %q", newStatus)}
	}
	if status != models.KitchenReady {
		return nil, models.ValidationError{Field: "status", Message: "only Ready is accepted"}
	}

	transition, err := s.store.MarkReady(ctx, prepID, s.now().UTC())
	if err != nil {
		s.metrics.KitchenRejected.WithLabelValues(string(models.KindOf(err))).Inc()
		s.logger.Debug("status_transition_rejected", fmt.Sprintf("Preparation %s not moved to Ready", prepID), requestID, map[string]interface{}{
			"prep_id": prepID,
			"error":   err.Error(),
		})
		return nil, err
	}
	s.metrics.KitchenReady.Inc()

	s.logger.Info("order_ready", fmt.Sprintf("Order %s is ready for pickup", transition.OrderID), requestID, map[string]interface{}{
		"prep_id":     prepID,
		"order_id":    transition.OrderID,
		"customer_id": transition.CustomerID,
		"shop_id":     transition.ShopID,
	})

	if s.publisher != nil {
		msg := models.CreateStatusUpdateMessage(transition.OrderID, transition.CustomerID, transition.ShopID,
			string(transition.OldStatus), string(transition.NewStatus), transition.EndTime, nil)
		if err := s.publisher.PublishStatusUpdate(ctx, msg); err != nil {
			s.metrics.PublishFailures.WithLabelValues(models.MessageStatusUpdate).Inc()
			s.logger.Error("notification_publish_failed", "Failed to publish ready notification", requestID, err, map[string]interface{}{
				"order_id": transition.OrderID,
			})
		}
	}

	return transition, nil
}

// ActiveOrders lists the kitchen queue, optionally for a single shop.
func (s *Service) ActiveOrders(ctx context.Context, shopID, requestID string) ([]models.ActiveOrder, error) {
	if len(shopID) > 50 {
		return nil, models.ValidationError{Field: "shop_id", Message: "shop_id must be at most 50 characters"}
	}

	orders, err := s.store.ActiveOrders(ctx, shopID)
	if err != nil {
		s.logger.Error("active_orders_failed", "Failed to load kitchen queue", requestID, err, map[string]interface{}{
			"shop_id": shopID,
		})
		return nil, err
	}
	return orders, nil
}
