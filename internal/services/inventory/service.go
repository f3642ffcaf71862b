package inventory

import (
	"context"
	"fmt"
	"time"

	"foodcourt/internal/logger"
	"foodcourt/internal/metrics"
	"foodcourt/internal/models"
)

// Store is the ledger the inventory service runs against
type Store interface {
	Decrement(ctx context.Context, itemID string, qty int) (*models.ConsumeResult, error)
	Status(ctx context.Context) ([]models.InventoryStatus, error)
}

// Publisher announces low stock
type Publisher interface {
	PublishReorderAlert(ctx context.Context, msg *models.ReorderAlertMessage) error
}

type Service struct {
	store     Store
	publisher Publisher
	metrics   *metrics.Registry
	logger    *logger.Logger
	now       func() time.Time
}

func NewService(store Store, publisher Publisher, m *metrics.Registry, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    log,
		now:       time.Now,
	}
}

// Consume records qty units of itemID as used. The result carries a reorder
// alert when the remaining stock is at or below the item's reorder level.
func (s *Service) Consume(ctx context.Context, itemID string, qty int, requestID string) (*models.ConsumeResult, error) {
	if itemID == "" {
		return nil, models.ValidationError{Field: "item_id", Message: "item_id is required"}
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w: got %d", models.ErrInvalidQuantity, qty)
	}

	result, err := s.store.Decrement(ctx, itemID, qty)
	if err != nil {
		if models.KindOf(err) == models.KindInsufficientStock {
			s.metrics.StockRejected.Inc()
		}
		s.logger.Debug("inventory_consume_rejected", fmt.Sprintf("Could not consume %d of %s", qty, itemID), requestID, map[string]interface{}{
			"item_id":  itemID,
			"quantity": qty,
			"error":    err.Error(),
		})
		return nil, err
	}
	s.metrics.InventoryConsumed.WithLabelValues(itemID).Add(float64(qty))

	s.logger.Info("inventory_consumed", fmt.Sprintf("Consumed %d %s of %s", qty, result.Unit, result.ItemName), requestID, map[string]interface{}{
		"item_id":           itemID,
		"previous_quantity": result.PreviousQuantity,
		"new_quantity":      result.NewQuantity,
	})

	if result.ReorderAlert != nil {
		s.raiseReorderAlert(ctx, result, requestID)
	}
	return result, nil
}

// Status returns the inventory overview.
func (s *Service) Status(ctx context.Context, requestID string) ([]models.InventoryStatus, error) {
	items, err := s.store.Status(ctx)
	if err != nil {
		s.logger.Error("inventory_status_failed", "Failed to load inventory", requestID, err, nil)
		return nil, err
	}
	return items, nil
}

func (s *Service) raiseReorderAlert(ctx context.Context, result *models.ConsumeResult, requestID string) {
	s.metrics.ReorderAlerts.Inc()
	s.logger.Info("reorder_alert", fmt.Sprintf("%s is at or below its reorder level", result.ItemName), requestID, map[string]interface{}{
		"item_id":          result.ItemID,
		"current_quantity": result.ReorderAlert.CurrentQuantity,
		"reorder_level":    result.ReorderAlert.ReorderLevel,
	})

	if s.publisher == nil {
		return
	}
	msg := &models.ReorderAlertMessage{
		ItemID:          result.ItemID,
		ItemName:        result.ItemName,
		CurrentQuantity: result.ReorderAlert.CurrentQuantity,
		ReorderLevel:    result.ReorderAlert.ReorderLevel,
		Unit:            result.Unit,
		Timestamp:       s.now().UTC(),
	}
	if err := s.publisher.PublishReorderAlert(ctx, msg); err != nil {
		s.metrics.PublishFailures.WithLabelValues(models.MessageReorderAlert).Inc()
		s.logger.Error("reorder_publish_failed", "Failed to publish reorder alert", requestID, err, map[string]interface{}{
			"item_id": result.ItemID,
		})
	}
}
