package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"foodcourt/internal/logger"
	"foodcourt/internal/messaging"
	"foodcourt/internal/models"
)

// Source delivers notification messages to a handler until ctx is done
type Source interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
}

// Subscriber handles notification messages
type Subscriber struct {
	source Source
	out    io.Writer
	logger *logger.Logger
}

// NewSubscriber creates a new notification subscriber printing to out
func NewSubscriber(source Source, out io.Writer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		source: source,
		out:    out,
		logger: log,
	}
}

// Start blocks until ctx is cancelled or the source fails.
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	err := s.source.StartConsuming(ctx, s.HandleMessage)

	s.logger.Info("graceful_shutdown", "Notification subscriber stopped", requestID, nil)
	return err
}

// HandleMessage dispatches one notification on its message type.
func (s *Subscriber) HandleMessage(ctx context.Context, msgType string, body []byte) error {
	var notification string

	switch msgType {
	case models.MessageStatusUpdate, "":
		var update models.StatusUpdateMessage
		if err := json.Unmarshal(body, &update); err != nil {
			return fmt.Errorf("%w: status update: %v", messaging.ErrMalformed, err)
		}
		if update.OrderID == "" {
			return fmt.Errorf("%w: status update without order id", messaging.ErrMalformed)
		}
		notification = FormatStatusUpdate(&update)

		s.logger.Debug("notification_received", "Received status update notification", "", map[string]interface{}{
			"order_id":    update.OrderID,
			"customer_id": update.CustomerID,
			"old_status":  update.OldStatus,
			"new_status":  update.NewStatus,
		})

	case models.MessageReorderAlert:
		var alert models.ReorderAlertMessage
		if err := json.Unmarshal(body, &alert); err != nil {
			return fmt.Errorf("%w: reorder alert: %v", messaging.ErrMalformed, err)
		}
		notification = FormatReorderAlert(&alert)

		s.logger.Debug("notification_received", "Received reorder alert", "", map[string]interface{}{
			"item_id":          alert.ItemID,
			"current_quantity": alert.CurrentQuantity,
		})

	default:
		return fmt.Errorf("%w: unknown message type %q", messaging.ErrMalformed, msgType)
	}

	if _, err := fmt.Fprintln(s.out, notification); err != nil {
		return fmt.Errorf("failed to write notification: %w", err)
	}
	return nil
}

// FormatStatusUpdate renders a status change as the customer sees it.
func FormatStatusUpdate(u *models.StatusUpdateMessage) string {
	timestamp := u.Timestamp.Format("2006-01-02 15:04:05")

	switch u.NewStatus {
	case string(models.OrderPending):
		if u.EstimatedReadyAt != nil {
			return fmt.Sprintf("[%s] Order %s placed for %s. Estimated ready at %s.",
				timestamp, u.OrderID, u.CustomerID, u.EstimatedReadyAt.Format("15:04:05"))
		}
		return fmt.Sprintf("[%s] Order %s placed for %s.", timestamp, u.OrderID, u.CustomerID)
	case string(models.KitchenReady):
		return fmt.Sprintf("[%s] Order %s is ready for pickup at shop %s!", timestamp, u.OrderID, u.ShopID)
	case string(models.OrderCompleted):
		return fmt.Sprintf("[%s] Order %s has been picked up. Enjoy your meal!", timestamp, u.OrderID)
	default:
		return fmt.Sprintf("[%s] Order %s status changed from '%s' to '%s'.",
			timestamp, u.OrderID, u.OldStatus, u.NewStatus)
	}
}

// FormatReorderAlert renders a low-stock alert for shop staff.
func FormatReorderAlert(a *models.ReorderAlertMessage) string {
	return fmt.Sprintf("[%s] Reorder %s (%s): %d %s left, reorder level %d.",
		a.Timestamp.Format("2006-01-02 15:04:05"), a.ItemName, a.ItemID, a.CurrentQuantity, a.Unit, a.ReorderLevel)
}
