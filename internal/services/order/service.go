package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"foodcourt/internal/config"
	"foodcourt/internal/logger"
	"foodcourt/internal/metrics"
	"foodcourt/internal/models"
)

// Store is the persistence the order service needs
type Store interface {
	Catalog
	ShopMenu(ctx context.Context, shopID string) ([]models.MenuEntry, error)
	CommitOrder(ctx context.Context, draft *models.OrderDraft) error
	CompleteOrder(ctx context.Context, orderID string) (*models.CompletedOrder, error)
}

// Publisher fans order events out to the kitchen and to notifications
type Publisher interface {
	PublishKitchenTicket(ctx context.Context, ticket *models.KitchenTicketMessage) error
	PublishStatusUpdate(ctx context.Context, msg *models.StatusUpdateMessage) error
}

type Service struct {
	store         Store
	publisher     Publisher
	metrics       *metrics.Registry
	logger        *logger.Logger
	commitTimeout time.Duration
	currency      string

	now   func() time.Time
	newID func(prefix string) string
}

// NewService wires the order service. publisher may be nil, in which case
// no events are emitted.
func NewService(store Store, publisher Publisher, m *metrics.Registry, log *logger.Logger, cfg *config.Config) *Service {
	return &Service{
		store:         store,
		publisher:     publisher,
		metrics:       m,
		logger:        log,
		commitTimeout: cfg.Database.CommitTimeout,
		currency:      cfg.Orders.Currency,
		now:           time.Now,
		newID:         GenerateID,
	}
}

// GenerateID returns prefix followed by 7 upper-case hex characters.
func GenerateID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(hex[:7])
}

// PlaceOrder prices the basket against the shop's catalog and commits the
// order with its lines, payment and preparation record as one unit.
func (s *Service) PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest, requestID string) (*models.PlaceOrderResponse, error) {
	mode, err := ValidatePlaceOrderRequest(req)
	if err != nil {
		return nil, err
	}

	entries := MergeBasket(req.Items)
	catalog, err := s.store.MenuItems(ctx, req.ShopID, ItemIDs(entries))
	if err != nil {
		s.logger.Error("catalog_lookup_failed", "Failed to resolve basket items", requestID, err, map[string]interface{}{
			"shop_id": req.ShopID,
		})
		return nil, err
	}

	basket, err := PriceBasket(req, mode, catalog)
	if err != nil {
		return nil, err
	}

	draft := s.buildDraft(basket, s.now().UTC())

	commitCtx, cancel := context.WithTimeout(ctx, s.commitTimeout)
	defer cancel()

	start := time.Now()
	err = s.store.CommitOrder(commitCtx, draft)
	s.metrics.CommitLatencySec.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.CommitFailures.WithLabelValues(string(models.KindOf(err))).Inc()
		s.logger.Error("order_commit_failed", "Order transaction rolled back", requestID, err, map[string]interface{}{
			"order_id":    draft.Order.ID,
			"customer_id": basket.CustomerID,
			"shop_id":     basket.ShopID,
		})
		return nil, err
	}
	s.metrics.OrdersPlaced.Inc()

	committedAt := s.now().UTC()
	estimatedReadyAt := committedAt.Add(time.Duration(basket.TotalPrepTime) * time.Minute)

	s.logger.Info("order_placed", fmt.Sprintf("Order %s placed", draft.Order.ID), requestID, map[string]interface{}{
		"order_id":       draft.Order.ID,
		"customer_id":    basket.CustomerID,
		"shop_id":        basket.ShopID,
		"total_amount":   basket.TotalAmount.StringFixed(2),
		"total_quantity": basket.TotalQuantity,
		"prep_minutes":   basket.TotalPrepTime,
	})

	s.publishPlaced(ctx, draft, basket, estimatedReadyAt, requestID)

	return s.buildResponse(draft, basket, estimatedReadyAt), nil
}

// CompleteOrder records customer pickup of an order.
func (s *Service) CompleteOrder(ctx context.Context, orderID, requestID string) (*models.CompletedOrder, error) {
	if err := validateID("order_id", orderID); err != nil {
		return nil, err
	}

	completed, err := s.store.CompleteOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.metrics.OrdersCompleted.Inc()

	s.logger.Info("order_completed", fmt.Sprintf("Order %s picked up", orderID), requestID, map[string]interface{}{
		"order_id":    orderID,
		"customer_id": completed.CustomerID,
	})

	if s.publisher != nil {
		msg := models.CreateStatusUpdateMessage(orderID, completed.CustomerID, completed.ShopID,
			string(models.OrderPending), string(models.OrderCompleted), s.now(), nil)
		if err := s.publisher.PublishStatusUpdate(ctx, msg); err != nil {
			s.metrics.PublishFailures.WithLabelValues(models.MessageStatusUpdate).Inc()
			s.logger.Error("notification_publish_failed", "Failed to publish completion", requestID, err, map[string]interface{}{
				"order_id": orderID,
			})
		}
	}

	return completed, nil
}

// Menu lists one shop's menu.
func (s *Service) Menu(ctx context.Context, shopID, requestID string) ([]models.MenuEntry, error) {
	if err := validateID("shop_id", shopID); err != nil {
		return nil, err
	}

	menu, err := s.store.ShopMenu(ctx, shopID)
	if err != nil {
		s.logger.Debug("menu_lookup_failed", "Failed to load menu", requestID, map[string]interface{}{
			"shop_id": shopID,
			"error":   err.Error(),
		})
		return nil, err
	}
	return menu, nil
}

func (s *Service) buildDraft(basket *models.PricedBasket, now time.Time) *models.OrderDraft {
	orderID := s.newID("O")

	lines := make([]models.OrderLine, len(basket.Lines))
	for i, line := range basket.Lines {
		lines[i] = models.OrderLine{OrderID: orderID, ItemID: line.ItemID, Quantity: line.Quantity}
	}

	return &models.OrderDraft{
		Order: models.Order{
			ID:            orderID,
			CreatedAt:     now,
			Status:        models.OrderPending,
			TotalQuantity: basket.TotalQuantity,
			CustomerID:    basket.CustomerID,
			ShopID:        basket.ShopID,
		},
		Lines: lines,
		Payment: models.Payment{
			ID:        s.newID("TXN"),
			CreatedAt: now,
			Mode:      basket.PaymentMode,
			Status:    models.PaymentPending,
			OrderID:   orderID,
		},
		Preparation: models.PreparationRecord{
			ID:        s.newID("PREP"),
			Status:    models.KitchenPreparing,
			StartTime: now,
			OrderID:   orderID,
		},
	}
}

func (s *Service) buildResponse(draft *models.OrderDraft, basket *models.PricedBasket, estimatedReadyAt time.Time) *models.PlaceOrderResponse {
	return &models.PlaceOrderResponse{
		OrderID: draft.Order.ID,
		Summary: models.OrderSummary{
			OrderID:       draft.Order.ID,
			TransactionID: draft.Payment.ID,
			CustomerID:    draft.Order.CustomerID,
			ShopID:        draft.Order.ShopID,
			OrderTime:     draft.Order.CreatedAt,
			Status:        draft.Order.Status,
			KitchenStatus: draft.Preparation.Status,
			PreparationID: draft.Preparation.ID,
		},
		Payment: models.PaymentDetails{
			PaymentMode:   draft.Payment.Mode,
			PaymentStatus: draft.Payment.Status,
			TransactionID: draft.Payment.ID,
		},
		Timing: models.OrderTiming{
			TotalPreparationMinutes: basket.TotalPrepTime,
			OrderPlacedAt:           draft.Order.CreatedAt,
			EstimatedReadyAt:        estimatedReadyAt,
			Countdown:               fmt.Sprintf("%d minutes", basket.TotalPrepTime),
		},
		Financial: models.FinancialSummary{
			TotalAmount:   basket.TotalAmount,
			TotalQuantity: basket.TotalQuantity,
			Currency:      s.currency,
		},
		Items: basket.Lines,
		Message: fmt.Sprintf("Order placed successfully! Your food will be ready in approximately %d minutes.",
			basket.TotalPrepTime),
	}
}

// publishPlaced emits the kitchen ticket and the placement notification.
// A publish failure never undoes a committed order.
func (s *Service) publishPlaced(ctx context.Context, draft *models.OrderDraft, basket *models.PricedBasket, estimatedReadyAt time.Time, requestID string) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishKitchenTicket(ctx, models.CreateKitchenTicket(draft, basket, estimatedReadyAt)); err != nil {
		s.metrics.PublishFailures.WithLabelValues(models.MessageKitchenTicket).Inc()
		s.logger.Error("kitchen_publish_failed", "Failed to publish kitchen ticket", requestID, err, map[string]interface{}{
			"order_id": draft.Order.ID,
		})
	}

	msg := models.CreateStatusUpdateMessage(draft.Order.ID, draft.Order.CustomerID, draft.Order.ShopID,
		"", string(models.OrderPending), draft.Order.CreatedAt, &estimatedReadyAt)
	if err := s.publisher.PublishStatusUpdate(ctx, msg); err != nil {
		s.metrics.PublishFailures.WithLabelValues(models.MessageStatusUpdate).Inc()
		s.logger.Error("notification_publish_failed", "Failed to publish order placement", requestID, err, map[string]interface{}{
			"order_id": draft.Order.ID,
		})
	}
}
