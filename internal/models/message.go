package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AMQP message types, carried in the Type property of each publishing
const (
	MessageKitchenTicket = "kitchen_ticket"
	MessageStatusUpdate  = "status_update"
	MessageReorderAlert  = "reorder_alert"
)

// KitchenTicketMessage is sent to the kitchen when an order is placed
type KitchenTicketMessage struct {
	OrderID          string     `json:"order_id"`
	PrepID           string     `json:"prep_id"`
	ShopID           string     `json:"shop_id"`
	CustomerID       string     `json:"customer_id"`
	Items            []LineItem `json:"items"`
	TotalPrepMinutes int        `json:"total_preparation_time"`
	PlacedAt         time.Time  `json:"placed_at"`
	EstimatedReadyAt time.Time  `json:"estimated_ready_at"`
}

// StatusUpdateMessage represents a status update notification
type StatusUpdateMessage struct {
	OrderID          string     `json:"order_id"`
	CustomerID       string     `json:"customer_id"`
	ShopID           string     `json:"shop_id"`
	OldStatus        string     `json:"old_status"`
	NewStatus        string     `json:"new_status"`
	Timestamp        time.Time  `json:"timestamp"`
	EstimatedReadyAt *time.Time `json:"estimated_ready_at,omitempty"`
}

// ReorderAlertMessage is published when inventory falls to its reorder level
type ReorderAlertMessage struct {
	ItemID          string    `json:"item_id"`
	ItemName        string    `json:"item_name"`
	CurrentQuantity int       `json:"current_quantity"`
	ReorderLevel    int       `json:"reorder_level"`
	Unit            string    `json:"unit"`
	Timestamp       time.Time `json:"timestamp"`
}

// CreateKitchenTicket builds the ticket for a freshly committed order
func CreateKitchenTicket(draft *OrderDraft, basket *PricedBasket, estimatedReadyAt time.Time) *KitchenTicketMessage {
	return &KitchenTicketMessage{
		OrderID:          draft.Order.ID,
		PrepID:           draft.Preparation.ID,
		ShopID:           draft.Order.ShopID,
		CustomerID:       draft.Order.CustomerID,
		Items:            basket.Lines,
		TotalPrepMinutes: basket.TotalPrepTime,
		PlacedAt:         draft.Order.CreatedAt,
		EstimatedReadyAt: estimatedReadyAt,
	}
}

// CreateStatusUpdateMessage creates a StatusUpdateMessage for order status changes
func CreateStatusUpdateMessage(orderID, customerID, shopID, oldStatus, newStatus string, at time.Time, estimatedReadyAt *time.Time) *StatusUpdateMessage {
	return &StatusUpdateMessage{
		OrderID:          orderID,
		CustomerID:       customerID,
		ShopID:           shopID,
		OldStatus:        oldStatus,
		NewStatus:        newStatus,
		Timestamp:        at.UTC(),
		EstimatedReadyAt: estimatedReadyAt,
	}
}

// GenerateRoutingKey generates a routing key for kitchen tickets
func GenerateRoutingKey(shopID string) string {
	return fmt.Sprintf("kitchen.%s", shopID)
}

// FormatAmount renders a money amount with two decimals.
func FormatAmount(d decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", d.StringFixed(2), currency)
}
