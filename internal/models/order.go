package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the customer-facing status of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderCompleted OrderStatus = "Completed"
)

// PaymentMode is how the customer pays for an order
type PaymentMode string

const (
	PaymentCash   PaymentMode = "Cash"
	PaymentUPI    PaymentMode = "UPI"
	PaymentCard   PaymentMode = "Card"
	PaymentOnline PaymentMode = "Online"
)

// PaymentStatus represents settlement state of a payment
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
)

var paymentModes = map[string]PaymentMode{
	"cash":   PaymentCash,
	"upi":    PaymentUPI,
	"card":   PaymentCard,
	"online": PaymentOnline,
}

// ParsePaymentMode normalizes case variants ("cash", "CASH", "Cash") to the
// canonical mode. An empty string selects Online.
func ParsePaymentMode(s string) (PaymentMode, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PaymentOnline, true
	}
	mode, ok := paymentModes[strings.ToLower(s)]
	return mode, ok
}

// MenuItem is a read-only catalog entry owned by a shop
type MenuItem struct {
	ItemID          string          `json:"item_id"`
	Name            string          `json:"item_name"`
	Price           decimal.Decimal `json:"price"`
	PrepTimePerUnit int             `json:"preparation_time_per_unit"`
	ShopID          string          `json:"shop_id"`
}

// MenuEntry is a menu item as shown on a shop menu, with stock on hand.
type MenuEntry struct {
	MenuItem
	Available *int `json:"available"`
}

// BasketItem is one (item, quantity) pair submitted by a customer
type BasketItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// PlaceOrderRequest is the order intake payload
type PlaceOrderRequest struct {
	CustomerID  string       `json:"customer_id"`
	ShopID      string       `json:"shop_id"`
	PaymentMode string       `json:"payment_mode"`
	Items       []BasketItem `json:"items"`
}

// LineItem is a priced, timed basket entry
type LineItem struct {
	ItemID          string          `json:"item_id"`
	ItemName        string          `json:"item_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	PrepTimePerUnit int             `json:"preparation_time_per_unit"`
	TotalPrepTime   int             `json:"total_preparation_time"`
}

// PricedBasket is the output of pricing a validated basket
type PricedBasket struct {
	CustomerID    string
	ShopID        string
	PaymentMode   PaymentMode
	Lines         []LineItem
	TotalQuantity int
	TotalAmount   decimal.Decimal
	TotalPrepTime int
}

// Order represents a customer order
type Order struct {
	ID            string      `json:"order_id"`
	CreatedAt     time.Time   `json:"order_time"`
	Status        OrderStatus `json:"status"`
	TotalQuantity int         `json:"total_quantity"`
	CustomerID    string      `json:"customer_id"`
	ShopID        string      `json:"shop_id"`
}

// OrderLine is a persisted line of an order
type OrderLine struct {
	OrderID  string `json:"order_id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Payment is created together with its order
type Payment struct {
	ID        string        `json:"transaction_id"`
	CreatedAt time.Time     `json:"timestamp"`
	Mode      PaymentMode   `json:"payment_mode"`
	Status    PaymentStatus `json:"payment_status"`
	OrderID   string        `json:"order_id"`
}

// OrderDraft is the full row set written by one commit
type OrderDraft struct {
	Order       Order
	Lines       []OrderLine
	Payment     Payment
	Preparation PreparationRecord
}

// OrderSummary describes a placed order
type OrderSummary struct {
	OrderID       string        `json:"order_id"`
	TransactionID string        `json:"transaction_id"`
	CustomerID    string        `json:"customer_id"`
	ShopID        string        `json:"shop_id"`
	OrderTime     time.Time     `json:"order_time"`
	Status        OrderStatus   `json:"status"`
	KitchenStatus KitchenStatus `json:"kitchen_status"`
	PreparationID string        `json:"preparation_id"`
}

type PaymentDetails struct {
	PaymentMode   PaymentMode   `json:"payment_mode"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TransactionID string        `json:"transaction_id"`
}

type OrderTiming struct {
	TotalPreparationMinutes int       `json:"total_preparation_time_minutes"`
	OrderPlacedAt           time.Time `json:"order_placed_at"`
	EstimatedReadyAt        time.Time `json:"estimated_ready_at"`
	Countdown               string    `json:"countdown_timer"`
}

type FinancialSummary struct {
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalQuantity int             `json:"total_quantity"`
	Currency      string          `json:"currency"`
}

// PlaceOrderResponse is returned after a successful commit
type PlaceOrderResponse struct {
	OrderID   string           `json:"order_id"`
	Summary   OrderSummary     `json:"order_summary"`
	Payment   PaymentDetails   `json:"payment_details"`
	Timing    OrderTiming      `json:"order_timing"`
	Financial FinancialSummary `json:"financial_summary"`
	Items     []LineItem       `json:"order_items"`
	Message   string           `json:"message"`
}

// CompletedOrder identifies an order that was marked picked up
type CompletedOrder struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	ShopID     string `json:"shop_id"`
}

// CustomerOrder is one row of a customer's recent order feed
type CustomerOrder struct {
	OrderID           string          `json:"order_id"`
	OrderTime         time.Time       `json:"order_time"`
	OrderStatus       OrderStatus     `json:"order_status"`
	TotalItems        int             `json:"total_items"`
	ShopName          string          `json:"shop_name"`
	ShopLocation      string          `json:"shop_location"`
	KitchenStatus     *KitchenStatus  `json:"kitchen_status"`
	PrepStartTime     *time.Time      `json:"prep_start_time"`
	PrepEndTime       *time.Time      `json:"prep_end_time"`
	ActualPrepMinutes *int            `json:"actual_prep_minutes,omitempty"`
	PaymentMode       *PaymentMode    `json:"payment_mode"`
	PaymentStatus     *PaymentStatus  `json:"payment_status"`
	Items             string          `json:"order_items"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	NeedsNotification bool            `json:"needs_notification"`
}

// NotificationSummary reports orders ready for pickup
type NotificationSummary struct {
	CustomerID  string   `json:"customer_id"`
	Count       int      `json:"notification_count"`
	ReadyOrders []string `json:"ready_orders"`
}

// NeedsNotification reports whether an order is ready in the kitchen but not
// yet picked up by the customer.
func NeedsNotification(kitchen *KitchenStatus, order OrderStatus) bool {
	return kitchen != nil && *kitchen == KitchenReady && order != OrderCompleted
}
