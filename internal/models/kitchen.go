package models

import (
	"strings"
	"time"
)

// KitchenStatus represents the preparation state of an order in the kitchen
type KitchenStatus string

const (
	KitchenPreparing KitchenStatus = "Preparing"
	KitchenReady     KitchenStatus = "Ready"
)

// ParseKitchenStatus normalizes case variants of a kitchen status.
func ParseKitchenStatus(s string) (KitchenStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "preparing":
		return KitchenPreparing, true
	case "ready":
		return KitchenReady, true
	default:
		return "", false
	}
}

// PreparationRecord is the kitchen-side tracking row of one order
type PreparationRecord struct {
	ID        string        `json:"prep_id"`
	Status    KitchenStatus `json:"current_status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   *time.Time    `json:"end_time"`
	OrderID   string        `json:"order_id"`
}

// StatusTransition is the result of moving a preparation record forward
type StatusTransition struct {
	PrepID     string        `json:"prep_id"`
	OrderID    string        `json:"order_id"`
	CustomerID string        `json:"customer_id"`
	ShopID     string        `json:"shop_id"`
	OldStatus  KitchenStatus `json:"old_status"`
	NewStatus  KitchenStatus `json:"new_status"`
	EndTime    time.Time     `json:"end_time"`
}

// ActiveOrder is an order still being prepared, as shown on the kitchen queue
type ActiveOrder struct {
	OrderID       string        `json:"order_id"`
	OrderTime     time.Time     `json:"order_time"`
	ItemCount     int           `json:"item_count"`
	CustomerID    string        `json:"customer_id"`
	ShopName      string        `json:"shop_name"`
	ShopID        string        `json:"shop_id"`
	PrepID        string        `json:"prep_id"`
	CurrentStatus KitchenStatus `json:"current_status"`
	StartTime     time.Time     `json:"start_time"`
	Items         string        `json:"order_items"`
}
