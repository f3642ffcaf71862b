package models

import (
	"fmt"
	"math"
)

// MaxQuantity is the largest quantity the INTEGER quantity columns hold.
const MaxQuantity = math.MaxInt32

// ReorderAlert is an advisory signal raised when stock falls to or below the
// reorder level.
type ReorderAlert struct {
	CurrentQuantity int    `json:"current_quantity"`
	ReorderLevel    int    `json:"reorder_level"`
	Message         string `json:"message"`
}

// NewReorderAlert returns an alert when current is at or below reorderLevel,
// nil otherwise.
func NewReorderAlert(current, reorderLevel int) *ReorderAlert {
	if current > reorderLevel {
		return nil
	}
	return &ReorderAlert{
		CurrentQuantity: current,
		ReorderLevel:    reorderLevel,
		Message:         fmt.Sprintf("Stock at %d, at or below reorder level %d. Please reorder.", current, reorderLevel),
	}
}

// ConsumeResult is the outcome of a successful inventory decrement
type ConsumeResult struct {
	ItemID           string        `json:"item_id"`
	ItemName         string        `json:"item_name"`
	Unit             string        `json:"unit"`
	QuantityUsed     int           `json:"quantity_used"`
	PreviousQuantity int           `json:"previous_quantity"`
	NewQuantity      int           `json:"new_quantity"`
	ReorderAlert     *ReorderAlert `json:"reorder_alert,omitempty"`
}

// InventoryStatus is one row of the inventory overview
type InventoryStatus struct {
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name"`
	ShopName      string `json:"shop_name"`
	Quantity      int    `json:"quantity"`
	Unit          string `json:"unit"`
	ReorderLevel  int    `json:"reorder_level"`
	ReorderNeeded bool   `json:"reorder_needed"`
}
