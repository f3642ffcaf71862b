package order

import (
	"fmt"

	"foodcourt/internal/models"
)

const (
	maxIDLength      = 50
	maxBasketEntries = 50
)

// ValidatePlaceOrderRequest checks the request shape and returns the
// normalized payment mode.
func ValidatePlaceOrderRequest(req *models.PlaceOrderRequest) (models.PaymentMode, error) {
	if err := validateID("customer_id", req.CustomerID); err != nil {
		return "", err
	}

	if err := validateID("shop_id", req.ShopID); err != nil {
		return "", err
	}

	mode, ok := models.ParsePaymentMode(req.PaymentMode)
	if !ok {
		return "", models.ValidationError{
			Field:   "payment_mode",
			Message: "payment mode must be one of Cash, UPI, Card, Online",
		}
	}

	if err := validateItems(req.Items); err != nil {
		return "", err
	}

	return mode, nil
}

func validateID(field, value string) error {
	if value == "" {
		return models.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s is required", field),
		}
	}

	if len(value) > maxIDLength {
		return models.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %d characters", field, maxIDLength),
		}
	}
	return nil
}

func validateItems(items []models.BasketItem) error {
	if len(items) == 0 {
		return models.ValidationError{
			Field:   "items",
			Message: "items cannot be empty",
		}
	}

	if len(items) > maxBasketEntries {
		return models.ValidationError{
			Field:   "items",
			Message: fmt.Sprintf("a maximum of %d items is allowed", maxBasketEntries),
		}
	}

	var total int64
	for i, item := range items {
		if err := validateItem(item, i); err != nil {
			return err
		}
		total += int64(item.Quantity)
	}

	if total > models.MaxQuantity {
		return models.ValidationError{
			Field:   "items",
			Message: fmt.Sprintf("total quantity must be at most %d", models.MaxQuantity),
		}
	}
	return nil
}

func validateItem(item models.BasketItem, index int) error {
	if item.ItemID == "" {
		return models.ValidationError{
			Field:   fmt.Sprintf("items[%d].item_id", index),
			Message: "item id is required",
		}
	}

	if item.Quantity <= 0 {
		return models.ValidationError{
			Field:   fmt.Sprintf("items[%d].quantity", index),
			Message: "item quantity must be greater than 0",
		}
	}

	if item.Quantity > models.MaxQuantity {
		return models.ValidationError{
			Field:   fmt.Sprintf("items[%d].quantity", index),
			Message: fmt.Sprintf("item quantity must be at most %d", models.MaxQuantity),
		}
	}
	return nil
}
