package order

import (
	"context"

	"github.com/shopspring/decimal"

	"foodcourt/internal/models"
)

// Catalog resolves menu items of one shop by id. Ids missing from the
// returned map are not on that shop's menu.
type Catalog interface {
	MenuItems(ctx context.Context, shopID string, itemIDs []string) (map[string]models.MenuItem, error)
}

// MergeBasket folds repeated item ids into one entry, keeping the position
// of the first occurrence.
func MergeBasket(items []models.BasketItem) []models.BasketItem {
	merged := make([]models.BasketItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		if i, ok := index[item.ItemID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ItemID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

// ItemIDs lists the item ids of a basket in order.
func ItemIDs(items []models.BasketItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ItemID
	}
	return ids
}

// PriceBasket turns a validated basket into priced, timed lines and order
// totals. Any item missing from catalog fails the whole basket.
func PriceBasket(req *models.PlaceOrderRequest, mode models.PaymentMode, catalog map[string]models.MenuItem) (*models.PricedBasket, error) {
	entries := MergeBasket(req.Items)

	basket := &models.PricedBasket{
		CustomerID:  req.CustomerID,
		ShopID:      req.ShopID,
		PaymentMode: mode,
		Lines:       make([]models.LineItem, 0, len(entries)),
		TotalAmount: decimal.Zero,
	}

	for _, entry := range entries {
		item, ok := catalog[entry.ItemID]
		if !ok {
			return nil, &models.ItemNotFoundError{ItemID: entry.ItemID}
		}

		line := models.LineItem{
			ItemID:          item.ItemID,
			ItemName:        item.Name,
			Quantity:        entry.Quantity,
			UnitPrice:       item.Price,
			TotalPrice:      item.Price.Mul(decimal.NewFromInt(int64(entry.Quantity))),
			PrepTimePerUnit: item.PrepTimePerUnit,
			TotalPrepTime:   item.PrepTimePerUnit * entry.Quantity,
		}

		basket.Lines = append(basket.Lines, line)
		basket.TotalQuantity += line.Quantity
		basket.TotalAmount = basket.TotalAmount.Add(line.TotalPrice)
		basket.TotalPrepTime += line.TotalPrepTime
	}

	return basket, nil
}
