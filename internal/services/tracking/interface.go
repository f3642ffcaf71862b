package tracking

import (
	"context"
	"time"

	"foodcourt/internal/models"
)

// FeedRepo reads a customer's recent orders. Both calls are read-only.
type FeedRepo interface {
	CustomerOrders(ctx context.Context, customerID string, since time.Time) ([]models.CustomerOrder, error)
	ReadyOrderIDs(ctx context.Context, customerID string, since time.Time) ([]string, error)
}
