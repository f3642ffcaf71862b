package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"foodcourt/internal/database"
	"foodcourt/internal/models"
)

// Repository reads the customer feed from PostgreSQL
type Repository struct {
	db database.Querier
}

func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// CustomerOrders lists the customer's orders placed at or after since,
// newest first.
func (r *Repository) CustomerOrders(ctx context.Context, customerID string, since time.Time) ([]models.CustomerOrder, error) {
	rows, err := r.db.Query(ctx, database.CustomerOrdersSQL, customerID, since)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close()

	orders := []models.CustomerOrder{}
	for rows.Next() {
		var (
			o             models.CustomerOrder
			orderStatus   string
			kitchenStatus *string
			paymentMode   *string
			paymentStatus *string
			total         string
		)
		if err := rows.Scan(&o.OrderID, &o.OrderTime, &orderStatus, &o.TotalItems, &o.ShopName, &o.ShopLocation,
			&kitchenStatus, &o.PrepStartTime, &o.PrepEndTime, &paymentMode, &paymentStatus, &o.Items, &total); err != nil {
			return nil, database.Classify(err)
		}

		o.OrderStatus = models.OrderStatus(orderStatus)
		if kitchenStatus != nil {
			ks := models.KitchenStatus(*kitchenStatus)
			o.KitchenStatus = &ks
		}
		if paymentMode != nil {
			pm := models.PaymentMode(*paymentMode)
			o.PaymentMode = &pm
		}
		if paymentStatus != nil {
			ps := models.PaymentStatus(*paymentStatus)
			o.PaymentStatus = &ps
		}
		if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("invalid total %q for order %s: %w", total, o.OrderID, err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return orders, nil
}

// ReadyOrderIDs lists orders placed at or after since that are Ready in the
// kitchen and not yet picked up.
func (r *Repository) ReadyOrderIDs(ctx context.Context, customerID string, since time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, database.ReadyOrderIDsSQL, customerID, since)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, database.Classify(err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return ids, nil
}
