package kitchen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"foodcourt/internal/database"
	"foodcourt/internal/models"
)

// Repository is the PostgreSQL store behind the kitchen queue
type Repository struct {
	db database.Querier
}

func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// MarkReady moves a preparation record from Preparing to Ready, stamping
// endTime. The update is conditional on the current status, so of two
// concurrent calls exactly one succeeds and the other sees ErrAlreadyReady.
func (r *Repository) MarkReady(ctx context.Context, prepID string, endTime time.Time) (*models.StatusTransition, error) {
	transition := &models.StatusTransition{
		PrepID:    prepID,
		OldStatus: models.KitchenPreparing,
		NewStatus: models.KitchenReady,
		EndTime:   endTime,
	}

	err := r.db.QueryRow(ctx, database.MarkReadySQL,
		prepID, string(models.KitchenReady), endTime, string(models.KitchenPreparing)).
		Scan(&transition.OrderID, &transition.CustomerID, &transition.ShopID)
	if err == nil {
		return transition, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, database.Classify(err)
	}

	// No row moved: either the record does not exist or it is already Ready.
	var status string
	err = r.db.QueryRow(ctx, database.PreparationStatusSQL, prepID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("preparation %s: %w", prepID, models.ErrNotFound)
	}
	if err != nil {
		return nil, database.Classify(err)
	}
	return nil, fmt.Errorf("preparation %s is %s: %w", prepID, status, models.ErrAlreadyReady)
}

// ActiveOrders lists orders still being prepared, oldest first. An empty
// shopID lists every shop.
func (r *Repository) ActiveOrders(ctx context.Context, shopID string) ([]models.ActiveOrder, error) {
	rows, err := r.db.Query(ctx, database.ActiveOrdersSQL, shopID)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close()

	orders := []models.ActiveOrder{}
	for rows.Next() {
		var o models.ActiveOrder
		var status string
		if err := rows.Scan(&o.OrderID, &o.OrderTime, &o.ItemCount, &o.CustomerID, &o.ShopName, &o.ShopID,
			&o.PrepID, &status, &o.StartTime, &o.Items); err != nil {
			return nil, database.Classify(err)
		}
		o.CurrentStatus = models.KitchenStatus(status)
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return orders, nil
}
