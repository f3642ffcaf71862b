package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"foodcourt/internal/database"
	"foodcourt/internal/models"
)

// Repository is the PostgreSQL store behind order intake
type Repository struct {
	db database.Querier
}

func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// MenuItems implements Catalog.
func (r *Repository) MenuItems(ctx context.Context, shopID string, itemIDs []string) (map[string]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, database.SelectMenuItemsSQL, shopID, itemIDs)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close()

	items := make(map[string]models.MenuItem, len(itemIDs))
	for rows.Next() {
		var item models.MenuItem
		var price string
		if err := rows.Scan(&item.ItemID, &item.Name, &price, &item.PrepTimePerUnit, &item.ShopID); err != nil {
			return nil, database.Classify(err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid price %q for item %s: %w", price, item.ItemID, err)
		}
		items[item.ItemID] = item
	}

	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return items, nil
}

// ShopMenu lists a shop's menu with stock on hand.
func (r *Repository) ShopMenu(ctx context.Context, shopID string) ([]models.MenuEntry, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, database.ShopExistsSQL, shopID).Scan(&exists); err != nil {
		return nil, database.Classify(err)
	}
	if !exists {
		return nil, fmt.Errorf("shop %s: %w", shopID, models.ErrNotFound)
	}

	rows, err := r.db.Query(ctx, database.SelectShopMenuSQL, shopID)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close()

	menu := []models.MenuEntry{}
	for rows.Next() {
		var entry models.MenuEntry
		var price string
		if err := rows.Scan(&entry.ItemID, &entry.Name, &price, &entry.PrepTimePerUnit, &entry.ShopID, &entry.Available); err != nil {
			return nil, database.Classify(err)
		}
		if entry.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid price %q for item %s: %w", price, entry.ItemID, err)
		}
		menu = append(menu, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return menu, nil
}

// CommitOrder writes the order, its lines, its payment and its preparation
// record in one transaction, in that order. On any failure nothing is kept.
func (r *Repository) CommitOrder(ctx context.Context, draft *models.OrderDraft) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", models.ErrServiceUnavailable, err)
	}

	defer func() {
		if err != nil {
			// ctx may already be cancelled; the rollback still has to reach the server.
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	o := draft.Order
	if _, err = tx.Exec(ctx, database.InsertOrderSQL,
		o.ID, o.CreatedAt, string(o.Status), o.TotalQuantity, o.CustomerID, o.ShopID); err != nil {
		return &models.CommitError{Step: "order", Err: err}
	}

	for _, line := range draft.Lines {
		if _, err = tx.Exec(ctx, database.InsertOrderLineSQL, line.OrderID, line.ItemID, line.Quantity); err != nil {
			return &models.CommitError{Step: "order_line", Err: err}
		}
	}

	p := draft.Payment
	if _, err = tx.Exec(ctx, database.InsertPaymentSQL,
		p.ID, p.CreatedAt, string(p.Mode), string(p.Status), p.OrderID); err != nil {
		return &models.CommitError{Step: "payment", Err: err}
	}

	prep := draft.Preparation
	if _, err = tx.Exec(ctx, database.InsertPreparationSQL,
		prep.ID, string(prep.Status), prep.StartTime, prep.OrderID); err != nil {
		return &models.CommitError{Step: "preparation_record", Err: err}
	}

	if err = tx.Commit(ctx); err != nil {
		return &models.CommitError{Step: "commit", Err: err}
	}
	return nil
}

// CompleteOrder marks an order picked up. Completing an already completed
// order succeeds again.
func (r *Repository) CompleteOrder(ctx context.Context, orderID string) (*models.CompletedOrder, error) {
	completed := &models.CompletedOrder{OrderID: orderID}

	err := r.db.QueryRow(ctx, database.CompleteOrderSQL, orderID, string(models.OrderCompleted)).
		Scan(&completed.CustomerID, &completed.ShopID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
	}
	if err != nil {
		return nil, database.Classify(err)
	}
	return completed, nil
}
