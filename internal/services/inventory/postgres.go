package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"foodcourt/internal/database"
	"foodcourt/internal/models"
)

// Repository is the PostgreSQL inventory ledger
type Repository struct {
	db database.Querier
}

func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// Decrement removes qty units of itemID with a conditional update.
// Concurrent decrements never drive the quantity below zero: a decrement
// that would is rejected with an *models.InsufficientStockError carrying
// the quantity on hand.
func (r *Repository) Decrement(ctx context.Context, itemID string, qty int) (result *models.ConsumeResult, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, database.Classify(err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	// quantity columns are INTEGER; a larger request can never be covered
	if qty <= models.MaxQuantity {
		result, err = consume(ctx, tx, itemID, qty)
		if err == nil {
			return commitConsume(ctx, tx, result)
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, database.Classify(err)
		}
	}

	var available int
	err = tx.QueryRow(ctx, database.LockInventoryQuantitySQL, itemID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", itemID, models.ErrItemNotTracked)
	}
	if err != nil {
		return nil, database.Classify(err)
	}
	if available < qty {
		return nil, &models.InsufficientStockError{ItemID: itemID, Available: available, Requested: qty}
	}

	// restocked between the update and the lock; the row is ours now
	result, err = consume(ctx, tx, itemID, qty)
	if err != nil {
		return nil, database.Classify(err)
	}
	return commitConsume(ctx, tx, result)
}

func consume(ctx context.Context, tx pgx.Tx, itemID string, qty int) (*models.ConsumeResult, error) {
	result := &models.ConsumeResult{ItemID: itemID, QuantityUsed: qty}
	var reorderLevel int

	err := tx.QueryRow(ctx, database.ConsumeInventorySQL, itemID, qty).
		Scan(&result.ItemName, &result.PreviousQuantity, &result.NewQuantity, &reorderLevel, &result.Unit)
	if err != nil {
		return nil, err
	}
	result.ReorderAlert = models.NewReorderAlert(result.NewQuantity, reorderLevel)
	return result, nil
}

func commitConsume(ctx context.Context, tx pgx.Tx, result *models.ConsumeResult) (*models.ConsumeResult, error) {
	if err := tx.Commit(ctx); err != nil {
		return nil, database.Classify(err)
	}
	return result, nil
}

// Status lists every tracked item, those at or below reorder level first.
func (r *Repository) Status(ctx context.Context) ([]models.InventoryStatus, error) {
	rows, err := r.db.Query(ctx, database.InventoryStatusSQL)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close()

	items := []models.InventoryStatus{}
	for rows.Next() {
		var s models.InventoryStatus
		if err := rows.Scan(&s.ItemID, &s.ItemName, &s.ShopName, &s.Quantity, &s.Unit, &s.ReorderLevel, &s.ReorderNeeded); err != nil {
			return nil, database.Classify(err)
		}
		items = append(items, s)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return items, nil
}
