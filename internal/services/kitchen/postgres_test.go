package kitchen

import (
	"context"
	"errors"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcourt/internal/models"
)

var (
	// pins the status guard that makes Ready a one-time transition
	markReady  = `(?s)UPDATE preparation_records pr SET status = \$2, end_time = \$3.*WHERE pr\.prep_id = \$1 AND pr\.status = \$4`
	prepStatus = regexp.QuoteMeta("SELECT status FROM preparation_records")
)

func TestMarkReady(t *testing.T) {
	end := time.Date(2024, 3, 1, 12, 20, 0, 0, time.UTC)

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "preparing record moves to ready",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(markReady).WithArgs("PREP1", "Ready", end, "Preparing").
					WillReturnRows(pgxmock.NewRows([]string{"order_id", "customer_id", "shop_id"}).AddRow("O1", "C1", "S1"))
			},
		},
		{
			name: "already ready record is rejected",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(markReady).WithArgs("PREP1", "Ready", end, "Preparing").
					WillReturnRows(pgxmock.NewRows([]string{"order_id", "customer_id", "shop_id"}))
				mock.ExpectQuery(prepStatus).WithArgs("PREP1").
					WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("Ready"))
			},
			wantErr: models.ErrAlreadyReady,
		},
		{
			name: "unknown record is not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(markReady).WithArgs("PREP1", "Ready", end, "Preparing").
					WillReturnRows(pgxmock.NewRows([]string{"order_id", "customer_id", "shop_id"}))
				mock.ExpectQuery(prepStatus).WithArgs("PREP1").
					WillReturnRows(pgxmock.NewRows([]string{"status"}))
			},
			wantErr: models.ErrNotFound,
		},
		{
			name: "connection failure is unavailable",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(markReady).WithArgs("PREP1", "Ready", end, "Preparing").
					WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})
			},
			wantErr: models.ErrServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setup(mock)

			transition, err := NewRepository(mock).MarkReady(context.Background(), "PREP1", end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, transition)
			} else {
				require.NoError(t, err)
				assert.Equal(t, &models.StatusTransition{
					PrepID:     "PREP1",
					OrderID:    "O1",
					CustomerID: "C1",
					ShopID:     "S1",
					OldStatus:  models.KitchenPreparing,
					NewStatus:  models.KitchenReady,
					EndTime:    end,
				}, transition)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestActiveOrders(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	placed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders o")).WithArgs("S1").
		WillReturnRows(pgxmock.NewRows([]string{
			"order_id", "order_time", "total_quantity", "customer_id", "shop_name", "shop_id",
			"prep_id", "status", "start_time", "items",
		}).AddRow("O1", placed, 2, "C1", "Spice Hub", "S1", "PREP1", "Preparing", placed, "Biryani x2"))

	orders, err := NewRepository(mock).ActiveOrders(context.Background(), "S1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.KitchenPreparing, orders[0].CurrentStatus)
	assert.Equal(t, "Biryani x2", orders[0].Items)
	assert.Equal(t, 2, orders[0].ItemCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
