package kitchen

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcourt/internal/logger"
	"foodcourt/internal/messaging"
	"foodcourt/internal/models"
)

// replaySource hands each queued body to the handler, then stops.
type replaySource struct {
	types  []string
	bodies [][]byte
	errs   []error
}

func (s *replaySource) StartConsuming(ctx context.Context, handler messaging.MessageHandler) error {
	for i, body := range s.bodies {
		s.errs = append(s.errs, handler(ctx, s.types[i], body))
	}
	return nil
}

func ticketBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(models.KitchenTicketMessage{
		OrderID:    "O1",
		PrepID:     "PREP1",
		ShopID:     "S1",
		CustomerID: "C1",
		Items: []models.LineItem{{
			ItemID: "I1", ItemName: "Biryani", Quantity: 2,
			UnitPrice: decimal.NewFromInt(50), TotalPrice: decimal.NewFromInt(100),
			PrepTimePerUnit: 10, TotalPrepTime: 20,
		}},
		TotalPrepMinutes: 20,
		PlacedAt:         time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		EstimatedReadyAt: time.Date(2024, 3, 1, 12, 20, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return body
}

func TestDisplay_RendersTickets(t *testing.T) {
	var out bytes.Buffer
	source := &replaySource{
		types:  []string{models.MessageKitchenTicket, models.MessageStatusUpdate, models.MessageKitchenTicket},
		bodies: [][]byte{ticketBody(t), []byte(`{}`), []byte(`{broken`)},
	}
	d := NewDisplay("station-1", "INR", source, &out, logger.Discard())

	require.NoError(t, d.Start(context.Background()))

	assert.NoError(t, source.errs[0])
	assert.NoError(t, source.errs[1], "non-ticket messages are skipped")
	assert.ErrorIs(t, source.errs[2], messaging.ErrMalformed)
	assert.Equal(t, 1, d.Shown())

	rendered := out.String()
	assert.Contains(t, rendered, "order O1")
	assert.Contains(t, rendered, "Biryani")
	assert.Contains(t, rendered, "100.00 INR")
	assert.Contains(t, rendered, "ready by 12:20 (20 min)")
}

func TestDisplay_RejectsTicketWithoutIDs(t *testing.T) {
	d := NewDisplay("station-1", "INR", &replaySource{}, &bytes.Buffer{}, logger.Discard())

	err := d.HandleMessage(context.Background(), models.MessageKitchenTicket, []byte(`{"shop_id":"S1"}`))
	assert.ErrorIs(t, err, messaging.ErrMalformed)
}
