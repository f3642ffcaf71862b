package kitchen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"foodcourt/internal/logger"
	"foodcourt/internal/messaging"
	"foodcourt/internal/models"
)

// TicketSource delivers kitchen tickets to a handler until ctx is done
type TicketSource interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
}

// Display prints incoming kitchen tickets for one station
type Display struct {
	name     string
	currency string
	source   TicketSource
	out      io.Writer
	logger   *logger.Logger

	mu      sync.Mutex
	tickets int
}

// NewDisplay creates a kitchen display writing tickets to out
func NewDisplay(name, currency string, source TicketSource, out io.Writer, log *logger.Logger) *Display {
	return &Display{
		name:     name,
		currency: currency,
		source:   source,
		out:      out,
		logger:   log,
	}
}

// Start blocks until ctx is cancelled or the source fails.
func (d *Display) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	d.logger.Info("display_started", fmt.Sprintf("Kitchen display %s started", d.name), requestID, map[string]interface{}{
		"display_name": d.name,
	})

	err := d.source.StartConsuming(ctx, d.HandleMessage)

	d.logger.Info("display_stopped", fmt.Sprintf("Kitchen display %s stopped", d.name), requestID, map[string]interface{}{
		"display_name":  d.name,
		"tickets_shown": d.Shown(),
	})
	return err
}

// HandleMessage renders one kitchen ticket. Other message types are ignored.
func (d *Display) HandleMessage(ctx context.Context, msgType string, body []byte) error {
	if msgType != "" && msgType != models.MessageKitchenTicket {
		return nil
	}

	var ticket models.KitchenTicketMessage
	if err := json.Unmarshal(body, &ticket); err != nil {
		return fmt.Errorf("%w: kitchen ticket: %v", messaging.ErrMalformed, err)
	}
	if ticket.OrderID == "" || ticket.PrepID == "" {
		return fmt.Errorf("%w: kitchen ticket without order or preparation id", messaging.ErrMalformed)
	}

	if _, err := io.WriteString(d.out, d.FormatTicket(&ticket)); err != nil {
		return fmt.Errorf("failed to write ticket: %w", err)
	}

	d.mu.Lock()
	d.tickets++
	d.mu.Unlock()

	d.logger.Debug("ticket_displayed", fmt.Sprintf("Ticket for order %s displayed", ticket.OrderID), "", map[string]interface{}{
		"order_id": ticket.OrderID,
		"prep_id":  ticket.PrepID,
		"shop_id":  ticket.ShopID,
	})
	return nil
}

// FormatTicket renders a ticket as the kitchen sees it.
func (d *Display) FormatTicket(t *models.KitchenTicketMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s | order %s | prep %s ===\n", t.ShopID, t.OrderID, t.PrepID)
	for _, line := range t.Items {
		fmt.Fprintf(&b, "  %2d x %-24s %3d min  %s\n",
			line.Quantity, line.ItemName, line.TotalPrepTime, models.FormatAmount(line.TotalPrice, d.currency))
	}
	fmt.Fprintf(&b, "  ready by %s (%d min)\n", t.EstimatedReadyAt.Format("15:04"), t.TotalPrepMinutes)
	return b.String()
}

// Shown reports how many tickets were displayed.
func (d *Display) Shown() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tickets
}
