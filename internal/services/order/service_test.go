package order

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodcourt/internal/config"
	"foodcourt/internal/logger"
	"foodcourt/internal/metrics"
	"foodcourt/internal/models"
)

type fakeStore struct {
	mu        sync.Mutex
	menu      map[string]models.MenuItem
	commitErr error
	committed []*models.OrderDraft
	completed map[string]bool
	deadline  bool
}

func newFakeStore(items ...models.MenuItem) *fakeStore {
	menu := make(map[string]models.MenuItem)
	for _, item := range items {
		menu[item.ItemID] = item
	}
	return &fakeStore{menu: menu, completed: map[string]bool{}}
}

func (f *fakeStore) MenuItems(ctx context.Context, shopID string, itemIDs []string) (map[string]models.MenuItem, error) {
	out := make(map[string]models.MenuItem)
	for _, id := range itemIDs {
		if item, ok := f.menu[id]; ok && item.ShopID == shopID {
			out[id] = item
		}
	}
	return out, nil
}

func (f *fakeStore) ShopMenu(ctx context.Context, shopID string) ([]models.MenuEntry, error) {
	var entries []models.MenuEntry
	for _, item := range f.menu {
		if item.ShopID == shopID {
			entries = append(entries, models.MenuEntry{MenuItem: item})
		}
	}
	if len(entries) == 0 {
		return nil, models.ErrNotFound
	}
	return entries, nil
}

func (f *fakeStore) CommitOrder(ctx context.Context, draft *models.OrderDraft) error {
	_, f.deadline = ctx.Deadline()
	if f.commitErr != nil {
		return f.commitErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, draft)
	return nil
}

func (f *fakeStore) CompleteOrder(ctx context.Context, orderID string) (*models.CompletedOrder, error) {
	for _, d := range f.committed {
		if d.Order.ID == orderID {
			f.completed[orderID] = true
			return &models.CompletedOrder{OrderID: orderID, CustomerID: d.Order.CustomerID, ShopID: d.Order.ShopID}, nil
		}
	}
	return nil, models.ErrNotFound
}

type fakePublisher struct {
	tickets []*models.KitchenTicketMessage
	updates []*models.StatusUpdateMessage
	err     error
}

func (p *fakePublisher) PublishKitchenTicket(ctx context.Context, ticket *models.KitchenTicketMessage) error {
	p.tickets = append(p.tickets, ticket)
	return p.err
}

func (p *fakePublisher) PublishStatusUpdate(ctx context.Context, msg *models.StatusUpdateMessage) error {
	p.updates = append(p.updates, msg)
	return p.err
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store Store, pub Publisher) *Service {
	svc := NewService(store, pub, metrics.NewRegistry(), logger.Discard(), config.Default())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func biryani() models.MenuItem {
	return models.MenuItem{ItemID: "I1", Name: "Biryani", Price: decimal.NewFromInt(50), PrepTimePerUnit: 10, ShopID: "S1"}
}

func TestPlaceOrder_Scenario(t *testing.T) {
	store := newFakeStore(biryani())
	pub := &fakePublisher{}
	svc := newTestService(store, pub)

	resp, err := svc.PlaceOrder(context.Background(), &models.PlaceOrderRequest{
		CustomerID:  "C1",
		ShopID:      "S1",
		PaymentMode: "cash",
		Items:       []models.BasketItem{{ItemID: "I1", Quantity: 2}},
	}, "req")
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(100).Equal(resp.Financial.TotalAmount))
	assert.Equal(t, 2, resp.Financial.TotalQuantity)
	assert.Equal(t, "INR", resp.Financial.Currency)
	assert.Equal(t, 20, resp.Timing.TotalPreparationMinutes)
	assert.Equal(t, fixedNow.Add(20*time.Minute), resp.Timing.EstimatedReadyAt)
	assert.Equal(t, "20 minutes", resp.Timing.Countdown)
	assert.Equal(t, models.OrderPending, resp.Summary.Status)
	assert.Equal(t, models.KitchenPreparing, resp.Summary.KitchenStatus)
	assert.Equal(t, models.PaymentPending, resp.Payment.PaymentStatus)
	assert.Equal(t, models.PaymentCash, resp.Payment.PaymentMode)

	require.Len(t, store.committed, 1)
	draft := store.committed[0]
	assert.True(t, store.deadline, "commit must run under a deadline")
	assert.Equal(t, resp.OrderID, draft.Order.ID)
	assert.Equal(t, draft.Order.ID, draft.Payment.OrderID)
	assert.Equal(t, draft.Order.ID, draft.Preparation.OrderID)
	assert.Nil(t, draft.Preparation.EndTime)
	assert.Equal(t, []models.OrderLine{{OrderID: draft.Order.ID, ItemID: "I1", Quantity: 2}}, draft.Lines)

	assert.Regexp(t, regexp.MustCompile(`^O[0-9A-F]{7}$`), draft.Order.ID)
	assert.Regexp(t, regexp.MustCompile(`^TXN[0-9A-F]{7}$`), draft.Payment.ID)
	assert.Regexp(t, regexp.MustCompile(`^PREP[0-9A-F]{7}$`), draft.Preparation.ID)

	require.Len(t, pub.tickets, 1)
	assert.Equal(t, draft.Preparation.ID, pub.tickets[0].PrepID)
	require.Len(t, pub.updates, 1)
	assert.Equal(t, "Pending", pub.updates[0].NewStatus)
}

func TestPlaceOrder_UnknownItemCommitsNothing(t *testing.T) {
	store := newFakeStore(biryani())
	pub := &fakePublisher{}
	svc := newTestService(store, pub)

	_, err := svc.PlaceOrder(context.Background(), &models.PlaceOrderRequest{
		CustomerID: "C1",
		ShopID:     "S1",
		Items:      []models.BasketItem{{ItemID: "I1", Quantity: 1}, {ItemID: "I2", Quantity: 1}},
	}, "req")

	assert.ErrorIs(t, err, models.ErrItemNotFound)
	assert.Empty(t, store.committed)
	assert.Empty(t, pub.tickets)
}

func TestPlaceOrder_ItemFromAnotherShopIsNotFound(t *testing.T) {
	store := newFakeStore(biryani())
	svc := newTestService(store, nil)

	_, err := svc.PlaceOrder(context.Background(), &models.PlaceOrderRequest{
		CustomerID: "C1",
		ShopID:     "S2",
		Items:      []models.BasketItem{{ItemID: "I1", Quantity: 1}},
	}, "req")
	assert.ErrorIs(t, err, models.ErrItemNotFound)
}

func TestPlaceOrder_CommitFailureSurfacesAndPublishesNothing(t *testing.T) {
	store := newFakeStore(biryani())
	store.commitErr = &models.CommitError{Step: "payment", Err: errors.New("constraint")}
	pub := &fakePublisher{}
	svc := newTestService(store, pub)

	_, err := svc.PlaceOrder(context.Background(), &models.PlaceOrderRequest{
		CustomerID: "C1",
		ShopID:     "S1",
		Items:      []models.BasketItem{{ItemID: "I1", Quantity: 1}},
	}, "req")

	assert.ErrorIs(t, err, models.ErrCommitFailed)
	assert.Empty(t, pub.tickets)
	assert.Empty(t, pub.updates)
}

func TestPlaceOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	store := newFakeStore(biryani())
	svc := newTestService(store, &fakePublisher{err: errors.New("broker down")})

	resp, err := svc.PlaceOrder(context.Background(), &models.PlaceOrderRequest{
		CustomerID: "C1",
		ShopID:     "S1",
		Items:      []models.BasketItem{{ItemID: "I1", Quantity: 1}},
	}, "req")

	require.NoError(t, err)
	assert.NotEmpty(t, resp.OrderID)
	assert.Len(t, store.committed, 1)
}

func TestPlaceOrder_ValidationRejectedBeforeStore(t *testing.T) {
	store := newFakeStore(biryani())
	svc := newTestService(store, nil)

	_, err := svc.PlaceOrder(context.Background(), &models.PlaceOrderRequest{ShopID: "S1"}, "req")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, store.committed)
}

func TestPlaceOrder_FreshIdentifiersPerOrder(t *testing.T) {
	store := newFakeStore(biryani())
	svc := newTestService(store, nil)
	req := &models.PlaceOrderRequest{CustomerID: "C1", ShopID: "S1", Items: []models.BasketItem{{ItemID: "I1", Quantity: 1}}}

	first, err := svc.PlaceOrder(context.Background(), req, "req")
	require.NoError(t, err)
	second, err := svc.PlaceOrder(context.Background(), req, "req")
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderID, second.OrderID)
	assert.NotEqual(t, first.Summary.TransactionID, second.Summary.TransactionID)
	assert.NotEqual(t, first.Summary.PreparationID, second.Summary.PreparationID)
}

func TestCompleteOrder_Service(t *testing.T) {
	store := newFakeStore(biryani())
	pub := &fakePublisher{}
	svc := newTestService(store, pub)

	resp, err := svc.PlaceOrder(context.Background(), &models.PlaceOrderRequest{
		CustomerID: "C1", ShopID: "S1", Items: []models.BasketItem{{ItemID: "I1", Quantity: 1}},
	}, "req")
	require.NoError(t, err)

	completed, err := svc.CompleteOrder(context.Background(), resp.OrderID, "req")
	require.NoError(t, err)
	assert.Equal(t, "C1", completed.CustomerID)
	assert.True(t, store.completed[resp.OrderID])
	assert.Equal(t, "Completed", pub.updates[len(pub.updates)-1].NewStatus)

	_, err = svc.CompleteOrder(context.Background(), resp.OrderID, "req")
	assert.NoError(t, err, "repeated completion succeeds silently")

	_, err = svc.CompleteOrder(context.Background(), "O0000000", "req")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.CompleteOrder(context.Background(), "", "req")
	assert.ErrorIs(t, err, models.ErrValidation)
}
