package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/payment"
	"github.com/example/storefront/pkg/repository"
)

type fakeCatalog struct {
	products map[string]models.Product
	err      error
	delay    time.Duration
	calls    int
}

func (f *fakeCatalog) FindProducts(ctx context.Context, ids []string) (map[string]models.Product, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]models.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeSettings struct {
	settings models.StoreSettings
	err      error
}

func (f *fakeSettings) GetSettings(context.Context) (models.StoreSettings, error) {
	return f.settings, f.err
}

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[string]*models.Order
	createErr error
	settleErr error
	creates   int
	settles   int
	gets      int

	settledItems []models.LineItem
	// catalog, when set, has its stock decremented on settlement.
	catalog *fakeCatalog
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[string]*models.Order)}
}

func (f *fakeOrders) CreateOrder(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	stored := *order
	f.orders[order.ID] = &stored
	return nil
}

func (f *fakeOrders) GetOrder(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	order, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	out := *order
	return &out, nil
}

func (f *fakeOrders) SettleOrder(_ context.Context, orderID string, c models.PaymentConfirmation, items []models.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settles++
	if f.settleErr != nil {
		return f.settleErr
	}
	order, ok := f.orders[orderID]
	if !ok || order.Status != models.OrderStatusPending {
		return repository.ErrOrderNotPending
	}
	order.Status = models.OrderStatusPaid
	order.PaymentID = c.PaymentID
	order.Signature = c.Signature
	paidAt := c.PaidAt
	order.PaidAt = &paidAt
	order.UpdatedAt = c.PaidAt

	f.settledItems = append([]models.LineItem(nil), items...)
	if f.catalog != nil {
		for _, item := range items {
			p := f.catalog.products[item.ProductID]
			if p.Stock != nil {
				left := *p.Stock - int64(item.Quantity)
				p.Stock = &left
				f.catalog.products[item.ProductID] = p
			}
		}
	}
	return nil
}

func (f *fakeOrders) get(id string) *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id]
}

const testSecret = "test_secret"

type fakeGateway struct {
	orderID  string
	err      error
	delay    time.Duration
	requests []payment.OrderRequest
}

func (f *fakeGateway) KeyID() string { return "rzp_test_key" }

func (f *fakeGateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error) {
	f.requests = append(f.requests, req)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &payment.Order{ID: f.orderID, Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"}, nil
}

func (f *fakeGateway) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	return payment.VerifySignature(testSecret, gatewayOrderID, paymentID, signature)
}

type fakeGuard struct {
	held     map[string]bool
	err      error
	released int
}

func (f *fakeGuard) Acquire(_ context.Context, orderID string) (func(), bool, error) {
	if f.err != nil {
		return func() {}, false, f.err
	}
	if f.held[orderID] {
		return func() {}, false, nil
	}
	if f.held == nil {
		f.held = make(map[string]bool)
	}
	f.held[orderID] = true
	return func() {
		delete(f.held, orderID)
		f.released++
	}, true, nil
}

type recordingEvents struct {
	created chan *models.Order
	paid    chan *models.Order
	err     error
}

func newRecordingEvents() *recordingEvents {
	return &recordingEvents{created: make(chan *models.Order, 4), paid: make(chan *models.Order, 4)}
}

func (r *recordingEvents) PublishOrderCreated(_ context.Context, order *models.Order) error {
	r.created <- order
	return r.err
}

func (r *recordingEvents) PublishOrderPaid(_ context.Context, order *models.Order) error {
	r.paid <- order
	return r.err
}

type panickingNotifier struct{}

func (panickingNotifier) OrderCreated(*models.Order) { panic("notifier down") }
func (panickingNotifier) OrderPaid(*models.Order)    { panic("notifier down") }

var errStoreDown = errors.New("store down")

func stock(n int64) *int64 { return &n }

func fmtWrapNotPending() error {
	return fmt.Errorf("settle: %w", repository.ErrOrderNotPending)
}
