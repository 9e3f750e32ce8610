package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/payment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Catalog interface {
	FindProducts(ctx context.Context, ids []string) (map[string]models.Product, error)
}

type SettingsSource interface {
	GetSettings(ctx context.Context) (models.StoreSettings, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	SettleOrder(ctx context.Context, orderID string, confirmation models.PaymentConfirmation, items []models.LineItem) error
}

type PaymentGateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error)
	VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool
}

type SettlementGuard interface {
	Acquire(ctx context.Context, orderID string) (release func(), ok bool, err error)
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishOrderPaid(ctx context.Context, order *models.Order) error
}

type Notifier interface {
	OrderCreated(order *models.Order)
	OrderPaid(order *models.Order)
}

type Options struct {
	Currency       string
	CatalogTimeout time.Duration
	GatewayTimeout time.Duration
}

type Service struct {
	catalog  Catalog
	settings SettingsSource
	orders   OrderStore
	gateway  PaymentGateway
	guard    SettlementGuard
	events   EventPublisher
	notifier Notifier
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string

	inflight sync.WaitGroup
}

// Deps are the collaborators of a Service. Events and Notifier are optional.
type Deps struct {
	Catalog  Catalog
	Settings SettingsSource
	Orders   OrderStore
	Gateway  PaymentGateway
	Guard    SettlementGuard
	Events   EventPublisher
	Notifier Notifier
}

func NewService(deps Deps, opts Options, logger *zap.Logger) *Service {
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	return &Service{
		catalog:  deps.Catalog,
		settings: deps.Settings,
		orders:   deps.Orders,
		gateway:  deps.Gateway,
		guard:    deps.Guard,
		events:   deps.Events,
		notifier: deps.Notifier,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		newID:    newOrderID,
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

const sideEffectTimeout = 10 * time.Second

// afterCommit runs fn detached from the request. A failure or panic in fn is
// logged and goes no further.
func (s *Service) afterCommit(name, orderID string, fn func(ctx context.Context) error) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Side effect panicked",
					zap.String("effect", name),
					zap.String("order_id", orderID),
					zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Warn("Side effect failed",
				zap.String("effect", name),
				zap.String("order_id", orderID),
				zap.Error(err))
		}
	}()
}

// Drain waits for side effects still running. Call it after the HTTP server
// has stopped accepting requests and before closing the event producer or
// the notifier.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) announceCreated(order *models.Order) {
	if s.notifier != nil {
		s.afterCommit("notify_order_created", order.ID, func(context.Context) error {
			s.notifier.OrderCreated(order)
			return nil
		})
	}
	if s.events != nil {
		s.afterCommit("publish_order_created", order.ID, func(ctx context.Context) error {
			return s.events.PublishOrderCreated(ctx, order)
		})
	}
}

func (s *Service) announcePaid(order *models.Order) {
	if s.notifier != nil {
		s.afterCommit("notify_order_paid", order.ID, func(context.Context) error {
			s.notifier.OrderPaid(order)
			return nil
		})
	}
	if s.events != nil {
		s.afterCommit("publish_order_paid", order.ID, func(ctx context.Context) error {
			return s.events.PublishOrderPaid(ctx, order)
		})
	}
}

func newOrderID() string {
	return uuid.NewString()
}
