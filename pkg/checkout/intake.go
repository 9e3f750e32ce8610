package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/payment"
	"github.com/example/storefront/pkg/pricing"
	"go.uber.org/zap"
)

// CreateOrder prices the cart from the catalog, opens a gateway order for
// the verified total and stores a pending order. Nothing is stored unless
// the gateway order exists.
func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	if err := validateCreateOrder(&req); err != nil {
		return nil, err
	}

	quote, err := s.quote(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	orderID := s.newID()

	gwCtx, cancel := withTimeout(ctx, s.opts.GatewayTimeout)
	defer cancel()
	gwOrder, err := s.gateway.CreateOrder(gwCtx, payment.OrderRequest{
		Amount:   quote.Total * 100,
		Currency: s.opts.Currency,
		Receipt:  fmt.Sprintf("rcpt_%d", now.UnixNano()),
		Notes:    map[string]string{"order_id": orderID},
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	order := &models.Order{
		ID:              orderID,
		Customer:        trimCustomer(req.Customer),
		ShippingAddress: req.ShippingAddress,
		Items:           quote.Items,
		ItemCount:       quote.ItemCount,
		Subtotal:        quote.Subtotal,
		Shipping:        quote.Shipping,
		GST:             quote.GST,
		TotalAmount:     quote.Total,
		Notes:           strings.TrimSpace(req.Notes),
		GatewayOrderID:  gwOrder.ID,
		PaymentMethod:   models.PaymentMethodRazorpay,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order %s for gateway order %s: %w", orderID, gwOrder.ID, err)
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("gateway_order_id", order.GatewayOrderID),
		zap.Int("item_count", order.ItemCount),
		zap.Int64("total_amount", order.TotalAmount))

	s.announceCreated(order)

	return &models.CreateOrderResponse{
		OrderID:        order.ID,
		GatewayOrderID: order.GatewayOrderID,
		Amount:         order.TotalAmount,
		Currency:       s.opts.Currency,
		KeyID:          s.gateway.KeyID(),
	}, nil
}

func (s *Service) quote(ctx context.Context, cart []models.CartLine) (*pricing.Quote, error) {
	readCtx, cancel := withTimeout(ctx, s.opts.CatalogTimeout)
	defer cancel()

	products, err := s.catalog.FindProducts(readCtx, productIDs(cart))
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	settings, err := s.settings.GetSettings(readCtx)
	if err != nil {
		return nil, fmt.Errorf("load store settings: %w", err)
	}

	quote, err := pricing.PriceOrder(cart, products, settings)
	var notFound *pricing.ProductNotFoundError
	var shortfall *pricing.InsufficientStockError
	var badQuantity *pricing.InvalidQuantityError
	switch {
	case errors.As(err, &badQuantity):
		return nil, &Error{Kind: KindValidation, Message: "Invalid quantity for product " + badQuantity.ProductID, Err: err}
	case errors.Is(err, pricing.ErrAmountTooLarge):
		return nil, &Error{Kind: KindRejected, Message: "Order total exceeds the maximum allowed amount", Err: err}
	case errors.As(err, &notFound):
		return nil, &Error{Kind: KindRejected, Message: "Product not found: " + notFound.ProductID, Err: err}
	case errors.As(err, &shortfall):
		return nil, &Error{
			Kind:    KindRejected,
			Message: fmt.Sprintf("Insufficient stock for %s. Available: %d", shortfall.Name, shortfall.Available),
			Err:     err,
		}
	case err != nil:
		return nil, err
	}
	return quote, nil
}

func trimCustomer(c models.Customer) models.Customer {
	return models.Customer{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
}
