package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
	"go.uber.org/zap"
)

const msgPaymentVerified = "Payment verified successfully"

// VerifyPayment checks the gateway signature and, only if it matches, marks
// the order paid and decrements stock in one atomic write. A repeat call for
// an order already paid by the same payment succeeds without writing.
func (s *Service) VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error) {
	if err := validateVerifyPayment(&req); err != nil {
		return nil, err
	}

	if !s.gateway.VerifyPaymentSignature(req.GatewayOrderID, req.PaymentID, req.Signature) {
		s.logger.Warn("Payment signature mismatch",
			zap.String("order_id", req.OrderID),
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.String("payment_id", req.PaymentID))
		return nil, newError(KindRejected, msgVerificationFailed)
	}

	// The conditional pending write still guards settlement when the lock
	// store is down.
	release, ok, err := s.guard.Acquire(ctx, req.OrderID)
	defer release()
	switch {
	case err != nil:
		s.logger.Warn("Settlement lock unavailable, continuing without it",
			zap.String("order_id", req.OrderID), zap.Error(err))
	case !ok:
		return nil, newError(KindConflict, msgSettlementBusy)
	}

	order, err := s.orders.GetOrder(ctx, req.OrderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, newError(KindNotFound, msgOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}

	// The signature covers the gateway order, not ours.
	if order.GatewayOrderID != req.GatewayOrderID {
		s.logger.Warn("Gateway order does not belong to order",
			zap.String("order_id", order.ID),
			zap.String("gateway_order_id", req.GatewayOrderID))
		return nil, newError(KindRejected, msgVerificationFailed)
	}

	if order.Status != models.OrderStatusPending {
		if order.Status == models.OrderStatusPaid && order.PaymentID == req.PaymentID {
			s.logger.Info("Settlement replay ignored", zap.String("order_id", order.ID))
			return settledResponse(order.ID), nil
		}
		return nil, newError(KindConflict, msgAlreadySettled)
	}

	confirmation := models.PaymentConfirmation{
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
		PaidAt:         s.now(),
	}
	err = s.orders.SettleOrder(ctx, order.ID, confirmation, order.Items)
	if errors.Is(err, repository.ErrOrderNotPending) {
		return nil, newError(KindConflict, msgAlreadySettled)
	}
	if err != nil {
		return nil, fmt.Errorf("settle order %s: %w", order.ID, err)
	}

	order.Status = models.OrderStatusPaid
	order.PaymentID = confirmation.PaymentID
	order.Signature = confirmation.Signature
	order.PaidAt = &confirmation.PaidAt
	order.UpdatedAt = confirmation.PaidAt

	s.logger.Info("Payment settled",
		zap.String("order_id", order.ID),
		zap.String("payment_id", order.PaymentID),
		zap.Int64("total_amount", order.TotalAmount))

	s.announcePaid(order)

	return settledResponse(order.ID), nil
}

func settledResponse(orderID string) *models.VerifyPaymentResponse {
	return &models.VerifyPaymentResponse{
		Success: true,
		OrderID: orderID,
		Message: msgPaymentVerified,
	}
}
