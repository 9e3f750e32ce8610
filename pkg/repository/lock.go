package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// SettlementLock keeps two settlement attempts for one order from running
// at the same time.
type SettlementLock struct {
	locker locker
	ttl    time.Duration
	logger *zap.Logger
}

func NewSettlementLock(l locker, ttl time.Duration, logger *zap.Logger) *SettlementLock {
	return &SettlementLock{locker: l, ttl: ttl, logger: logger}
}

func settlementLockKey(orderID string) string {
	return "settlement-lock:" + orderID
}

// Acquire returns ok=false when another attempt holds the lock. release is
// always safe to call.
func (s *SettlementLock) Acquire(ctx context.Context, orderID string) (func(), bool, error) {
	key := settlementLockKey(orderID)
	token, ok, err := s.locker.AcquireLock(ctx, key, s.ttl)
	if err != nil || !ok {
		return func() {}, false, err
	}

	release := func() {
		// The request context may already be cancelled here.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.locker.ReleaseLock(ctx, key, token); err != nil {
			s.logger.Warn("Failed to release settlement lock", zap.String("order_id", orderID), zap.Error(err))
		}
	}
	return release, true, nil
}
