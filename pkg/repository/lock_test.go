package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryLocker struct {
	mu       sync.Mutex
	held     map[string]string
	next     int
	err      error
	released []string
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{held: map[string]string{}}
}

func (m *memoryLocker) AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	if _, ok := m.held[key]; ok {
		return "", false, nil
	}
	m.next++
	token := string(rune('a' + m.next))
	m.held[key] = token
	return token, true, nil
}

func (m *memoryLocker) ReleaseLock(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] == token {
		delete(m.held, key)
		m.released = append(m.released, key)
	}
	return nil
}

func TestSettlementLockExcludesSecondAttempt(t *testing.T) {
	locker := newMemoryLocker()
	lock := NewSettlementLock(locker, time.Second, zap.NewNop())

	release, ok, err := lock.Acquire(context.Background(), "order-1")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = lock.Acquire(context.Background(), "order-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = lock.Acquire(context.Background(), "order-2")
	require.NoError(t, err)
	assert.True(t, ok)

	release()
	assert.Equal(t, []string{"settlement-lock:order-1"}, locker.released)

	_, ok, err = lock.Acquire(context.Background(), "order-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSettlementLockError(t *testing.T) {
	locker := newMemoryLocker()
	locker.err = errors.New("redis unavailable")
	lock := NewSettlementLock(locker, time.Second, zap.NewNop())

	release, ok, err := lock.Acquire(context.Background(), "order-1")
	require.Error(t, err)
	assert.False(t, ok)
	assert.NotPanics(t, release)
}
