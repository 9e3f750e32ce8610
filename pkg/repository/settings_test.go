package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/example/storefront/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSettingsSource struct {
	doc   *models.StoreSettingsDocument
	err   error
	calls int
}

func (f *fakeSettingsSource) GetSettingsDocument(ctx context.Context) (*models.StoreSettingsDocument, error) {
	f.calls++
	return f.doc, f.err
}

type fakeCache struct {
	data     map[string][]byte
	getErr   error
	setErr   error
	lastTTL  time.Duration
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.data[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.lastTTL = ttl
	return nil
}

var testDefaults = models.StoreSettings{FreeShippingThreshold: 25000, ShippingCost: 500, GSTRate: 5}

func TestSettingsStoreReadThrough(t *testing.T) {
	cost := int64(99)
	source := &fakeSettingsSource{doc: &models.StoreSettingsDocument{ID: "store", ShippingCost: &cost}}
	cache := newFakeCache()
	store := NewSettingsStore(source, cache, testDefaults, time.Minute, zap.NewNop())

	first, err := store.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StoreSettings{FreeShippingThreshold: 25000, ShippingCost: 99, GSTRate: 5}, first)
	assert.Equal(t, time.Minute, cache.lastTTL)

	second, err := store.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)
}

func TestSettingsStoreDefaultsWhenDocumentMissing(t *testing.T) {
	store := NewSettingsStore(&fakeSettingsSource{}, newFakeCache(), testDefaults, time.Minute, zap.NewNop())

	got, err := store.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testDefaults, got)
}

func TestSettingsStoreBypassesBrokenCache(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	source := &fakeSettingsSource{}
	store := NewSettingsStore(source, cache, testDefaults, time.Minute, zap.NewNop())

	got, err := store.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testDefaults, got)
	assert.Equal(t, 1, source.calls)
}

func TestSettingsStorePropagatesSourceError(t *testing.T) {
	source := &fakeSettingsSource{err: errors.New("mongo down")}
	cache := newFakeCache()
	store := NewSettingsStore(source, cache, testDefaults, time.Minute, zap.NewNop())

	_, err := store.GetSettings(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, cache.setCalls)
}
