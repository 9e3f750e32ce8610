package repository

import (
	"context"
	"errors"
	"time"

	"github.com/example/storefront/pkg/models"
	"go.uber.org/zap"
)

const settingsCacheKey = "store:settings"

type settingsDocumentReader interface {
	GetSettingsDocument(ctx context.Context) (*models.StoreSettingsDocument, error)
}

type jsonCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// SettingsStore reads store settings through a Redis cache. A failing cache
// is logged and bypassed.
type SettingsStore struct {
	source   settingsDocumentReader
	cache    jsonCache
	defaults models.StoreSettings
	ttl      time.Duration
	logger   *zap.Logger
}

func NewSettingsStore(source settingsDocumentReader, cache jsonCache, defaults models.StoreSettings, ttl time.Duration, logger *zap.Logger) *SettingsStore {
	return &SettingsStore{
		source:   source,
		cache:    cache,
		defaults: defaults,
		ttl:      ttl,
		logger:   logger,
	}
}

func (s *SettingsStore) GetSettings(ctx context.Context) (models.StoreSettings, error) {
	var cached models.StoreSettings
	err := s.cache.GetJSON(ctx, settingsCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("Settings cache read failed", zap.Error(err))
	}

	doc, err := s.source.GetSettingsDocument(ctx)
	if err != nil {
		return models.StoreSettings{}, err
	}
	settings := doc.Resolve(s.defaults)

	if err := s.cache.SetJSON(ctx, settingsCacheKey, settings, s.ttl); err != nil {
		s.logger.Warn("Settings cache write failed", zap.Error(err))
	}
	return settings, nil
}
