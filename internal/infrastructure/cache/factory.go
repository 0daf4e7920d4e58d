package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CartStorage is a cart.Storage with a connection lifecycle
type CartStorage interface {
	cart.Storage
	Ping(ctx context.Context) error
	Close() error
}

// CartStorageFactory creates cart storages based on configuration
type CartStorageFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CartStorageFactoryOption is a functional option for configuring the factory
type CartStorageFactoryOption func(*CartStorageFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CartStorageFactoryOption {
	return func(f *CartStorageFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory storage when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) CartStorageFactoryOption {
	return func(f *CartStorageFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCartStorageFactory creates a new factory
func NewCartStorageFactory(cfg config.RedisConfig, ttl time.Duration, opts ...CartStorageFactoryOption) *CartStorageFactory {
	f := &CartStorageFactory{
		redisConfig:           cfg,
		ttl:                   ttl,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStorage returns Redis storage when Redis is enabled and reachable.
// Otherwise it falls back to in-memory storage, unless fallback is disabled.
func (f *CartStorageFactory) CreateStorage() (CartStorage, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory cart storage")
		return NewInMemoryCartStorage(), nil
	}

	client, err := NewRedisClient(RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis cart storage", zap.String("addr", f.redisConfig.Addr()))
		return NewRedisCartStorage(client, f.ttl), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for cart storage but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cart storage. "+
		"Carts will not survive a restart.",
		zap.Error(err),
	)
	return NewInMemoryCartStorage(), nil
}
