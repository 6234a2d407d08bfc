package cache

import (
	"go.uber.org/zap"

	"github.com/fulfillbridge/backend/internal/domain/shared"
	"github.com/fulfillbridge/backend/internal/infrastructure/config"
)

// NewIdempotencyStore builds the webhook idempotency store from config.
// It prefers Redis and falls back to the in-memory store when Redis is
// unreachable, so a cache outage degrades deduplication instead of
// blocking startup.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	store, err := NewRedisIdempotencyStore(cfg.Addr(), cfg.Password, cfg.DB)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err))
		return NewInMemoryIdempotencyStore()
	}
	logger.Info("redis idempotency store connected", zap.String("addr", cfg.Addr()))
	return store
}
