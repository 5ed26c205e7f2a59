package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/vidhub/internal/cache"
	"github.com/oggyb/vidhub/internal/lock"
	"github.com/oggyb/vidhub/internal/media"
)

// AppContext holds shared dependencies (DB, Redis, locks, media store, Logger)
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Locker     lock.Locker
	Media      media.Remover
	Logger     *slog.Logger
}

// New creates a new AppContext. A nil remover falls back to media.Noop.
func New(db *gorm.DB, rdb *cache.RedisCache, locker lock.Locker, remover media.Remover, logger *slog.Logger) *AppContext {
	if remover == nil {
		remover = media.Noop{}
	}
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Locker:     locker,
		Media:      remover,
		Logger:     logger,
	}
}
