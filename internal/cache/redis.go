package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/vidhub/internal/config"
)

type RedisCache struct {
	Client *redis.Client
	// StatsTTL bounds how long a video stats entry is served without a DB read.
	StatsTTL time.Duration
}

// VideoStats is the cached copy of a video's counters.
type VideoStats struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
	Comments int64 `json:"comments"`
	Views    int64 `json:"views"`
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	ttl := cfg.Cache.StatsTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{Client: redis.NewClient(opts), StatsTTL: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}

// KeyForVideoStats generates Redis key for a video's counters
func (c *RedisCache) KeyForVideoStats(videoID uint64) string {
	return fmt.Sprintf("video:stats:%d", videoID)
}

// GetVideoStats returns (nil, nil) on a cache miss.
func (c *RedisCache) GetVideoStats(ctx context.Context, videoID uint64) (*VideoStats, error) {
	val, err := c.Client.Get(ctx, c.KeyForVideoStats(videoID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var stats VideoStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		// corrupt entry → treat as miss
		return nil, nil
	}
	return &stats, nil
}

func (c *RedisCache) SetVideoStats(ctx context.Context, videoID uint64, stats VideoStats) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.KeyForVideoStats(videoID), b, c.StatsTTL).Err()
}

// InvalidateVideoStats drops the cached counters of the given videos.
func (c *RedisCache) InvalidateVideoStats(ctx context.Context, videoIDs ...uint64) error {
	if len(videoIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(videoIDs))
	for _, id := range videoIDs {
		keys = append(keys, c.KeyForVideoStats(id))
	}
	return c.Del(ctx, keys...)
}
