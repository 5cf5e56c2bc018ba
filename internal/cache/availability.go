package cache

import (
	"context"
	"fmt"
	"time"

	"meetbook/internal/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	versionKey = "availability:version"
	entryTTL   = 60 * time.Second
)

// AvailabilityCache is an optional short-TTL cache for the availability read
// path. Write paths bump a version counter instead of deleting entries, so
// stale results age out without key scans. A nil *AvailabilityCache is a
// valid no-op cache.
type AvailabilityCache struct {
	client *redis.Client
}

func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// Key builds a cache key bound to the current write version.
func (c *AvailabilityCache) Key(ctx context.Context, startDate, endDate string, duration int) string {
	var version int64
	if c != nil && c.client != nil {
		v, err := c.client.Get(ctx, versionKey).Int64()
		if err != nil && err != redis.Nil {
			logger.Get().Warn("availability cache version read failed", zap.Error(err))
		} else {
			version = v
		}
	}
	return fmt.Sprintf("availability:v%d:%s:%s:%d", version, startDate, endDate, duration)
}

func (c *AvailabilityCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Get().Warn("availability cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return payload, true
}

func (c *AvailabilityCache) Set(ctx context.Context, key string, payload []byte) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, entryTTL).Err(); err != nil {
		logger.Get().Warn("availability cache write failed", zap.Error(err))
	}
}

// Bump invalidates all cached availability by advancing the version counter.
// Called after every booking-state write.
func (c *AvailabilityCache) Bump(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		logger.Get().Warn("availability cache version bump failed", zap.Error(err))
	}
}
