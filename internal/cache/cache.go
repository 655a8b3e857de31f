// FilePath: internal/cache/cache.go

// Package cache is a small read-through cache for the hot "active hardware
// configuration by rover name" lookup. It is optional: a nil *Cache is safe
// to call and behaves as a miss, so the hub runs unchanged without Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"

	"github.com/deepsea-systems/rovhub/internal/config"
	"github.com/deepsea-systems/rovhub/internal/models"
)

const activeConfigTTL = 5 * time.Minute

type Cache struct {
	client *redis.Client
}

// New connects to Redis; returns nil (cache disabled) when cfg.Enabled is
// false or the server is unreachable.
func New(ctx context.Context, cfg config.RedisConfig) *Cache {
	if !cfg.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		nuts.L.Warnf("[Cache] Redis unavailable, running without cache: %v", err)
		return nil
	}
	nuts.L.Infof("[Cache] Connected to Redis at %s:%d", cfg.Host, cfg.Port)
	return &Cache{client: client}
}

func activeConfigKey(name string) string {
	return "rovhub:hardware:active:" + name
}

// GetActiveConfig returns the cached active configuration for a rover name,
// or nil on miss.
func (c *Cache) GetActiveConfig(ctx context.Context, name string) *models.RoverHardware {
	if c == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, activeConfigKey(name)).Bytes()
	if err != nil {
		return nil
	}
	hw := &models.RoverHardware{}
	if err := json.Unmarshal(raw, hw); err != nil {
		return nil
	}
	return hw
}

// SetActiveConfig stores the active configuration for a rover name.
func (c *Cache) SetActiveConfig(ctx context.Context, hw *models.RoverHardware) {
	if c == nil || hw == nil {
		return
	}
	raw, err := json.Marshal(hw)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, activeConfigKey(hw.Name), raw, activeConfigTTL).Err(); err != nil {
		nuts.L.Warnf("[Cache] Failed to cache active config for %s: %v", hw.Name, err)
	}
}

// InvalidateActiveConfig drops the cached entry after an activation
// transition commits.
func (c *Cache) InvalidateActiveConfig(ctx context.Context, name string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, activeConfigKey(name)).Err(); err != nil {
		nuts.L.Warnf("[Cache] Failed to invalidate active config for %s: %v", name, err)
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
