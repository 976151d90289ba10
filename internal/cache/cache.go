package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wildoasis/cabin-bookings/pkg/events"
	"github.com/wildoasis/cabin-bookings/pkg/logger"
	"github.com/wildoasis/cabin-bookings/pkg/metrics"
)

// Invalidator marks rendered views stale after a mutation. Invalidation is
// fire-and-forget signaling; it never re-fetches data and never fails the
// mutation that triggered it.
type Invalidator interface {
	Invalidate(ctx context.Context, views ...View)
}

// ViewCache stores rendered view bodies in Redis under a TTL and broadcasts
// invalidations on the event bus so other renderers can drop their copies.
type ViewCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	bus     events.Publisher
	metrics *metrics.Metrics
}

func NewViewCache(rdb *redis.Client, ttl time.Duration, bus events.Publisher, m *metrics.Metrics) *ViewCache {
	return &ViewCache{rdb: rdb, ttl: ttl, bus: bus, metrics: m}
}

func key(v View) string {
	return "view:" + string(v)
}

// Get returns the cached body for a view, if present.
func (c *ViewCache) Get(ctx context.Context, v View) ([]byte, bool) {
	body, err := c.rdb.Get(ctx, key(v)).Bytes()
	if err == redis.Nil {
		if c.metrics != nil {
			c.metrics.ViewCacheMisses.Inc()
		}
		return nil, false
	}
	if err != nil {
		logger.WarnContext(ctx, "View cache read failed", "view", v, "error", err)
		return nil, false
	}
	if c.metrics != nil {
		c.metrics.ViewCacheHits.Inc()
	}
	return body, true
}

// Set stores a rendered body for a view. Errors are logged only; a cache
// write failure must not fail the render.
func (c *ViewCache) Set(ctx context.Context, v View, body []byte) {
	if err := c.rdb.Set(ctx, key(v), body, c.ttl).Err(); err != nil {
		logger.WarnContext(ctx, "View cache write failed", "view", v, "error", err)
	}
}

func (c *ViewCache) Invalidate(ctx context.Context, views ...View) {
	if len(views) == 0 {
		return
	}

	keys := make([]string, len(views))
	names := make([]string, len(views))
	for i, v := range views {
		keys[i] = key(v)
		names[i] = string(v)
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.WarnContext(ctx, "View cache invalidation failed", "views", names, "error", err)
	}

	if c.bus != nil {
		ev := events.CacheInvalidatedEvent{Views: names, At: time.Now()}
		if err := c.bus.Publish(ctx, events.CacheInvalidated, ev); err != nil {
			logger.WarnContext(ctx, "Failed to broadcast cache invalidation", "views", names, "error", err)
		}
	}
}
