package news

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gruzpro/site-platform/internal/observability/metrics"
	"github.com/gruzpro/site-platform/pkg/logging"
)

const publishedListKey = "news:published"

// RedisCache is an optional cross-instance cache for the public news list.
// Misses and Redis errors fall through to the repository; the cache can
// never make a read fail.
type RedisCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	metrics *metrics.NewsCacheMetrics
	logger  *logging.Logger
}

// NewRedisCache creates a cache over an existing Redis client, or nil when
// the client is absent.
func NewRedisCache(rdb *redis.Client, ttl time.Duration, m *metrics.NewsCacheMetrics, logger *logging.Logger) *RedisCache {
	if rdb == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl, metrics: m, logger: logger}
}

// GetList returns the cached published list if present.
func (c *RedisCache) GetList(ctx context.Context) ([]*Article, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, publishedListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("news cache read failed", "error", err)
		}
		c.metrics.ObserveLookup("miss")
		return nil, false
	}

	var articles []*Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		c.logger.Warn("news cache entry corrupt, dropping", "error", err)
		c.rdb.Del(ctx, publishedListKey)
		c.metrics.ObserveLookup("miss")
		return nil, false
	}

	c.metrics.ObserveLookup("hit")
	return articles, true
}

// SetList stores the published list with the configured TTL.
func (c *RedisCache) SetList(ctx context.Context, articles []*Article) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(articles)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, publishedListKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("news cache write failed", "error", err)
	}
}

// InvalidateList drops the cached list after an admin mutation.
func (c *RedisCache) InvalidateList(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, publishedListKey).Err(); err != nil {
		c.logger.Warn("news cache invalidation failed", "error", err)
	}
}
