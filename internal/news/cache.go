package news

import (
	"context"
	"sync"

	"github.com/gruzpro/site-platform/pkg/logging"
)

// SnapshotCache holds the published-article list with an explicit lifecycle:
// populated once on first Load, then served from memory until Invalidate.
// It replaces the ambient module-level globals the original site kept.
type SnapshotCache struct {
	repo   Repository
	logger *logging.Logger

	mu       sync.Mutex
	loaded   bool
	articles []*Article
}

// NewSnapshotCache creates an empty cache over repo.
func NewSnapshotCache(repo Repository, logger *logging.Logger) *SnapshotCache {
	if logger == nil {
		logger = logging.Default()
	}
	return &SnapshotCache{repo: repo, logger: logger}
}

// Load returns the cached published list, fetching it on first use or after
// Invalidate. A fetch error leaves the cache unpopulated so the next Load
// retries.
func (c *SnapshotCache) Load(ctx context.Context) ([]*Article, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.articles, nil
	}

	articles, err := c.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	c.articles = articles
	c.loaded = true
	c.logger.Debug("news snapshot cached", "count", len(articles))
	return articles, nil
}

// Invalidate drops the cached list; the next Load refetches.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.articles = nil
	c.mu.Unlock()
}
