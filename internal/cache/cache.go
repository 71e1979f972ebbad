// Package cache is the explorer's query cache. It serves fresh entries
// directly, serves stale entries while refreshing them in the background and
// collapses concurrent identical fetches into one upstream request.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/naka-gawa/repo-explorer/internal/metrics"
)

const (
	DefaultSize = 256

	// fetchTimeout bounds a shared fetch once it no longer follows any
	// single caller's context.
	fetchTimeout = 30 * time.Second
)

// FetchFunc loads the value for a key from upstream.
type FetchFunc[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Cache is safe for concurrent use.
type Cache[V any] struct {
	entries *lru.Cache[string, entry[V]]
	group   singleflight.Group
	logger  *zap.Logger
	metrics *metrics.Recorder
	now     func() time.Time

	revalidating sync.WaitGroup
}

// New creates a cache holding at most size entries. size <= 0 uses DefaultSize.
func New[V any](size int, logger *zap.Logger, recorder *metrics.Recorder) (*Cache[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, entry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru: %w", err)
	}
	return &Cache[V]{
		entries: entries,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}, nil
}

// Get returns the value for key. Entries younger than staleAfter are served
// as-is; older entries are served and refreshed in the background; missing
// entries are fetched, with concurrent callers sharing one fetch.
// Errors are returned to every waiting caller and never cached.
func (c *Cache[V]) Get(ctx context.Context, key string, staleAfter time.Duration, fetch FetchFunc[V]) (V, error) {
	if e, ok := c.entries.Get(key); ok {
		if c.now().Sub(e.fetchedAt) < staleAfter {
			c.metrics.CacheLookup(metrics.CacheHit)
			return e.value, nil
		}
		c.metrics.CacheLookup(metrics.CacheStale)
		c.revalidate(ctx, key, fetch)
		return e.value, nil
	}

	c.metrics.CacheLookup(metrics.CacheMiss)
	ch := c.group.DoChan(key, c.detached(ctx, key, fetch))
	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// Invalidate drops key so the next Get fetches it again.
func (c *Cache[V]) Invalidate(key string) {
	c.entries.Remove(key)
}

// Len reports the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.entries.Len()
}

// Wait blocks until background revalidations have finished.
func (c *Cache[V]) Wait() {
	c.revalidating.Wait()
}

func (c *Cache[V]) load(ctx context.Context, key string, fetch FetchFunc[V]) (V, error) {
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	c.entries.Add(key, entry[V]{value: v, fetchedAt: c.now()})
	return v, nil
}

// detached wraps fetch so the shared call keeps running when the caller that
// started it goes away; other callers may be waiting on the same result.
func (c *Cache[V]) detached(ctx context.Context, key string, fetch FetchFunc[V]) func() (any, error) {
	return func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return c.load(fetchCtx, key, fetch)
	}
}

// revalidate refreshes key without blocking the caller.
func (c *Cache[V]) revalidate(ctx context.Context, key string, fetch FetchFunc[V]) {
	c.revalidating.Add(1)
	ch := c.group.DoChan(key, c.detached(ctx, key, fetch))
	go func() {
		defer c.revalidating.Done()
		if res := <-ch; res.Err != nil {
			c.logger.Warn("background revalidation failed", zap.String("key", key), zap.Error(res.Err))
		}
	}()
}
