// Package cache memoises search results in Redis. Keys embed the fingerprint
// of the index that produced them, so a rebuilt corpus never serves stale
// results. Cache failures degrade to computing the result directly.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/positional-search/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "search:"

// Store is the subset of *pkgredis.Client the cache needs. Get reports a
// missing key with pkgredis.ErrNotFound.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

type Stats struct {
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Breaker string `json:"breaker"`
}

type QueryCache struct {
	store       Store
	ttl         time.Duration
	fingerprint string
	breaker     *resilience.CircuitBreaker
	metrics     *metrics.Metrics
	group       singleflight.Group
	logger      *slog.Logger
	hits        atomic.Int64
	misses      atomic.Int64
}

func New(store Store, ttl time.Duration, fingerprint string, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:       store,
		ttl:         ttl,
		fingerprint: fingerprint,
		breaker: resilience.NewCircuitBreaker("redis-cache", resilience.CircuitBreakerConfig{
			FailureThreshold: 5,
			ResetTimeout:     30 * time.Second,
			OnStateChange: func(name string, _, to resilience.State) {
				m.SetBreakerState(name, int(to))
			},
		}),
		metrics: m,
		logger:  slog.Default().With("component", "query-cache"),
	}
}

func (c *QueryCache) Get(ctx context.Context, q *parser.Query, limit int) (*executor.SearchResult, bool) {
	key := c.buildKey(q, limit)
	var data string
	err := c.breaker.Execute(func() error {
		var err error
		data, err = c.store.Get(ctx, key)
		if errors.Is(err, pkgredis.ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		c.logger.Warn("cache get failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	if data == "" {
		c.miss()
		return nil, false
	}
	var result executor.SearchResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	c.hits.Add(1)
	c.metrics.ObserveCache(true)
	c.logger.Debug("cache hit", "query", q.Raw, "key", key)
	return &result, true
}

func (c *QueryCache) Set(ctx context.Context, q *parser.Query, limit int, result *executor.SearchResult) {
	key := c.buildKey(q, limit)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	err = c.breaker.Execute(func() error {
		return c.store.Set(ctx, key, data, c.ttl)
	})
	if err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute serves q from the cache or runs computeFn once for all
// concurrent callers asking the same question. The bool reports a cache hit.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	q *parser.Query,
	limit int,
	computeFn func() (*executor.SearchResult, error),
) (*executor.SearchResult, bool, error) {
	if result, ok := c.Get(ctx, q, limit); ok {
		return result, true, nil
	}
	key := c.buildKey(q, limit)
	val, err, _ := c.group.Do(key, func() (any, error) {
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, q, limit, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*executor.SearchResult), false, nil
}

// Invalidate removes every cached result, including those of other index
// fingerprints, and returns the number of keys deleted.
func (c *QueryCache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return deleted, fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return deleted, nil
}

func (c *QueryCache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Breaker: c.breaker.State().String(),
	}
}

func (c *QueryCache) miss() {
	c.misses.Add(1)
	c.metrics.ObserveCache(false)
}

// buildKey hashes the normalised query so that "Machine  LEARNING!" and
// "machine learning" share an entry. Term order is kept since it matters to
// phrases.
func (c *QueryCache) buildKey(q *parser.Query, limit int) string {
	raw := fmt.Sprintf("%s|%s|limit=%d", q.Kind, strings.Join(q.Terms, " "), limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%s:%x", keyPrefix, c.fingerprint, hash[:16])
}
