// Package searcher answers queries for both user surfaces. Service parses
// the raw query, consults the optional result cache, executes against the
// index snapshot and reports a search event to the optional analytics
// collector.
package searcher

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/logger"
)

// Tracker receives one event per answered query. *analytics.Collector
// satisfies it.
type Tracker interface {
	Track(event analytics.SearchEvent)
}

type Service struct {
	executor *executor.Executor
	cache    *cache.QueryCache
	tracker  Tracker
}

type Option func(*Service)

func WithCache(c *cache.QueryCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithTracker(t Tracker) Option {
	return func(s *Service) { s.tracker = t }
}

func NewService(exec *executor.Executor, opts ...Option) *Service {
	s := &Service{executor: exec}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the index snapshot queries are answered from.
func (s *Service) Snapshot() *indexer.Snapshot {
	return s.executor.Snapshot()
}

// Cache returns the result cache, or nil when caching is off.
func (s *Service) Cache() *cache.QueryCache {
	return s.cache
}

// Search answers raw. Queries that normalise to nothing are answered
// directly without touching the cache. The bool reports a cache hit.
func (s *Service) Search(ctx context.Context, raw string, limit int) (*executor.SearchResult, bool, error) {
	start := time.Now()
	q := parser.Parse(raw)

	var (
		result   *executor.SearchResult
		cacheHit bool
		err      error
	)
	if s.cache != nil && !q.Empty() {
		result, cacheHit, err = s.cache.GetOrCompute(ctx, q, limit, func() (*executor.SearchResult, error) {
			return s.executor.Execute(ctx, q, limit)
		})
	} else {
		result, err = s.executor.Execute(ctx, q, limit)
	}
	if err != nil {
		return nil, false, err
	}
	// shared results carry the raw text of whoever computed them
	own := *result
	own.Query = raw
	result = &own

	if s.tracker != nil {
		event := analytics.NewSearchEvent(q.Kind.String(), raw, q.Terms)
		event.TotalHits = result.TotalHits
		event.Returned = len(result.Results) + len(result.Matches)
		event.LatencyMs = float64(time.Since(start).Microseconds()) / 1000
		event.CacheHit = cacheHit
		event.Fingerprint = s.Snapshot().Index.Fingerprint()
		event.RequestID = logger.RequestID(ctx)
		s.tracker.Track(event)
	}
	return result, cacheHit, nil
}
