package analytics

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/kafka"
)

type AggregatedStats struct {
	TotalSearches     int64          `json:"total_searches"`
	SearchesByKind    map[string]int `json:"searches_by_kind"`
	CacheHits         int64          `json:"cache_hits"`
	CacheMisses       int64          `json:"cache_misses"`
	ZeroResultCount   int64          `json:"zero_result_count"`
	AvgLatencyMs      float64        `json:"avg_latency_ms"`
	P50LatencyMs      float64        `json:"p50_latency_ms"`
	P95LatencyMs      float64        `json:"p95_latency_ms"`
	P99LatencyMs      float64        `json:"p99_latency_ms"`
	TopQueries        []QueryCount   `json:"top_queries"`
	ZeroResultQueries []QueryCount   `json:"zero_result_queries"`
	QueriesPerMinute  float64        `json:"queries_per_minute"`
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// maxLatencies bounds the latency sample kept for percentiles; older samples
// are discarded first.
const maxLatencies = 10000

// Aggregator keeps running stats over SearchEvents. Queries are counted by
// their normalised terms so that "Machine learning" and "machine  learning!"
// land in the same bucket.
type Aggregator struct {
	mu                sync.RWMutex
	totalSearches     int64
	byKind            map[string]int
	cacheHits         int64
	cacheMisses       int64
	zeroResults       int64
	latencies         []float64
	queryCounts       map[string]int64
	zeroResultQueries map[string]int64
	startTime         time.Time
	now               func() time.Time
	logger            *slog.Logger
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		byKind:            make(map[string]int),
		latencies:         make([]float64, 0, 1024),
		queryCounts:       make(map[string]int64),
		zeroResultQueries: make(map[string]int64),
		startTime:         time.Now(),
		now:               time.Now,
		logger:            slog.Default().With("component", "analytics-aggregator"),
	}
}

// HandleMessage decodes a consumed Kafka message and records it. Undecodable
// messages are logged and skipped so a bad producer cannot stall the
// consumer.
func (a *Aggregator) HandleMessage() kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[SearchEvent](value)
		if err != nil {
			a.logger.Error("failed to decode search event", "key", string(key), "error", err)
			return nil
		}
		a.Record(event)
		return nil
	}
}

func (a *Aggregator) Record(event SearchEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalSearches++
	a.byKind[event.Kind]++
	if event.CacheHit {
		a.cacheHits++
	} else {
		a.cacheMisses++
	}

	if len(a.latencies) == maxLatencies {
		copy(a.latencies, a.latencies[1:])
		a.latencies = a.latencies[:maxLatencies-1]
	}
	a.latencies = append(a.latencies, event.LatencyMs)

	key := queryKey(event)
	a.queryCounts[key]++
	if event.ZeroResult() {
		a.zeroResults++
		a.zeroResultQueries[key]++
	}
}

func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalSearches:   a.totalSearches,
		SearchesByKind:  make(map[string]int, len(a.byKind)),
		CacheHits:       a.cacheHits,
		CacheMisses:     a.cacheMisses,
		ZeroResultCount: a.zeroResults,
	}
	for kind, n := range a.byKind {
		stats.SearchesByKind[kind] = n
	}
	if len(a.latencies) > 0 {
		sorted := make([]float64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Float64s(sorted)

		var sum float64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = sum / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	stats.TopQueries = topN(a.queryCounts, 10)
	stats.ZeroResultQueries = topN(a.zeroResultQueries, 10)
	elapsed := a.now().Sub(a.startTime).Minutes()
	if elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalSearches) / elapsed
	}
	return stats
}

// queryKey renders phrases quoted so they stay distinct from the same terms
// searched as keywords.
func queryKey(event SearchEvent) string {
	key := strings.Join(event.Terms, " ")
	if event.Kind == "phrase" {
		return `"` + key + `"`
	}
	return key
}

func percentile(sorted []float64, pct int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// topN orders by count, then query, so equal counts list stably.
func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		result = append(result, QueryCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
