// Package executor runs parsed queries against an index snapshot.
package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/phrase"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/metrics"
)

// SearchResult carries ranked documents for keyword queries and matching
// document ids for phrase queries. TotalHits counts every match before the
// limit is applied.
type SearchResult struct {
	Query     string             `json:"query"`
	Kind      parser.Kind        `json:"kind"`
	Terms     []string           `json:"terms"`
	TotalHits int                `json:"total_hits"`
	Results   []ranker.ScoredDoc `json:"results,omitempty"`
	Matches   []string           `json:"matches,omitempty"`
	TermStats map[string]int     `json:"term_stats"`
	TookMs    float64            `json:"took_ms"`
}

// Empty reports whether the query matched nothing.
func (r *SearchResult) Empty() bool {
	return r.TotalHits == 0
}

type Executor struct {
	snapshot *indexer.Snapshot
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(snapshot *indexer.Snapshot, m *metrics.Metrics) *Executor {
	return &Executor{
		snapshot: snapshot,
		metrics:  m,
		logger:   slog.Default().With("component", "query-executor"),
	}
}

// Snapshot returns the snapshot queries run against.
func (e *Executor) Snapshot() *indexer.Snapshot {
	return e.snapshot
}

// Execute never fails on a query that matches nothing; the error return only
// reports cancellation. limit <= 0 returns every match.
func (e *Executor) Execute(ctx context.Context, q *parser.Query, limit int) (*SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	ix := e.snapshot.Index

	result := &SearchResult{
		Query:     q.Raw,
		Kind:      q.Kind,
		Terms:     q.Terms,
		TermStats: make(map[string]int, len(q.Terms)),
	}
	for _, term := range q.Terms {
		if df := ix.DocFreq(term); df > 0 {
			result.TermStats[term] = df
		}
	}

	switch q.Kind {
	case parser.Phrase:
		matches := phrase.Match(ix, q.Terms)
		result.TotalHits = len(matches)
		if limit > 0 && len(matches) > limit {
			matches = matches[:limit]
		}
		result.Matches = matches
	default:
		ranked := ranker.Rank(ix, e.snapshot.IDF, q.Terms, 0)
		result.TotalHits = len(ranked)
		if limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}
		result.Results = ranked
	}

	elapsed := time.Since(start)
	result.TookMs = float64(elapsed.Microseconds()) / 1000
	e.metrics.ObserveSearch(q.Kind.String(), result.TotalHits, elapsed.Seconds())

	log := e.logger
	if id := logger.RequestID(ctx); id != "" {
		log = log.With("request_id", id)
	}
	log.Debug("query executed",
		"query", q.Raw,
		"kind", q.Kind.String(),
		"terms", q.Terms,
		"hits", result.TotalHits,
		"elapsed", elapsed,
	)
	return result, nil
}
