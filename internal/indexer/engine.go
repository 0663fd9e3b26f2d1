package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/metrics"
)

// Snapshot is the published, read-only state every query runs against: the
// frozen index and the IDF weights derived from it.
type Snapshot struct {
	Index   *index.Index
	IDF     ranker.IDFMap
	Source  string
	BuiltAt time.Time
}

// DocCount is N for the snapshot.
func (s *Snapshot) DocCount() int {
	return s.Index.DocCount()
}

// Engine builds snapshots from a corpus source.
type Engine struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewEngine(m *metrics.Metrics) *Engine {
	return &Engine{
		metrics: m,
		logger:  slog.Default().With("component", "indexer"),
	}
}

// Build scans src once, indexes every document and computes IDF. Any source
// error aborts the build; a partially built index is never returned. An empty
// corpus is not an error.
func (e *Engine) Build(ctx context.Context, src corpus.Source) (*Snapshot, error) {
	start := time.Now()
	builder := index.NewBuilder()
	totalTokens := 0

	err := src.Scan(ctx, func(doc corpus.Document) error {
		n, err := builder.Add(doc.ID, doc.Text)
		if err != nil {
			return err
		}
		totalTokens += n
		e.logger.Debug("document indexed",
			"doc_id", doc.ID,
			"token_count", n,
		)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("building index from %s: %w", src.Describe(), err)
	}

	ix := builder.Build()
	snap := &Snapshot{
		Index:   ix,
		IDF:     ranker.ComputeIDF(ix),
		Source:  src.Describe(),
		BuiltAt: time.Now().UTC(),
	}
	elapsed := time.Since(start)
	e.metrics.ObserveIndex(ix.DocCount(), ix.TermCount(), elapsed.Seconds())

	if ix.DocCount() == 0 {
		e.logger.Warn("corpus is empty, all queries will return no results", "source", src.Describe())
	}
	e.logger.Info("index built",
		"source", src.Describe(),
		"docs", ix.DocCount(),
		"terms", ix.TermCount(),
		"tokens", totalTokens,
		"fingerprint", ix.Fingerprint(),
		"elapsed", elapsed,
	)
	return snap, nil
}
