// Package app assembles the search stack from configuration. Both the
// interactive command and the HTTP service start through it, so they index
// the same corpus and share cache and analytics wiring.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/positional-search/pkg/redis"
	"github.com/hashicorp/go-multierror"
)

// LoadSnapshot indexes the configured corpus. Any failure here is fatal to
// the caller: there is nothing to search without an index.
func LoadSnapshot(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*indexer.Snapshot, error) {
	engine := indexer.NewEngine(m)
	switch cfg.Corpus.Source {
	case "postgres":
		db, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connecting to corpus database: %w", err)
		}
		defer db.Close()
		return engine.Build(ctx, corpus.NewPostgresSource(db.DB, cfg.Corpus.Table))
	case "dir":
		return engine.Build(ctx, corpus.NewDirSource(cfg.Corpus.Dir, cfg.Corpus.Extension))
	default:
		return nil, fmt.Errorf("unknown corpus source %q", cfg.Corpus.Source)
	}
}

// Resources holds the optional external clients behind a Service.
type Resources struct {
	Redis     *pkgredis.Client
	Producer  *kafka.Producer
	Collector *analytics.Collector
}

// Close flushes analytics and releases connections, reporting every failure.
// Safe on a zero value.
func (r *Resources) Close() error {
	var err error
	if r.Collector != nil {
		r.Collector.Close()
	}
	if r.Producer != nil {
		if cErr := r.Producer.Close(); cErr != nil {
			err = multierror.Append(err, fmt.Errorf("closing kafka producer: %w", cErr))
		}
	}
	if r.Redis != nil {
		if cErr := r.Redis.Close(); cErr != nil {
			err = multierror.Append(err, fmt.Errorf("closing redis client: %w", cErr))
		}
	}
	return err
}

// NewService wires the result cache and analytics collector when enabled.
// An unreachable Redis disables caching with a warning instead of failing.
func NewService(ctx context.Context, cfg *config.Config, snap *indexer.Snapshot, m *metrics.Metrics) (*searcher.Service, *Resources, error) {
	res := &Resources{}
	opts := []searcher.Option{}

	if cfg.Redis.Enabled {
		client, err := pkgredis.NewClient(ctx, cfg.Redis)
		switch {
		case err == nil:
			res.Redis = client
			opts = append(opts, searcher.WithCache(cache.New(client, cfg.Redis.CacheTTL, snap.Index.Fingerprint(), m)))
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		case errors.Is(err, context.Canceled):
			return nil, nil, err
		default:
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		}
	}

	if cfg.Analytics.Enabled {
		res.Producer = kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.SearchEvents)
		res.Collector = analytics.NewCollector(res.Producer, analytics.CollectorConfig{
			BufferSize:    cfg.Analytics.BufferSize,
			BatchSize:     cfg.Analytics.BatchSize,
			FlushInterval: cfg.Analytics.FlushInterval,
		})
		res.Collector.Start(ctx)
		opts = append(opts, searcher.WithTracker(res.Collector))
	}

	return searcher.NewService(executor.New(snap, m), opts...), res, nil
}
