// Command ingest copies a directory of documents into the PostgreSQL corpus
// table so the search services can run with corpus.source: postgres.
//
// Usage:
//
//	go run ./cmd/ingest [-config configs/development.yaml] [-data ./data] [-prune]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	dataDir := flag.String("data", "", "directory to load, overrides corpus.dir")
	prune := flag.Bool("prune", false, "delete table rows missing from the directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Corpus.Dir = *dataDir
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	loader := ingestion.NewLoader(db, cfg.Corpus.Table)
	loader.Prune = *prune
	if err := loader.EnsureTable(ctx); err != nil {
		slog.Error("failed to prepare corpus table", "error", err)
		os.Exit(1)
	}
	res, err := loader.Load(ctx, corpus.NewDirSource(cfg.Corpus.Dir, cfg.Corpus.Extension))
	if err != nil {
		slog.Error("corpus load failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s into %s: %d inserted, %d updated, %d unchanged, %d deleted\n",
		cfg.Corpus.Dir, cfg.Corpus.Table, res.Inserted, res.Updated, res.Unchanged, res.Deleted)
}
