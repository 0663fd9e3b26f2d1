// Command search indexes a corpus and answers queries typed at a prompt.
//
// Usage:
//
//	go run ./cmd/search [-config configs/development.yaml] [-data ./data]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/app"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/console"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	dataDir := flag.String("data", "", "corpus directory, overrides corpus.dir")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Corpus.Source = "dir"
		cfg.Corpus.Dir = *dataDir
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Building positional index...")
	snap, err := app.LoadSnapshot(ctx, cfg, nil)
	if err != nil {
		slog.Error("failed to build index", "error", err)
		os.Exit(1)
	}

	svc, res, err := app.NewService(ctx, cfg, snap, nil)
	if err != nil {
		slog.Error("failed to start search service", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := res.Close(); err != nil {
			slog.Warn("releasing search resources", "error", err)
		}
	}()

	c := console.New(svc, os.Stdin, os.Stdout, cfg.Search.DefaultLimit)
	c.Banner()
	if err := c.Run(ctx); err != nil {
		slog.Error("reading input", "error", err)
	}
}
