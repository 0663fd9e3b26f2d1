// Package console runs the interactive search prompt.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/parser"
)

const (
	prompt    = "Search (or 'exit'): "
	sentinel  = "exit"
	noResults = "No results found."
)

type Console struct {
	service *searcher.Service
	in      *bufio.Scanner
	out     io.Writer
	// rankedLimit caps keyword output. Phrase matches are always listed in
	// full.
	rankedLimit int
	logger      *slog.Logger
}

func New(service *searcher.Service, in io.Reader, out io.Writer, rankedLimit int) *Console {
	return &Console{
		service:     service,
		in:          bufio.NewScanner(in),
		out:         out,
		rankedLimit: rankedLimit,
		logger:      slog.Default().With("component", "console"),
	}
}

// Banner prints the index summary and usage hint shown before the first
// prompt.
func (c *Console) Banner() {
	ix := c.service.Snapshot().Index
	fmt.Fprintf(c.out, "Indexed %d documents. Unique terms: %d\n", ix.DocCount(), ix.TermCount())
	fmt.Fprintln(c.out, `Type a query. Use quotes for phrases, e.g. "machine learning". Type exit to quit.`)
	fmt.Fprintln(c.out)
}

// Run reads queries line by line until the sentinel, end of input or ctx is
// done. Blank lines are skipped. A query that fails is reported and the loop
// continues.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(c.out, prompt)
		if !c.in.Scan() {
			fmt.Fprintln(c.out)
			return c.in.Err()
		}
		line := strings.TrimSpace(c.in.Text())
		if strings.EqualFold(line, sentinel) {
			return nil
		}
		if line == "" {
			continue
		}
		c.answer(ctx, line)
	}
}

func (c *Console) answer(ctx context.Context, line string) {
	limit := c.rankedLimit
	if parser.Parse(line).Kind == parser.Phrase {
		limit = 0
	}
	result, _, err := c.service.Search(ctx, line, limit)
	if err != nil {
		c.logger.Error("query failed", "query", line, "error", err)
		fmt.Fprintf(c.out, "Search failed: %v\n\n", err)
		return
	}
	c.print(result)
}

func (c *Console) print(result *executor.SearchResult) {
	if result.Empty() {
		fmt.Fprintf(c.out, "%s\n\n", noResults)
		return
	}
	switch result.Kind {
	case parser.Phrase:
		fmt.Fprintln(c.out, "Phrase matches:")
		for _, doc := range result.Matches {
			fmt.Fprintf(c.out, "- %s\n", doc)
		}
	default:
		fmt.Fprintln(c.out, "Ranked results (TF-IDF):")
		for _, doc := range result.Results {
			fmt.Fprintf(c.out, "- %s: %.4f\n", doc.DocID, doc.Score)
		}
	}
	fmt.Fprintln(c.out)
}
