// Package ingestion loads a corpus into the PostgreSQL table read by
// corpus.PostgresSource. Loads are idempotent: unchanged documents, detected
// by content hash, are left alone.
package ingestion

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/postgres"
	"github.com/lib/pq"
)

// Result counts what a Load changed.
type Result struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Deleted   int `json:"deleted"`
}

type Loader struct {
	db    *postgres.Client
	table string
	// Prune deletes rows whose doc_id the source no longer yields.
	Prune  bool
	logger *slog.Logger
}

func NewLoader(db *postgres.Client, table string) *Loader {
	return &Loader{
		db:     db,
		table:  table,
		logger: slog.Default().With("component", "corpus-loader", "table", table),
	}
}

// EnsureTable creates the corpus table if needed.
func (l *Loader) EnsureTable(ctx context.Context) error {
	_, err := l.db.DB.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    doc_id       TEXT PRIMARY KEY,
    content      TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    loaded_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, pq.QuoteIdentifier(l.table)))
	if err != nil {
		return fmt.Errorf("creating corpus table %s: %w", l.table, err)
	}
	return nil
}

// Load upserts every document of src in a single transaction. An invalid
// document aborts the whole load.
func (l *Loader) Load(ctx context.Context, src corpus.Source) (Result, error) {
	var res Result
	ids := make([]string, 0)

	err := l.db.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, l.upsertQuery())
		if err != nil {
			return fmt.Errorf("preparing upsert: %w", err)
		}
		defer stmt.Close()

		err = src.Scan(ctx, func(doc corpus.Document) error {
			if err := ValidateDocument(doc); err != nil {
				return err
			}
			var inserted bool
			err := stmt.QueryRowContext(ctx, doc.ID, doc.Text, contentHash(doc.Text)).Scan(&inserted)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				res.Unchanged++
			case err != nil:
				return fmt.Errorf("upserting %s: %w", doc.ID, err)
			case inserted:
				res.Inserted++
			default:
				res.Updated++
			}
			ids = append(ids, doc.ID)
			return nil
		})
		if err != nil {
			return err
		}

		if l.Prune {
			r, err := tx.ExecContext(ctx, l.pruneQuery(), pq.Array(ids))
			if err != nil {
				return fmt.Errorf("pruning removed documents: %w", err)
			}
			n, _ := r.RowsAffected()
			res.Deleted = int(n)
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("loading %s into %s: %w", src.Describe(), l.table, err)
	}

	l.logger.Info("corpus loaded",
		"source", src.Describe(),
		"inserted", res.Inserted,
		"updated", res.Updated,
		"unchanged", res.Unchanged,
		"deleted", res.Deleted,
	)
	return res, nil
}

// upsertQuery returns no row when the stored hash already matches. xmax is
// zero only for freshly inserted tuples.
func (l *Loader) upsertQuery() string {
	table := pq.QuoteIdentifier(l.table)
	return fmt.Sprintf(`INSERT INTO %[1]s AS t (doc_id, content, content_hash)
VALUES ($1, $2, $3)
ON CONFLICT (doc_id) DO UPDATE
    SET content = EXCLUDED.content, content_hash = EXCLUDED.content_hash, loaded_at = NOW()
    WHERE t.content_hash <> EXCLUDED.content_hash
RETURNING (xmax = 0)`, table)
}

func (l *Loader) pruneQuery() string {
	return fmt.Sprintf(`DELETE FROM %s WHERE doc_id <> ALL($1)`, pq.QuoteIdentifier(l.table))
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
