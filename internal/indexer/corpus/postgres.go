package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	apperrors "github.com/Adithya-Monish-Kumar-K/positional-search/pkg/errors"
	"github.com/lib/pq"
)

// undefinedTable is the PostgreSQL SQLSTATE for a missing relation.
const undefinedTable = "42P01"

// PostgresSource reads documents from a table shaped like:
//
//	CREATE TABLE documents (
//	    doc_id  TEXT PRIMARY KEY,
//	    content TEXT NOT NULL
//	);
//
// Rows are read in doc_id order. COLLATE "C" keeps the order bytewise, which
// matches the ordering the directory source uses.
type PostgresSource struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	return &PostgresSource{
		db:     db,
		table:  table,
		logger: slog.Default().With("component", "corpus", "source", "postgres"),
	}
}

func (s *PostgresSource) Describe() string {
	return "postgres:" + s.table
}

func (s *PostgresSource) query() string {
	return fmt.Sprintf(`SELECT doc_id, content FROM %s ORDER BY doc_id COLLATE "C"`,
		pq.QuoteIdentifier(s.table))
}

func (s *PostgresSource) Scan(ctx context.Context, fn ScanFunc) error {
	rows, err := s.db.QueryContext(ctx, s.query())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
			return fmt.Errorf("%w: table %s", apperrors.ErrCorpusNotFound, s.table)
		}
		return fmt.Errorf("querying corpus table %s: %w", s.table, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Text); err != nil {
			return fmt.Errorf("%w: scanning row %d: %v", apperrors.ErrUnreadableDocument, count, err)
		}
		if !utf8.ValidString(doc.Text) {
			return fmt.Errorf("%w: %s is not valid UTF-8", apperrors.ErrUnreadableDocument, doc.ID)
		}
		if err := fn(doc); err != nil {
			return err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating corpus table %s: %w", s.table, err)
	}
	s.logger.Debug("corpus table scanned", "table", s.table, "documents", count)
	return nil
}
