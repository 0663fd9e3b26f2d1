// Package corpus supplies the documents of a corpus snapshot to the indexer.
// Sources yield documents in a deterministic order so that repeated runs over
// the same snapshot log and index identically.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	apperrors "github.com/Adithya-Monish-Kumar-K/positional-search/pkg/errors"
)

// Document is one (id, text) pair. The text is only held for the duration of
// the Scan callback.
type Document struct {
	ID   string
	Text string
}

// ScanFunc receives each document in order. Returning an error stops the scan
// and the error is returned from Scan.
type ScanFunc func(doc Document) error

type Source interface {
	Scan(ctx context.Context, fn ScanFunc) error
	Describe() string
}

// DirSource reads every regular file in Dir whose name ends with Extension.
// Files are visited in lexicographic order and the filename is the document
// id.
type DirSource struct {
	Dir       string
	Extension string
	logger    *slog.Logger
}

func NewDirSource(dir, extension string) *DirSource {
	return &DirSource{
		Dir:       dir,
		Extension: extension,
		logger:    slog.Default().With("component", "corpus", "source", "dir"),
	}
}

func (s *DirSource) Describe() string {
	return fmt.Sprintf("dir:%s/*%s", s.Dir, s.Extension)
}

// List returns the matching filenames, sorted.
func (s *DirSource) List() ([]string, error) {
	info, err := os.Stat(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCorpusNotFound, s.Dir)
		}
		return nil, fmt.Errorf("stat corpus directory %s: %w", s.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", apperrors.ErrCorpusNotFound, s.Dir)
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", s.Dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), s.Extension) {
			continue
		}
		names = append(names, entry.Name())
	}
	// os.ReadDir already sorts by filename
	return names, nil
}

func (s *DirSource) Scan(ctx context.Context, fn ScanFunc) error {
	names, err := s.List()
	if err != nil {
		return err
	}
	s.logger.Debug("corpus listed", "dir", s.Dir, "documents", len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", apperrors.ErrUnreadableDocument, name, err)
		}
		if !utf8.Valid(data) {
			return fmt.Errorf("%w: %s is not valid UTF-8", apperrors.ErrUnreadableDocument, name)
		}
		if err := fn(Document{ID: name, Text: string(data)}); err != nil {
			return err
		}
	}
	return nil
}

// StaticSource serves documents held in memory, sorted by id on Scan.
type StaticSource []Document

func (s StaticSource) Describe() string {
	return fmt.Sprintf("static:%d", len(s))
}

func (s StaticSource) Scan(ctx context.Context, fn ScanFunc) error {
	docs := make([]Document, len(s))
	copy(docs, s)
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !utf8.ValidString(doc.Text) {
			return fmt.Errorf("%w: %s is not valid UTF-8", apperrors.ErrUnreadableDocument, doc.ID)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}
