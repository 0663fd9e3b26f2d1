package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/corpus"
	apperrors "github.com/Adithya-Monish-Kumar-K/positional-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	return dir
}

func TestBuildFromDirectory(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"a.txt":     "machine learning is fun",
		"b.txt":     "learning machine is boring",
		"notes.md":  "ignored because of the extension",
		"empty.txt": "",
	})
	m := metrics.New(prometheus.NewRegistry())

	snap, err := NewEngine(m).Build(context.Background(), corpus.NewDirSource(dir, ".txt"))
	require.NoError(t, err)

	assert.Equal(t, 3, snap.DocCount())
	assert.Equal(t, []string{"a.txt", "b.txt", "empty.txt"}, snap.Index.Docs())
	assert.False(t, snap.Index.Contains("ignored"))
	assert.Len(t, snap.IDF, snap.Index.TermCount())
	assert.Equal(t, 3.0, testutil.ToFloat64(m.IndexedDocuments))
	assert.False(t, snap.BuiltAt.IsZero())
}

func TestBuildIsDeterministic(t *testing.T) {
	docs := corpus.StaticSource{
		{ID: "b", Text: "learning machine is boring"},
		{ID: "a", Text: "machine learning is fun"},
		{ID: "c", Text: "deep learning"},
	}
	reversed := corpus.StaticSource{docs[2], docs[1], docs[0]}

	first, err := NewEngine(nil).Build(context.Background(), docs)
	require.NoError(t, err)
	second, err := NewEngine(nil).Build(context.Background(), reversed)
	require.NoError(t, err)

	assert.Equal(t, first.Index.Entries(), second.Index.Entries())
	assert.Equal(t, first.IDF, second.IDF)
	assert.Equal(t, first.Index.Fingerprint(), second.Index.Fingerprint())
}

func TestBuildEmptyCorpus(t *testing.T) {
	snap, err := NewEngine(nil).Build(context.Background(), corpus.NewDirSource(t.TempDir(), ".txt"))
	require.NoError(t, err)

	assert.Equal(t, 0, snap.DocCount())
	assert.Empty(t, snap.IDF)
}

func TestBuildErrors(t *testing.T) {
	t.Run("missing corpus", func(t *testing.T) {
		src := corpus.NewDirSource(filepath.Join(t.TempDir(), "nope"), ".txt")
		_, err := NewEngine(nil).Build(context.Background(), src)
		assert.True(t, errors.Is(err, apperrors.ErrCorpusNotFound))
	})
	t.Run("unreadable document", func(t *testing.T) {
		src := corpus.StaticSource{{ID: "bad", Text: "\xff\xfe"}}
		_, err := NewEngine(nil).Build(context.Background(), src)
		assert.True(t, errors.Is(err, apperrors.ErrUnreadableDocument))
	})
	t.Run("duplicate id", func(t *testing.T) {
		src := corpus.StaticSource{{ID: "a", Text: "one"}, {ID: "a", Text: "two"}}
		_, err := NewEngine(nil).Build(context.Background(), src)
		assert.True(t, errors.Is(err, apperrors.ErrDuplicateDocument))
	})
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewEngine(nil).Build(ctx, corpus.StaticSource{{ID: "a", Text: "one"}})
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
