package searcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/logger"
	pkgredis "github.com/Adithya-Monish-Kumar-K/positional-search/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []analytics.SearchEvent
}

func (r *recorder) Track(e analytics.SearchEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

type mapStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (s *mapStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", pkgredis.ErrNotFound
	}
	return v, nil
}

func (s *mapStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = string(value.([]byte))
	return nil
}

func (s *mapStore) FlushByPattern(context.Context, string) (int64, error) {
	return 0, nil
}

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	snap, err := indexer.NewEngine(nil).Build(context.Background(), corpus.StaticSource{
		{ID: "a.txt", Text: "machine learning is fun"},
		{ID: "b.txt", Text: "learning machine is boring"},
		{ID: "c.txt", Text: "search engines"},
	})
	require.NoError(t, err)
	return NewService(executor.New(snap, nil), opts...)
}

func TestSearchTracksEvents(t *testing.T) {
	rec := &recorder{}
	s := newService(t, WithTracker(rec))
	ctx := logger.WithRequestID(context.Background(), "req-1")

	res, hit, err := s.Search(ctx, `"machine learning"`, 10)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"a.txt"}, res.Matches)

	require.Len(t, rec.events, 1)
	e := rec.events[0]
	assert.Equal(t, "phrase", e.Kind)
	assert.Equal(t, []string{"machine", "learning"}, e.Terms)
	assert.Equal(t, 1, e.TotalHits)
	assert.Equal(t, 1, e.Returned)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, s.Snapshot().Index.Fingerprint(), e.Fingerprint)
}

func TestSearchUsesCache(t *testing.T) {
	store := &mapStore{data: make(map[string]string)}
	s := newService(t, WithCache(cache.New(store, time.Minute, "fp", nil)))

	first, hit, err := s.Search(context.Background(), "machine", 10)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := s.Search(context.Background(), "MACHINE!", 10)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, "MACHINE!", second.Query)
}

func TestSearchEmptyQueryBypassesCache(t *testing.T) {
	store := &mapStore{data: make(map[string]string)}
	s := newService(t, WithCache(cache.New(store, time.Minute, "fp", nil)))

	res, hit, err := s.Search(context.Background(), `"the of"`, 10)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, res.Empty())
	assert.Empty(t, store.data)
}
