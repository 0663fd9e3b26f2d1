package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	snap, err := indexer.NewEngine(nil).Build(context.Background(), corpus.StaticSource{
		{ID: "a.txt", Text: "machine learning is fun"},
		{ID: "b.txt", Text: "learning machine is boring"},
		{ID: "c.txt", Text: "deep learning"},
		{ID: "d.txt", Text: "search engines"},
	})
	require.NoError(t, err)
	mux := http.NewServeMux()
	New(searcher.NewService(executor.New(snap, nil)), 2, 3).Routes(mux)
	return mux
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSearchKeyword(t *testing.T) {
	rec := get(t, newServer(t), "/api/v1/search?q=machine+deep")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	var res executor.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 3, res.TotalHits)
	assert.Len(t, res.Results, 2, "default limit applies")
	assert.Equal(t, "c.txt", res.Results[0].DocID, "rarer term scores higher")
}

func TestSearchPhrase(t *testing.T) {
	rec := get(t, newServer(t), `/api/v1/search?q=%22machine+learning%22`)

	require.Equal(t, http.StatusOK, rec.Code)
	var res executor.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "phrase", res.Kind.String())
	assert.Equal(t, []string{"a.txt"}, res.Matches)
}

func TestSearchLimit(t *testing.T) {
	srv := newServer(t)
	tests := []struct {
		name     string
		query    string
		code     int
		returned int
	}{
		{"explicit", "/api/v1/search?q=learning+machine+search&limit=1", http.StatusOK, 1},
		{"capped at max", "/api/v1/search?q=learning+machine+search&limit=50", http.StatusOK, 3},
		{"zero", "/api/v1/search?q=learning&limit=0", http.StatusBadRequest, 0},
		{"not a number", "/api/v1/search?q=learning&limit=ten", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.query)
			require.Equal(t, tt.code, rec.Code)
			if tt.code != http.StatusOK {
				assert.Contains(t, rec.Body.String(), "limit must be a positive integer")
				return
			}
			var res executor.SearchResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Len(t, res.Results, tt.returned)
		})
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	for _, target := range []string{"/api/v1/search", "/api/v1/search?q=+++"} {
		rec := get(t, newServer(t), target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.JSONEq(t, `{"error":"query parameter 'q' is required"}`, rec.Body.String())
	}
}

func TestSearchNoResultsIsOK(t *testing.T) {
	rec := get(t, newServer(t), "/api/v1/search?q=the+of")

	require.Equal(t, http.StatusOK, rec.Code)
	var res executor.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 0, res.TotalHits)
}

func TestIndexStats(t *testing.T) {
	rec := get(t, newServer(t), "/api/v1/index/stats")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Source      string `json:"source"`
		Fingerprint string `json:"fingerprint"`
		Stats       struct {
			Documents int `json:"documents"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Stats.Documents)
	assert.Equal(t, "static:4", body.Source)
	assert.NotEmpty(t, body.Fingerprint)
}

func TestCacheEndpointsWhenDisabled(t *testing.T) {
	srv := newServer(t)

	rec := get(t, srv, "/api/v1/cache/stats")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"disabled"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cache/invalidate", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
