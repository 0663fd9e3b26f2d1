package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSearch(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSearch("keyword", 3, 0.002)
	m.ObserveSearch("phrase", 0, 0.001)
	m.ObserveSearch("phrase", 0, 0.001)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("keyword", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("phrase", "zero_result")))
}

func TestObserveIndexAndCache(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveIndex(12, 340, 0.05)
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	assert.Equal(t, 12.0, testutil.ToFloat64(m.DocsIndexedTotal))
	assert.Equal(t, 340.0, testutil.ToFloat64(m.IndexedTerms))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheMissesTotal))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSearch("keyword", 1, 0.1)
		m.ObserveCache(true)
		m.ObserveIndex(1, 1, 0.1)
		m.SetBreakerState("cache", 1)
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveIndex(2, 5, 0.01)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "index_terms 5")
}
