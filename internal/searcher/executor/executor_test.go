package executor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecutor(t *testing.T, m *metrics.Metrics) *Executor {
	t.Helper()
	snap, err := indexer.NewEngine(nil).Build(context.Background(), corpus.StaticSource{
		{ID: "a.txt", Text: "machine learning is fun"},
		{ID: "b.txt", Text: "learning machine is boring"},
		{ID: "c.txt", Text: "deep learning for search"},
		{ID: "d.txt", Text: "search engines rank documents"},
	})
	require.NoError(t, err)
	return New(snap, m)
}

func TestExecuteKeyword(t *testing.T) {
	e := newExecutor(t, nil)

	res, err := e.Execute(context.Background(), parser.Parse("machine search"), 0)
	require.NoError(t, err)

	assert.Equal(t, parser.Keyword, res.Kind)
	assert.Equal(t, 4, res.TotalHits)
	require.Len(t, res.Results, 4)
	assert.Nil(t, res.Matches)
	assert.Equal(t, map[string]int{"machine": 2, "search": 2}, res.TermStats)
	for i := 1; i < len(res.Results); i++ {
		assert.GreaterOrEqual(t, res.Results[i-1].Score, res.Results[i].Score)
	}
}

func TestExecuteKeywordLimit(t *testing.T) {
	e := newExecutor(t, nil)

	res, err := e.Execute(context.Background(), parser.Parse("machine search"), 2)
	require.NoError(t, err)

	assert.Equal(t, 4, res.TotalHits, "total hits ignore the limit")
	assert.Len(t, res.Results, 2)
}

func TestExecutePhrase(t *testing.T) {
	e := newExecutor(t, nil)

	res, err := e.Execute(context.Background(), parser.Parse(`"machine learning"`), 10)
	require.NoError(t, err)

	assert.Equal(t, parser.Phrase, res.Kind)
	assert.Equal(t, []string{"a.txt"}, res.Matches)
	assert.Equal(t, 1, res.TotalHits)
	assert.Nil(t, res.Results)
}

func TestExecuteNoResults(t *testing.T) {
	e := newExecutor(t, nil)

	for _, raw := range []string{"", "the of and", `""`, `"the"`, "quantum", `"machine quantum"`} {
		res, err := e.Execute(context.Background(), parser.Parse(raw), 10)
		require.NoError(t, err, raw)
		assert.True(t, res.Empty(), raw)
	}
}

func TestExecuteRecordsMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	e := newExecutor(t, m)

	_, err := e.Execute(context.Background(), parser.Parse("machine"), 10)
	require.NoError(t, err)
	_, err = e.Execute(context.Background(), parser.Parse(`"quantum computing"`), 10)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("keyword", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("phrase", "zero_result")))
}

func TestExecuteCancelled(t *testing.T) {
	e := newExecutor(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Execute(ctx, parser.Parse("machine"), 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchResultJSON(t *testing.T) {
	e := newExecutor(t, nil)
	res, err := e.Execute(context.Background(), parser.Parse(`"deep learning"`), 10)
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "phrase", decoded["kind"])
	assert.Equal(t, []any{"c.txt"}, decoded["matches"])
	assert.NotContains(t, decoded, "results")
}
