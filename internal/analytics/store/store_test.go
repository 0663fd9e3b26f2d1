package store

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/positional-search/pkg/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipIfNoPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	if os.Getenv("TEST_POSTGRES_HOST") == "" {
		t.Skip("skipping: TEST_POSTGRES_HOST not set")
	}
	port, _ := strconv.Atoi(envOrDefault("TEST_POSTGRES_PORT", "5432"))
	db, err := postgres.New(context.Background(), config.PostgresConfig{
		Host:         os.Getenv("TEST_POSTGRES_HOST"),
		Port:         port,
		Database:     envOrDefault("TEST_POSTGRES_DB", "searchcorpus_test"),
		User:         envOrDefault("TEST_POSTGRES_USER", "searchcorpus"),
		Password:     envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:      "disable",
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Skipf("skipping: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := skipIfNoPostgres(t)
	ctx := context.Background()
	s := New(db.DB)
	require.NoError(t, s.EnsureSchema(ctx))
	_, err := db.DB.ExecContext(ctx, `TRUNCATE analytics_snapshots`)
	require.NoError(t, err)

	latest, err := s.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	agg := analytics.NewAggregator()
	agg.Record(analytics.NewSearchEvent("keyword", "machine", []string{"machine"}))
	require.NoError(t, s.SaveSnapshot(ctx, agg.Stats()))
	agg.Record(analytics.NewSearchEvent("phrase", `"deep learning"`, []string{"deep", "learning"}))
	require.NoError(t, s.SaveSnapshot(ctx, agg.Stats()))

	latest, err = s.LatestSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, int64(2), latest.TotalSearches)

	all, err := s.ListSnapshots(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[1].TotalSearches)
}
