package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insights-dashboard/internal/config"
	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/model"
	"insights-dashboard/internal/query"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver:       "sqlite3",
		Path:         filepath.Join(t.TempDir(), "insights.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	}
	require.NoError(t, Migrate(cfg, "up"))
	require.NoError(t, Migrate(cfg, "up"), "migrating a current schema is a no-op")

	s := New(cfg, logger.NewNop())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	version, err := s.DatasetVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	n, err := s.Insert(ctx, []model.Record{
		{ID: "a", EndYear: model.Int(2030), Sector: model.Str("Energy"), Intensity: model.Float(6)},
		{ID: "b", EndYear: model.Int(2040), Sector: model.Str("")},
		{ID: "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	version, err = s.DatasetVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	all, err := s.Find(ctx, query.Predicate{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	byID := map[string]model.Record{}
	for _, r := range all {
		byID[r.ID] = r
	}
	require.NotNil(t, byID["b"].Sector)
	assert.Equal(t, "", *byID["b"].Sector)
	assert.Nil(t, byID["c"].Sector)
	assert.Nil(t, byID["c"].EndYear)
	require.NotNil(t, byID["a"].Intensity)
	assert.Equal(t, 6.0, *byID["a"].Intensity)

	for _, year := range []string{"2030", "2030.0"} {
		got, err := s.Find(ctx, query.Build(model.Selection{model.FieldEndYear: year}))
		require.NoError(t, err)
		require.Len(t, got, 1, "end_year=%s", year)
		assert.Equal(t, "a", got[0].ID)
	}

	got, err := s.Find(ctx, query.Build(model.Selection{model.FieldEndYear: "2030.5"}))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Find(ctx, query.Build(model.Selection{model.FieldSector: "Energy", model.FieldEndYear: "2030"}))
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = s.Insert(ctx, []model.Record{{ID: "d", Sector: model.Str("Retail")}})
	require.NoError(t, err)
	version, err = s.DatasetVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestSQLite_MigrateDown(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:      "sqlite3",
		Path:        filepath.Join(t.TempDir(), "insights.db"),
		PingTimeout: 5 * time.Second,
	}
	require.NoError(t, Migrate(cfg, "up"))
	require.NoError(t, Migrate(cfg, "down"))

	s := New(cfg, logger.NewNop())
	defer s.Close()
	_, err := s.Find(context.Background(), query.Predicate{})
	require.Error(t, err)
	assert.Equal(t, KindQuery, KindOf(err))
}
