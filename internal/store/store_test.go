package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/model"
	"insights-dashboard/internal/query"
)

var insightColumns = []string{
	"id", "title", "insight", "url", "added", "published", "start_year", "end_year",
	"topic", "sector", "region", "pestle", "source", "swot", "country", "city",
	"intensity", "likelihood", "relevance", "impact",
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	s := NewWithOpener(func(context.Context) (*sqlx.DB, error) { return sqlxDB, nil }, logger.NewNop())
	return s, mock
}

func TestFind_MatchAll(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows(insightColumns).
		AddRow("a", "Title", nil, nil, nil, nil, nil, int64(2030),
			"oil", "Energy", "World", nil, nil, nil, "", nil,
			6.0, 3.0, 2.0, nil).
		AddRow("b", nil, nil, nil, nil, nil, nil, nil,
			nil, nil, nil, nil, nil, nil, nil, nil,
			nil, nil, nil, nil)
	mock.ExpectQuery(`^SELECT id, .* FROM insights$`).WillReturnRows(rows)

	records, err := s.Find(context.Background(), query.Predicate{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "a", first.ID)
	require.NotNil(t, first.EndYear)
	assert.Equal(t, int64(2030), *first.EndYear)
	require.NotNil(t, first.Sector)
	assert.Equal(t, "Energy", *first.Sector)
	require.NotNil(t, first.Country)
	assert.Equal(t, "", *first.Country)
	assert.Nil(t, first.City)
	require.NotNil(t, first.Intensity)
	assert.InDelta(t, 6.0, *first.Intensity, 1e-9)
	assert.Nil(t, first.Impact)

	assert.Nil(t, records[1].Sector)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_WithConstraints(t *testing.T) {
	s, mock := newMockStore(t)

	p := query.Build(model.Selection{model.FieldEndYear: "2030", model.FieldSector: "Energy"})
	mock.ExpectQuery(regexp.QuoteMeta("FROM insights WHERE end_year = ? AND sector = ?")).
		WithArgs(int64(2030), "Energy").
		WillReturnRows(sqlmock.NewRows(insightColumns))

	records, err := s.Find(context.Background(), p)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_MatchNoneSkipsDatabase(t *testing.T) {
	calls := 0
	s := NewWithOpener(func(context.Context) (*sqlx.DB, error) {
		calls++
		return nil, errors.New("should not connect")
	}, logger.NewNop())

	records, err := s.Find(context.Background(), query.Build(model.Selection{model.FieldEndYear: "soon"}))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Zero(t, calls)
}

func TestFind_QueryError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`FROM insights`).WillReturnError(errors.New("relation does not exist"))

	_, err := s.Find(context.Background(), query.Predicate{})
	require.Error(t, err)
	assert.True(t, IsRetrieval(err))
	assert.Equal(t, KindQuery, KindOf(err))
}

func TestFind_CanceledContext(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`FROM insights`).WillReturnError(context.Canceled)

	_, err := s.Find(context.Background(), query.Predicate{})
	require.Error(t, err)
	assert.Equal(t, KindCanceled, KindOf(err))
}

func TestConn_RecoversAfterFailedOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	calls := 0
	s := NewWithOpener(func(context.Context) (*sqlx.DB, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection refused")
		}
		return sqlx.NewDb(db, "sqlmock"), nil
	}, logger.NewNop())

	_, err = s.Find(context.Background(), query.Predicate{})
	require.Error(t, err)
	assert.Equal(t, KindUnavailable, KindOf(err))

	mock.ExpectQuery(`FROM insights`).WillReturnRows(sqlmock.NewRows(insightColumns))
	mock.ExpectQuery(`FROM insights`).WillReturnRows(sqlmock.NewRows(insightColumns))

	_, err = s.Find(context.Background(), query.Predicate{})
	require.NoError(t, err)
	_, err = s.Find(context.Background(), query.Predicate{})
	require.NoError(t, err)

	assert.Equal(t, 2, calls, "an established pool is reused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_BumpsVersion(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO insights`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO insights`).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE dataset_meta SET version = version + 1 WHERE name = ?")).
		WithArgs("insights").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := s.Insert(context.Background(), []model.Record{
		{ID: "a", Sector: model.Str("Energy")},
		{ID: "b", EndYear: model.Int(2030)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_RollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO insights`).WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	_, err := s.Insert(context.Background(), []model.Record{{ID: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert insight a")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatasetVersion(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM dataset_meta WHERE name = ?")).
		WithArgs("insights").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(7)))

	v, err := s.DatasetVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestDatasetVersion_MissingRow(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT version FROM dataset_meta`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	v, err := s.DatasetVersion(context.Background())
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestClose_Unopened(t *testing.T) {
	s := NewWithOpener(func(context.Context) (*sqlx.DB, error) { return nil, errors.New("unused") }, logger.NewNop())
	assert.NoError(t, s.Close())
}

func TestRetrievalError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := error(&RetrievalError{Kind: KindQuery, Op: "find", Err: inner})
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "store find (query): boom", err.Error())
	assert.False(t, IsRetrieval(inner))
	assert.Equal(t, Kind(""), KindOf(inner))
}
