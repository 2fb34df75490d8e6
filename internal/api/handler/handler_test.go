package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insights-dashboard/internal/aggregate"
	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/model"
	"insights-dashboard/internal/query"
	"insights-dashboard/internal/store"
	"insights-dashboard/pkg/router"
)

type fakeService struct {
	records  []model.Record
	err      error
	lastSel  model.Selection
	lastOpts aggregate.Options
}

func (f *fakeService) Fetch(_ context.Context, sel model.Selection) ([]model.Record, error) {
	f.lastSel = sel
	if f.err != nil {
		return nil, f.err
	}
	return query.Build(sel).Filter(f.records), nil
}

func (f *fakeService) Summarize(ctx context.Context, sel model.Selection, opts aggregate.Options) (model.Summary, error) {
	f.lastOpts = opts
	records, err := f.Fetch(ctx, sel)
	if err != nil {
		return model.Summary{}, err
	}
	return aggregate.Summarize(records, opts), nil
}

func (f *fakeService) Options(ctx context.Context) (map[model.Field][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return map[model.Field][]string{model.FieldSector: {"Energy"}}, nil
}

func records() []model.Record {
	return []model.Record{
		{ID: "1", Sector: model.Str("Energy"), Topic: model.Str("oil"), EndYear: model.Int(2030),
			Intensity: model.Float(10), Likelihood: model.Float(3), Relevance: model.Float(2), Region: model.Str("World")},
		{ID: "2", Sector: model.Str("Retail"), Topic: model.Str("gas")},
	}
}

func newTestRouter(svc DataService) *router.Router {
	r := router.New()
	data := NewDataHandler(svc)
	charts := NewChartHandler(svc, logger.NewNop())
	r.GET("/data", data.GetData)
	r.GET("/data/summary", data.GetSummary)
	r.GET("/data/options", data.GetOptions)
	r.GET("/charts/{chart}.svg", charts.GetChart)
	return r
}

func serve(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetData_Filters(t *testing.T) {
	svc := &fakeService{records: records()}
	rec := serve(newTestRouter(svc), "/data?sector=Energy&color=blue&topic=")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, model.Selection{model.FieldSector: "Energy"}, svc.lastSel)

	var got []model.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestGetData_EmptyIsArray(t *testing.T) {
	svc := &fakeService{records: records()}
	rec := serve(newTestRouter(svc), "/data?end_year=soon")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetData_FailureThenRecovery(t *testing.T) {
	svc := &fakeService{err: &store.RetrievalError{Kind: store.KindUnavailable, Op: "connect", Err: errors.New("dial tcp: refused")}}
	r := newTestRouter(svc)

	rec := serve(r, "/data")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch data"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "refused")

	svc.err = nil
	svc.records = records()
	rec = serve(r, "/data")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSummary_TopicLimit(t *testing.T) {
	svc := &fakeService{records: records()}
	r := newTestRouter(svc)

	rec := serve(r, "/data/summary?width=320")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, aggregate.NarrowTopics, svc.lastOpts.TopN)

	serve(r, "/data/summary?width=1200")
	assert.Equal(t, aggregate.DefaultTopics, svc.lastOpts.TopN)

	serve(r, "/data/summary?width=320&top=3")
	assert.Equal(t, 3, svc.lastOpts.TopN)

	var sum model.Summary
	rec = serve(r, "/data/summary?sector=Energy")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 1, sum.Total)
}

func TestGetSummary_Failure(t *testing.T) {
	svc := &fakeService{err: errors.New("boom")}
	rec := serve(newTestRouter(svc), "/data/summary")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to summarize data"}`, rec.Body.String())
}

func TestGetOptions(t *testing.T) {
	svc := &fakeService{}
	rec := serve(newTestRouter(svc), "/data/options")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sector":["Energy"]}`, rec.Body.String())

	svc.err = errors.New("boom")
	rec = serve(newTestRouter(svc), "/data/options")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetChart(t *testing.T) {
	svc := &fakeService{records: records()}
	r := newTestRouter(svc)

	rec := serve(r, "/charts/topics.svg?width=640")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))

	rec = serve(r, "/charts/pie.svg")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(r, "/charts/topics.svg?sector=Mining")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	svc.err = errors.New("boom")
	rec = serve(r, "/charts/topics.svg")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(fakePinger{}, logger.NewNop()).Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthHandler(fakePinger{err: errors.New("down")}, logger.NewNop()).Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

type fakeImporter struct {
	result model.ImportResult
	err    error
	job    model.ImportJob
}

func (f *fakeImporter) Run(_ context.Context, job model.ImportJob) (model.ImportResult, error) {
	f.job = job
	return f.result, f.err
}

func TestCreateImport(t *testing.T) {
	imp := &fakeImporter{result: model.ImportResult{JobID: "job-1", Stored: 3}}
	h := NewImportHandler(imp, logger.NewNop())

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.CreateImport(rec, httptest.NewRequest(http.MethodPost, "/api/v1/imports", strings.NewReader(body)))
		return rec
	}

	rec := post(`{"sources":[{"path":"data.json"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "data.json", imp.job.Sources[0].Path)

	var res model.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Stored)

	assert.Equal(t, http.StatusBadRequest, post(`{`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"sources":[]}`).Code)

	imp.err = errors.New("disk full")
	rec = post(`{"sources":[{"path":"data.json"}]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"Import failed"`)
	assert.NotContains(t, rec.Body.String(), "disk full")
}
