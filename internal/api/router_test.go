package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"insights-dashboard/internal/aggregate"
	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/metrics"
	"insights-dashboard/internal/model"
	"insights-dashboard/pkg/router"
)

type emptyService struct{}

func (emptyService) Fetch(context.Context, model.Selection) ([]model.Record, error) {
	return []model.Record{}, nil
}

func (emptyService) Summarize(context.Context, model.Selection, aggregate.Options) (model.Summary, error) {
	return model.Summary{}, nil
}

func (emptyService) Options(context.Context) (map[model.Field][]string, error) {
	return map[model.Field][]string{}, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func TestRegisterRoutes(t *testing.T) {
	r := router.New()
	RegisterRoutes(r, Deps{
		Data:    emptyService{},
		Store:   okPinger{},
		Metrics: metrics.New().Handler(),
		Swagger: true,
		Log:     logger.NewNop(),
	})

	for _, path := range []string{"/data", "/api/data", "/data/options", "/data/summary", "/healthz", "/metrics", "/swagger/doc.json"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/topics.svg", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// import endpoint only exists when an importer is wired
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/imports", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
