package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "insights-dashboard/docs"
	"insights-dashboard/internal/api/handler"
	"insights-dashboard/internal/logger"
	"insights-dashboard/pkg/router"
)

// Deps are the collaborators the HTTP API is built from. Importer and
// Metrics are optional.
type Deps struct {
	Data     handler.DataService
	Store    handler.Pinger
	Importer handler.Importer
	Metrics  http.Handler
	Swagger  bool
	Log      logger.Logger
}

func RegisterRoutes(r *router.Router, deps Deps) {
	data := handler.NewDataHandler(deps.Data)
	charts := handler.NewChartHandler(deps.Data, deps.Log)
	health := handler.NewHealthHandler(deps.Store, deps.Log)

	r.GET("/data", data.GetData)
	r.GET("/api/data", data.GetData)
	r.GET("/data/options", data.GetOptions)
	r.GET("/data/summary", data.GetSummary)
	r.GET("/charts/{chart}.svg", charts.GetChart)
	r.GET("/healthz", health.Healthz)

	if deps.Importer != nil {
		imports := handler.NewImportHandler(deps.Importer, deps.Log)
		r.POST("/api/v1/imports", imports.CreateImport)
	}
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}
	if deps.Swagger {
		r.Handle("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}
}
