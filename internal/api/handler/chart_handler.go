package handler

import (
	"bytes"
	"errors"
	"net/http"

	"insights-dashboard/internal/filter"
	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/render"
	"insights-dashboard/pkg/router"
)

// ChartHandler serves the dashboard charts as SVG
type ChartHandler struct {
	svc DataService
	log logger.Logger
}

func NewChartHandler(svc DataService, log logger.Logger) *ChartHandler {
	return &ChartHandler{svc: svc, log: log}
}

// GetChart renders one chart for the filters
// @Summary Render a chart
// @Description SVG rendering of sector-intensity, region-likelihood, topics or relevance-likelihood for the filtered records.
// @Tags charts
// @Produce image/svg+xml
// @Param chart path string true "Chart name" Enums(sector-intensity, region-likelihood, topics, relevance-likelihood)
// @Param width query int false "Display width in pixels"
// @Success 200 {string} string "SVG document"
// @Success 204 "Nothing to draw"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /charts/{chart}.svg [get]
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := router.Param(r, "chart")
	if !render.Known(name) {
		writeError(w, http.StatusNotFound, msgUnknownChart)
		return
	}

	width := intParam(r, "width")
	sum, err := h.svc.Summarize(r.Context(), filter.FromQuery(r.URL.Query()), summaryOptions(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgSummaryFailed)
		return
	}

	var buf bytes.Buffer
	err = render.Render(&buf, name, sum, render.SizeFor(width))
	if errors.Is(err, render.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.log.Error("Chart render failed", logger.String("chart", name), logger.Error(err))
		writeError(w, http.StatusInternalServerError, msgRenderFailed)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}
