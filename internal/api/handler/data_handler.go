package handler

import (
	"context"
	"net/http"

	"insights-dashboard/internal/aggregate"
	"insights-dashboard/internal/filter"
	"insights-dashboard/internal/model"
)

// Public failure messages. Details are logged, never returned.
const (
	msgFetchFailed    = "Failed to fetch data"
	msgSummaryFailed  = "Failed to summarize data"
	msgOptionsFailed  = "Failed to fetch filter options"
	msgUnknownChart   = "Unknown chart"
	msgRenderFailed   = "Failed to render chart"
	msgInvalidPayload = "Invalid JSON payload"
	msgNoSources      = "At least one source is required"
	msgImportFailed   = "Import failed"
	statusOK          = "ok"
	statusUnavailable = "unavailable"
)

// DataService answers the dashboard's data questions
type DataService interface {
	Fetch(ctx context.Context, sel model.Selection) ([]model.Record, error)
	Summarize(ctx context.Context, sel model.Selection, opts aggregate.Options) (model.Summary, error)
	Options(ctx context.Context) (map[model.Field][]string, error)
}

// DataHandler serves records, summaries and filter options
// Retrieval failures are logged by the service.
type DataHandler struct {
	svc DataService
}

func NewDataHandler(svc DataService) *DataHandler {
	return &DataHandler{svc: svc}
}

// GetData returns the records matching the filters
// @Summary List insight records
// @Description Returns every record matching all supplied filters. Unknown and empty parameters are ignored; end_year must be a whole number to match anything.
// @Tags data
// @Produce json
// @Param end_year query string false "End year"
// @Param topic query string false "Topic"
// @Param sector query string false "Sector"
// @Param region query string false "Region"
// @Param pestle query string false "PESTLE category"
// @Param source query string false "Source"
// @Param swot query string false "SWOT category"
// @Param country query string false "Country"
// @Param city query string false "City"
// @Success 200 {array} model.Record
// @Failure 500 {object} ErrorResponse
// @Router /data [get]
func (h *DataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.Fetch(r.Context(), filter.FromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GetSummary returns the chart summaries for the filters
// @Summary Chart summaries
// @Description Sector intensity, region likelihood, top topics and relevance/likelihood points for the filtered records.
// @Tags data
// @Produce json
// @Param sector query string false "Sector (any filter field is accepted)"
// @Param width query int false "Display width in pixels; below 500 shows 5 topics instead of 10"
// @Param top query int false "Number of topics, overrides width"
// @Success 200 {object} model.Summary
// @Failure 500 {object} ErrorResponse
// @Router /data/summary [get]
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summarize(r.Context(), filter.FromQuery(r.URL.Query()), summaryOptions(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgSummaryFailed)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// GetOptions returns the filter options
// @Summary Filter options
// @Description Distinct non-empty values of every filter field across the whole dataset.
// @Tags data
// @Produce json
// @Success 200 {object} map[string][]string
// @Failure 500 {object} ErrorResponse
// @Router /data/options [get]
func (h *DataHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.Options(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgOptionsFailed)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func summaryOptions(r *http.Request) aggregate.Options {
	if top := intParam(r, "top"); top > 0 {
		return aggregate.Options{TopN: top}
	}
	return aggregate.Options{TopN: aggregate.TopicLimit(intParam(r, "width"))}
}
