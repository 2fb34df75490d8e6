package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/model"
)

// Importer runs import jobs
type Importer interface {
	Run(ctx context.Context, job model.ImportJob) (model.ImportResult, error)
}

// ImportFailure is returned when a run fails part way; stored rows stay stored
type ImportFailure struct {
	Error  string             `json:"error" example:"Import failed"`
	Result model.ImportResult `json:"result"`
}

type ImportHandler struct {
	importer Importer
	log      logger.Logger
}

func NewImportHandler(importer Importer, log logger.Logger) *ImportHandler {
	return &ImportHandler{importer: importer, log: log}
}

// CreateImport runs an import job and waits for it to finish
// @Summary Import insight records
// @Description Reads JSON, CSV or XLSX sources (file paths or URLs), validates each row and stores the valid ones. Rejected rows are reported, not fatal.
// @Tags imports
// @Accept json
// @Produce json
// @Param job body model.ImportJob true "Import job"
// @Success 201 {object} model.ImportResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ImportFailure
// @Router /api/v1/imports [post]
func (h *ImportHandler) CreateImport(w http.ResponseWriter, r *http.Request) {
	var job model.ImportJob
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	if len(job.Sources) == 0 {
		writeError(w, http.StatusBadRequest, msgNoSources)
		return
	}

	result, err := h.importer.Run(r.Context(), job)
	if err != nil {
		h.log.Error("Import failed", logger.String("job_id", result.JobID), logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, ImportFailure{Error: msgImportFailed, Result: result})
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
