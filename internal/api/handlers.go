package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mithilai/Customer-Call-Analyzer/internal/analysis"
	"github.com/mithilai/Customer-Call-Analyzer/internal/audio"
	"github.com/mithilai/Customer-Call-Analyzer/internal/export"
	"github.com/mithilai/Customer-Call-Analyzer/internal/storage/sqlite"
	"github.com/mithilai/Customer-Call-Analyzer/pkg/logger"
)

// Analyzer runs the full call-analysis pipeline for one upload
type Analyzer interface {
	Analyze(ctx context.Context, upload io.Reader, filename string) (*analysis.Result, error)
}

// ReportStore reads and maintains the persisted reports
type ReportStore interface {
	ListReports() ([]*sqlite.CallReport, error)
	ClearAll() error
}

// Handler handles API requests
type Handler struct {
	analyzer Analyzer
	reports  ReportStore
	logger   *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(analyzer Analyzer, reports ReportStore, logger *logger.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		reports:  reports,
		logger:   logger.Named("api-handler"),
	}
}

// AnalyzeCall accepts a multipart audio upload ("audio" field), runs the
// analysis pipeline and returns the full result. Extraction diagnostics ride
// inside the 200 body next to the raw text that caused them; only failures
// that abort the run produce an error status.
func (h *Handler) AnalyzeCall(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("audio")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing audio file upload")
		return
	}
	defer file.Close()

	result, err := h.analyzer.Analyze(r.Context(), file, header.Filename)
	if err != nil {
		h.logger.Error("Analysis run failed",
			logger.String("filename", header.Filename),
			logger.Error(err))

		var collab *analysis.CollaboratorError
		switch {
		case errors.Is(err, audio.ErrUnsupportedFormat):
			h.respondError(w, http.StatusBadRequest, "unsupported audio format, expected WAV or MP3")
		case errors.Is(err, audio.ErrUploadTooLarge):
			h.respondError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		case errors.As(err, &collab):
			h.respondError(w, http.StatusBadGateway, collab.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ListReports returns every stored report ordered by id ascending
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ListReports()
	if err != nil {
		h.logger.Error("Failed to list reports", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []*sqlite.CallReport{}
	}
	h.respondJSON(w, http.StatusOK, reports)
}

// ExportReports streams the stored reports as an XLSX workbook
func (h *Handler) ExportReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ListReports()
	if err != nil {
		h.logger.Error("Failed to list reports for export", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to export reports")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="call_reports.xlsx"`)
	if err := export.WriteXLSX(w, reports); err != nil {
		// Headers are already out; all we can do is log
		h.logger.Error("Failed to write XLSX export", logger.Error(err))
	}
}

// ClearReports wipes every stored report and resets the id sequence.
// Maintenance operation, not part of the interactive analysis flow.
func (h *Handler) ClearReports(w http.ResponseWriter, r *http.Request) {
	if err := h.reports.ClearAll(); err != nil {
		h.logger.Error("Failed to clear reports", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to clear reports")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth reports service liveness
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
