// Package httpapi exposes the validation engine over HTTP: batch
// validation from JSON or workbook uploads, repository export, health,
// supported types, and prometheus metrics.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"biovalid/internal/blob"
	"biovalid/internal/ingest"
	"biovalid/internal/metrics"
	"biovalid/internal/validator"
	"biovalid/pkg/domain"
)

// maxUploadBytes caps multipart uploads.
const maxUploadBytes = 32 << 20

// Handler routes API requests to the validation engine.
type Handler struct {
	engine  *validator.Engine
	archive blob.Store
	metrics *metrics.Metrics
	logger  domain.Logger
	mux     *http.ServeMux
	now     func() time.Time
}

// Option configures optional handler collaborators.
type Option func(*Handler)

// WithArchive attaches a report archive store.
func WithArchive(store blob.Store) Option {
	return func(h *Handler) { h.archive = store }
}

// WithMetrics attaches run metrics and exposes them on /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.metrics = m
		h.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
}

// WithLogger attaches a request logger.
func WithLogger(logger domain.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler constructs the API handler over an engine.
func NewHandler(engine *validator.Engine, opts ...Option) *Handler {
	h := &Handler{
		engine: engine,
		logger: domain.NopLogger{},
		mux:    http.NewServeMux(),
		now:    time.Now,
	}
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /supported-types", h.handleSupportedTypes)
	h.mux.HandleFunc("POST /validate", h.handleValidate)
	h.mux.HandleFunc("POST /validate-file", h.handleValidateFile)
	h.mux.HandleFunc("POST /export", h.handleExport)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":                 "healthy",
		"supported_sample_types": h.engine.SupportedTypes(),
	})
}

func (h *Handler) handleSupportedTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sample_types": h.engine.SupportedTypes(),
	})
}

// validateRequest is the POST /validate body.
type validateRequest struct {
	Data                  map[string][]domain.SampleRecord `json:"data"`
	ValidateRelationships *bool                            `json:"validate_relationships,omitempty"`
	ValidateOntologyText  *bool                            `json:"validate_ontology_text,omitempty"`
}

func (req *validateRequest) options() validator.Options {
	opts := validator.DefaultOptions()
	if req.ValidateRelationships != nil {
		opts.CheckRelationships = *req.ValidateRelationships
	}
	if req.ValidateOntologyText != nil {
		opts.CheckOntologyText = *req.ValidateOntologyText
	}
	return opts
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	h.runValidation(w, r, req.Data, req.options())
}

func (h *Handler) handleValidateFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart upload: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer func() { _ = file.Close() }()

	var batch ingest.Batch
	switch strings.ToLower(path.Ext(header.Filename)) {
	case ".json":
		batch, err = ingest.ReadJSON(file)
	case ".xlsx":
		batch, err = ingest.ReadXLSX(file)
	default:
		writeError(w, http.StatusBadRequest, "unsupported file type, expected .json or .xlsx")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.runValidation(w, r, batch, validator.DefaultOptions())
}

func (h *Handler) runValidation(w http.ResponseWriter, r *http.Request, batch map[string][]domain.SampleRecord, opts validator.Options) {
	result, err := h.engine.ValidateBatch(r.Context(), batch, opts)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RunFailed()
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.metrics != nil {
		h.metrics.RunCompleted(result)
	}

	report := validator.RenderBatchReport(result)
	reportKey, err := blob.ArchiveReport(r.Context(), h.archive, h.now(), report)
	if err != nil {
		h.logger.Warn("archive report", "error", err)
	}

	payload := map[string]any{
		"results": result,
		"report":  report,
	}
	if reportKey != "" {
		payload["report_key"] = reportKey
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	result, err := h.engine.ValidateBatch(r.Context(), req.Data, req.options())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary":    result.Summary,
		"biosamples": validator.ExportBatch(req.Data, result),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
