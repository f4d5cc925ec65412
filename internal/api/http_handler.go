package api

import (
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"knitting-catalog-service/internal/domain"
	"knitting-catalog-service/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// DesignLister is the service capability the transports depend on.
type DesignLister interface {
	GetAll(ctx context.Context) iter.Seq2[domain.Design, error]
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	designs DesignLister
	logger  *slog.Logger
	metrics *metrics.Metrics
	encode  func(v any) ([]byte, error)
}

// NewHTTPHandler creates a new HTTPHandler. m may be nil.
func NewHTTPHandler(designs DesignLister, logger *slog.Logger, m *metrics.Metrics) *HTTPHandler {
	return &HTTPHandler{
		designs: designs,
		logger:  logger,
		metrics: m,
		encode:  json.Marshal,
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, ErrorResponse{Error: message})
}

func (h *HTTPHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
		code = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error during JSON encoding"}`)
	}
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// drainDesigns collects the whole sequence. Nothing is returned on failure,
// so callers never serve a partial catalog.
func drainDesigns(seq iter.Seq2[domain.Design, error]) ([]domain.Design, error) {
	designs := make([]domain.Design, 0)
	for d, err := range seq {
		if err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}
	return designs, nil
}

// --- Design Handlers ---

// ListDesigns responds with every design in the catalog as a JSON array,
// in the order the repository produced them.
func (h *HTTPHandler) ListDesigns(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	designs, err := drainDesigns(h.designs.GetAll(r.Context()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "ListDesigns failed", "error", err)
		h.observe(metrics.OutcomeFailure, 0, start)
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve designs")
		return
	}

	body, err := h.encode(designs)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "ListDesigns encode failed", "error", err)
		h.observe(metrics.OutcomeFailure, 0, start)
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve designs")
		return
	}

	h.observe(metrics.OutcomeSuccess, len(designs), start)
	writeJSON(w, http.StatusOK, body)
}

func (h *HTTPHandler) observe(outcome string, count int, start time.Time) {
	if h.metrics != nil {
		h.metrics.ObserveList("http", outcome, count, time.Since(start))
	}
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service. Authentication,
// when enabled, is installed on r by the caller before this runs.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Get("/designs/", h.ListDesigns) // GET /designs/
}
