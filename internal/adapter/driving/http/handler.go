package httphandler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/greedyreview/internal/application"
	"github.com/ericfisherdev/greedyreview/internal/domain/model"
	"github.com/ericfisherdev/greedyreview/internal/domain/port/driven"
)

// maxPageSize caps the page_size query parameter.
const maxPageSize = 100

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	threadSvc    *application.ThreadService
	statsSvc     *application.StatsService
	collectSvc   *application.CollectService // nil when collection is disabled
	reviewStore  driven.ReviewStore
	repositories []model.Repository
	pageSize     int
	logger       *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. collectSvc may
// be nil, in which case the collect endpoint reports 503.
func NewHandler(
	threadSvc *application.ThreadService,
	statsSvc *application.StatsService,
	collectSvc *application.CollectService,
	reviewStore driven.ReviewStore,
	repositories []model.Repository,
	pageSize int,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		threadSvc:    threadSvc,
		statsSvc:     statsSvc,
		collectSvc:   collectSvc,
		reviewStore:  reviewStore,
		repositories: repositories,
		pageSize:     pageSize,
		logger:       logger,
	}
}

// RegisterAPIRoutes registers all JSON API routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/repositories", h.ListRepositories)
	mux.HandleFunc("GET /api/v1/taxonomy", h.GetTaxonomy)
	mux.HandleFunc("GET /api/v1/stats/keywords", h.KeywordStats)
	mux.HandleFunc("GET /api/v1/stats/keywords/raw", h.RawKeywordStats)
	mux.HandleFunc("GET /api/v1/keywords/{keyword}/threads", h.KeywordThreads)
	mux.HandleFunc("GET /api/v1/threads", h.Threads)
	mux.HandleFunc("GET /api/v1/reviews/search", h.SearchReviews)
	mux.HandleFunc("POST /api/v1/collect", h.Collect)
}

// Health reports liveness and the number of stored reviews. A failing store
// reports status "degraded" with 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}

	n, err := h.reviewStore.CountReviews(r.Context())
	if err != nil {
		h.logger.Error("health check failed to count reviews", "error", err)
		resp.Status = "degraded"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.ReviewCount = n

	writeJSON(w, http.StatusOK, resp)
}

// ListRepositories returns the repository catalog.
func (h *Handler) ListRepositories(w http.ResponseWriter, _ *http.Request) {
	repos := h.repositories
	if repos == nil {
		repos = []model.Repository{}
	}
	writeJSON(w, http.StatusOK, repos)
}

// GetTaxonomy returns the keyword categories used for statistics.
func (h *Handler) GetTaxonomy(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.statsSvc.Taxonomy())
}

// Collect runs one collection cycle, waits for it to finish and reports the
// cursor of every catalog repository.
func (h *Handler) Collect(w http.ResponseWriter, r *http.Request) {
	if h.collectSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "collection is disabled")
		return
	}

	if err := h.collectSvc.Collect(r.Context()); err != nil {
		h.logger.Error("manual collection failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	n, err := h.reviewStore.CountReviews(r.Context())
	if err != nil {
		h.logger.Error("failed to count reviews after collection", "error", err)
	}

	resp := CollectResponse{
		Status:       "ok",
		ReviewCount:  n,
		Repositories: make([]CollectRepoStatus, len(h.repositories)),
	}
	for i, repo := range h.repositories {
		cursor, ok := h.collectSvc.Cursor(repo.ID)
		resp.Repositories[i] = toCollectRepoStatus(repo.ID, cursor, ok)
	}

	writeJSON(w, http.StatusOK, resp)
}

// queryInt parses an optional integer query parameter. It returns def when the
// parameter is absent and ok=false when it is present but not an integer.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
