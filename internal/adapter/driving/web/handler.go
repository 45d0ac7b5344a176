// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/greedyreview/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/greedyreview/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/greedyreview/internal/application"
	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	threadSvc    *application.ThreadService
	statsSvc     *application.StatsService
	repositories []model.Repository
	pageSize     int
	logger       *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	threadSvc *application.ThreadService,
	statsSvc *application.StatsService,
	repositories []model.Repository,
	pageSize int,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		threadSvc:    threadSvc,
		statsSvc:     statsSvc,
		repositories: repositories,
		pageSize:     pageSize,
		logger:       logger,
	}
}

// Home renders the keyword cloud, optionally restricted by the repo query parameter.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	repo := strings.TrimSpace(r.URL.Query().Get("repo"))

	ranked := h.statsSvc.TopKeywords(r.Context(), repo)
	view := toHomeViewModel(h.repositories, repo, ranked, application.SummarizeKeywords(ranked))

	h.render(w, r, "home", templates.Layout(view.Title, pages.Home(view)))
}

// Keyword renders one page of the threads mentioning the path keyword. The
// q, expanded and page query parameters select search text, expanded
// threads and page number.
func (h *Handler) Keyword(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.PathValue("keyword"))
	if keyword == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	query := r.URL.Query()
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil {
		page = 1
	}

	result := h.threadSvc.KeywordPage(r.Context(), application.ThreadQuery{
		Keyword:  keyword,
		Search:   strings.TrimSpace(query.Get("q")),
		Expanded: application.ParseExpansionState(query.Get("expanded")),
		Page:     page,
		PageSize: h.pageSize,
	})
	view := toKeywordViewModel(result)

	h.render(w, r, "keyword", templates.Layout(keyword+" · Greedy Review", pages.Keyword(view)))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
