package httphandler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ericfisherdev/greedyreview/internal/application"
)

// KeywordThreads returns one page of the threads mentioning the path keyword.
// Query parameters: page, page_size, q (search within threads) and expanded
// (comma-separated thread IDs or "all").
func (h *Handler) KeywordThreads(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.PathValue("keyword"))
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	page, ok := queryInt(r, "page", 1)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid page: expected an integer")
		return
	}

	pageSize, ok := queryInt(r, "page_size", h.pageSize)
	if !ok || pageSize < 1 || pageSize > maxPageSize {
		writeError(w, http.StatusBadRequest, "invalid page_size: expected an integer between 1 and "+strconv.Itoa(maxPageSize))
		return
	}

	q := r.URL.Query()
	result := h.threadSvc.KeywordPage(r.Context(), application.ThreadQuery{
		Keyword:  keyword,
		Search:   q.Get("q"),
		Expanded: application.ParseExpansionState(q.Get("expanded")),
		Page:     page,
		PageSize: pageSize,
	})

	writeJSON(w, http.StatusOK, toThreadPageResponse(result))
}

// Threads returns the complete threads for the ids query parameter.
func (h *Handler) Threads(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("ids"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "ids is required")
		return
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid ids: expected comma-separated integers")
			return
		}
		ids = append(ids, id)
	}

	writeJSON(w, http.StatusOK, h.threadSvc.ThreadsByIDs(r.Context(), ids))
}

// SearchReviews returns the flat review records mentioning the keyword
// query parameter.
func (h *Handler) SearchReviews(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	writeJSON(w, http.StatusOK, h.threadSvc.SearchReviews(r.Context(), keyword))
}
