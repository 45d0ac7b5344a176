package httphandler

import (
	"net/http"
	"strings"
)

// KeywordStats returns the ranked keyword counts. Query parameters: repo
// (substring filter), min (minimum count) and limit (0 for no limit); both
// numbers default to the service policy.
func (h *Handler) KeywordStats(w http.ResponseWriter, r *http.Request) {
	repo := strings.TrimSpace(r.URL.Query().Get("repo"))

	minCount, ok := queryInt(r, "min", -1)
	if !ok || minCount < -1 {
		writeError(w, http.StatusBadRequest, "invalid min: expected a non-negative integer")
		return
	}

	limit, ok := queryInt(r, "limit", -1)
	if !ok || limit < -1 {
		writeError(w, http.StatusBadRequest, "invalid limit: expected a non-negative integer")
		return
	}

	defMin, defLimit := h.statsSvc.Policy()
	if minCount < 0 {
		minCount = defMin
	}
	if limit < 0 {
		limit = defLimit
	}

	ranked := h.statsSvc.TopKeywordsWith(r.Context(), repo, minCount, limit)
	writeJSON(w, http.StatusOK, toKeywordStatsResponse(repo, ranked))
}

// RawKeywordStats returns the unfiltered keyword-to-count map.
func (h *Handler) RawKeywordStats(w http.ResponseWriter, r *http.Request) {
	repo := strings.TrimSpace(r.URL.Query().Get("repo"))
	writeJSON(w, http.StatusOK, h.statsSvc.KeywordCounts(r.Context(), repo))
}
