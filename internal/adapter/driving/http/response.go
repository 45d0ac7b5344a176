package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/greedyreview/internal/application"
	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status      string `json:"status"`
	Time        string `json:"time"`
	ReviewCount int    `json:"review_count"`
}

// KeywordStatsResponse is the ranked keyword list with its summary figures.
type KeywordStatsResponse struct {
	Repo     string                     `json:"repo"`
	Keywords []model.KeywordCount       `json:"keywords"`
	Summary  application.KeywordSummary `json:"summary"`
}

// ThreadPageResponse is one page of keyword threads. Expanded echoes the
// expansion state in the form accepted by the expanded query parameter.
type ThreadPageResponse struct {
	Keyword      string `json:"keyword"`
	Search       string `json:"search"`
	Expanded     string `json:"expanded"`
	TotalThreads int    `json:"total_threads"`
	model.PageResult
}

// CollectResponse reports a completed manual collection.
type CollectResponse struct {
	Status       string              `json:"status"`
	ReviewCount  int                 `json:"review_count"`
	Repositories []CollectRepoStatus `json:"repositories"`
}

// CollectRepoStatus is the collection cursor of one catalog repository. The
// timestamps are empty until the repository has been collected once.
type CollectRepoStatus struct {
	Repo          string `json:"repo"`
	Collected     bool   `json:"collected"`
	LastCollected string `json:"last_collected,omitempty"`
	SeenUpdatedAt string `json:"seen_updated_at,omitempty"`
}

func toCollectRepoStatus(repo string, cursor application.CursorInfo, ok bool) CollectRepoStatus {
	status := CollectRepoStatus{Repo: repo, Collected: ok}
	if !ok {
		return status
	}
	status.LastCollected = cursor.LastCollected.UTC().Format(time.RFC3339)
	if !cursor.SeenUpdatedAt.IsZero() {
		status.SeenUpdatedAt = cursor.SeenUpdatedAt.UTC().Format(time.RFC3339)
	}
	return status
}

func toKeywordStatsResponse(repo string, ranked []model.KeywordCount) KeywordStatsResponse {
	return KeywordStatsResponse{
		Repo:     repo,
		Keywords: ranked,
		Summary:  application.SummarizeKeywords(ranked),
	}
}

func toThreadPageResponse(page application.KeywordPage) ThreadPageResponse {
	return ThreadPageResponse{
		Keyword:      page.Query.Keyword,
		Search:       page.Query.Search,
		Expanded:     page.Query.Expanded.String(),
		TotalThreads: page.TotalThreads,
		PageResult:   page.PageResult,
	}
}
