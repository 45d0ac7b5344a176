package web_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/greedyreview/internal/adapter/driving/web"
	"github.com/ericfisherdev/greedyreview/internal/application"
	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

type mockReviewStore struct {
	reviews []model.Review
}

func (m *mockReviewStore) UpsertReviews(_ context.Context, _ []model.Review) error { return nil }

func (m *mockReviewStore) ListByKeyword(_ context.Context, keyword string) ([]model.Review, error) {
	var out []model.Review
	for _, r := range m.reviews {
		if strings.Contains(strings.ToLower(r.Comment), strings.ToLower(keyword)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewStore) ListByThreadIDs(_ context.Context, _ []int64) ([]model.Review, error) {
	return m.reviews, nil
}

func (m *mockReviewStore) ListComments(_ context.Context, repoFilter string) ([]model.Review, error) {
	return m.reviews, nil
}

func (m *mockReviewStore) CountReviews(_ context.Context) (int, error) {
	return len(m.reviews), nil
}

func testReviews() []model.Review {
	lotto := "next-step/java-lotto-clean-playground"
	return []model.Review{
		{
			Repo: lotto, ThreadID: 1, CommentID: 1, Reviewer: "jane",
			SubmittedAt: "2024-03-05T10:00:00Z", FilePath: "src/main/java/Lotto.java",
			CodeSnippet: "@@ -1 +1 @@\n+List<Integer> numbers;",
			Comment:     "enum을 사용해보면 어떨까요?",
			URL:         "https://github.com/next-step/java-lotto-clean-playground/pull/1#discussion_r1",
		},
		{Repo: lotto, ThreadID: 1, CommentID: 2, Reviewer: "kim", Comment: "enum 반영했습니다"},
		{Repo: lotto, ThreadID: 3, CommentID: 3, Reviewer: "lee", Comment: "final 과 enum"},
		{Repo: lotto, ThreadID: 4, CommentID: 4, Reviewer: "lee", Comment: "Stream 대신 for"},
	}
}

func setupMux(store *mockReviewStore, pageSize int) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	taxonomy := model.Taxonomy{Categories: []model.KeywordCategory{
		{Key: "codeQuality", Keywords: []string{"enum", "final", "Stream"}},
	}}
	repos := []model.Repository{{ID: "next-step/java-lotto-clean-playground", Name: "로또", Emoji: "🎰"}}

	h := web.NewHandler(
		application.NewThreadService(store, logger),
		application.NewStatsService(store, taxonomy, 1, 30, logger),
		repos,
		pageSize,
		logger,
	)

	mux := http.NewServeMux()
	web.RegisterRoutes(mux, h)
	return mux
}

func get(t *testing.T, mux http.Handler, target string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec.Code, rec.Body.String()
}

func TestHome_RendersCloudAndCards(t *testing.T) {
	mux := setupMux(&mockReviewStore{reviews: testReviews()}, 8)

	code, body := get(t, mux, "/")

	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `href="/keyword/enum"`)
	assert.Contains(t, body, `data-size="21"`) // enum appears 3 times
	assert.Contains(t, body, "🎰 로또")
	assert.Contains(t, body, `<div class="stat-value">3</div>`)
	assert.Contains(t, body, `<div class="stat-value">5</div>`)
}

func TestHome_SelectedRepo(t *testing.T) {
	mux := setupMux(&mockReviewStore{reviews: testReviews()}, 8)

	_, body := get(t, mux, "/?repo=next-step/java-lotto-clean-playground")

	assert.Contains(t, body, `value="next-step/java-lotto-clean-playground" selected`)
}

func TestHome_EmptyStore(t *testing.T) {
	mux := setupMux(&mockReviewStore{}, 8)

	code, body := get(t, mux, "/")

	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "아직 분석된 키워드가 없습니다.")
}

func TestKeyword_RendersThreads(t *testing.T) {
	mux := setupMux(&mockReviewStore{reviews: testReviews()}, 8)

	code, body := get(t, mux, "/keyword/enum")

	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "스레드 2개 (2개 전체)")
	assert.Contains(t, body, `<mark class="keyword-highlight">enum</mark>`)
	assert.Contains(t, body, `<div class="author-avatar">J</div>`)
	assert.Contains(t, body, "2024년 3월 5일")
	assert.Contains(t, body, `<span class="repo-badge">java-lotto-clean-playground</span>`)
	assert.Contains(t, body, `<span class="file-badge">Lotto.java</span>`)
	assert.Contains(t, body, "List&lt;Integer&gt; numbers;")
	assert.Contains(t, body, "댓글 1개 더 보기")
	assert.Contains(t, body, `<div class="thread-item" id="thread-1">`)
	assert.Contains(t, body, `<div class="review-comment" data-role="main">`)
	assert.NotContains(t, body, "반영했습니다")
	assert.NotContains(t, body, "thread-pagination")
}

func TestKeyword_ExpandedThreadShowsReplies(t *testing.T) {
	mux := setupMux(&mockReviewStore{reviews: testReviews()}, 8)

	_, body := get(t, mux, "/keyword/enum?expanded=1")

	assert.Contains(t, body, "반영했습니다")
	assert.Contains(t, body, "댓글 접기")
	assert.Contains(t, body, `<input type="hidden" name="expanded" value="1">`)
	// The toggle link collapses the thread again.
	assert.Contains(t, body, `href="/keyword/enum#thread-1"`)
}

func TestKeyword_SearchNarrowsThreads(t *testing.T) {
	mux := setupMux(&mockReviewStore{reviews: testReviews()}, 8)

	_, body := get(t, mux, "/keyword/enum?q=final")

	assert.Contains(t, body, "스레드 1개 (2개 전체)")
	assert.Contains(t, body, `value="final"`)
}

func TestKeyword_Pagination(t *testing.T) {
	mux := setupMux(&mockReviewStore{reviews: testReviews()}, 1)

	_, body := get(t, mux, "/keyword/enum?page=2")

	assert.Contains(t, body, "thread-pagination")
	assert.Contains(t, body, `<span class="pagination-number active" aria-current="page">2</span>`)
	assert.Contains(t, body, `href="/keyword/enum"`)
	assert.Contains(t, body, `<span class="pagination-btn disabled">다음 →</span>`)
}

func TestKeyword_NoThreads(t *testing.T) {
	mux := setupMux(&mockReviewStore{reviews: testReviews()}, 8)

	code, body := get(t, mux, "/keyword/SOLID")

	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "관련 리뷰가 없습니다.")
}

func TestStaticAssets(t *testing.T) {
	mux := setupMux(&mockReviewStore{}, 8)

	code, body := get(t, mux, "/static/app.css")

	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, ".keyword-highlight")
}
