package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/greedyreview/internal/domain/port/driven"
)

// setupTestServer starts an httptest server and returns a Client pointed at
// it. Every request is checked for the anonymous key headers.
func setupTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		assert.Equal(t, reviewsPath, r.URL.Path)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewClientWithHTTPClient(srv.URL+"/", "anon-key", srv.Client())
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_ListByKeyword(t *testing.T) {
	var got url.Values
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		writeJSON(t, w, []map[string]any{
			{
				"id": "a1", "repo": "next-step/java-lotto-clean-playground", "pr_number": 3,
				"file_path": nil, "reviewer": "jane", "submitted_at": "2024-05-01T10:00:00Z",
				"comment": "enum 활용 좋네요", "code_snippet": nil, "url": "https://x/1",
				"is_issue_comment": false, "comment_id": 10, "thread_id": 10,
			},
			{"id": 7, "repo": "r", "comment": "Enum?", "comment_id": 11, "thread_id": 10, "is_issue_comment": nil},
		})
	})

	reviews, err := c.ListByKeyword(context.Background(), "enum")

	require.NoError(t, err)
	assert.Equal(t, "ilike.*enum*", got.Get("comment"))
	assert.Equal(t, reviewColumns, got.Get("select"))
	assert.Equal(t, "thread_id.asc,comment_id.asc", got.Get("order"))
	assert.Equal(t, "0", got.Get("offset"))

	require.Len(t, reviews, 2)
	assert.Equal(t, "a1", reviews[0].ID)
	assert.Equal(t, 3, reviews[0].PRNumber)
	assert.Equal(t, "", reviews[0].FilePath)
	assert.Equal(t, "", reviews[0].CodeSnippet)
	assert.Equal(t, int64(10), reviews[0].CommentID)
	assert.Equal(t, "7", reviews[1].ID)
	assert.False(t, reviews[1].IsIssueComment)
}

func TestClient_ListByThreadIDs(t *testing.T) {
	var got url.Values
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		writeJSON(t, w, []map[string]any{})
	})

	reviews, err := c.ListByThreadIDs(context.Background(), []int64{3, 1})

	require.NoError(t, err)
	assert.Equal(t, "in.(3,1)", got.Get("thread_id"))
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestClient_ListByThreadIDs_EmptySkipsRequest(t *testing.T) {
	c := setupTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("unexpected request")
		w.WriteHeader(http.StatusInternalServerError)
	})

	reviews, err := c.ListByThreadIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestClient_ListComments(t *testing.T) {
	tests := []struct {
		name     string
		filter   string
		wantRepo string
	}{
		{name: "all repos", filter: "", wantRepo: ""},
		{name: "blank filter", filter: "  ", wantRepo: ""},
		{name: "substring", filter: " lotto ", wantRepo: "ilike.*lotto*"},
		{name: "wildcard stripped", filter: "lot*to", wantRepo: "ilike.*lotto*"},
		{name: "like metacharacters escaped", filter: "java_lotto%", wantRepo: `ilike.*java\_lotto\%*`},
		{name: "backslash escaped", filter: `a\b`, wantRepo: `ilike.*a\\b*`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got url.Values
			c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query()
				writeJSON(t, w, []map[string]any{})
			})

			_, err := c.ListComments(context.Background(), tt.filter)

			require.NoError(t, err)
			assert.Equal(t, "neq.", got.Get("comment"))
			assert.Equal(t, tt.wantRepo, got.Get("repo"))
		})
	}
}

func TestClient_Paging(t *testing.T) {
	var offsets []string
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		offsets = append(offsets, q.Get("offset"))
		assert.Equal(t, "2", q.Get("limit"))

		offset, _ := strconv.Atoi(q.Get("offset"))
		rows := []map[string]any{}
		for id := offset; id < min(offset+2, 5); id++ {
			rows = append(rows, map[string]any{"comment_id": id, "thread_id": id, "comment": "x"})
		}
		writeJSON(t, w, rows)
	})
	c.batchSize = 2

	reviews, err := c.ListComments(context.Background(), "")

	require.NoError(t, err)
	assert.Len(t, reviews, 5)
	assert.Equal(t, []string{"0", "2", "4"}, offsets)
}

func TestClient_ErrorStatus(t *testing.T) {
	c := setupTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
	})

	_, err := c.ListByKeyword(context.Background(), "enum")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestClient_CountReviews(t *testing.T) {
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		w.Header().Set("Content-Range", "*/1234")
		w.WriteHeader(http.StatusOK)
	})

	n, err := c.CountReviews(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1234, n)
}

func TestClient_UpsertIsReadOnly(t *testing.T) {
	c := NewClient("https://example.supabase.co", "anon-key")

	err := c.UpsertReviews(context.Background(), nil)

	assert.ErrorIs(t, err, driven.ErrReadOnly)
}

func TestClient_ListByKeyword_LiteralMatch(t *testing.T) {
	var got url.Values
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		writeJSON(t, w, []map[string]any{})
	})

	_, err := c.ListByKeyword(context.Background(), "snake_case 100%")

	require.NoError(t, err)
	assert.Equal(t, `ilike.*snake\_case 100\%*`, got.Get("comment"))
}
