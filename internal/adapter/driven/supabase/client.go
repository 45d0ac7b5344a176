// Package supabase implements a read-only ReviewStore backed by the hosted
// reviews table, queried through its PostgREST endpoint.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
	"github.com/ericfisherdev/greedyreview/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReviewStore = (*Client)(nil)

const (
	reviewsPath   = "/rest/v1/reviews"
	reviewColumns = "id,repo,pr_number,file_path,reviewer,submitted_at,comment,code_snippet,url,is_issue_comment,comment_id,thread_id"

	// defaultBatchSize matches the PostgREST max-rows default of hosted projects.
	defaultBatchSize = 1000
)

// Client queries the reviews table with an anonymous API key.
type Client struct {
	baseURL   string
	apiKey    string
	http      *http.Client
	batchSize int
}

// NewClient creates a Client for the project at baseURL. Responses are cached
// in memory and revalidated with ETags.
func NewClient(baseURL, apiKey string) *Client {
	return NewClientWithHTTPClient(baseURL, apiKey, &http.Client{
		Transport: httpcache.NewMemoryCacheTransport(),
		Timeout:   30 * time.Second,
	})
}

// NewClientWithHTTPClient creates a Client using the provided HTTP client.
// This is used in tests to point at an httptest server.
func NewClientWithHTTPClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		http:      httpClient,
		batchSize: defaultBatchSize,
	}
}

// UpsertReviews always fails: the anonymous key has no write access.
func (c *Client) UpsertReviews(_ context.Context, _ []model.Review) error {
	return driven.ErrReadOnly
}

// ListByKeyword returns reviews whose comment contains keyword, ignoring case.
func (c *Client) ListByKeyword(ctx context.Context, keyword string) ([]model.Review, error) {
	q := url.Values{}
	q.Set("comment", "ilike."+likePattern(keyword))
	q.Set("order", "thread_id.asc,comment_id.asc")

	reviews, err := c.listAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list reviews for keyword %q: %w", keyword, err)
	}

	return reviews, nil
}

// ListByThreadIDs returns every review belonging to the given threads.
func (c *Client) ListByThreadIDs(ctx context.Context, threadIDs []int64) ([]model.Review, error) {
	if len(threadIDs) == 0 {
		return []model.Review{}, nil
	}

	ids := make([]string, len(threadIDs))
	for i, id := range threadIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	q := url.Values{}
	q.Set("thread_id", "in.("+strings.Join(ids, ",")+")")
	q.Set("order", "thread_id.asc,comment_id.asc")

	reviews, err := c.listAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list reviews for %d threads: %w", len(threadIDs), err)
	}

	return reviews, nil
}

// ListComments returns reviews with a non-empty comment, restricted to repos
// containing repoFilter (ignoring case) when it is not blank.
func (c *Client) ListComments(ctx context.Context, repoFilter string) ([]model.Review, error) {
	q := url.Values{}
	q.Set("comment", "neq.")
	if f := strings.TrimSpace(repoFilter); f != "" {
		q.Set("repo", "ilike."+likePattern(f))
	}
	q.Set("order", "comment_id.asc")

	reviews, err := c.listAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list comments for repo %q: %w", repoFilter, err)
	}

	return reviews, nil
}

// CountReviews asks PostgREST for an exact row count without fetching rows.
func (c *Client) CountReviews(ctx context.Context) (int, error) {
	q := url.Values{}
	q.Set("select", "comment_id")

	req, err := c.newRequest(ctx, http.MethodHead, q)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return 0, fmt.Errorf("count reviews: unexpected status %d", resp.StatusCode)
	}

	// Content-Range: 0-24/1234 or */0
	contentRange := resp.Header.Get("Content-Range")
	_, total, ok := strings.Cut(contentRange, "/")
	if !ok {
		return 0, fmt.Errorf("count reviews: missing total in Content-Range %q", contentRange)
	}

	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("count reviews: parse total %q: %w", total, err)
	}

	return n, nil
}

// listAll pages through the table with limit/offset until a short batch arrives.
func (c *Client) listAll(ctx context.Context, q url.Values) ([]model.Review, error) {
	q.Set("select", reviewColumns)

	all := []model.Review{}
	for offset := 0; ; offset += c.batchSize {
		q.Set("limit", strconv.Itoa(c.batchSize))
		q.Set("offset", strconv.Itoa(offset))

		batch, err := c.get(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)

		if len(batch) < c.batchSize {
			return all, nil
		}
	}
}

func (c *Client) get(ctx context.Context, q url.Values) ([]model.Review, error) {
	req, err := c.newRequest(ctx, http.MethodGet, q)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request reviews: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("request reviews: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rows []row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	reviews := make([]model.Review, len(rows))
	for i, r := range rows {
		reviews[i] = r.toModel()
	}

	return reviews, nil
}

func (c *Client) newRequest(ctx context.Context, method string, q url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+reviewsPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// likeEscaper makes LIKE metacharacters match literally. PostgREST turns * into
// %, so * cannot be escaped and is dropped instead.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `*`, "")

// likePattern wraps s in PostgREST ilike wildcards, matching s literally.
func likePattern(s string) string {
	return "*" + likeEscaper.Replace(s) + "*"
}

// row mirrors a reviews table row. Nullable text columns decode as empty strings.
type row struct {
	ID             *json.RawMessage `json:"id"`
	Repo           *string          `json:"repo"`
	PRNumber       *int             `json:"pr_number"`
	FilePath       *string          `json:"file_path"`
	Reviewer       *string          `json:"reviewer"`
	SubmittedAt    *string          `json:"submitted_at"`
	Comment        *string          `json:"comment"`
	CodeSnippet    *string          `json:"code_snippet"`
	URL            *string          `json:"url"`
	IsIssueComment *bool            `json:"is_issue_comment"`
	CommentID      int64            `json:"comment_id"`
	ThreadID       int64            `json:"thread_id"`
}

func (r row) toModel() model.Review {
	return model.Review{
		ID:             rawID(r.ID),
		Repo:           deref(r.Repo),
		PRNumber:       deref(r.PRNumber),
		FilePath:       deref(r.FilePath),
		Reviewer:       deref(r.Reviewer),
		SubmittedAt:    deref(r.SubmittedAt),
		Comment:        deref(r.Comment),
		CodeSnippet:    deref(r.CodeSnippet),
		URL:            deref(r.URL),
		IsIssueComment: deref(r.IsIssueComment),
		CommentID:      r.CommentID,
		ThreadID:       r.ThreadID,
	}
}

// rawID accepts both text and numeric primary keys.
func rawID(raw *json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(*raw, &s); err == nil {
		return s
	}
	return string(*raw)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
