// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
	"github.com/ericfisherdev/greedyreview/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// maxReplyDepth bounds the in-reply-to walk when resolving a thread root.
const maxReplyDepth = 64

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchPullRequests retrieves pull requests for the given repository filtered by state.
// Valid state values are "open", "closed", or "all" (as accepted by the GitHub API).
// It handles pagination automatically.
func (c *Client) FetchPullRequests(ctx context.Context, repoFullName string, state string) ([]model.PullRequestRef, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListOptions{
		State:     state,
		Sort:      "updated",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	allPRs := []model.PullRequestRef{}

	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s (page %d): %w", repoFullName, opts.Page, err)
		}

		logRateLimit(resp, repoFullName, opts.Page, len(prs))

		for _, pr := range prs {
			allPRs = append(allPRs, model.PullRequestRef{
				RepoFullName: repoFullName,
				Number:       pr.GetNumber(),
				URL:          pr.GetHTMLURL(),
				UpdatedAt:    pr.GetUpdatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allPRs, nil
}

// FetchReviewComments retrieves all review comments (inline code comments) for a pull request
// and maps them to review records. Each record's ThreadID is the root of its reply chain.
func (c *Client) FetchReviewComments(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var allComments []*gh.PullRequestComment

	for {
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("listing review comments for %s#%d (page %d): %w", repoFullName, prNumber, opts.Page, err)
		}

		logRateLimit(resp, fmt.Sprintf("%s#%d/comments", repoFullName, prNumber), opts.Page, len(comments))

		allComments = append(allComments, comments...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	parents := make(map[int64]int64, len(allComments))
	for _, comment := range allComments {
		if comment.InReplyTo != nil {
			parents[comment.GetID()] = comment.GetInReplyTo()
		}
	}

	reviews := make([]model.Review, 0, len(allComments))
	for _, comment := range allComments {
		reviews = append(reviews, mapReviewComment(comment, repoFullName, prNumber, threadRoot(comment.GetID(), parents)))
	}

	return reviews, nil
}

// FetchIssueComments retrieves all general PR-level comments (from the Issues API) for a pull request.
// Every issue comment is the root of its own thread.
func (c *Client) FetchIssueComments(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	reviews := []model.Review{}

	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("listing issue comments for %s#%d (page %d): %w", repoFullName, prNumber, opts.Page, err)
		}

		logRateLimit(resp, fmt.Sprintf("%s#%d/issue-comments", repoFullName, prNumber), opts.Page, len(comments))

		for _, comment := range comments {
			reviews = append(reviews, mapIssueComment(comment, repoFullName, prNumber))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return reviews, nil
}

// threadRoot follows in-reply-to links up to the first comment of the chain.
// A parent missing from the page set is treated as the root.
func threadRoot(id int64, parents map[int64]int64) int64 {
	for range maxReplyDepth {
		parent, ok := parents[id]
		if !ok {
			return id
		}
		id = parent
	}
	return id
}

// mapReviewComment converts a go-github PullRequestComment to a review record.
func mapReviewComment(c *gh.PullRequestComment, repoFullName string, prNumber int, threadID int64) model.Review {
	return model.Review{
		Repo:        repoFullName,
		PRNumber:    prNumber,
		FilePath:    c.GetPath(),
		Reviewer:    c.GetUser().GetLogin(),
		SubmittedAt: formatTime(c.GetCreatedAt()),
		Comment:     c.GetBody(),
		CodeSnippet: c.GetDiffHunk(),
		URL:         c.GetHTMLURL(),
		CommentID:   c.GetID(),
		ThreadID:    threadID,
	}
}

// mapIssueComment converts a go-github IssueComment to a review record.
func mapIssueComment(c *gh.IssueComment, repoFullName string, prNumber int) model.Review {
	return model.Review{
		Repo:           repoFullName,
		PRNumber:       prNumber,
		Reviewer:       c.GetUser().GetLogin(),
		SubmittedAt:    formatTime(c.GetCreatedAt()),
		Comment:        c.GetBody(),
		URL:            c.GetHTMLURL(),
		IsIssueComment: true,
		CommentID:      c.GetID(),
		ThreadID:       c.GetID(),
	}
}

func formatTime(ts gh.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
