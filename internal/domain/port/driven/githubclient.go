package driven

import (
	"context"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

// GitHubClient defines the driven port for reading pull request comments from
// the GitHub API. Comments are returned already mapped to review records with
// CommentID and ThreadID assigned.
type GitHubClient interface {
	// FetchPullRequests lists pull requests of a repository filtered by state
	// ("open", "closed" or "all").
	FetchPullRequests(ctx context.Context, repoFullName string, state string) ([]model.PullRequestRef, error)
	// FetchReviewComments returns the inline review comments of a pull request.
	// ThreadID is the ID of the root comment of each reply chain.
	FetchReviewComments(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error)
	// FetchIssueComments returns the PR-level comments of a pull request. Each
	// issue comment forms its own thread.
	FetchIssueComments(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error)
}
