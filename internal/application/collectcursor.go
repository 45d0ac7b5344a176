package application

import (
	"time"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

// repoCursor tracks per-repository incremental collection state.
type repoCursor struct {
	seenUpdatedAt time.Time
	lastCollected time.Time
}

// CursorInfo is an exported view of a repository's collection cursor,
// used for observability and testing.
type CursorInfo struct {
	SeenUpdatedAt time.Time // Newest pull request update already collected.
	LastCollected time.Time
}

// newestUpdate finds the most recent UpdatedAt across prs. Returns the zero
// time if the slice is empty.
func newestUpdate(prs []model.PullRequestRef) time.Time {
	var newest time.Time
	for _, pr := range prs {
		if pr.UpdatedAt.After(newest) {
			newest = pr.UpdatedAt
		}
	}
	return newest
}

// changedSince keeps the pull requests updated after since. A zero since keeps
// everything, and pull requests without an update time are always kept.
func changedSince(prs []model.PullRequestRef, since time.Time) []model.PullRequestRef {
	if since.IsZero() {
		return prs
	}

	changed := make([]model.PullRequestRef, 0, len(prs))
	for _, pr := range prs {
		if pr.UpdatedAt.IsZero() || pr.UpdatedAt.After(since) {
			changed = append(changed, pr)
		}
	}
	return changed
}
