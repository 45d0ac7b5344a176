package application

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

// DefaultPageSize is the number of threads per page on the keyword detail view.
const DefaultPageSize = 8

// GroupByThread groups reviews by ThreadID into conversation threads.
// Within a thread reviews are ordered by CommentID (stable for equal IDs); the
// first becomes the main comment and the rest become replies. Threads are
// returned sorted by ThreadID. The input slice is not modified.
func GroupByThread(reviews []model.Review) []model.Thread {
	byThread := make(map[int64][]model.Review)
	for _, r := range reviews {
		byThread[r.ThreadID] = append(byThread[r.ThreadID], r)
	}

	threads := make([]model.Thread, 0, len(byThread))
	for threadID, members := range byThread {
		slices.SortStableFunc(members, func(a, b model.Review) int {
			return cmp.Compare(a.CommentID, b.CommentID)
		})

		replies := make([]model.ThreadComment, 0, len(members)-1)
		for _, r := range members[1:] {
			replies = append(replies, model.ThreadComment{Review: r})
		}

		threads = append(threads, model.Thread{
			ThreadID:    threadID,
			MainComment: model.ThreadComment{Review: members[0], IsMainComment: true},
			Replies:     replies,
			ReplyCount:  len(replies),
		})
	}

	slices.SortFunc(threads, func(a, b model.Thread) int {
		return cmp.Compare(a.ThreadID, b.ThreadID)
	})

	return threads
}

// Paginate returns the 1-indexed page of threads. Out-of-range pages are
// clamped into [1, max(1, TotalPages)]; an empty collection yields zero total
// pages, current page 1 and no threads. A non-positive pageSize falls back to
// DefaultPageSize.
func Paginate(threads []model.Thread, page, pageSize int) model.PageResult {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(threads)
	totalPages := (total + pageSize - 1) / pageSize

	current := max(1, min(page, totalPages))

	start := min((current-1)*pageSize, total)
	end := min(start+pageSize, total)

	pageThreads := threads[start:end:end]
	if pageThreads == nil {
		pageThreads = []model.Thread{}
	}

	return model.PageResult{
		Threads:     pageThreads,
		TotalCount:  total,
		CurrentPage: current,
		TotalPages:  totalPages,
		PageSize:    pageSize,
	}
}

// ToggleExpansion returns a copy of threads with the IsExpanded flag of the
// thread matching threadID flipped. Unknown IDs yield an unchanged copy.
func ToggleExpansion(threads []model.Thread, threadID int64) []model.Thread {
	out := make([]model.Thread, len(threads))
	for i, t := range threads {
		if t.ThreadID == threadID {
			t.IsExpanded = !t.IsExpanded
		}
		out[i] = t
	}
	return out
}

// SetAllExpansion returns a copy of threads with every IsExpanded flag set to expand.
func SetAllExpansion(threads []model.Thread, expand bool) []model.Thread {
	out := make([]model.Thread, len(threads))
	for i, t := range threads {
		t.IsExpanded = expand
		out[i] = t
	}
	return out
}

// FilterByKeyword keeps threads in which any comment's text, reviewer or file
// path contains keyword, case-insensitively. A blank keyword returns threads
// itself.
func FilterByKeyword(threads []model.Thread, keyword string) []model.Thread {
	if strings.TrimSpace(keyword) == "" {
		return threads
	}
	needle := strings.ToLower(keyword)

	filtered := make([]model.Thread, 0, len(threads))
	for _, t := range threads {
		if threadMatches(t, needle) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func threadMatches(t model.Thread, needle string) bool {
	if commentMatches(t.MainComment, needle) {
		return true
	}
	for _, r := range t.Replies {
		if commentMatches(r, needle) {
			return true
		}
	}
	return false
}

func commentMatches(c model.ThreadComment, needle string) bool {
	return strings.Contains(strings.ToLower(c.Comment), needle) ||
		strings.Contains(strings.ToLower(c.Reviewer), needle) ||
		strings.Contains(strings.ToLower(c.FilePath), needle)
}
