// Package viewmodel defines presentation-ready structs for the HTML pages.
// View models decouple rendering from domain model types.
package viewmodel

import "strconv"

// Word cloud font sizing in pixels.
const (
	BaseFontSize    = 12
	FontSizePerHit  = 3
	MaxFontSize     = 72
	pageWindowLimit = 7
)

// RepoOption is one entry of the repository selector on the home page.
type RepoOption struct {
	Value    string // Empty selects every repository.
	Label    string
	Selected bool
}

// CloudWord is a keyword rendered in the word cloud.
type CloudWord struct {
	Keyword  string
	Count    int
	FontSize int
	Path     string
}

// StatCard is one headline number below the word cloud.
type StatCard struct {
	Icon  string
	Label string
	Value int
}

// HomeViewModel holds everything the home page renders.
type HomeViewModel struct {
	Title        string
	Repo         string
	Repositories []RepoOption
	Words        []CloudWord
	Cards        []StatCard
}

// CommentViewModel holds presentation-ready data for one review comment.
type CommentViewModel struct {
	CommentID     int64
	Reviewer      string
	AuthorInitial string
	Date          string
	RepoBadge     string
	FileBadge     string
	SnippetHTML   string // Pre-rendered diff hunk, already escaped.
	BodyHTML      string // Pre-rendered sanitized markdown.
	URL           string
	IsMain        bool
}

// ThreadViewModel holds a thread and the link that flips its expansion.
type ThreadViewModel struct {
	ThreadID   int64
	Main       CommentViewModel
	Replies    []CommentViewModel
	ReplyCount int
	IsExpanded bool
	TogglePath string
}

// PageLink is one entry of the pagination bar. Ellipsis entries carry no link.
type PageLink struct {
	Number   int
	Path     string
	Current  bool
	Ellipsis bool
}

// KeywordViewModel holds everything the keyword detail page renders.
type KeywordViewModel struct {
	Keyword         string
	Search          string
	Expanded        string // Encoded expansion state carried through search and paging.
	MatchedThreads  int
	TotalThreads    int
	Threads         []ThreadViewModel
	ExpandAllPath   string
	CollapseAllPath string
	Pages           []PageLink
	PrevPath        string // Empty on the first page.
	NextPath        string // Empty on the last page.
}

// ShowPagination reports whether the pagination bar is needed.
func (vm KeywordViewModel) ShowPagination() bool {
	return len(vm.Pages) > 1
}

// FontSize returns the word cloud font size for a keyword count.
func FontSize(count int) int {
	return min(BaseFontSize+FontSizePerHit*max(count, 0), MaxFontSize)
}

// PageNumbers returns the page numbers shown in the pagination bar, with 0
// standing for an ellipsis. Up to seven pages are listed in full. Beyond that
// the first and last pages stay visible around a window near the current page.
func PageNumbers(current, total int) []int {
	if total <= 0 {
		return []int{}
	}
	current = max(1, min(current, total))

	if total <= pageWindowLimit {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	switch {
	case current <= 3:
		return []int{1, 2, 3, 4, 0, total}
	case current >= total-2:
		return []int{1, 0, total - 3, total - 2, total - 1, total}
	default:
		return []int{1, 0, current - 1, current, current + 1, 0, total}
	}
}

// PageLabel renders a page number for display.
func (p PageLink) PageLabel() string {
	if p.Ellipsis {
		return "…"
	}
	return strconv.Itoa(p.Number)
}

// Anchor is the element id a thread's toggle link scrolls back to.
func (t ThreadViewModel) Anchor() string {
	return "thread-" + strconv.FormatInt(t.ThreadID, 10)
}

// Role distinguishes the thread's opening comment from its replies for styling.
func (c CommentViewModel) Role() string {
	if c.IsMain {
		return "main"
	}
	return "reply"
}
