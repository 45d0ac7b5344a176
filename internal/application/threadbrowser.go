package application

import (
	"context"
	"errors"
	"sync"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

// ErrStaleFetch is returned by ThreadBrowser.SetKeyword when a newer keyword
// was selected while the fetch was in flight. The stale result is discarded.
var ErrStaleFetch = errors.New("thread fetch superseded by a newer keyword")

// KeywordThreadFetcher loads the threads for a keyword. ThreadService
// satisfies it.
type KeywordThreadFetcher interface {
	KeywordThreads(ctx context.Context, keyword string) []model.Thread
}

// BrowserView is the render-ready snapshot of a ThreadBrowser.
type BrowserView struct {
	Keyword        string
	Search         string
	Loading        bool
	TotalThreads   int // Before the search filter.
	MatchedThreads int
	Page           model.PageResult
	Expanded       ExpansionState // Expansion flags of every loaded thread.
}

// ThreadBrowser holds the state of a keyword detail screen: the threads for the
// selected keyword, a search filter, the current page and expansion flags.
// Changing the keyword cancels the in-flight fetch and ignores late results
// using a request sequence number. It is safe for concurrent use.
type ThreadBrowser struct {
	fetcher  KeywordThreadFetcher
	pageSize int

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	keyword string
	threads []model.Thread
	search  string
	page    int
	loading bool
}

// NewThreadBrowser creates a browser with no keyword selected.
func NewThreadBrowser(fetcher KeywordThreadFetcher, pageSize int) *ThreadBrowser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ThreadBrowser{
		fetcher:  fetcher,
		pageSize: pageSize,
		threads:  []model.Thread{},
		page:     1,
	}
}

// SetKeyword selects a keyword: it cancels any in-flight fetch, clears the
// current threads, resets to page 1 and fetches the new keyword's threads.
// It blocks until the fetch returns. If another SetKeyword started meanwhile,
// the result is dropped and ErrStaleFetch is returned.
func (b *ThreadBrowser) SetKeyword(ctx context.Context, keyword string) error {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.seq++
	seq := b.seq
	fetchCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.keyword = keyword
	b.threads = []model.Thread{}
	b.page = 1
	b.loading = true
	b.mu.Unlock()

	defer cancel()

	threads := b.fetcher.KeywordThreads(fetchCtx, keyword)

	b.mu.Lock()
	defer b.mu.Unlock()

	if seq != b.seq {
		return ErrStaleFetch
	}

	b.threads = threads
	b.loading = false
	b.cancel = nil

	return nil
}

// Search sets the thread search filter and returns to the first page.
func (b *ThreadBrowser) Search(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.search = query
	b.page = 1
}

// SetPage selects a page. Out-of-range pages are clamped when viewed.
func (b *ThreadBrowser) SetPage(page int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.page = page
}

// Toggle flips the expansion of one thread.
func (b *ThreadBrowser) Toggle(threadID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.threads = ToggleExpansion(b.threads, threadID)
}

// ExpandAll expands every thread.
func (b *ThreadBrowser) ExpandAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.threads = SetAllExpansion(b.threads, true)
}

// CollapseAll collapses every thread.
func (b *ThreadBrowser) CollapseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.threads = SetAllExpansion(b.threads, false)
}

// View filters the threads by the search query and returns the current page.
func (b *ThreadBrowser) View() BrowserView {
	b.mu.Lock()
	defer b.mu.Unlock()

	matched := FilterByKeyword(b.threads, b.search)

	return BrowserView{
		Keyword:        b.keyword,
		Search:         b.search,
		Loading:        b.loading,
		TotalThreads:   len(b.threads),
		MatchedThreads: len(matched),
		Page:           Paginate(matched, b.page, b.pageSize),
		Expanded:       Capture(b.threads),
	}
}
