package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
	"github.com/ericfisherdev/greedyreview/internal/domain/port/driven"
)

// ThreadService loads review records from the ReviewStore and assembles them
// into threads. Store failures are logged and surface as empty collections;
// callers never see data-access errors.
type ThreadService struct {
	reviewStore driven.ReviewStore
	logger      *slog.Logger
}

// NewThreadService creates a ThreadService backed by the given store.
func NewThreadService(reviewStore driven.ReviewStore, logger *slog.Logger) *ThreadService {
	return &ThreadService{
		reviewStore: reviewStore,
		logger:      logger,
	}
}

// KeywordThreads returns the threads of every review whose comment mentions keyword.
func (s *ThreadService) KeywordThreads(ctx context.Context, keyword string) []model.Thread {
	return GroupByThread(s.SearchReviews(ctx, keyword))
}

// SearchReviews returns the flat list of reviews whose comment mentions keyword.
func (s *ThreadService) SearchReviews(ctx context.Context, keyword string) []model.Review {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []model.Review{}
	}

	reviews, err := s.reviewStore.ListByKeyword(ctx, keyword)
	if err != nil {
		s.logger.Error("failed to fetch reviews by keyword", "keyword", keyword, "error", err)
		return []model.Review{}
	}

	return reviews
}

// ThreadsByIDs returns the complete threads for the given thread IDs.
func (s *ThreadService) ThreadsByIDs(ctx context.Context, threadIDs []int64) []model.Thread {
	if len(threadIDs) == 0 {
		return []model.Thread{}
	}

	reviews, err := s.reviewStore.ListByThreadIDs(ctx, threadIDs)
	if err != nil {
		s.logger.Error("failed to fetch reviews by thread", "thread_ids", threadIDs, "error", err)
		return []model.Thread{}
	}

	return GroupByThread(reviews)
}

// ThreadQuery selects one page of the threads mentioning a keyword.
type ThreadQuery struct {
	Keyword  string
	Search   string // Narrows threads by comment, reviewer or file path.
	Expanded ExpansionState
	Page     int
	PageSize int
}

// KeywordPage is one page of keyword threads with the query that produced it.
type KeywordPage struct {
	Query        ThreadQuery
	TotalThreads int // Threads mentioning the keyword before Search is applied.
	model.PageResult

	threads []model.Thread
}

// Toggled returns the query's expansion state with threadID flipped, resolved
// against every thread of the keyword rather than only the current page.
func (p KeywordPage) Toggled(threadID int64) ExpansionState {
	return p.Query.Expanded.Toggle(p.threads, threadID)
}

// KeywordPage fetches the keyword's threads, applies the expansion state and
// search filter, and returns the requested page.
func (s *ThreadService) KeywordPage(ctx context.Context, q ThreadQuery) KeywordPage {
	threads := q.Expanded.Apply(s.KeywordThreads(ctx, q.Keyword))
	filtered := FilterByKeyword(threads, q.Search)

	return KeywordPage{
		Query:        q,
		TotalThreads: len(threads),
		PageResult:   Paginate(filtered, q.Page, q.PageSize),
		threads:      threads,
	}
}
