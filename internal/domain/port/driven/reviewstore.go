package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

// ErrReadOnly is returned by ReviewStore implementations that cannot persist
// reviews, such as the hosted PostgREST table accessed with an anonymous key.
var ErrReadOnly = errors.New("review store is read-only")

// ReviewStore defines the driven port for persisting and querying review
// comment records.
type ReviewStore interface {
	// UpsertReviews inserts or updates reviews keyed by CommentID.
	UpsertReviews(ctx context.Context, reviews []model.Review) error
	// ListByKeyword returns reviews whose comment text contains keyword,
	// matched case-insensitively.
	ListByKeyword(ctx context.Context, keyword string) ([]model.Review, error)
	ListByThreadIDs(ctx context.Context, threadIDs []int64) ([]model.Review, error)
	// ListComments returns the reviews used for keyword statistics. A non-empty
	// repoFilter restricts the result to repos containing it case-insensitively.
	ListComments(ctx context.Context, repoFilter string) ([]model.Review, error)
	CountReviews(ctx context.Context) (int, error)
}
