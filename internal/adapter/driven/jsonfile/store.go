package jsonfile

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
	"github.com/ericfisherdev/greedyreview/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReviewStore = (*Store)(nil)

// Store serves a fixed set of reviews from memory. Records with a duplicate
// CommentID keep the last occurrence. Records without one are given a derived
// ID by AssignMissingIDs and are never merged.
type Store struct {
	reviews []model.Review
}

// NewStore builds a Store over reviews, ordered by thread and comment ID.
func NewStore(reviews []model.Review) *Store {
	reviews = slices.Clone(reviews)
	AssignMissingIDs(reviews)

	byID := make(map[int64]int, len(reviews))
	deduped := make([]model.Review, 0, len(reviews))
	for _, r := range reviews {
		if i, ok := byID[r.CommentID]; ok {
			deduped[i] = r
			continue
		}
		byID[r.CommentID] = len(deduped)
		deduped = append(deduped, r)
	}

	slices.SortStableFunc(deduped, func(a, b model.Review) int {
		return cmp.Or(cmp.Compare(a.ThreadID, b.ThreadID), cmp.Compare(a.CommentID, b.CommentID))
	})

	return &Store{reviews: deduped}
}

// OpenDir loads every export in dir into a Store.
func OpenDir(dir string) (*Store, error) {
	reviews, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return NewStore(reviews), nil
}

// UpsertReviews always fails: exports are not rewritten.
func (s *Store) UpsertReviews(_ context.Context, _ []model.Review) error {
	return driven.ErrReadOnly
}

func (s *Store) ListByKeyword(_ context.Context, keyword string) ([]model.Review, error) {
	needle := strings.ToLower(keyword)
	return s.filter(func(r model.Review) bool {
		return strings.Contains(strings.ToLower(r.Comment), needle)
	}), nil
}

func (s *Store) ListByThreadIDs(_ context.Context, threadIDs []int64) ([]model.Review, error) {
	return s.filter(func(r model.Review) bool {
		return slices.Contains(threadIDs, r.ThreadID)
	}), nil
}

func (s *Store) ListComments(_ context.Context, repoFilter string) ([]model.Review, error) {
	needle := strings.ToLower(strings.TrimSpace(repoFilter))
	return s.filter(func(r model.Review) bool {
		if r.Comment == "" {
			return false
		}
		return needle == "" || strings.Contains(strings.ToLower(r.Repo), needle)
	}), nil
}

func (s *Store) CountReviews(_ context.Context) (int, error) {
	return len(s.reviews), nil
}

func (s *Store) filter(keep func(model.Review) bool) []model.Review {
	out := []model.Review{}
	for _, r := range s.reviews {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
