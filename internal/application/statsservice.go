package application

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
	"github.com/ericfisherdev/greedyreview/internal/domain/port/driven"
)

// StatsService computes keyword statistics over the stored reviews using the
// taxonomy it was constructed with.
type StatsService struct {
	reviewStore driven.ReviewStore
	taxonomy    model.Taxonomy
	minCount    int
	limit       int
	logger      *slog.Logger
}

// NewStatsService creates a StatsService. minCount and limit are the default
// ranking policy applied by TopKeywords.
func NewStatsService(
	reviewStore driven.ReviewStore,
	taxonomy model.Taxonomy,
	minCount int,
	limit int,
	logger *slog.Logger,
) *StatsService {
	return &StatsService{
		reviewStore: reviewStore,
		taxonomy:    taxonomy,
		minCount:    minCount,
		limit:       limit,
		logger:      logger,
	}
}

// Taxonomy returns the keyword taxonomy used for counting.
func (s *StatsService) Taxonomy() model.Taxonomy {
	return s.taxonomy
}

// Policy returns the default minimum count and limit used by TopKeywords.
func (s *StatsService) Policy() (minCount, limit int) {
	return s.minCount, s.limit
}

// KeywordCounts returns the raw keyword counts, optionally restricted to
// repositories matching repoFilter. A store failure yields an empty map.
func (s *StatsService) KeywordCounts(ctx context.Context, repoFilter string) map[string]int {
	reviews, err := s.reviewStore.ListComments(ctx, repoFilter)
	if err != nil {
		s.logger.Error("failed to fetch comments for keyword stats", "repo", repoFilter, "error", err)
		return map[string]int{}
	}

	// Repo matching is re-applied so every adapter yields the same semantics.
	return CountKeywords(reviews, s.taxonomy, repoFilter)
}

// TopKeywords ranks keyword counts using the service's default policy.
func (s *StatsService) TopKeywords(ctx context.Context, repoFilter string) []model.KeywordCount {
	return s.TopKeywordsWith(ctx, repoFilter, s.minCount, s.limit)
}

// TopKeywordsWith ranks keyword counts with an explicit minimum count and limit.
func (s *StatsService) TopKeywordsWith(ctx context.Context, repoFilter string, minCount, limit int) []model.KeywordCount {
	return TopKeywords(s.KeywordCounts(ctx, repoFilter), minCount, limit)
}
