// Package application contains use-case orchestration services and the pure
// thread and keyword logic they build on.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
	"github.com/ericfisherdev/greedyreview/internal/domain/port/driven"
)

// collectConcurrency bounds the number of pull requests fetched in parallel per repository.
const collectConcurrency = 4

// collectRequest represents a manual collection trigger.
type collectRequest struct {
	done chan error
}

// CollectService periodically copies pull request comments of the catalog
// repositories from GitHub into the ReviewStore.
type CollectService struct {
	ghClient     driven.GitHubClient
	reviewStore  driven.ReviewStore
	repositories []model.Repository
	interval     time.Duration
	collectCh    chan collectRequest

	mu      sync.Mutex
	cursors map[string]repoCursor
}

// NewCollectService creates a new CollectService with all required dependencies.
func NewCollectService(
	ghClient driven.GitHubClient,
	reviewStore driven.ReviewStore,
	repositories []model.Repository,
	interval time.Duration,
) *CollectService {
	return &CollectService{
		ghClient:     ghClient,
		reviewStore:  reviewStore,
		repositories: repositories,
		interval:     interval,
		collectCh:    make(chan collectRequest),
		cursors:      make(map[string]repoCursor),
	}
}

// Cursor returns the collection cursor of a repository. The second return is
// false until the repository has been collected successfully once.
func (s *CollectService) Cursor(repoFullName string) (CursorInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cursors[repoFullName]
	if !ok {
		return CursorInfo{}, false
	}
	return CursorInfo{SeenUpdatedAt: c.seenUpdatedAt, LastCollected: c.lastCollected}, true
}

// Start runs an immediate collection, then collects on the configured
// interval and serves manual Collect requests. Start blocks until the context
// is canceled.
func (s *CollectService) Start(ctx context.Context) {
	if err := s.collectAll(ctx); err != nil {
		slog.Error("initial collection failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("collect service stopped")
			return
		case <-ticker.C:
			if err := s.collectAll(ctx); err != nil {
				slog.Error("collection cycle failed", "error", err)
			}
		case req := <-s.collectCh:
			req.done <- s.collectAll(ctx)
		}
	}
}

// Collect triggers a collection cycle outside the interval. It blocks until
// the cycle completes or the context is canceled.
func (s *CollectService) Collect(ctx context.Context) error {
	done := make(chan error, 1)

	select {
	case s.collectCh <- collectRequest{done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// collectAll collects every catalog repository. Per-repository failures are
// logged and do not stop the cycle.
func (s *CollectService) collectAll(ctx context.Context) error {
	start := time.Now()

	var collectErrors, stored int
	for _, repo := range s.repositories {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		n, err := s.collectRepo(ctx, repo.ID)
		if err != nil {
			slog.Error("repo collection failed", "repo", repo.ID, "error", err)
			collectErrors++
			continue
		}
		stored += n
	}

	slog.Info("collection cycle complete",
		"repos", len(s.repositories),
		"reviews", stored,
		"errors", collectErrors,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return nil
}

// collectRepo fetches the review and issue comments of the pull requests
// updated since the repository's last successful collection and upserts them.
// It returns the number of stored reviews.
func (s *CollectService) collectRepo(ctx context.Context, repoFullName string) (int, error) {
	all, err := s.ghClient.FetchPullRequests(ctx, repoFullName, "all")
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	cursor := s.cursors[repoFullName]
	s.mu.Unlock()

	prs := changedSince(all, cursor.seenUpdatedAt)

	var (
		mu      sync.Mutex
		reviews []model.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(collectConcurrency)

	for _, pr := range prs {
		g.Go(func() error {
			prReviews, err := s.fetchPRComments(gctx, repoFullName, pr.Number)
			if err != nil {
				return err
			}

			mu.Lock()
			reviews = append(reviews, prReviews...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	if len(reviews) > 0 {
		if err := s.reviewStore.UpsertReviews(ctx, reviews); err != nil {
			return 0, fmt.Errorf("store reviews for %s: %w", repoFullName, err)
		}
	}

	s.mu.Lock()
	s.cursors[repoFullName] = repoCursor{
		seenUpdatedAt: maxTime(cursor.seenUpdatedAt, newestUpdate(all)),
		lastCollected: time.Now(),
	}
	s.mu.Unlock()

	slog.Debug("repo collected", "repo", repoFullName, "prs", len(all), "changed", len(prs), "reviews", len(reviews))

	return len(reviews), nil
}

func (s *CollectService) fetchPRComments(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error) {
	reviewComments, err := s.ghClient.FetchReviewComments(ctx, repoFullName, prNumber)
	if err != nil {
		return nil, err
	}

	issueComments, err := s.ghClient.FetchIssueComments(ctx, repoFullName, prNumber)
	if err != nil {
		return nil, err
	}

	return append(reviewComments, issueComments...), nil
}

func maxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
