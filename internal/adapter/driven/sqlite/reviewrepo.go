package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
	"github.com/ericfisherdev/greedyreview/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReviewStore = (*ReviewRepo)(nil)

const reviewColumns = `comment_id, id, thread_id, repo, pr_number, file_path, reviewer,
		       submitted_at, comment, code_snippet, url, is_issue_comment`

// ErrMissingCommentID rejects records that would all collide on the zero key.
var ErrMissingCommentID = errors.New("review has no comment_id")

// ReviewRepo is the SQLite implementation of the ReviewStore port interface.
type ReviewRepo struct {
	db *DB
}

// NewReviewRepo creates a new ReviewRepo backed by the given DB.
func NewReviewRepo(db *DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// UpsertReviews inserts or updates reviews by comment ID in a single transaction.
func (r *ReviewRepo) UpsertReviews(ctx context.Context, reviews []model.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	for i, rv := range reviews {
		if rv.CommentID == 0 {
			return fmt.Errorf("review %d of %s: %w", i, rv.Repo, ErrMissingCommentID)
		}
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	const query = `
		INSERT INTO reviews (
			comment_id, id, thread_id, repo, pr_number, file_path, reviewer,
			submitted_at, comment, code_snippet, url, is_issue_comment
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(comment_id) DO UPDATE SET
			id = excluded.id,
			thread_id = excluded.thread_id,
			repo = excluded.repo,
			pr_number = excluded.pr_number,
			file_path = excluded.file_path,
			reviewer = excluded.reviewer,
			submitted_at = excluded.submitted_at,
			comment = excluded.comment,
			code_snippet = excluded.code_snippet,
			url = excluded.url,
			is_issue_comment = excluded.is_issue_comment
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rv := range reviews {
		isIssueComment := 0
		if rv.IsIssueComment {
			isIssueComment = 1
		}

		if _, err := stmt.ExecContext(ctx,
			rv.CommentID, rv.ID, rv.ThreadID, rv.Repo, rv.PRNumber, rv.FilePath, rv.Reviewer,
			rv.SubmittedAt, rv.Comment, rv.CodeSnippet, rv.URL, isIssueComment,
		); err != nil {
			return fmt.Errorf("upsert review %d: %w", rv.CommentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reviews: %w", err)
	}

	return nil
}

// ListByKeyword returns reviews whose comment contains keyword, ignoring case,
// ordered by thread and comment ID. The match is literal: % and _ carry no
// special meaning.
func (r *ReviewRepo) ListByKeyword(ctx context.Context, keyword string) ([]model.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE instr(lower(comment), lower(?)) > 0
		ORDER BY thread_id, comment_id
	`

	reviews, err := r.list(ctx, query, keyword)
	if err != nil {
		return nil, fmt.Errorf("list reviews for keyword %q: %w", keyword, err)
	}

	return reviews, nil
}

// ListByThreadIDs returns every review belonging to the given threads.
func (r *ReviewRepo) ListByThreadIDs(ctx context.Context, threadIDs []int64) ([]model.Review, error) {
	if len(threadIDs) == 0 {
		return []model.Review{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(threadIDs)), ",")
	args := make([]any, len(threadIDs))
	for i, id := range threadIDs {
		args[i] = id
	}

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE thread_id IN (` + placeholders + `)
		ORDER BY thread_id, comment_id
	`

	reviews, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews for %d threads: %w", len(threadIDs), err)
	}

	return reviews, nil
}

// ListComments returns reviews with a non-empty comment, restricted to repos
// containing repoFilter (ignoring case) when it is not blank.
func (r *ReviewRepo) ListComments(ctx context.Context, repoFilter string) ([]model.Review, error) {
	repoFilter = strings.TrimSpace(repoFilter)

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE comment <> ''
		  AND (? = '' OR instr(lower(repo), lower(?)) > 0)
		ORDER BY comment_id
	`

	reviews, err := r.list(ctx, query, repoFilter, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("list comments for repo %q: %w", repoFilter, err)
	}

	return reviews, nil
}

// CountReviews returns the number of stored reviews.
func (r *ReviewRepo) CountReviews(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}

	return n, nil
}

func (r *ReviewRepo) list(ctx context.Context, query string, args ...any) ([]model.Review, error) {
	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReview(s scanner) (*model.Review, error) {
	var rv model.Review
	var isIssueComment int

	err := s.Scan(
		&rv.CommentID, &rv.ID, &rv.ThreadID, &rv.Repo, &rv.PRNumber, &rv.FilePath, &rv.Reviewer,
		&rv.SubmittedAt, &rv.Comment, &rv.CodeSnippet, &rv.URL, &isIssueComment,
	)
	if err != nil {
		return nil, err
	}

	rv.IsIssueComment = isIssueComment != 0

	return &rv, nil
}
