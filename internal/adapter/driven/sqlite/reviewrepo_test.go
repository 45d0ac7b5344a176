package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

func makeReview(repo string, threadID, commentID int64, comment string) model.Review {
	return model.Review{
		Repo:        repo,
		PRNumber:    12,
		FilePath:    "src/main/java/lotto/Lotto.java",
		Reviewer:    "reviewer",
		SubmittedAt: "2024-05-01T10:00:00Z",
		Comment:     comment,
		CodeSnippet: "@@ -1,3 +1,4 @@",
		URL:         "https://github.com/next-step/java-lotto/pull/12#discussion_r1",
		CommentID:   commentID,
		ThreadID:    threadID,
	}
}

func seedReviews(t *testing.T, repo *ReviewRepo) {
	t.Helper()
	require.NoError(t, repo.UpsertReviews(context.Background(), []model.Review{
		makeReview("next-step/java-lotto-clean-playground", 1, 11, "이 부분은 Enum으로 바꿔보면 어떨까요?"),
		makeReview("next-step/java-lotto-clean-playground", 1, 10, "상수를 enum으로 관리해 보세요"),
		makeReview("next-step/java-ladder-func-playground", 2, 20, "Stream 대신 for문이 더 읽기 쉬울 수도 있어요"),
		makeReview("next-step/java-ladder-func-playground", 3, 30, ""),
		{Repo: "next-step/java-lotto-clean-playground", CommentID: 40, ThreadID: 40, Comment: "좋습니다 100%", IsIssueComment: true},
	}))
}

func TestReviewRepo_UpsertAndCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepo(db)
	ctx := context.Background()

	seedReviews(t, repo)

	n, err := repo.CountReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	updated := makeReview("next-step/java-lotto-clean-playground", 1, 10, "수정된 코멘트")
	require.NoError(t, repo.UpsertReviews(ctx, []model.Review{updated}))

	n, err = repo.CountReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	got, err := repo.ListByThreadIDs(ctx, []int64{1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, updated, got[0])
}

func TestReviewRepo_UpsertEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepo(db)

	require.NoError(t, repo.UpsertReviews(context.Background(), nil))
}

func TestReviewRepo_UpsertRejectsMissingCommentID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepo(db)
	ctx := context.Background()

	err := repo.UpsertReviews(ctx, []model.Review{
		makeReview("next-step/java-racingcar", 5, 50, "첫 코멘트"),
		{Repo: "next-step/java-racingcar", Comment: "id 없는 코멘트"},
	})

	require.ErrorIs(t, err, ErrMissingCommentID)
	n, err := repo.CountReviews(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "the whole batch is rejected")
}

func TestReviewRepo_ListByKeyword(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepo(db)
	ctx := context.Background()
	seedReviews(t, repo)

	got, err := repo.ListByKeyword(ctx, "ENUM")

	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ordered by thread, then comment ID.
	assert.Equal(t, int64(10), got[0].CommentID)
	assert.Equal(t, int64(11), got[1].CommentID)
	assert.Equal(t, "src/main/java/lotto/Lotto.java", got[0].FilePath)
	assert.Equal(t, "@@ -1,3 +1,4 @@", got[0].CodeSnippet)
}

func TestReviewRepo_ListByKeyword_LiteralMatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepo(db)
	ctx := context.Background()
	seedReviews(t, repo)

	got, err := repo.ListByKeyword(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsIssueComment)

	got, err = repo.ListByKeyword(ctx, "%")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = repo.ListByKeyword(ctx, "없는키워드")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReviewRepo_ListByThreadIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepo(db)
	ctx := context.Background()
	seedReviews(t, repo)

	got, err := repo.ListByThreadIDs(ctx, []int64{2, 1, 99})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{10, 11, 20}, []int64{got[0].CommentID, got[1].CommentID, got[2].CommentID})

	none, err := repo.ListByThreadIDs(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestReviewRepo_ListComments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepo(db)
	ctx := context.Background()
	seedReviews(t, repo)

	tests := []struct {
		name   string
		filter string
		want   int
	}{
		{name: "all repos skip empty comments", filter: "", want: 4},
		{name: "blank filter", filter: "   ", want: 4},
		{name: "substring", filter: "lotto", want: 3},
		{name: "case-insensitive", filter: "LADDER", want: 1},
		{name: "no match", filter: "racingcar", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListComments(ctx, tt.filter)

			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}
