package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
	"github.com/ericfisherdev/greedyreview/internal/domain/port/driven"
)

func writeExport(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

// setupExportDir writes two category exports plus an unrelated file.
func setupExportDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeExport(t, dir, "reviews_lotto_1_2_3.json", `[
		{"repo": "next-step/java-lotto-clean-playground", "pr_number": 1, "reviewer": "jane",
		 "comment": "enum을 써보면 어떨까요?", "comment_id": 11, "thread_id": 10, "is_issue_comment": false},
		{"repo": "next-step/java-lotto-clean-playground", "pr_number": 1, "reviewer": "kim",
		 "comment": "상수는 enum으로", "comment_id": 10, "thread_id": 10}
	]`)
	writeExport(t, dir, "reviews_ladder.json", `[
		{"id": "x", "repo": "next-step/java-ladder-func-playground", "comment": "Stream 활용!",
		 "comment_id": 20, "thread_id": 20},
		{"repo": "next-step/java-ladder-func-playground", "comment": "", "comment_id": 21, "thread_id": 21}
	]`)
	writeExport(t, dir, "notes.json", `{"not": "an export"}`)
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := setupExportDir(t)

	reviews, err := LoadDir(dir)

	require.NoError(t, err)
	require.Len(t, reviews, 4)
	// reviews_ladder.json sorts before reviews_lotto_1_2_3.json.
	assert.Equal(t, "x", reviews[0].ID)
	assert.Equal(t, int64(11), reviews[2].CommentID)
	assert.Equal(t, "jane", reviews[2].Reviewer)
}

func TestLoadDir_NoExports(t *testing.T) {
	_, err := LoadDir(t.TempDir())

	assert.ErrorIs(t, err, ErrNoExports)
}

func TestLoadDir_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "reviews_bad.json", `[{"comment_id": "eleven"}]`)

	_, err := LoadDir(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reviews_bad.json")
}

func TestLoadCategory(t *testing.T) {
	dir := setupExportDir(t)

	lotto, err := LoadCategory(dir, "lotto")
	require.NoError(t, err)
	assert.Len(t, lotto, 2)

	ladder, err := LoadCategory(dir, "ladder")
	require.NoError(t, err)
	assert.Len(t, ladder, 2)

	_, err = LoadCategory(dir, "racingcar")
	assert.ErrorIs(t, err, ErrNoExports)

	_, err = LoadCategory(dir, "../etc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid category")
}

func TestStore(t *testing.T) {
	store, err := OpenDir(setupExportDir(t))
	require.NoError(t, err)
	ctx := context.Background()

	n, err := store.CountReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	byKeyword, err := store.ListByKeyword(ctx, "ENUM")
	require.NoError(t, err)
	require.Len(t, byKeyword, 2)
	assert.Equal(t, int64(10), byKeyword[0].CommentID)
	assert.Equal(t, int64(11), byKeyword[1].CommentID)

	byThread, err := store.ListByThreadIDs(ctx, []int64{20, 21})
	require.NoError(t, err)
	assert.Len(t, byThread, 2)

	comments, err := store.ListComments(ctx, "LADDER")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, int64(20), comments[0].CommentID)

	none, err := store.ListByKeyword(ctx, "없음")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	assert.ErrorIs(t, store.UpsertReviews(ctx, nil), driven.ErrReadOnly)
}

func TestNewStore_DuplicateCommentKeepsLast(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "reviews_a.json", `[{"comment": "old", "comment_id": 1, "thread_id": 1}]`)
	writeExport(t, dir, "reviews_b.json", `[{"comment": "new", "comment_id": 1, "thread_id": 1}]`)

	store, err := OpenDir(dir)
	require.NoError(t, err)

	got, err := store.ListByThreadIDs(context.Background(), []int64{1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Comment)
}

// idlessExport mirrors the crawler's export format, which carries no IDs.
const idlessExport = `[
	{"repo": "next-step/java-racingcar-simulation-playground", "pr_number": 3,
	 "comment": "매직 넘버는 상수로 분리해주세요.", "reviewer": "lee", "file_path": "src/Car.java"},
	{"repo": "next-step/java-racingcar-simulation-playground", "pr_number": 3,
	 "comment": "테스트 이름을 한글로 써보면 어떨까요?", "reviewer": "lee"},
	{"repo": "next-step/java-racingcar-simulation-playground", "pr_number": 4,
	 "comment": "getter 대신 메시지를 보내보세요.", "url": "https://github.com/next-step/pull/4"}
]`

func TestOpenDir_RecordsWithoutIDsAreKept(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "reviews_racingcar.json", idlessExport)

	store, err := OpenDir(dir)
	require.NoError(t, err)
	ctx := context.Background()

	n, err := store.CountReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	comments, err := store.ListComments(ctx, "")
	require.NoError(t, err)
	require.Len(t, comments, 3)
	threads := map[int64]bool{}
	for _, c := range comments {
		assert.NotZero(t, c.CommentID)
		assert.Equal(t, c.CommentID, c.ThreadID, "an id-less record opens its own thread")
		threads[c.ThreadID] = true
	}
	assert.Len(t, threads, 3)
}

func TestLoadDir_DerivedIDsAreStable(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "reviews_racingcar.json", idlessExport)

	first, err := LoadDir(dir)
	require.NoError(t, err)
	second, err := LoadDir(dir)
	require.NoError(t, err)

	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, first[i].CommentID, second[i].CommentID)
		assert.True(t, HasDerivedID(first[i]))
	}
}

func TestNewStore_IdenticalRecordsWithoutIDs(t *testing.T) {
	r := model.Review{Repo: "a/b", Comment: "같은 코멘트"}

	store := NewStore([]model.Review{r, r, r})

	n, err := store.CountReviews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAssignMissingIDs(t *testing.T) {
	reviews := []model.Review{
		{Comment: "keep", CommentID: 7, ThreadID: 5},
		{Comment: "reply without an id", ThreadID: 5},
		{Comment: "standalone"},
	}

	assigned := AssignMissingIDs(reviews)

	assert.Equal(t, 2, assigned)
	assert.Equal(t, int64(7), reviews[0].CommentID)
	assert.False(t, HasDerivedID(reviews[0]))
	assert.True(t, HasDerivedID(reviews[1]))
	assert.Equal(t, int64(5), reviews[1].ThreadID, "an existing thread_id is kept")
	assert.Equal(t, reviews[2].CommentID, reviews[2].ThreadID)
	assert.NotEqual(t, reviews[1].CommentID, reviews[2].CommentID)
}
