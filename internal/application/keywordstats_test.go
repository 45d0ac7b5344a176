package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

func testTaxonomy() model.Taxonomy {
	return model.Taxonomy{Categories: []model.KeywordCategory{
		{Key: "oop", Name: "객체지향 및 설계 원칙", Emoji: "🎯", Keywords: []string{"인터페이스", "SOLID", "책임"}},
		{Key: "codeQuality", Name: "코드 품질 및 Java 기본", Emoji: "✨", Keywords: []string{"enum", "Stream", "final"}},
	}}
}

func TestCountKeywords_KoreanAndEnglish(t *testing.T) {
	reviews := []model.Review{{Comment: "Use an Interface and enum here"}}

	counts := CountKeywords(reviews, testTaxonomy(), "")

	assert.Equal(t, 1, counts["enum"])
	assert.NotContains(t, counts, "인터페이스")
	assert.Equal(t, map[string]int{"enum": 1}, counts)
}

func TestCountKeywords_CountsEveryOccurrence(t *testing.T) {
	reviews := []model.Review{
		{Comment: "ENUM vs enum vs Enum"},
		{Comment: "책임을 분리하세요. 단일 책임 원칙"},
		{Comment: "stream().map() ... Stream"},
	}

	counts := CountKeywords(reviews, testTaxonomy(), "")

	assert.Equal(t, 3, counts["enum"])
	assert.Equal(t, 2, counts["책임"])
	assert.Equal(t, 2, counts["Stream"])
}

func TestCountKeywords_NonOverlapping(t *testing.T) {
	taxonomy := model.Taxonomy{Categories: []model.KeywordCategory{{Key: "x", Keywords: []string{"aa"}}}}

	counts := CountKeywords([]model.Review{{Comment: "aaaa aaa"}}, taxonomy, "")

	assert.Equal(t, 3, counts["aa"])
}

func TestCountKeywords_RepoFilter(t *testing.T) {
	reviews := []model.Review{
		{Repo: "next-step/java-racingcar-simple-playground", Comment: "final field"},
		{Repo: "next-step/java-lotto-clean-playground", Comment: "final final"},
		{Repo: "next-step/java-ladder-func-playground", Comment: "Stream"},
	}

	tests := []struct {
		name   string
		filter string
		want   map[string]int
	}{
		{name: "no filter", filter: "", want: map[string]int{"final": 3, "Stream": 1}},
		{name: "exact id", filter: "next-step/java-lotto-clean-playground", want: map[string]int{"final": 2}},
		{name: "case-insensitive substring", filter: "LADDER", want: map[string]int{"Stream": 1}},
		{name: "shared prefix", filter: "next-step/java-", want: map[string]int{"final": 3, "Stream": 1}},
		{name: "whitespace only", filter: "  ", want: map[string]int{"final": 3, "Stream": 1}},
		{name: "unknown repo", filter: "kotlin", want: map[string]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountKeywords(reviews, testTaxonomy(), tt.filter))
		})
	}
}

func TestCountKeywords_EmptyInputs(t *testing.T) {
	assert.Empty(t, CountKeywords(nil, testTaxonomy(), ""))
	assert.Empty(t, CountKeywords([]model.Review{{Comment: ""}}, testTaxonomy(), ""))
	assert.Empty(t, CountKeywords([]model.Review{{Comment: "enum"}}, model.Taxonomy{}, ""))
	assert.NotNil(t, CountKeywords(nil, model.Taxonomy{}, ""))
}

func TestCountKeywords_DuplicateAndBlankKeywords(t *testing.T) {
	taxonomy := model.Taxonomy{Categories: []model.KeywordCategory{
		{Key: "a", Keywords: []string{"test", ""}},
		{Key: "b", Keywords: []string{"test", "  "}},
	}}

	counts := CountKeywords([]model.Review{{Comment: "unit test"}}, taxonomy, "")

	assert.Equal(t, map[string]int{"test": 1}, counts)
}

func TestCountKeywords_NonNegative(t *testing.T) {
	reviews := []model.Review{{Comment: "SOLID final enum"}, {Comment: "nothing"}}

	for kw, n := range CountKeywords(reviews, testTaxonomy(), "") {
		assert.Positive(t, n, kw)
	}
}

// --- Tests for TopKeywords / SummarizeKeywords ---

func TestTopKeywords(t *testing.T) {
	counts := map[string]int{"enum": 9, "Stream": 4, "final": 9, "SOLID": 2, "책임": 12}

	ranked := TopKeywords(counts, 4, 3)

	require.Len(t, ranked, 3)
	assert.Equal(t, model.KeywordCount{Keyword: "책임", Count: 12}, ranked[0])
	// Equal counts ordered by keyword.
	assert.Equal(t, model.KeywordCount{Keyword: "enum", Count: 9}, ranked[1])
	assert.Equal(t, model.KeywordCount{Keyword: "final", Count: 9}, ranked[2])
}

func TestTopKeywords_NoLimit(t *testing.T) {
	counts := map[string]int{"a": 1, "b": 2, "c": 3}

	ranked := TopKeywords(counts, 0, 0)

	require.Len(t, ranked, 3)
	assert.Equal(t, "c", ranked[0].Keyword)
	assert.Equal(t, "a", ranked[2].Keyword)
}

func TestTopKeywords_Empty(t *testing.T) {
	ranked := TopKeywords(map[string]int{}, 4, 30)

	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestSummarizeKeywords(t *testing.T) {
	summary := SummarizeKeywords([]model.KeywordCount{
		{Keyword: "enum", Count: 7},
		{Keyword: "final", Count: 5},
	})

	assert.Equal(t, KeywordSummary{KeywordCount: 2, MaxCount: 7, TotalMentions: 12}, summary)
	assert.Equal(t, KeywordSummary{}, SummarizeKeywords(nil))
}
