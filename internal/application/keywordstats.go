package application

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

// CountKeywords counts non-overlapping, case-insensitive occurrences of every
// taxonomy keyword across the comment text of reviews. When repoFilter is
// non-empty only reviews whose Repo contains it (case-insensitively) are
// scanned. Keywords that never occur are absent from the result.
//
// A keyword listed under several categories is counted once per occurrence in
// the text, under its own spelling as the map key.
func CountKeywords(reviews []model.Review, taxonomy model.Taxonomy, repoFilter string) map[string]int {
	counts := make(map[string]int)

	keywords := uniqueKeywords(taxonomy)
	if len(keywords) == 0 {
		return counts
	}

	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	repoNeedle := strings.ToLower(strings.TrimSpace(repoFilter))

	for _, r := range reviews {
		if r.Comment == "" {
			continue
		}
		if repoNeedle != "" && !strings.Contains(strings.ToLower(r.Repo), repoNeedle) {
			continue
		}

		text := strings.ToLower(r.Comment)
		for i, kw := range lowered {
			if n := strings.Count(text, kw); n > 0 {
				counts[keywords[i]] += n
			}
		}
	}

	return counts
}

// uniqueKeywords flattens the taxonomy, dropping blank keywords and repeated
// spellings while keeping first-seen order.
func uniqueKeywords(taxonomy model.Taxonomy) []string {
	all := taxonomy.Keywords()
	seen := make(map[string]struct{}, len(all))
	keywords := make([]string, 0, len(all))

	for _, kw := range all {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}

	return keywords
}

// TopKeywords ranks counts for display: entries below minCount are dropped, the
// rest are sorted by count descending then keyword ascending, and the list is
// truncated to limit entries. A non-positive limit keeps every entry.
func TopKeywords(counts map[string]int, minCount, limit int) []model.KeywordCount {
	ranked := make([]model.KeywordCount, 0, len(counts))
	for kw, n := range counts {
		if n < minCount || n <= 0 {
			continue
		}
		ranked = append(ranked, model.KeywordCount{Keyword: kw, Count: n})
	}

	slices.SortFunc(ranked, func(a, b model.KeywordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Keyword, b.Keyword)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}

// KeywordSummary holds the headline numbers shown next to the keyword cloud.
type KeywordSummary struct {
	KeywordCount  int `json:"keyword_count"`
	MaxCount      int `json:"max_count"`
	TotalMentions int `json:"total_mentions"`
}

// SummarizeKeywords computes the headline numbers for a ranked keyword list.
func SummarizeKeywords(ranked []model.KeywordCount) KeywordSummary {
	summary := KeywordSummary{KeywordCount: len(ranked)}
	for _, kc := range ranked {
		summary.MaxCount = max(summary.MaxCount, kc.Count)
		summary.TotalMentions += kc.Count
	}
	return summary
}
