package model

// KeywordCategory is a named group of keywords in the taxonomy. Keywords are
// matched case-insensitively as substrings of comment text.
type KeywordCategory struct {
	Key      string   `json:"key" yaml:"key"`
	Name     string   `json:"name" yaml:"name"`
	Emoji    string   `json:"emoji" yaml:"emoji"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Taxonomy is the ordered set of keyword categories used for statistics.
type Taxonomy struct {
	Categories []KeywordCategory `json:"categories" yaml:"categories"`
}

// Keywords flattens every category's keywords in declaration order.
// A keyword listed in several categories appears once per listing.
func (t Taxonomy) Keywords() []string {
	var n int
	for _, c := range t.Categories {
		n += len(c.Keywords)
	}

	keywords := make([]string, 0, n)
	for _, c := range t.Categories {
		keywords = append(keywords, c.Keywords...)
	}
	return keywords
}

// KeywordCount is a keyword with its occurrence count, used for ranked views.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}
