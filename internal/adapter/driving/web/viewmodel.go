package web

import (
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	vm "github.com/ericfisherdev/greedyreview/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/greedyreview/internal/application"
	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

const dateLayout = "2006년 1월 2일"

// toHomeViewModel builds the home page from the ranked keywords of the
// selected repository.
func toHomeViewModel(
	repositories []model.Repository,
	repo string,
	ranked []model.KeywordCount,
	summary application.KeywordSummary,
) vm.HomeViewModel {
	options := make([]vm.RepoOption, 0, len(repositories)+1)
	options = append(options, vm.RepoOption{Label: "전체 저장소", Selected: repo == ""})
	for _, r := range repositories {
		label := r.Name
		if r.Emoji != "" {
			label = r.Emoji + " " + r.Name
		}
		options = append(options, vm.RepoOption{Value: r.ID, Label: label, Selected: r.ID == repo})
	}

	words := make([]vm.CloudWord, len(ranked))
	for i, kc := range ranked {
		words[i] = vm.CloudWord{
			Keyword:  kc.Keyword,
			Count:    kc.Count,
			FontSize: vm.FontSize(kc.Count),
			Path:     keywordPath(kc.Keyword, "", "", 1),
		}
	}

	return vm.HomeViewModel{
		Title:        "Greedy Review",
		Repo:         repo,
		Repositories: options,
		Words:        words,
		Cards: []vm.StatCard{
			{Icon: "📊", Label: "총 키워드 수", Value: summary.KeywordCount},
			{Icon: "🔥", Label: "최다 언급", Value: summary.MaxCount},
			{Icon: "💬", Label: "전체 언급 횟수", Value: summary.TotalMentions},
		},
	}
}

// toKeywordViewModel converts one page of keyword threads. Every link on the
// page carries the search text and expansion state forward.
func toKeywordViewModel(page application.KeywordPage) vm.KeywordViewModel {
	q := page.Query
	expanded := q.Expanded.String()

	threads := make([]vm.ThreadViewModel, len(page.Threads))
	for i, t := range page.Threads {
		threads[i] = toThreadViewModel(t, q.Keyword)
		threads[i].TogglePath = keywordPath(q.Keyword, q.Search, page.Toggled(t.ThreadID).String(), page.CurrentPage) +
			"#" + threads[i].Anchor()
	}

	numbers := vm.PageNumbers(page.CurrentPage, page.TotalPages)
	pages := make([]vm.PageLink, len(numbers))
	for i, n := range numbers {
		if n == 0 {
			pages[i] = vm.PageLink{Ellipsis: true}
			continue
		}
		pages[i] = vm.PageLink{
			Number:  n,
			Path:    keywordPath(q.Keyword, q.Search, expanded, n),
			Current: n == page.CurrentPage,
		}
	}

	view := vm.KeywordViewModel{
		Keyword:         q.Keyword,
		Search:          q.Search,
		Expanded:        expanded,
		MatchedThreads:  page.TotalCount,
		TotalThreads:    page.TotalThreads,
		Threads:         threads,
		ExpandAllPath:   keywordPath(q.Keyword, q.Search, q.Expanded.SetAll(true).String(), page.CurrentPage),
		CollapseAllPath: keywordPath(q.Keyword, q.Search, q.Expanded.SetAll(false).String(), page.CurrentPage),
		Pages:           pages,
	}
	if page.CurrentPage > 1 {
		view.PrevPath = keywordPath(q.Keyword, q.Search, expanded, page.CurrentPage-1)
	}
	if page.CurrentPage < page.TotalPages {
		view.NextPath = keywordPath(q.Keyword, q.Search, expanded, page.CurrentPage+1)
	}
	return view
}

func toThreadViewModel(t model.Thread, keyword string) vm.ThreadViewModel {
	replies := make([]vm.CommentViewModel, len(t.Replies))
	for i, r := range t.Replies {
		replies[i] = toCommentViewModel(r, keyword)
	}

	return vm.ThreadViewModel{
		ThreadID:   t.ThreadID,
		Main:       toCommentViewModel(t.MainComment, keyword),
		Replies:    replies,
		ReplyCount: t.ReplyCount,
		IsExpanded: t.IsExpanded,
	}
}

func toCommentViewModel(c model.ThreadComment, keyword string) vm.CommentViewModel {
	return vm.CommentViewModel{
		CommentID:     c.CommentID,
		Reviewer:      c.Reviewer,
		AuthorInitial: authorInitial(c.Reviewer),
		Date:          formatDate(c.SubmittedAt),
		RepoBadge:     repoBadge(c.Repo),
		FileBadge:     fileBadge(c.FilePath),
		SnippetHTML:   RenderDiffHunk(c.CodeSnippet),
		BodyHTML:      RenderComment(c.Comment, keyword),
		URL:           c.URL,
		IsMain:        c.IsMainComment,
	}
}

// keywordPath builds a keyword page URL, omitting default parameters.
func keywordPath(keyword, search, expanded string, page int) string {
	p := "/keyword/" + url.PathEscape(keyword)

	values := url.Values{}
	if search != "" {
		values.Set("q", search)
	}
	if expanded != "" {
		values.Set("expanded", expanded)
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if len(values) == 0 {
		return p
	}
	return p + "?" + values.Encode()
}

func authorInitial(reviewer string) string {
	r, _ := utf8.DecodeRuneInString(reviewer)
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}

// formatDate renders an ISO 8601 timestamp as a calendar date. Unparseable
// values are shown verbatim.
func formatDate(submittedAt string) string {
	t, err := time.Parse(time.RFC3339, submittedAt)
	if err != nil {
		return submittedAt
	}
	return t.Format(dateLayout)
}

func repoBadge(repo string) string {
	if _, name, ok := strings.Cut(repo, "/"); ok {
		return name
	}
	return repo
}

func fileBadge(filePath string) string {
	if filePath == "" {
		return ""
	}
	return path.Base(filePath)
}
