package web

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const highlightClass = "keyword-highlight"

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy

	// verbatimPattern matches markdown that must reach the renderer unchanged:
	// fenced blocks (first, so their backticks are never read as inline code),
	// inline code, HTML comments, link destinations, reference definitions,
	// autolinks, raw HTML tags and bare URLs.
	verbatimPattern = regexp.MustCompile(strings.Join([]string{
		"(?s:```.*?```)",
		"`[^`]*`",
		`(?s:<!--.*?-->)`,
		`\]\([^)]*\)`,
		`(?m:^[ \t]{0,3}\[[^\]]+\]:[ \t]*\S+)`,
		`<[a-zA-Z][a-zA-Z0-9+.\-]*:[^>\s]*>`,
		`</?[a-zA-Z][^<>]*>`,
		`(?:https?://|www\.)[^\s<>()]+`,
	}, "|"))
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
	htmlSanitizer.AllowAttrs("class").
		Matching(regexp.MustCompile("^" + highlightClass + "$")).
		OnElements("mark")
}

// RenderMarkdown converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// RenderComment renders comment markdown with every case-insensitive
// occurrence of keyword outside code marked for highlighting.
func RenderComment(src, keyword string) string {
	return RenderMarkdown(HighlightKeyword(src, keyword))
}

// HighlightKeyword wraps keyword matches in src with a highlight mark. Code,
// URLs and HTML tags are left untouched, so only prose and link text get
// marked. The keyword is matched literally, never as a pattern.
func HighlightKeyword(src, keyword string) string {
	keyword = strings.TrimSpace(keyword)
	if src == "" || keyword == "" {
		return src
	}

	match := regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))
	mark := func(s string) string {
		return match.ReplaceAllStringFunc(s, func(m string) string {
			return `<mark class="` + highlightClass + `">` + m + `</mark>`
		})
	}

	var buf strings.Builder
	buf.Grow(len(src))

	last := 0
	for _, loc := range verbatimPattern.FindAllStringIndex(src, -1) {
		buf.WriteString(mark(src[last:loc[0]]))
		buf.WriteString(src[loc[0]:loc[1]])
		last = loc[1]
	}
	buf.WriteString(mark(src[last:]))

	return buf.String()
}

// RenderDiffHunk converts a unified diff hunk into HTML with line-level CSS classes.
// Each line is wrapped in a <span> with a class indicating its diff role:
//   - diff-add: added lines (prefix "+")
//   - diff-del: deleted lines (prefix "-")
//   - diff-header: hunk headers (prefix "@@")
//   - diff-ctx: context lines (no special prefix)
//
// Line text is escaped rather than sanitized so generic types such as
// List<String> survive intact.
func RenderDiffHunk(hunk string) string {
	if hunk == "" {
		return ""
	}

	lines := strings.Split(hunk, "\n")
	var buf strings.Builder
	buf.Grow(len(hunk) * 2)

	for i, line := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}

		buf.WriteString(`<span class="`)
		buf.WriteString(classForDiffLine(line))
		buf.WriteString(`">`)
		buf.WriteString(templ.EscapeString(line))
		buf.WriteString(`</span>`)
	}

	return buf.String()
}

func classForDiffLine(line string) string {
	if strings.HasPrefix(line, "@@") {
		return "diff-header"
	}
	if strings.HasPrefix(line, "+") {
		return "diff-add"
	}
	if strings.HasPrefix(line, "-") {
		return "diff-del"
	}
	return "diff-ctx"
}
