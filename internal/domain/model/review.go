package model

// Review is a single code-review comment record as stored in the reviews table.
// Records are read-only to the thread and statistics logic; missing text fields
// arrive as empty strings.
type Review struct {
	ID             string `json:"id,omitempty"`
	Repo           string `json:"repo"`
	PRNumber       int    `json:"pr_number"`
	FilePath       string `json:"file_path"`
	Reviewer       string `json:"reviewer"`
	SubmittedAt    string `json:"submitted_at"` // ISO 8601, kept verbatim from the source.
	Comment        string `json:"comment"`
	CodeSnippet    string `json:"code_snippet"`
	URL            string `json:"url"`
	IsIssueComment bool   `json:"is_issue_comment"`
	CommentID      int64  `json:"comment_id"` // Monotonic per source system; orders a thread.
	ThreadID       int64  `json:"thread_id"`
}
