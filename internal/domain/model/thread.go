package model

// ThreadComment is a Review placed inside a Thread.
type ThreadComment struct {
	Review
	IsMainComment bool `json:"isMainComment"`
}

// Thread groups the reviews sharing a ThreadID. MainComment is the one with the
// smallest CommentID; Replies hold the rest in ascending CommentID order.
type Thread struct {
	ThreadID    int64           `json:"thread_id"`
	MainComment ThreadComment   `json:"main_comment"`
	Replies     []ThreadComment `json:"replies"`
	ReplyCount  int             `json:"reply_count"`
	IsExpanded  bool            `json:"is_expanded"` // UI state only; reset on every rebuild.
}

// Comments returns the main comment followed by the replies.
func (t Thread) Comments() []ThreadComment {
	all := make([]ThreadComment, 0, 1+len(t.Replies))
	all = append(all, t.MainComment)
	return append(all, t.Replies...)
}

// PageResult is one 1-indexed page of a thread collection.
type PageResult struct {
	Threads     []Thread `json:"threads"`
	TotalCount  int      `json:"total_count"`
	CurrentPage int      `json:"current_page"`
	TotalPages  int      `json:"total_pages"`
	PageSize    int      `json:"page_size"`
}
