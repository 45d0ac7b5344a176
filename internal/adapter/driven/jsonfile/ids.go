package jsonfile

import (
	"hash/fnv"
	"strconv"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

// syntheticIDBase keeps derived comment IDs above any ID GitHub issues.
const syntheticIDBase = int64(1) << 62

// AssignMissingIDs gives every record without a comment_id a stable ID derived
// from its content, and makes such records their own thread when thread_id is
// also missing. Identical records get distinct IDs by occurrence order. It
// returns the number of IDs assigned.
func AssignMissingIDs(reviews []model.Review) int {
	seen := make(map[int64]int)
	assigned := 0
	for i := range reviews {
		r := &reviews[i]
		if r.CommentID != 0 {
			continue
		}

		base := contentID(r)
		id := base
		for n := seen[base]; n > 0; n-- {
			id = nextID(id)
		}
		seen[base]++

		r.CommentID = id
		if r.ThreadID == 0 {
			r.ThreadID = id
		}
		assigned++
	}
	return assigned
}

func contentID(r *model.Review) int64 {
	h := fnv.New64a()
	for _, field := range []string{
		r.ID, r.Repo, strconv.Itoa(r.PRNumber), r.FilePath, r.Reviewer,
		r.SubmittedAt, r.Comment, r.CodeSnippet, r.URL,
	} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return syntheticIDBase | int64(h.Sum64()&uint64(syntheticIDBase-1))
}

// nextID steps within the synthetic range, wrapping at the top.
func nextID(id int64) int64 {
	return syntheticIDBase | ((id + 1) & (syntheticIDBase - 1))
}

// HasDerivedID reports whether r's comment ID was assigned by AssignMissingIDs.
func HasDerivedID(r model.Review) bool {
	return r.CommentID >= syntheticIDBase
}
