package application

import (
	"slices"
	"strconv"
	"strings"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

// expandAllToken is the query-string form of an ExpansionState with every thread expanded.
const expandAllToken = "all"

// ExpansionState records which threads are expanded, keyed by ThreadID. It is
// owned by the caller and lives independently of any grouped thread slice, so
// it can be re-applied after comments are fetched again.
type ExpansionState struct {
	all      bool
	expanded map[int64]struct{}
}

// NewExpansionState returns a state with the given threads expanded.
func NewExpansionState(threadIDs ...int64) ExpansionState {
	s := ExpansionState{expanded: make(map[int64]struct{}, len(threadIDs))}
	for _, id := range threadIDs {
		s.expanded[id] = struct{}{}
	}
	return s
}

// ParseExpansionState parses a comma-separated list of thread IDs, or "all".
// Entries that are not integers are ignored.
func ParseExpansionState(raw string) ExpansionState {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, expandAllToken) {
		return ExpansionState{all: true, expanded: map[int64]struct{}{}}
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return NewExpansionState(ids...)
}

// IsExpanded reports whether the thread is expanded.
func (s ExpansionState) IsExpanded(threadID int64) bool {
	if s.all {
		return true
	}
	_, ok := s.expanded[threadID]
	return ok
}

// Toggle returns a new state with the thread's expansion flipped. Toggling a
// thread while every thread is expanded materializes the explicit set from
// threads first.
func (s ExpansionState) Toggle(threads []model.Thread, threadID int64) ExpansionState {
	next := NewExpansionState(s.expandedIDs(threads)...)
	if _, ok := next.expanded[threadID]; ok {
		delete(next.expanded, threadID)
	} else {
		next.expanded[threadID] = struct{}{}
	}
	return next
}

// SetAll returns a state with every thread expanded or every thread collapsed.
func (s ExpansionState) SetAll(expand bool) ExpansionState {
	if expand {
		return ExpansionState{all: true, expanded: map[int64]struct{}{}}
	}
	return NewExpansionState()
}

// Apply returns a copy of threads with IsExpanded taken from the state.
func (s ExpansionState) Apply(threads []model.Thread) []model.Thread {
	out := make([]model.Thread, len(threads))
	for i, t := range threads {
		t.IsExpanded = s.IsExpanded(t.ThreadID)
		out[i] = t
	}
	return out
}

// Capture builds a state from the IsExpanded flags of threads.
func Capture(threads []model.Thread) ExpansionState {
	var ids []int64
	for _, t := range threads {
		if t.IsExpanded {
			ids = append(ids, t.ThreadID)
		}
	}
	return NewExpansionState(ids...)
}

// IDs returns the explicitly expanded thread IDs in ascending order.
func (s ExpansionState) IDs() []int64 {
	ids := make([]int64, 0, len(s.expanded))
	for id := range s.expanded {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// String encodes the state in the form accepted by ParseExpansionState.
func (s ExpansionState) String() string {
	if s.all {
		return expandAllToken
	}
	ids := s.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func (s ExpansionState) expandedIDs(threads []model.Thread) []int64 {
	if !s.all {
		return s.IDs()
	}
	ids := make([]int64, 0, len(threads))
	for _, t := range threads {
		ids = append(ids, t.ThreadID)
	}
	return ids
}
