package spans

import (
	"cmp"
	"slices"
)

// Filter selects a sorted, non-overlapping subset of the given spans.
//
// Candidates are visited longest first, and among spans of equal length the
// earliest start goes first. A candidate is kept if none of its tokens was
// claimed by a previously kept span. Spans with identical boundaries keep their
// input order, so the first one seen wins. Labels play no role.
//
// Empty spans are never kept. The input slice is not modified.
//
// Filter is idempotent: Filter(Filter(s)) equals Filter(s).
func Filter(candidates []Span) []Span {
	ordered := make([]Span, 0, len(candidates))
	for _, s := range candidates {
		if !s.IsEmpty() {
			ordered = append(ordered, s)
		}
	}
	slices.SortStableFunc(ordered, func(a, b Span) int {
		if c := cmp.Compare(b.Len(), a.Len()); c != 0 {
			return c
		}
		return cmp.Compare(a.Start, b.Start)
	})

	claimed := make(map[int]bool)
	kept := make([]Span, 0, len(ordered))
	for _, s := range ordered {
		if isClaimed(claimed, s) {
			continue
		}
		for i := s.Start; i < s.End; i++ {
			claimed[i] = true
		}
		kept = append(kept, s)
	}
	Sort(kept)
	return kept
}

// Dropped returns the candidates that Filter would discard, in input order.
// Empty candidates are included.
func Dropped(candidates, kept []Span) []Span {
	var dropped []Span
	remaining := slices.Clone(kept)
	for _, s := range candidates {
		if idx := slices.Index(remaining, s); idx >= 0 {
			remaining = slices.Delete(remaining, idx, idx+1)
			continue
		}
		dropped = append(dropped, s)
	}
	return dropped
}

func isClaimed(claimed map[int]bool, s Span) bool {
	for i := s.Start; i < s.End; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}
