// Package spans defines labeled token-index intervals and the overlap filter used
// to reduce a candidate set of spans to a sorted, non-overlapping subset.
//
// A Span is half-open: it covers tokens Start, Start+1, ..., End-1 of its document.
package spans

import (
	"cmp"
	"fmt"
	"slices"
)

// Span is a labeled half-open interval [Start, End) of token indices.
// Valid spans are non-empty: End > Start.
type Span struct {
	Start int
	End   int
	Label string
}

// New returns the Span [start, end) with the given label.
func New(start, end int, label string) Span {
	return Span{Start: start, End: end, Label: label}
}

// Len returns the number of tokens covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true for zero or negative length spans.
func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Overlaps returns whether s and o share at least one token.
func (s Span) Overlaps(o Span) bool {
	return max(s.Start, o.Start) < min(s.End, o.End)
}

// String implements fmt.Stringer.
func (s Span) String() string {
	return fmt.Sprintf("[%d, %d) %q", s.Start, s.End, s.Label)
}

// Compare orders spans by Start, then by End. Labels are not compared.
func Compare(a, b Span) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}

// Sort sorts spans in place by (Start, End). The sort is stable, so spans with
// equal boundaries keep their relative order.
func Sort(spans []Span) {
	slices.SortStableFunc(spans, Compare)
}

// IsSortedNonOverlapping returns true if spans are sorted by Start and no two
// consecutive spans share a token (which, for sorted spans, implies no pair does).
func IsSortedNonOverlapping(spans []Span) bool {
	for i := 1; i < len(spans); i++ {
		if spans[i].Start < spans[i-1].Start || spans[i].Start < spans[i-1].End {
			return false
		}
	}
	return true
}
