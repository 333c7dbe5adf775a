package document

import (
	"sort"

	"github.com/gomlx/spanalign/spans"
)

// AlignmentMode defines how character offsets are snapped to token boundaries by CharSpan.
type AlignmentMode int

const (
	// Strict requires both offsets to coincide with token boundaries.
	Strict AlignmentMode = iota
	// Expand widens the offsets to the boundaries of every token they touch.
	Expand
)

// String implements fmt.Stringer.
func (m AlignmentMode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Expand:
		return "expand"
	default:
		return "unknown"
	}
}

// CharSpan converts the character range [startChar, endChar) to a span of tokens.
//
// With Strict, startChar must be the start of a token and endChar the end of a token.
// With Expand, the span covers every token overlapping the range.
// It returns false if no span can be built under the given mode, including when
// the range is empty or outside the text.
func (d *Document) CharSpan(startChar, endChar int, label string, mode AlignmentMode) (spans.Span, bool) {
	if startChar < 0 || endChar > d.CharLen() || startChar >= endChar {
		return spans.Span{}, false
	}
	n := len(d.tokens)
	switch mode {
	case Strict:
		first := sort.Search(n, func(i int) bool { return d.tokens[i].Start >= startChar })
		if first == n || d.tokens[first].Start != startChar {
			return spans.Span{}, false
		}
		last := sort.Search(n, func(i int) bool { return d.tokens[i].End >= endChar })
		if last == n || d.tokens[last].End != endChar || last < first {
			return spans.Span{}, false
		}
		return spans.New(first, last+1, label), true

	case Expand:
		// First token ending after startChar, and one past the last token starting before endChar.
		first := sort.Search(n, func(i int) bool { return d.tokens[i].End > startChar })
		end := sort.Search(n, func(i int) bool { return d.tokens[i].Start >= endChar })
		if first >= end {
			return spans.Span{}, false
		}
		return spans.New(first, end, label), true
	}
	return spans.Span{}, false
}
