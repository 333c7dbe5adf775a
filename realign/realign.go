// Package realign moves entity spans from one tokenization of a text to another,
// following an alignment.Mapping between the two.
//
// Realignment is lossy in one known case: when the computed end isn't past the start
// (both boundary tokens collapsed onto the same target token), the end is pushed
// forward until the span is non-empty. The result may then absorb a target token that
// was not part of the original entity. Every span whose token count changes is reported
// as a SpanLengthChanged diagnostic so these cases can be audited.
package realign

import (
	"fmt"

	"github.com/gomlx/spanalign/alignment"
	"github.com/gomlx/spanalign/spans"
)

// RealignmentFailure is returned when the start token of a span has no counterpart in
// the target tokenization. Guessing a new start would change what the entity refers to.
type RealignmentFailure struct {
	Span spans.Span
	// Reason tells whether the start token was elided or out of the mapping's range.
	Reason string
}

// Error implements error.
func (f *RealignmentFailure) Error() string {
	return fmt.Sprintf("can't realign span %s: %s", f.Span, f.Reason)
}

// Span returns the span in the target tokenization corresponding to s, given the
// mapping from source to target token indices.
//
// The new start is the first target token of the source start token. The new end is the
// first target token of the source token right after the span; if that token is elided
// or the span reaches the end of the document, it's one past the first target token of
// the span's last mapped token. The returned span always satisfies End > Start.
//
// It returns a *RealignmentFailure if s is empty, out of range, or its start token is elided.
func Span(s spans.Span, mapping alignment.Mapping) (spans.Span, error) {
	if s.IsEmpty() || s.Start < 0 || s.End > len(mapping) {
		return spans.Span{}, &RealignmentFailure{Span: s,
			Reason: fmt.Sprintf("span out of range for mapping of %d tokens", len(mapping))}
	}
	if len(mapping[s.Start]) == 0 {
		return spans.Span{}, &RealignmentFailure{Span: s,
			Reason: fmt.Sprintf("start token %d was elided in the target tokenization", s.Start)}
	}

	start := mapping[s.Start][0]
	var end int
	if s.End < len(mapping) && len(mapping[s.End]) > 0 {
		end = mapping[s.End][0]
	} else {
		// Walk back to the last token of the span that still has a counterpart. The start
		// token has one, so this always stops.
		last := s.End - 1
		for len(mapping[last]) == 0 {
			last--
		}
		end = mapping[last][0] + 1
	}
	for end <= start {
		end++
	}
	return spans.New(start, end, s.Label), nil
}
