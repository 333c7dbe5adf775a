// Package resolve converts character-offset annotations into token spans.
//
// Offsets are first matched strictly against token boundaries. If that fails, and
// expansion is allowed, they are widened to the enclosing token boundaries and an
// ExpandedAlignment diagnostic is reported, since the entity text then differs from
// the annotated substring. If neither works the annotation fails with an
// *AlignmentFailure, which callers treat as a skip of that one annotation.
package resolve

import (
	"fmt"

	"github.com/gomlx/spanalign/diagnostics"
	"github.com/gomlx/spanalign/document"
	"github.com/gomlx/spanalign/spans"
)

// Options configure a Resolver.
type Options struct {
	// AllowExpand enables the fallback to expand alignment when strict alignment fails.
	AllowExpand bool
}

// DefaultOptions returns strict-then-expand resolution.
func DefaultOptions() Options {
	return Options{AllowExpand: true}
}

// AlignmentFailure is returned when offsets can't be mapped to a token span.
type AlignmentFailure struct {
	DocID              string
	StartChar, EndChar int
	Label              string
	// Original is the annotated substring, document.Text()[StartChar:EndChar] in characters.
	Original string
	// Attempted is the text of the widest span that was tried, empty if none could be built.
	Attempted string
	Reason    string
}

// Error implements error.
func (f *AlignmentFailure) Error() string {
	return fmt.Sprintf("document %q: entity [%d, %d, %s] does not align with token boundaries (%s); original entity was %q, attempted %q",
		f.DocID, f.StartChar, f.EndChar, f.Label, f.Reason, f.Original, f.Attempted)
}

// ExpandedAlignmentWarning describes an annotation whose offsets were widened to token boundaries.
type ExpandedAlignmentWarning struct {
	DocID                      string
	StartChar, EndChar         int
	ExpandedStart, ExpandedEnd int
	Label                      string
	Original, Expanded         string
}

// String implements fmt.Stringer.
func (w ExpandedAlignmentWarning) String() string {
	return fmt.Sprintf("entity [%d, %d, %s] does not align with token boundaries: original entity was %q, set as %q [%d, %d]",
		w.StartChar, w.EndChar, w.Label, w.Original, w.Expanded, w.ExpandedStart, w.ExpandedEnd)
}

// Resolver maps character offsets to token spans. It holds no per-document state
// and may be shared across goroutines if its Reporter is safe for concurrent use.
type Resolver struct {
	opts     Options
	reporter diagnostics.Reporter
}

// New creates a Resolver. A nil reporter discards diagnostics.
func New(opts Options, reporter diagnostics.Reporter) *Resolver {
	return &Resolver{opts: opts, reporter: diagnostics.OrDiscard(reporter)}
}

// Resolve returns the token span for the character range [startChar, endChar) of doc.
//
// It returns an *AlignmentFailure if the offsets are invalid or can't be aligned.
func (r *Resolver) Resolve(doc *document.Document, startChar, endChar int, label string) (spans.Span, error) {
	failure := &AlignmentFailure{
		DocID:     doc.ID,
		StartChar: startChar,
		EndChar:   endChar,
		Label:     label,
		Original:  doc.Substring(startChar, endChar),
	}
	switch {
	case label == "":
		failure.Reason = "empty label"
		return spans.Span{}, failure
	case startChar < 0 || endChar > doc.CharLen() || startChar >= endChar:
		failure.Reason = fmt.Sprintf("invalid offsets for text of %d characters", doc.CharLen())
		return spans.Span{}, failure
	}

	if s, ok := doc.CharSpan(startChar, endChar, label, document.Strict); ok {
		return s, nil
	}
	s, ok := doc.CharSpan(startChar, endChar, label, document.Expand)
	if !ok {
		failure.Reason = "no token overlaps the offsets"
		return spans.Span{}, failure
	}
	if !r.opts.AllowExpand {
		failure.Reason = "strict alignment failed"
		failure.Attempted = doc.SpanText(s)
		return spans.Span{}, failure
	}
	expandedStart, expandedEnd, _ := doc.CharRange(s)
	warning := ExpandedAlignmentWarning{
		DocID:         doc.ID,
		StartChar:     startChar,
		EndChar:       endChar,
		ExpandedStart: expandedStart,
		ExpandedEnd:   expandedEnd,
		Label:         label,
		Original:      failure.Original,
		Expanded:      doc.SpanText(s),
	}
	r.reporter.Report(diagnostics.Diagnostic{
		Kind:    diagnostics.ExpandedAlignment,
		DocID:   doc.ID,
		Message: warning.String(),
	})
	return s, nil
}
