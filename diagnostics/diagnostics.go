// Package diagnostics is the reporting channel for non-fatal alignment events.
//
// Alignment code never decides whether a divergence is acceptable: it reports a
// Diagnostic and moves on. Callers pick a Reporter: KlogReporter logs, Collector
// keeps the diagnostics for inspection or summaries, Multi fans out to several.
package diagnostics

import (
	"fmt"
	"strings"
	"sync"
)

// Kind classifies a Diagnostic.
type Kind int

const (
	// ExpandedAlignment: offsets didn't match token boundaries and were widened.
	ExpandedAlignment Kind = iota
	// AlignmentFailure: offsets couldn't be mapped to tokens; the annotation was skipped.
	AlignmentFailure
	// OverlapDropped: a span overlapped a longer (or earlier) one and was discarded.
	OverlapDropped
	// RealignmentFailure: a span's start token has no counterpart in the new tokenization; the span was skipped.
	RealignmentFailure
	// SpanLengthChanged: a realigned span covers a different number of tokens than the original.
	SpanLengthChanged
	// EntityCountMismatch: a realigned document has a different number of entities than the original.
	EntityCountMismatch
)

var kindNames = [...]string{
	ExpandedAlignment:   "ExpandedAlignment",
	AlignmentFailure:    "AlignmentFailure",
	OverlapDropped:      "OverlapDropped",
	RealignmentFailure:  "RealignmentFailure",
	SpanLengthChanged:   "SpanLengthChanged",
	EntityCountMismatch: "EntityCountMismatch",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsWarning returns whether the kind signals a likely correctness problem, as opposed
// to an expected, auditable divergence.
func (k Kind) IsWarning() bool {
	switch k {
	case AlignmentFailure, RealignmentFailure, EntityCountMismatch:
		return true
	default:
		return false
	}
}

// Diagnostic is a single reported event.
type Diagnostic struct {
	Kind    Kind
	DocID   string
	Message string
	// Err is the underlying failure, if any.
	Err error
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: document %q: %s", d.Kind, d.DocID, d.Message)
	if d.Err != nil {
		fmt.Fprintf(&b, ": %v", d.Err)
	}
	return b.String()
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(d Diagnostic)

// Report implements Reporter.
func (fn ReporterFunc) Report(d Diagnostic) { fn(d) }

// Discard is a Reporter that drops everything.
var Discard Reporter = ReporterFunc(func(Diagnostic) {})

// OrDiscard returns r, or Discard if r is nil.
func OrDiscard(r Reporter) Reporter {
	if r == nil {
		return Discard
	}
	return r
}

// Multi returns a Reporter that forwards every diagnostic to all reporters, in order.
func Multi(reporters ...Reporter) Reporter {
	return ReporterFunc(func(d Diagnostic) {
		for _, r := range reporters {
			if r != nil {
				r.Report(d)
			}
		}
	})
}

// Collector accumulates diagnostics. It is safe for concurrent use, so one Collector
// can serve several goroutines processing different documents.
type Collector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

// Report implements Reporter.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// All returns a copy of the collected diagnostics, in report order.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.diagnostics...)
}

// OfKind returns the collected diagnostics of the given kind.
func (c *Collector) OfKind(kind Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.All() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Counts returns the number of collected diagnostics per kind.
func (c *Collector) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, d := range c.All() {
		counts[d.Kind]++
	}
	return counts
}
