// Package evaluate compares two span collections of the same documents, e.g. automatic
// versus gold annotations, and derives precision and recall.
//
// Matching is by token overlap only: labels are ignored. Any overlap between an automatic
// and a gold span counts as agreement. Label-sensitive scoring is a different policy and
// is not implemented here.
//
// The matcher is a greedy linear sweep, not an optimal assignment: each span is paired
// with at most one partner, the first overlapping one in sweep order. For typical
// annotation data (non-overlapping, roughly aligned spans) this agrees with an exact
// bipartite matching; with many small spans overlapping from both sides it may count
// fewer true positives than the optimum.
package evaluate

import (
	"fmt"

	"github.com/gomlx/spanalign/spans"
)

// Counts holds confusion counts.
type Counts struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
}

// Add returns the elementwise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		TruePositives:  c.TruePositives + o.TruePositives,
		FalsePositives: c.FalsePositives + o.FalsePositives,
		FalseNegatives: c.FalseNegatives + o.FalseNegatives,
	}
}

// String implements fmt.Stringer.
func (c Counts) String() string {
	return fmt.Sprintf("tp=%d fp=%d fn=%d", c.TruePositives, c.FalsePositives, c.FalseNegatives)
}

// Match counts agreements between auto and gold spans of one document.
//
// Both sequences must be sorted by Start and internally non-overlapping (run
// spans.Filter first otherwise). The result always satisfies
// TruePositives+FalsePositives == len(auto) and TruePositives+FalseNegatives == len(gold).
func Match(auto, gold []spans.Span) Counts {
	var c Counts
	i, j := 0, 0
	for i < len(auto) && j < len(gold) {
		x, y := auto[i], gold[j]
		switch {
		case x.Overlaps(y):
			c.TruePositives++
			i++
			j++
		case x.Start < y.Start:
			c.FalsePositives++
			i++
		default:
			// Includes x.Start == y.Start without overlap, only possible with empty spans.
			c.FalseNegatives++
			j++
		}
	}
	c.FalsePositives += len(auto) - i
	c.FalseNegatives += len(gold) - j
	return c
}
