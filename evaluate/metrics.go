package evaluate

import (
	"fmt"

	"github.com/gomlx/spanalign/document"
	"github.com/gomlx/spanalign/spans"
	"github.com/pkg/errors"
)

// ErrUndefinedMetric is returned when a metric's denominator is zero.
var ErrUndefinedMetric = errors.New("undefined metric")

// Precision returns tp/(tp+fp), or an error wrapping ErrUndefinedMetric if there are no
// automatic spans.
func (c Counts) Precision() (float64, error) {
	denominator := c.TruePositives + c.FalsePositives
	if denominator == 0 {
		return 0, errors.Wrap(ErrUndefinedMetric, "precision: no positive predictions")
	}
	return float64(c.TruePositives) / float64(denominator), nil
}

// Recall returns tp/(tp+fn), or an error wrapping ErrUndefinedMetric if there are no
// gold spans.
func (c Counts) Recall() (float64, error) {
	denominator := c.TruePositives + c.FalseNegatives
	if denominator == 0 {
		return 0, errors.Wrap(ErrUndefinedMetric, "recall: no gold spans")
	}
	return float64(c.TruePositives) / float64(denominator), nil
}

// F1 returns the harmonic mean of precision and recall. It's undefined if either is,
// or if both are zero.
func (c Counts) F1() (float64, error) {
	p, err := c.Precision()
	if err != nil {
		return 0, errors.WithMessage(err, "f1")
	}
	r, err := c.Recall()
	if err != nil {
		return 0, errors.WithMessage(err, "f1")
	}
	if p+r == 0 {
		return 0, errors.Wrap(ErrUndefinedMetric, "f1: precision and recall are both zero")
	}
	return 2 * p * r / (p + r), nil
}

// Metric is a derived value that may be undefined.
type Metric struct {
	Value   float64
	Defined bool
}

func newMetric(value float64, err error) Metric {
	return Metric{Value: value, Defined: err == nil}
}

// String implements fmt.Stringer.
func (m Metric) String() string {
	if !m.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", m.Value)
}

// Report summarizes an evaluation run.
type Report struct {
	Counts Counts
	// Documents is the number of documents that contributed counts; Skipped is the
	// number with neither automatic nor gold spans.
	Documents, Skipped int
	// MissingAuto and MissingGold count the documents without the automatic or the gold
	// collection. Only set by Corpus.
	MissingAuto, MissingGold int

	Precision, Recall, F1 Metric
}

// Aggregator sums confusion counts across documents. The zero value is ready to use.
type Aggregator struct {
	counts             Counts
	documents, skipped int
}

// Add matches the spans of one document and adds the counts to the total.
// Documents with no spans on either side are skipped.
func (a *Aggregator) Add(auto, gold []spans.Span) Counts {
	if len(auto) == 0 && len(gold) == 0 {
		a.skipped++
		return Counts{}
	}
	c := Match(auto, gold)
	a.counts = a.counts.Add(c)
	a.documents++
	return c
}

// Counts returns the accumulated counts.
func (a *Aggregator) Counts() Counts {
	return a.counts
}

// Report returns the accumulated counts and derived metrics.
func (a *Aggregator) Report() Report {
	return Report{
		Counts:    a.counts,
		Documents: a.documents,
		Skipped:   a.skipped,
		Precision: newMetric(a.counts.Precision()),
		Recall:    newMetric(a.counts.Recall()),
		F1:        newMetric(a.counts.F1()),
	}
}

// Corpus compares the autoSource and goldSource span collections of every document.
// Use document.EntsSource to select the primary entities. A document without one of
// the collections counts as having no spans there, and is counted in Report.MissingAuto or
// Report.MissingGold: a name missing from every document is most likely a typo.
//
// Collections that are not sorted and non-overlapping are reduced with spans.Filter
// before matching.
func Corpus(docs []*document.Document, autoSource, goldSource string) Report {
	var agg Aggregator
	var missingAuto, missingGold int
	for _, doc := range docs {
		auto, ok := prepare(doc, autoSource)
		if !ok {
			missingAuto++
		}
		gold, ok := prepare(doc, goldSource)
		if !ok {
			missingGold++
		}
		agg.Add(auto, gold)
	}
	report := agg.Report()
	report.MissingAuto, report.MissingGold = missingAuto, missingGold
	return report
}

func prepare(doc *document.Document, source string) ([]spans.Span, bool) {
	list, ok := doc.Source(source)
	if spans.IsSortedNonOverlapping(list) {
		return list, ok
	}
	return spans.Filter(list), ok
}
