package diagnostics

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := &Collector{}
	var forwarded int
	r := Multi(c, nil, ReporterFunc(func(Diagnostic) { forwarded++ }))

	r.Report(Diagnostic{Kind: ExpandedAlignment, DocID: "a", Message: "widened"})
	r.Report(Diagnostic{Kind: AlignmentFailure, DocID: "a", Message: "skipped", Err: errors.New("boom")})
	r.Report(Diagnostic{Kind: ExpandedAlignment, DocID: "b", Message: "widened"})

	require.Len(t, c.All(), 3)
	assert.Equal(t, 3, forwarded)
	assert.Len(t, c.OfKind(ExpandedAlignment), 2)
	assert.Equal(t, map[Kind]int{ExpandedAlignment: 2, AlignmentFailure: 1}, c.Counts())
	assert.Equal(t, `AlignmentFailure: document "a": skipped: boom`, c.All()[1].String())
}

func TestKind(t *testing.T) {
	assert.Equal(t, "RealignmentFailure", RealignmentFailure.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.True(t, EntityCountMismatch.IsWarning())
	assert.False(t, SpanLengthChanged.IsWarning())
}

func TestOrDiscard(t *testing.T) {
	OrDiscard(nil).Report(Diagnostic{})
	c := &Collector{}
	OrDiscard(c).Report(Diagnostic{})
	assert.Len(t, c.All(), 1)
	KlogReporter{}.Report(Diagnostic{Kind: SpanLengthChanged, DocID: "x", Message: "logged"})
}
