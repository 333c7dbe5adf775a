package evaluate

import (
	"math/rand"
	"testing"

	"github.com/gomlx/spanalign/document"
	"github.com/gomlx/spanalign/spans"
	"github.com/gomlx/spanalign/tokenizers/blank"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		auto, gold []spans.Span
		want       Counts
	}{
		{
			name: "label is ignored",
			auto: []spans.Span{spans.New(0, 3, "X")},
			gold: []spans.Span{spans.New(0, 3, "Y")},
			want: Counts{TruePositives: 1},
		},
		{
			name: "no overlap",
			auto: []spans.Span{spans.New(0, 2, "X"), spans.New(5, 7, "X")},
			gold: []spans.Span{spans.New(3, 4, "X")},
			want: Counts{FalsePositives: 2, FalseNegatives: 1},
		},
		{
			name: "partial overlap counts",
			auto: []spans.Span{spans.New(1, 4, "X"), spans.New(6, 8, "X")},
			gold: []spans.Span{spans.New(3, 6, "X"), spans.New(7, 9, "X")},
			want: Counts{TruePositives: 2},
		},
		{
			name: "adjacent is not overlap",
			auto: []spans.Span{spans.New(0, 2, "X")},
			gold: []spans.Span{spans.New(2, 4, "X")},
			want: Counts{FalsePositives: 1, FalseNegatives: 1},
		},
		{
			name: "gold first",
			auto: []spans.Span{spans.New(5, 6, "X")},
			gold: []spans.Span{spans.New(0, 1, "X"), spans.New(5, 7, "X")},
			want: Counts{TruePositives: 1, FalseNegatives: 1},
		},
		{
			name: "one side empty",
			auto: nil,
			gold: []spans.Span{spans.New(0, 1, "X"), spans.New(2, 3, "X")},
			want: Counts{FalseNegatives: 2},
		},
		{
			// Equal starts without overlap need an empty span; the gold side is advanced.
			name: "equal start without overlap",
			auto: []spans.Span{spans.New(2, 2, "X")},
			gold: []spans.Span{spans.New(2, 3, "X")},
			want: Counts{FalsePositives: 1, FalseNegatives: 1},
		},
		{
			// The long gold span pairs with the first overlapping auto span only.
			name: "one partner per span",
			auto: []spans.Span{spans.New(0, 2, "X"), spans.New(3, 5, "X")},
			gold: []spans.Span{spans.New(1, 4, "X")},
			want: Counts{TruePositives: 1, FalsePositives: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.auto, tt.gold))
		})
	}
}

func randomSortedSpans(rng *rand.Rand) []spans.Span {
	var out []spans.Span
	pos := 0
	for k := rng.Intn(8); k > 0; k-- {
		pos += rng.Intn(3)
		length := 1 + rng.Intn(3)
		out = append(out, spans.New(pos, pos+length, "X"))
		pos += length
	}
	return out
}

func TestMatchProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for round := 0; round < 500; round++ {
		auto, gold := randomSortedSpans(rng), randomSortedSpans(rng)
		c := Match(auto, gold)
		require.Equal(t, len(auto), c.TruePositives+c.FalsePositives, "round %d", round)
		require.Equal(t, len(gold), c.TruePositives+c.FalseNegatives, "round %d", round)

		swapped := Match(gold, auto)
		require.Equal(t, c.TruePositives, swapped.TruePositives, "round %d: auto=%v gold=%v", round, auto, gold)
		require.Equal(t, c.FalsePositives, swapped.FalseNegatives, "round %d", round)
		require.Equal(t, c.FalseNegatives, swapped.FalsePositives, "round %d", round)
	}
}

func TestMetrics(t *testing.T) {
	c := Counts{TruePositives: 3, FalsePositives: 1, FalseNegatives: 2}
	p, err := c.Precision()
	require.NoError(t, err)
	assert.InDelta(t, 0.75, p, 1e-9)
	r, err := c.Recall()
	require.NoError(t, err)
	assert.InDelta(t, 0.6, r, 1e-9)
	f1, err := c.F1()
	require.NoError(t, err)
	assert.InDelta(t, 2*0.75*0.6/(0.75+0.6), f1, 1e-9)

	_, err = Counts{FalseNegatives: 2}.Precision()
	assert.True(t, errors.Is(err, ErrUndefinedMetric))
	_, err = Counts{FalsePositives: 2}.Recall()
	assert.True(t, errors.Is(err, ErrUndefinedMetric))
	_, err = Counts{FalsePositives: 1, FalseNegatives: 1}.F1()
	assert.True(t, errors.Is(err, ErrUndefinedMetric))
	_, err = Counts{}.F1()
	assert.True(t, errors.Is(err, ErrUndefinedMetric))
}

func TestAggregator(t *testing.T) {
	var agg Aggregator
	agg.Add([]spans.Span{spans.New(0, 3, "X")}, []spans.Span{spans.New(0, 3, "Y")})
	agg.Add(nil, nil)
	agg.Add([]spans.Span{spans.New(0, 2, "X"), spans.New(5, 7, "X")}, []spans.Span{spans.New(3, 4, "X")})

	report := agg.Report()
	assert.Equal(t, Counts{TruePositives: 1, FalsePositives: 2, FalseNegatives: 1}, report.Counts)
	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 1, report.Skipped)
	assert.True(t, report.Precision.Defined)
	assert.InDelta(t, 1.0/3.0, report.Precision.Value, 1e-9)
	assert.Equal(t, "0.5000", report.Recall.String())

	var empty Aggregator
	report = empty.Report()
	assert.False(t, report.Precision.Defined)
	assert.False(t, report.Recall.Defined)
	assert.Equal(t, "undefined", report.F1.String())
}

func TestCorpus(t *testing.T) {
	doc, err := document.FromTokenizer("d", "alpha beta gamma delta epsilon", blank.New())
	require.NoError(t, err)
	require.NoError(t, doc.SetEnts([]spans.Span{spans.New(0, 2, "A"), spans.New(3, 4, "B")}))
	// Overlapping model output is filtered first: the longest span (1,4) is kept.
	require.NoError(t, doc.SetSource("model", []spans.Span{spans.New(1, 2, "A"), spans.New(1, 4, "A"), spans.New(3, 5, "B")}))

	empty, err := document.FromTokenizer("e", "nothing here", blank.New())
	require.NoError(t, err)

	report := Corpus([]*document.Document{doc, empty}, "model", document.EntsSource)
	assert.Equal(t, Counts{TruePositives: 1, FalseNegatives: 1}, report.Counts)
	assert.Equal(t, 1, report.Documents)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.MissingAuto)
	assert.Equal(t, 0, report.MissingGold)

	// A misspelled collection name is missing from every document.
	report = Corpus([]*document.Document{doc, empty}, "modle", document.EntsSource)
	assert.Equal(t, 2, report.MissingAuto)
	assert.Equal(t, Counts{FalseNegatives: 2}, report.Counts)
}
