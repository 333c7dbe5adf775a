package resolve

import (
	"testing"

	"github.com/gomlx/spanalign/diagnostics"
	"github.com/gomlx/spanalign/document"
	"github.com/gomlx/spanalign/spans"
	"github.com/gomlx/spanalign/tokenizers/blank"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T, text string) *document.Document {
	t.Helper()
	doc, err := document.FromTokenizer("doc-1", text, blank.New())
	require.NoError(t, err)
	return doc
}

func TestResolveStrict(t *testing.T) {
	c := &diagnostics.Collector{}
	r := New(DefaultOptions(), c)
	doc := newDoc(t, "ab cdef gh")

	s, err := r.Resolve(doc, 3, 10, "X")
	require.NoError(t, err)
	assert.Equal(t, spans.New(1, 3, "X"), s)
	assert.Equal(t, "cdef gh", doc.SpanText(s))
	assert.Empty(t, c.All(), "strict alignment reports nothing")
}

func TestResolveExpand(t *testing.T) {
	c := &diagnostics.Collector{}
	r := New(DefaultOptions(), c)
	doc := newDoc(t, "ab cdef gh")

	// 9 is in the middle of "gh": strict fails, expand widens to characters [3, 10).
	s, err := r.Resolve(doc, 5, 9, "X")
	require.NoError(t, err)
	assert.Equal(t, spans.New(1, 3, "X"), s)
	startChar, endChar, ok := doc.CharRange(s)
	require.True(t, ok)
	assert.Equal(t, 3, startChar)
	assert.Equal(t, 10, endChar)

	reported := c.OfKind(diagnostics.ExpandedAlignment)
	require.Len(t, reported, 1)
	assert.Equal(t, "doc-1", reported[0].DocID)
	assert.Contains(t, reported[0].Message, `"ef g"`)
	assert.Contains(t, reported[0].Message, `"cdef gh"`)
	assert.Contains(t, reported[0].Message, "[3, 10]")
}

func TestResolveFailures(t *testing.T) {
	doc := newDoc(t, "ab  cd")
	tests := []struct {
		name       string
		opts       Options
		start, end int
		label      string
		reason     string
		attempted  string
	}{
		{"whitespace gap", DefaultOptions(), 2, 3, "X", "no token overlaps the offsets", ""},
		{"strict only", Options{AllowExpand: false}, 1, 2, "X", "strict alignment failed", "ab"},
		{"empty range", DefaultOptions(), 2, 2, "X", "invalid offsets for text of 6 characters", ""},
		{"reversed", DefaultOptions(), 4, 1, "X", "invalid offsets for text of 6 characters", ""},
		{"past the end", DefaultOptions(), 4, 7, "X", "invalid offsets for text of 6 characters", ""},
		{"empty label", DefaultOptions(), 0, 2, "", "empty label", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &diagnostics.Collector{}
			_, err := New(tt.opts, c).Resolve(doc, tt.start, tt.end, tt.label)
			require.Error(t, err)
			var failure *AlignmentFailure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, "doc-1", failure.DocID)
			assert.Equal(t, tt.start, failure.StartChar)
			assert.Equal(t, tt.end, failure.EndChar)
			assert.Equal(t, tt.reason, failure.Reason)
			assert.Equal(t, tt.attempted, failure.Attempted)
			assert.Empty(t, c.All())
		})
	}
}

func TestConvert(t *testing.T) {
	c := &diagnostics.Collector{}
	conv := NewConverter(blank.New(), DefaultOptions(), c)

	text := "John Smith visited New York City today."
	annotations := []Annotation{
		{Start: 0, End: 10, Label: "PER"},  // John Smith
		{Start: 19, End: 27, Label: "LOC"}, // New York
		{Start: 19, End: 32, Label: "LOC"}, // New York City: longer, wins
		{Start: 36, End: 50, Label: "BAD"}, // out of range
		{Start: 2, End: 3, Label: "PER"},   // expands into "John", overlaps the first one
	}
	doc, err := conv.Convert("rec-7", text, annotations)
	require.NoError(t, err)
	assert.Equal(t, "rec-7", doc.Name)

	ents := doc.Ents()
	require.Len(t, ents, 2)
	assert.Equal(t, "John Smith", doc.SpanText(ents[0]))
	assert.Equal(t, "PER", ents[0].Label)
	assert.Equal(t, "New York City", doc.SpanText(ents[1]))

	counts := c.Counts()
	assert.Equal(t, 1, counts[diagnostics.AlignmentFailure])
	assert.Equal(t, 1, counts[diagnostics.ExpandedAlignment])
	assert.Equal(t, 2, counts[diagnostics.OverlapDropped])
}
