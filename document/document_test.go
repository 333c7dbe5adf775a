package document

import (
	"testing"

	"github.com/gomlx/spanalign/spans"
	"github.com/gomlx/spanalign/tokenizers/api"
	"github.com/gomlx/spanalign/tokenizers/blank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, text string) *Document {
	t.Helper()
	d, err := FromTokenizer("doc", text, blank.New())
	require.NoError(t, err)
	return d
}

func TestNew(t *testing.T) {
	d, err := New("d1", "ab cdef gh", []api.TokenSpan{{Start: 0, End: 2}, {Start: 3, End: 7}, {Start: 8, End: 10}})
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"ab", "cdef", "gh"}, d.TokenTexts())
	assert.Equal(t, Token{Start: 3, End: 7, Text: "cdef"}, d.Tokens()[1])

	_, err = New("bad", "abc", []api.TokenSpan{{Start: 0, End: 2}, {Start: 1, End: 3}})
	assert.Error(t, err, "overlapping tokens")
	_, err = New("bad", "abc", []api.TokenSpan{{Start: 0, End: 4}})
	assert.Error(t, err, "token past the end")
	_, err = New("bad", "é", []api.TokenSpan{{Start: 0, End: 1}})
	assert.Error(t, err, "token splits a rune")
}

func TestCharOffsetsAreRunes(t *testing.T) {
	d := mustDoc(t, "café au lait")
	require.Equal(t, 12, d.CharLen())
	assert.Equal(t, Token{Start: 0, End: 4, Text: "café"}, d.Tokens()[0])
	assert.Equal(t, Token{Start: 5, End: 7, Text: "au"}, d.Tokens()[1])
	assert.Equal(t, "au lait", d.Substring(5, 12))
	assert.Equal(t, "café", d.SpanText(spans.New(0, 1, "")))
}

func TestCharSpan(t *testing.T) {
	// Token boundaries: [0,2) [3,7) [8,10)
	d := mustDoc(t, "ab cdef gh")
	tests := []struct {
		name       string
		start, end int
		mode       AlignmentMode
		want       spans.Span
		wantOK     bool
	}{
		{"strict single token", 3, 7, Strict, spans.New(1, 2, "L"), true},
		{"strict multiple tokens", 0, 10, Strict, spans.New(0, 3, "L"), true},
		{"strict mid-token end", 5, 9, Strict, spans.Span{}, false},
		{"strict mid-token start", 4, 7, Strict, spans.Span{}, false},
		{"strict including trailing space", 0, 3, Strict, spans.Span{}, false},
		{"expand mid-token", 5, 9, Expand, spans.New(1, 3, "L"), true},
		{"expand inside one token", 4, 5, Expand, spans.New(1, 2, "L"), true},
		{"expand whitespace only", 2, 3, Expand, spans.Span{}, false},
		{"expand exact is like strict", 3, 7, Expand, spans.New(1, 2, "L"), true},
		{"empty range", 3, 3, Expand, spans.Span{}, false},
		{"out of range", 8, 11, Expand, spans.Span{}, false},
		{"negative start", -1, 2, Strict, spans.Span{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.CharSpan(tt.start, tt.end, "L", tt.mode)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrictRoundTrip(t *testing.T) {
	text := "The  quick, brown\nfox jumps."
	d := mustDoc(t, text)
	tokens := d.Tokens()
	for i := range tokens {
		for j := i; j < len(tokens); j++ {
			start, end := tokens[i].Start, tokens[j].End
			s, ok := d.CharSpan(start, end, "X", Strict)
			require.True(t, ok, "tokens %d..%d", i, j)
			assert.Equal(t, d.Substring(start, end), d.SpanText(s))
			gotStart, gotEnd, ok := d.CharRange(s)
			require.True(t, ok)
			assert.Equal(t, [2]int{start, end}, [2]int{gotStart, gotEnd})
		}
	}
}

func TestSetEntsAndSources(t *testing.T) {
	d := mustDoc(t, "one two three four")
	require.NoError(t, d.SetEnts([]spans.Span{spans.New(0, 1, "A"), spans.New(2, 4, "B")}))
	assert.Len(t, d.Ents(), 2)

	assert.Error(t, d.SetEnts([]spans.Span{spans.New(0, 2, "A"), spans.New(1, 3, "B")}), "overlapping")
	assert.Error(t, d.SetEnts([]spans.Span{spans.New(3, 5, "A")}), "out of range")
	assert.Error(t, d.SetEnts([]spans.Span{spans.New(2, 2, "A")}), "empty")
	assert.Len(t, d.Ents(), 2, "failed SetEnts must leave entities untouched")

	require.NoError(t, d.SetSource("model", []spans.Span{spans.New(2, 3, "X"), spans.New(0, 2, "Y"), spans.New(1, 3, "Z")}))
	got, ok := d.Source("model")
	require.True(t, ok)
	assert.Equal(t, []spans.Span{spans.New(0, 2, "Y"), spans.New(1, 3, "Z"), spans.New(2, 3, "X")}, got)

	ents, ok := d.Source(EntsSource)
	require.True(t, ok)
	assert.Equal(t, d.Ents(), ents)

	_, ok = d.Source("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"model"}, d.SourceNames())
}

func TestAnnotateLines(t *testing.T) {
	d := mustDoc(t, "a b\nc\na b\ntail")
	lines := AnnotateLines(d)
	require.Len(t, lines, 3)
	assert.Equal(t, Line{Span: spans.New(0, 3, ""), LineNo: 0, Repeated: false}, lines[0])
	assert.Equal(t, Line{Span: spans.New(3, 5, ""), LineNo: 1, Repeated: false}, lines[1])
	assert.Equal(t, Line{Span: spans.New(5, 8, ""), LineNo: 2, Repeated: true}, lines[2])
	assert.Equal(t, "a b\n", d.SpanText(lines[2].Span))
	assert.Equal(t, lines, d.Lines)
}
