// Package document holds a tokenized text and its span collections.
//
// All offsets exposed by a Document are character (rune) offsets, the unit used by
// annotation tools. Tokenizers report byte spans (see api.TokenSpan); New converts them.
//
// A Document's text and tokens are immutable once created. Span collections are only
// ever replaced wholesale, with SetEnts and SetSource.
package document

import (
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/gomlx/spanalign/spans"
	"github.com/gomlx/spanalign/tokenizers/api"
	"github.com/pkg/errors"
)

// EntsSource is the name under which the primary entity collection is addressed by
// Source and by callers that select collections by name.
const EntsSource = "ents"

// Token is a unit of text with its character offsets [Start, End) in the document.
type Token struct {
	Start int
	End   int
	Text  string
}

// Line is a span of tokens ending with a newline token. See AnnotateLines.
type Line struct {
	Span     spans.Span
	LineNo   int
	Repeated bool
}

// Document is a tokenized text with a primary entity collection and any number of
// named span collections (e.g. one per annotator).
type Document struct {
	// ID identifies the document in its corpus.
	ID string
	// Name is a free-form display name. Converters set it to the source record id.
	Name string

	text   string
	tokens []Token

	// charToByte[i] is the byte offset of the i-th rune; it has one extra entry for len(text).
	charToByte []int

	ents    []spans.Span
	sources map[string][]spans.Span

	// Lines is populated by AnnotateLines.
	Lines []Line
}

// New creates a Document from text and the byte spans produced by a tokenizer.
//
// Spans must be non-empty, ordered, non-overlapping, within text, and must start and end
// on rune boundaries.
func New(id, text string, tokenSpans []api.TokenSpan) (*Document, error) {
	d := &Document{
		ID:      id,
		text:    text,
		sources: make(map[string][]spans.Span),
	}

	byteToChar := make(map[int]int, len(text)+1)
	d.charToByte = make([]int, 0, utf8.RuneCountInString(text)+1)
	for b := range text {
		byteToChar[b] = len(d.charToByte)
		d.charToByte = append(d.charToByte, b)
	}
	byteToChar[len(text)] = len(d.charToByte)
	d.charToByte = append(d.charToByte, len(text))

	d.tokens = make([]Token, 0, len(tokenSpans))
	prevEnd := 0
	for i, ts := range tokenSpans {
		if ts.Start < prevEnd || ts.End <= ts.Start || ts.End > len(text) {
			return nil, errors.Errorf("document %q: invalid token span #%d [%d, %d) (previous token ends at %d, text has %d bytes)",
				id, i, ts.Start, ts.End, prevEnd, len(text))
		}
		startChar, okStart := byteToChar[ts.Start]
		endChar, okEnd := byteToChar[ts.End]
		if !okStart || !okEnd {
			return nil, errors.Errorf("document %q: token span #%d [%d, %d) splits a multi-byte rune", id, i, ts.Start, ts.End)
		}
		d.tokens = append(d.tokens, Token{Start: startChar, End: endChar, Text: ts.Text(text)})
		prevEnd = ts.End
	}
	return d, nil
}

// FromTokenizer tokenizes text and creates the Document.
func FromTokenizer(id, text string, tok api.Tokenizer) (*Document, error) {
	return New(id, text, tok.Tokenize(text))
}

// Text returns the full document text.
func (d *Document) Text() string {
	return d.text
}

// CharLen returns the length of the text in characters (runes).
func (d *Document) CharLen() int {
	return len(d.charToByte) - 1
}

// Tokens returns the document tokens. The returned slice must not be modified.
func (d *Document) Tokens() []Token {
	return d.tokens
}

// Len returns the number of tokens.
func (d *Document) Len() int {
	return len(d.tokens)
}

// TokenTexts returns the text of every token, in order.
func (d *Document) TokenTexts() []string {
	texts := make([]string, len(d.tokens))
	for i, t := range d.tokens {
		texts[i] = t.Text
	}
	return texts
}

// Substring returns the text between character offsets [startChar, endChar).
// Offsets are clamped to the text.
func (d *Document) Substring(startChar, endChar int) string {
	startChar = min(max(startChar, 0), d.CharLen())
	endChar = min(max(endChar, startChar), d.CharLen())
	return d.text[d.charToByte[startChar]:d.charToByte[endChar]]
}

// CharRange returns the character offsets covered by the tokens of s.
// It returns false if s is empty or out of the token range.
func (d *Document) CharRange(s spans.Span) (startChar, endChar int, ok bool) {
	if s.IsEmpty() || s.Start < 0 || s.End > len(d.tokens) {
		return 0, 0, false
	}
	return d.tokens[s.Start].Start, d.tokens[s.End-1].End, true
}

// SpanText returns the text covered by the tokens of s, or "" if s is not valid for this document.
func (d *Document) SpanText(s spans.Span) string {
	startChar, endChar, ok := d.CharRange(s)
	if !ok {
		return ""
	}
	return d.Substring(startChar, endChar)
}

// Ents returns the primary entity collection, sorted and non-overlapping.
// The returned slice must not be modified.
func (d *Document) Ents() []spans.Span {
	return d.ents
}

// SetEnts replaces the entity collection.
// The spans must be valid for this document, sorted and non-overlapping (see spans.Filter).
func (d *Document) SetEnts(ents []spans.Span) error {
	if err := d.checkSpans(ents); err != nil {
		return errors.WithMessagef(err, "document %q: invalid entities", d.ID)
	}
	if !spans.IsSortedNonOverlapping(ents) {
		return errors.Errorf("document %q: entities must be sorted and non-overlapping", d.ID)
	}
	d.ents = slices.Clone(ents)
	return nil
}

// SetSource replaces the named span collection. Spans in named collections may overlap,
// but must be valid for this document. They are stored sorted.
// Setting EntsSource is equivalent to SetEnts.
func (d *Document) SetSource(name string, list []spans.Span) error {
	if name == EntsSource {
		return d.SetEnts(list)
	}
	if err := d.checkSpans(list); err != nil {
		return errors.WithMessagef(err, "document %q: invalid spans for source %q", d.ID, name)
	}
	list = slices.Clone(list)
	spans.Sort(list)
	d.sources[name] = list
	return nil
}

// Source returns the named span collection. EntsSource returns the entities.
func (d *Document) Source(name string) ([]spans.Span, bool) {
	if name == EntsSource {
		return d.ents, true
	}
	list, ok := d.sources[name]
	return list, ok
}

// SourceNames returns the names of the non-entity span collections, sorted.
func (d *Document) SourceNames() []string {
	return slices.Sorted(maps.Keys(d.sources))
}

func (d *Document) checkSpans(list []spans.Span) error {
	for _, s := range list {
		if s.IsEmpty() || s.Start < 0 || s.End > len(d.tokens) {
			return errors.Errorf("span %s out of range for %d tokens", s, len(d.tokens))
		}
	}
	return nil
}
