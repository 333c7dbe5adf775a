// Package blank implements a rule-based tokenizer that needs no model files.
//
// Text is split on whitespace and, optionally, on punctuation. Whitespace is
// handled the way annotation tools built on spaCy's blank pipelines expect: a
// single space following a token is attached to it (it's not part of any token
// span), and any other whitespace run, e.g. "\n" or the second of two spaces,
// becomes a token of its own. This is what makes whitespace normalization show
// up as elided tokens in an alignment mapping.
package blank

import (
	"unicode"
	"unicode/utf8"

	"github.com/gomlx/spanalign/tokenizers/api"
)

// Tokenizer implements api.Tokenizer. Create one with New.
type Tokenizer struct {
	splitPunctuation bool
}

// Compile time assert that Tokenizer implements api.Tokenizer interface.
var _ api.Tokenizer = &Tokenizer{}

// New creates a Tokenizer that splits punctuation into single-rune tokens.
func New() *Tokenizer {
	return &Tokenizer{splitPunctuation: true}
}

// WithPunctuationSplit configures whether punctuation runes become their own tokens.
// If false, only whitespace separates tokens.
// It returns itself, so configuration calls can be chained.
func (t *Tokenizer) WithPunctuationSplit(split bool) *Tokenizer {
	t.splitPunctuation = split
	return t
}

// Tokenize implements api.Tokenizer.
func (t *Tokenizer) Tokenize(text string) []api.TokenSpan {
	var spans []api.TokenSpan
	pos := 0
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		switch {
		case isWhitespace(r):
			end := scanWhile(text, pos, isWhitespace)
			start := pos
			if len(spans) > 0 && spans[len(spans)-1].End == pos && text[pos] == ' ' {
				// Trailing space of the previous token.
				start++
			}
			if start < end {
				spans = append(spans, api.TokenSpan{Start: start, End: end})
			}
			pos = end
		case t.splitPunctuation && isPunctuation(r):
			spans = append(spans, api.TokenSpan{Start: pos, End: pos + size})
			pos += size
		default:
			end := scanWhile(text, pos, func(r rune) bool {
				return !isWhitespace(r) && !(t.splitPunctuation && isPunctuation(r))
			})
			spans = append(spans, api.TokenSpan{Start: pos, End: end})
			pos = end
		}
	}
	return spans
}

// scanWhile returns the byte position of the first rune at or after pos for which
// fn is false, or len(text).
func scanWhile(text string, pos int, fn func(r rune) bool) int {
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !fn(r) {
			break
		}
		pos += size
	}
	return pos
}

func isWhitespace(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v' {
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isPunctuation(r rune) bool {
	// ASCII punctuation
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}
