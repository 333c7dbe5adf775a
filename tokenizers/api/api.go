// Package api defines the tokenizer boundary consumed by the span alignment packages.
// It's kept separate from the implementations so that `document` and `realign` don't
// depend on any concrete tokenizer.
package api

// TokenSpan represents the byte span of a token in the original text.
// Start and End are byte offsets (not rune offsets), suitable for slicing
// Go strings directly: originalText[span.Start:span.End].
type TokenSpan struct {
	Start int // start byte position (inclusive)
	End   int // end byte position (exclusive)
}

// Text returns the substring of text covered by the span.
func (s TokenSpan) Text(text string) string {
	return text[s.Start:s.End]
}

// Tokenizer splits text into tokens, reporting each token's byte span.
//
// Implementations must return spans that are non-empty, in increasing order
// and non-overlapping. Not all text must be covered: gaps (usually a single
// space after a word) are whitespace attached to the preceding token.
type Tokenizer interface {
	Tokenize(text string) []TokenSpan
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(text string) []TokenSpan

// Tokenize implements Tokenizer.
func (fn TokenizerFunc) Tokenize(text string) []TokenSpan {
	return fn(text)
}
