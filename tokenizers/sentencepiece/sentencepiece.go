// Package sentencepiece implements an api.Tokenizer based on a SentencePiece model,
// recovering each piece's byte span in the original text.
package sentencepiece

import (
	"strings"
	"unicode/utf8"

	esentencepiece "github.com/eliben/go-sentencepiece"
	"github.com/gomlx/spanalign/tokenizers/api"
	"github.com/pkg/errors"
)

// metaspace is U+2581 (lower one eighth block), SentencePiece's replacement for a space.
const metaspace = "▁"

// Tokenizer implements api.Tokenizer over a SentencePiece processor.
type Tokenizer struct {
	*esentencepiece.Processor
}

// Compile time assert that Tokenizer implements api.Tokenizer interface.
var _ api.Tokenizer = &Tokenizer{}

// New creates a Tokenizer from a "tokenizer.model" file, which must be a
// SentencePiece Model proto.
func New(modelPath string) (*Tokenizer, error) {
	proc, err := esentencepiece.NewProcessorFromPath(modelPath)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create sentencepiece tokenizer from %q", modelPath)
	}
	return &Tokenizer{Processor: proc}, nil
}

// Tokenize implements api.Tokenizer.
// Pieces consisting only of the metaspace marker have no text of their own and are dropped.
func (p *Tokenizer) Tokenize(text string) []api.TokenSpan {
	tokens := p.Processor.Encode(text)
	pieces := make([]string, len(tokens))
	for i, tok := range tokens {
		pieces[i] = tok.Text
	}
	return spansFromPieces(text, pieces)
}

// spansFromPieces matches every piece back against text, in order.
// The search position only moves forward, so spans never overlap.
//
// A piece that doesn't occur in text (unknown, byte-fallback or normalized pieces) covers
// the text up to the next piece that does occur, without trailing whitespace. Consecutive
// unmatched pieces share that text: the first one takes it, the others are dropped.
// Spans always start and end on rune boundaries.
func spansFromPieces(text string, pieces []string) []api.TokenSpan {
	spans := make([]api.TokenSpan, 0, len(pieces))
	pos := 0
	for i, piece := range pieces {
		matchPiece := strings.TrimPrefix(piece, metaspace)
		if matchPiece == "" {
			continue
		}
		if matchPiece != piece {
			// Skip the whitespace the metaspace stood for.
			for pos < len(text) && isSpace(text[pos]) {
				pos++
			}
		}
		if pos >= len(text) {
			break
		}

		start := pos
		if idx := strings.Index(text[pos:], matchPiece); idx >= 0 {
			start = pos + idx
			pos = start + len(matchPiece)
			spans = append(spans, api.TokenSpan{Start: start, End: pos})
			continue
		}

		end := nextMatch(text, pos, pieces[i+1:])
		if end < 0 {
			end = min(pos+len(matchPiece), len(text))
		}
		for end > start && isSpace(text[end-1]) {
			end--
		}
		for end < len(text) && !utf8.RuneStart(text[end]) {
			end++
		}
		if end <= start {
			continue
		}
		pos = end
		spans = append(spans, api.TokenSpan{Start: start, End: end})
	}
	return spans
}

// nextMatch returns the byte offset in text, at or after pos, of the first of pieces that
// occurs there, or -1 if none does.
func nextMatch(text string, pos int, pieces []string) int {
	for _, piece := range pieces {
		matchPiece := strings.TrimPrefix(piece, metaspace)
		if matchPiece == "" {
			continue
		}
		if idx := strings.Index(text[pos:], matchPiece); idx >= 0 {
			return pos + idx
		}
	}
	return -1
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
