package resolve

import (
	"fmt"

	"github.com/gomlx/spanalign/diagnostics"
	"github.com/gomlx/spanalign/document"
	"github.com/gomlx/spanalign/spans"
	"github.com/gomlx/spanalign/tokenizers/api"
	"github.com/pkg/errors"
)

// Annotation is a character-offset entity annotation: text[Start:End] carries Label.
type Annotation struct {
	Start, End int
	Label      string
}

// Converter builds documents with entities from raw text and annotations.
type Converter struct {
	tokenizer api.Tokenizer
	resolver  *Resolver
	reporter  diagnostics.Reporter
}

// NewConverter creates a Converter. A nil reporter discards diagnostics.
func NewConverter(tok api.Tokenizer, opts Options, reporter diagnostics.Reporter) *Converter {
	reporter = diagnostics.OrDiscard(reporter)
	return &Converter{
		tokenizer: tok,
		resolver:  New(opts, reporter),
		reporter:  reporter,
	}
}

// Convert tokenizes text and resolves every annotation into an entity.
//
// Annotations that fail to align are reported and skipped. When resolved spans overlap
// (including two annotations expanded into the same token), spans.Filter decides which
// ones are kept: the longest, then the earliest, then the first seen. Every discarded
// span is reported as an OverlapDropped diagnostic.
//
// Errors are only returned if the document itself can't be built.
func (c *Converter) Convert(id, text string, annotations []Annotation) (*document.Document, error) {
	doc, err := document.FromTokenizer(id, text, c.tokenizer)
	if err != nil {
		return nil, errors.WithMessagef(err, "while tokenizing record %q", id)
	}
	doc.Name = id

	candidates := make([]spans.Span, 0, len(annotations))
	for _, a := range annotations {
		s, err := c.resolver.Resolve(doc, a.Start, a.End, a.Label)
		if err != nil {
			c.reporter.Report(diagnostics.Diagnostic{
				Kind:    diagnostics.AlignmentFailure,
				DocID:   id,
				Message: fmt.Sprintf("skipping entity [%d, %d, %s]", a.Start, a.End, a.Label),
				Err:     err,
			})
			continue
		}
		candidates = append(candidates, s)
	}

	ents := spans.Filter(candidates)
	for _, s := range spans.Dropped(candidates, ents) {
		c.reporter.Report(diagnostics.Diagnostic{
			Kind:    diagnostics.OverlapDropped,
			DocID:   id,
			Message: fmt.Sprintf("entity %s (%q) overlaps another entity", s, doc.SpanText(s)),
		})
	}
	if err := doc.SetEnts(ents); err != nil {
		return nil, err
	}
	return doc, nil
}
