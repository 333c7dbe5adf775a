package realign

import (
	"fmt"

	"github.com/gomlx/spanalign/alignment"
	"github.com/gomlx/spanalign/diagnostics"
	"github.com/gomlx/spanalign/document"
	"github.com/gomlx/spanalign/spans"
	"github.com/gomlx/spanalign/tokenizers/api"
	"github.com/pkg/errors"
)

// Realigner retokenizes transformed document texts and carries their spans over.
type Realigner struct {
	tokenizer api.Tokenizer
	reporter  diagnostics.Reporter
}

// New creates a Realigner that tokenizes new texts with tok. A nil reporter discards diagnostics.
func New(tok api.Tokenizer, reporter diagnostics.Reporter) *Realigner {
	return &Realigner{tokenizer: tok, reporter: diagnostics.OrDiscard(reporter)}
}

// Spans realigns every span of list with mapping.
//
// Spans that fail are reported as RealignmentFailure and skipped; spans whose token
// count changes are reported as SpanLengthChanged. The result is sorted but may contain
// overlaps, when distinct source spans collapse onto the same target tokens.
func (r *Realigner) Spans(docID string, list []spans.Span, mapping alignment.Mapping) []spans.Span {
	out := make([]spans.Span, 0, len(list))
	for _, s := range list {
		realigned, err := Span(s, mapping)
		if err != nil {
			r.reporter.Report(diagnostics.Diagnostic{
				Kind:    diagnostics.RealignmentFailure,
				DocID:   docID,
				Message: fmt.Sprintf("dropping span %s", s),
				Err:     err,
			})
			continue
		}
		if realigned.Len() != s.Len() {
			r.reporter.Report(diagnostics.Diagnostic{
				Kind:    diagnostics.SpanLengthChanged,
				DocID:   docID,
				Message: fmt.Sprintf("span %s realigned to %s: %d tokens became %d", s, realigned, s.Len(), realigned.Len()),
			})
		}
		out = append(out, realigned)
	}
	spans.Sort(out)
	return out
}

// Document tokenizes text, which must be equivalent to src's text up to whitespace, case
// and compatibility normalization, and returns a new document with src's entities and
// named span collections realigned onto it.
//
// Realigned entities that overlap are resolved with spans.Filter, with the discarded ones
// reported as OverlapDropped. If the resulting number of entities (or of spans in a named
// collection) differs from the source, an EntityCountMismatch is reported: the
// annotations of that document are likely corrupted.
//
// src is not modified. Errors are returned only if the new document can't be built or the
// texts don't align.
func (r *Realigner) Document(src *document.Document, text string) (*document.Document, error) {
	dst, err := document.FromTokenizer(src.ID, text, r.tokenizer)
	if err != nil {
		return nil, errors.WithMessagef(err, "while retokenizing document %q", src.ID)
	}
	dst.Name = src.Name

	a2b, _, err := alignment.Align(src.TokenTexts(), dst.TokenTexts())
	if err != nil {
		return nil, errors.WithMessagef(err, "while aligning document %q", src.ID)
	}

	realigned := r.Spans(src.ID, src.Ents(), a2b)
	ents := spans.Filter(realigned)
	for _, s := range spans.Dropped(realigned, ents) {
		r.reporter.Report(diagnostics.Diagnostic{
			Kind:    diagnostics.OverlapDropped,
			DocID:   src.ID,
			Message: fmt.Sprintf("realigned entity %s (%q) overlaps another entity", s, dst.SpanText(s)),
		})
	}
	if err := dst.SetEnts(ents); err != nil {
		return nil, err
	}
	r.checkCount(src.ID, document.EntsSource, len(src.Ents()), len(ents))

	for _, name := range src.SourceNames() {
		list, _ := src.Source(name)
		moved := r.Spans(src.ID, list, a2b)
		if err := dst.SetSource(name, moved); err != nil {
			return nil, err
		}
		r.checkCount(src.ID, name, len(list), len(moved))
	}

	if src.Lines != nil {
		document.AnnotateLines(dst)
	}
	return dst, nil
}

func (r *Realigner) checkCount(docID, source string, before, after int) {
	if before == after {
		return
	}
	r.reporter.Report(diagnostics.Diagnostic{
		Kind:    diagnostics.EntityCountMismatch,
		DocID:   docID,
		Message: fmt.Sprintf("%q had %d spans, %d after realignment", source, before, after),
	})
}

// Corpus applies transform to the text of every document and realigns it.
// It stops at the first document that can't be realigned.
func (r *Realigner) Corpus(docs []*document.Document, transform func(string) string) ([]*document.Document, error) {
	out := make([]*document.Document, 0, len(docs))
	for _, doc := range docs {
		dst, err := r.Document(doc, transform(doc.Text()))
		if err != nil {
			return nil, err
		}
		out = append(out, dst)
	}
	return out, nil
}
