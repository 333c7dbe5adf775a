package corpus

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gomlx/spanalign/document"
	"github.com/gomlx/spanalign/internal/files"
	"github.com/gomlx/spanalign/spans"
	"github.com/gomlx/spanalign/tokenizers/api"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
)

// TokenRecord is a token's character offsets.
type TokenRecord struct {
	Start int `json:"start" parquet:"start"`
	End   int `json:"end" parquet:"end"`
}

// SpanRecord is a stored span: token offsets, plus the character offsets and text it covers.
// Only the token offsets are used when loading; the rest is for readers of the file.
type SpanRecord struct {
	Start     int    `json:"start" parquet:"start"`
	End       int    `json:"end" parquet:"end"`
	StartChar int    `json:"start_char" parquet:"start_char"`
	EndChar   int    `json:"end_char" parquet:"end_char"`
	Label     string `json:"label" parquet:"label"`
	Text      string `json:"text" parquet:"text"`
}

// SourceRecord is a named span collection.
type SourceRecord struct {
	Name  string       `json:"name" parquet:"name"`
	Spans []SpanRecord `json:"spans" parquet:"spans"`
}

// DocumentRecord is the stored form of a document.Document. Lines are not stored, they can
// be recomputed with document.AnnotateLines.
type DocumentRecord struct {
	ID      string         `json:"id" parquet:"id"`
	Name    string         `json:"name" parquet:"name"`
	Text    string         `json:"text" parquet:"text"`
	Tokens  []TokenRecord  `json:"tokens" parquet:"tokens"`
	Ents    []SpanRecord   `json:"ents" parquet:"ents"`
	Sources []SourceRecord `json:"sources,omitempty" parquet:"sources"`
}

// NewDocumentRecord converts doc to its stored form.
func NewDocumentRecord(doc *document.Document) DocumentRecord {
	rec := DocumentRecord{
		ID:     doc.ID,
		Name:   doc.Name,
		Text:   doc.Text(),
		Tokens: make([]TokenRecord, doc.Len()),
		Ents:   spanRecords(doc, doc.Ents()),
	}
	for i, t := range doc.Tokens() {
		rec.Tokens[i] = TokenRecord{Start: t.Start, End: t.End}
	}
	for _, name := range doc.SourceNames() {
		list, _ := doc.Source(name)
		rec.Sources = append(rec.Sources, SourceRecord{Name: name, Spans: spanRecords(doc, list)})
	}
	return rec
}

func spanRecords(doc *document.Document, list []spans.Span) []SpanRecord {
	var records []SpanRecord
	for _, s := range list {
		startChar, endChar, _ := doc.CharRange(s)
		records = append(records, SpanRecord{
			Start:     s.Start,
			End:       s.End,
			StartChar: startChar,
			EndChar:   endChar,
			Label:     s.Label,
			Text:      doc.Substring(startChar, endChar),
		})
	}
	return records
}

// Document rebuilds the document.Document.
func (rec DocumentRecord) Document() (*document.Document, error) {
	charToByte := make([]int, 0, utf8.RuneCountInString(rec.Text)+1)
	for b := range rec.Text {
		charToByte = append(charToByte, b)
	}
	charToByte = append(charToByte, len(rec.Text))

	tokenSpans := make([]api.TokenSpan, len(rec.Tokens))
	for i, t := range rec.Tokens {
		if t.Start < 0 || t.End < t.Start || t.End >= len(charToByte) {
			return nil, errors.Errorf("document %q: token #%d [%d, %d) out of range for %d characters",
				rec.ID, i, t.Start, t.End, len(charToByte)-1)
		}
		tokenSpans[i] = api.TokenSpan{Start: charToByte[t.Start], End: charToByte[t.End]}
	}
	doc, err := document.New(rec.ID, rec.Text, tokenSpans)
	if err != nil {
		return nil, err
	}
	doc.Name = rec.Name
	if err := doc.SetEnts(fromSpanRecords(rec.Ents)); err != nil {
		return nil, err
	}
	for _, src := range rec.Sources {
		if err := doc.SetSource(src.Name, fromSpanRecords(src.Spans)); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func fromSpanRecords(records []SpanRecord) []spans.Span {
	var list []spans.Span
	for _, r := range records {
		list = append(list, spans.New(r.Start, r.End, r.Label))
	}
	return list
}

// Format of a documents file.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSONL
	FormatParquet
)

// FormatFromPath returns the format matching the file extension: ".jsonl" or ".parquet".
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		return FormatJSONL
	case ".parquet":
		return FormatParquet
	default:
		return FormatUnknown
	}
}

// WriteDocuments writes docs to path, in the format given by its extension.
func WriteDocuments(path string, docs []*document.Document) error {
	switch FormatFromPath(path) {
	case FormatJSONL:
		return WriteDocumentsJSONL(path, docs)
	case FormatParquet:
		return WriteDocumentsParquet(path, docs)
	default:
		return errors.Errorf("unknown documents format for %q, use a .jsonl or .parquet extension", path)
	}
}

// ReadDocuments reads the documents in path, in the format given by its extension.
func ReadDocuments(path string) ([]*document.Document, error) {
	switch FormatFromPath(path) {
	case FormatJSONL:
		return ReadDocumentsJSONL(path)
	case FormatParquet:
		return ReadDocumentsParquet(path)
	default:
		return nil, errors.Errorf("unknown documents format for %q, use a .jsonl or .parquet extension", path)
	}
}

// WriteDocumentsJSONL writes one DocumentRecord per line.
func WriteDocumentsJSONL(path string, docs []*document.Document) error {
	return files.WriteLocked(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		for _, doc := range docs {
			if err := enc.Encode(NewDocumentRecord(doc)); err != nil {
				return errors.Wrapf(err, "encoding document %q", doc.ID)
			}
		}
		return nil
	})
}

// ReadDocumentsJSONL reads a file written by WriteDocumentsJSONL.
func ReadDocumentsJSONL(path string) ([]*document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open documents file")
	}
	defer func() { _ = f.Close() }()

	var docs []*document.Document
	err = scanLines(f, func(lineNo int, line []byte) error {
		var rec DocumentRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return errors.Wrapf(err, "line %d", lineNo)
		}
		doc, err := rec.Document()
		if err != nil {
			return errors.WithMessagef(err, "line %d", lineNo)
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "while reading documents from %q", path)
	}
	return docs, nil
}

// WriteDocumentsParquet writes one DocumentRecord per row.
func WriteDocumentsParquet(path string, docs []*document.Document) error {
	records := make([]DocumentRecord, len(docs))
	for i, doc := range docs {
		records[i] = NewDocumentRecord(doc)
	}
	return files.WriteLocked(path, func(w io.Writer) error {
		writer := parquet.NewGenericWriter[DocumentRecord](w)
		if _, err := writer.Write(records); err != nil {
			_ = writer.Close()
			return errors.Wrap(err, "writing parquet rows")
		}
		return errors.Wrap(writer.Close(), "closing parquet writer")
	})
}

// ReadDocumentsParquet reads a file written by WriteDocumentsParquet.
func ReadDocumentsParquet(path string) ([]*document.Document, error) {
	records, err := parquet.ReadFile[DocumentRecord](path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read parquet file %q", path)
	}
	docs := make([]*document.Document, 0, len(records))
	for i, rec := range records {
		doc, err := rec.Document()
		if err != nil {
			return nil, errors.WithMessagef(err, "row %d of %q", i, path)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
