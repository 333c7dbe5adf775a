// Package corpus reads annotation exports and stores converted documents.
//
// Two families of files are handled: Doccano-style JSONL annotation records, which carry
// raw text with character-offset labels, and document files (JSONL or Parquet) holding
// tokenized documents with their span collections.
package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/gomlx/spanalign/document"
	"github.com/gomlx/spanalign/resolve"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MaxLineSize is the largest JSONL line accepted by the readers.
var MaxLineSize = 64 * 1024 * 1024

// Label is one annotated entity of a Record: Data[Start:End], in characters, carries Label.
// In JSON it's the triple [start, end, "label"].
type Label struct {
	Start, End int
	Label      string
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Label) UnmarshalJSON(data []byte) error {
	var triple []json.RawMessage
	if err := json.Unmarshal(data, &triple); err != nil {
		return errors.Wrapf(err, "label must be a [start, end, label] triple, got %s", data)
	}
	if len(triple) != 3 {
		return errors.Errorf("label must be a [start, end, label] triple, got %d elements", len(triple))
	}
	if err := json.Unmarshal(triple[0], &l.Start); err != nil {
		return errors.Wrapf(err, "invalid label start %s", triple[0])
	}
	if err := json.Unmarshal(triple[1], &l.End); err != nil {
		return errors.Wrapf(err, "invalid label end %s", triple[1])
	}
	if err := json.Unmarshal(triple[2], &l.Label); err != nil {
		return errors.Wrapf(err, "invalid label name %s", triple[2])
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.Start, l.End, l.Label})
}

// Record is one annotated text, as exported by Doccano:
//
//	{"id": 17, "data": "John Smith was seen.", "label": [[0, 10, "PER"]]}
//
// Numeric ids are converted to strings. A record without id gets a random UUID.
// Exports that use "text" instead of "data" are accepted too.
type Record struct {
	ID    string  `json:"id"`
	Data  string  `json:"data"`
	Label []Label `json:"label"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    json.RawMessage `json:"id"`
		Data  *string         `json:"data"`
		Text  *string         `json:"text"`
		Label []Label         `json:"label"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Data != nil:
		r.Data = *raw.Data
	case raw.Text != nil:
		r.Data = *raw.Text
	default:
		return errors.New("record has no \"data\" field")
	}
	r.Label = raw.Label

	id := bytes.TrimSpace(raw.ID)
	switch {
	case len(id) == 0 || string(id) == "null":
		r.ID = uuid.NewString()
	case id[0] == '"':
		if err := json.Unmarshal(id, &r.ID); err != nil {
			return errors.Wrapf(err, "invalid record id %s", id)
		}
	default:
		var n json.Number
		if err := json.Unmarshal(id, &n); err != nil {
			return errors.Wrapf(err, "record id must be a string or a number, got %s", id)
		}
		r.ID = n.String()
	}
	return nil
}

// Annotations returns the record labels as resolver input.
func (r Record) Annotations() []resolve.Annotation {
	annotations := make([]resolve.Annotation, len(r.Label))
	for i, l := range r.Label {
		annotations[i] = resolve.Annotation{Start: l.Start, End: l.End, Label: l.Label}
	}
	return annotations
}

// DecodeRecords reads JSONL records from reader. Empty lines are ignored.
func DecodeRecords(reader io.Reader) ([]Record, error) {
	var records []Record
	err := scanLines(reader, func(lineNo int, line []byte) error {
		var r Record
		if err := json.Unmarshal(line, &r); err != nil {
			return errors.Wrapf(err, "line %d", lineNo)
		}
		records = append(records, r)
		return nil
	})
	return records, err
}

// ReadRecordsJSONL reads the annotation records of a Doccano JSONL export.
func ReadRecordsJSONL(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open records file")
	}
	defer func() { _ = f.Close() }()
	records, err := DecodeRecords(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "while reading records from %q", path)
	}
	return records, nil
}

// ConvertAll converts every record into a document with entities.
// It stops at the first record that can't be turned into a document.
func ConvertAll(records []Record, converter *resolve.Converter) ([]*document.Document, error) {
	docs := make([]*document.Document, 0, len(records))
	for _, r := range records {
		doc, err := converter.Convert(r.ID, r.Data, r.Annotations())
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func scanLines(reader io.Reader, fn func(lineNo int, line []byte) error) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "after line %d", lineNo)
	}
	return nil
}
