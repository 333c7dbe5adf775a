package document

import "github.com/gomlx/spanalign/spans"

// AnnotateLines splits the document into lines and stores them in d.Lines.
//
// Every token whose text is exactly "\n" closes a line, and the line includes that
// token. A line is Repeated if an earlier line has the same text. Tokens after the
// last newline don't form a line.
//
// Lines are only meaningful when linebreaks are single "\n" tokens, e.g. after
// textfix.FixWhitespace.
func AnnotateLines(d *Document) []Line {
	var lines []Line
	seen := make(map[string]bool)
	lineStart := 0
	for i, t := range d.tokens {
		if t.Text != "\n" {
			continue
		}
		s := spans.New(lineStart, i+1, "")
		text := d.SpanText(s)
		lines = append(lines, Line{
			Span:     s,
			LineNo:   len(lines),
			Repeated: seen[text],
		})
		seen[text] = true
		lineStart = i + 1
	}
	d.Lines = lines
	return lines
}
