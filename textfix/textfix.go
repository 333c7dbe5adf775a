// Package textfix holds text transformations applied to documents before retokenization.
package textfix

import "regexp"

// space matches any Unicode whitespace, not only the ASCII set of RE2's \s.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	// One or more linebreaks and any surrounding whitespace.
	linebreaks = regexp.MustCompile(space + `*[\r\n\f\v]+` + space + `*`)
	// One or more blanks that are not linebreaks.
	blanks = regexp.MustCompile(`[ \t]+`)
)

// FixWhitespace collapses every linebreak run, with its surrounding whitespace, into a
// single "\n", and then every run of spaces and tabs into a single " ".
func FixWhitespace(text string) string {
	text = linebreaks.ReplaceAllLiteralString(text, "\n")
	return blanks.ReplaceAllLiteralString(text, " ")
}
