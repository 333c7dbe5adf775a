// Package alignment computes token-to-token correspondences between two tokenizations
// of equivalent text, e.g. a document before and after whitespace normalization.
//
// Tokens are compared character by character after normalization (NFKC, lower case,
// whitespace removed), so tokenizations that split the same characters differently
// still align, and whitespace-only tokens map to nothing.
package alignment

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// ErrNotEquivalent is returned by Align when the two token sequences don't spell the
// same normalized text.
var ErrNotEquivalent = errors.New("token sequences are not equivalent")

// Mapping maps each source token index to the ordered target token indices
// corresponding to it. An empty entry means the source token was elided in the target.
type Mapping [][]int

// Validate checks that every target index is within [0, targetLen) and that each
// entry is strictly ascending.
func (m Mapping) Validate(targetLen int) error {
	for i, targets := range m {
		for j, idx := range targets {
			if idx < 0 || idx >= targetLen {
				return errors.Errorf("mapping[%d][%d]=%d out of range for %d target tokens", i, j, idx, targetLen)
			}
			if j > 0 && idx <= targets[j-1] {
				return errors.Errorf("mapping[%d] is not strictly ascending: %v", i, targets)
			}
		}
	}
	return nil
}

// Elided returns the source token indices with no corresponding target token.
func (m Mapping) Elided() []int {
	var out []int
	for i, targets := range m {
		if len(targets) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// Align returns the mappings from a to b and from b to a, given the texts of each token.
//
// It returns an error wrapping ErrNotEquivalent if the normalized concatenations of a
// and b differ.
func Align(a, b []string) (a2b, b2a Mapping, err error) {
	charsA, ownersA := normalizedChars(a)
	charsB, ownersB := normalizedChars(b)
	if len(charsA) != len(charsB) {
		return nil, nil, errors.Wrapf(ErrNotEquivalent, "normalized lengths differ (%d != %d characters)", len(charsA), len(charsB))
	}
	for k := range charsA {
		if charsA[k] != charsB[k] {
			return nil, nil, errors.Wrapf(ErrNotEquivalent, "first difference at normalized character %d: source token %q, target token %q",
				k, a[ownersA[k]], b[ownersB[k]])
		}
	}

	a2b = make(Mapping, len(a))
	b2a = make(Mapping, len(b))
	for k := range charsA {
		ia, ib := ownersA[k], ownersB[k]
		a2b[ia] = appendDistinct(a2b[ia], ib)
		b2a[ib] = appendDistinct(b2a[ib], ia)
	}
	return a2b, b2a, nil
}

// appendDistinct appends v unless it's already the last element. Owners are visited in
// ascending order, so this keeps entries sorted and free of duplicates.
func appendDistinct(list []int, v int) []int {
	if n := len(list); n > 0 && list[n-1] == v {
		return list
	}
	return append(list, v)
}

// normalizedChars returns the normalized characters of all tokens, concatenated, and
// for each character the index of the token it came from.
func normalizedChars(tokens []string) (chars []rune, owners []int) {
	for i, tok := range tokens {
		for _, r := range norm.NFKC.String(strings.ToLower(tok)) {
			if unicode.IsSpace(r) {
				continue
			}
			chars = append(chars, r)
			owners = append(owners, i)
		}
	}
	return chars, owners
}
