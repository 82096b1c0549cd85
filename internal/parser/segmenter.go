package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Block is the raw text of one step, from its marker to the next one.
type Block struct {
	// Ordinal is the block position in document order (1-based).
	Ordinal int

	// DeclaredNumber is the integer written after the step marker.
	// Display-only: duplicates and gaps are allowed and preserved.
	DeclaredNumber int

	// Raw is the block text after the marker and its number.
	Raw string
}

// Segment splits a normalized document into step blocks. The marker is
// matched case-insensitively, must start at a word boundary, and must be
// followed (after optional whitespace) by at least one digit. A document
// with no marker yields an empty slice: that is the caller's failure
// signal, not an error here.
//
// Single forward pass over an ASCII-folded copy; no backtracking.
func Segment(text string, labels LabelSet) []Block {
	marker := foldASCII(labels.StepMarker)
	if marker == "" {
		return nil
	}
	lower := foldASCII(text)

	type markerHit struct {
		declared  int
		markerPos int
		bodyFrom  int
	}
	var hits []markerHit

	for i := 0; i+len(marker) <= len(lower); {
		idx := strings.Index(lower[i:], marker)
		if idx < 0 {
			break
		}
		pos := i + idx

		// A marker embedded in a word ("misstep") does not open a block.
		if r, _ := utf8.DecodeLastRuneInString(text[:pos]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			i = pos + 1
			continue
		}

		j := pos + len(marker)

		// Skip spaces and tabs between marker and number.
		for j < len(lower) && (lower[j] == ' ' || lower[j] == '\t') {
			j++
		}

		if j >= len(lower) || !unicode.IsDigit(rune(lower[j])) {
			i = pos + 1
			continue
		}

		declared := 0
		for j < len(lower) && unicode.IsDigit(rune(lower[j])) {
			declared = declared*10 + int(lower[j]-'0')
			j++
		}

		hits = append(hits, markerHit{declared: declared, markerPos: pos, bodyFrom: j})
		i = j
	}

	blocks := make([]Block, 0, len(hits))
	for n, h := range hits {
		end := len(text)
		if n+1 < len(hits) {
			end = hits[n+1].markerPos
		}
		blocks = append(blocks, Block{
			Ordinal:        n + 1,
			DeclaredNumber: h.declared,
			Raw:            text[h.bodyFrom:end],
		})
	}
	return blocks
}

// foldASCII lowercases ASCII letters byte for byte and leaves everything
// else untouched, so the result has the same length as the input and any
// index found in the fold addresses the same bytes in the original.
// strings.ToLower cannot be used for this: some case mappings change the
// UTF-8 byte length. Marker and label matching is therefore
// case-insensitive for ASCII and byte-exact beyond it.
func foldASCII(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			if b == nil {
				b = []byte(s)
			}
			b[i] = c + 'a' - 'A'
		}
	}
	if b == nil {
		return s
	}
	return string(b)
}
