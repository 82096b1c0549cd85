package parser

import "strings"

// Fields holds the six raw field captures of one step block. All values
// are free text; everything except Description is optional.
type Fields struct {
	Description string
	Tools       string
	Inputs      string
	Outputs     string
	Duration    string
	PainPoints  string
}

// Complete reports whether the block carries enough information to
// become a record. A step without a description is rejected outright: it
// would be noise downstream.
func (f Fields) Complete() bool {
	return f.Description != ""
}

// ExtractFields captures the six named fields from one block using an
// ordered-label scan: each field's capture runs from its label to the
// next label of the sequence that actually appears in the block, so a
// missing intermediate label is skipped gracefully. A missing field
// yields the empty string.
func ExtractFields(block string, labels LabelSet) Fields {
	seq := labels.fieldLabels()
	// foldASCII keeps byte offsets valid in the original block.
	lower := foldASCII(block)

	// Locate each label once; -1 means absent.
	starts := make([]int, len(seq))
	for i, label := range seq {
		starts[i] = -1
		if label == "" {
			continue
		}
		if idx := strings.Index(lower, foldASCII(label)); idx >= 0 {
			starts[i] = idx
		}
	}

	captures := make([]string, len(seq))
	for i, label := range seq {
		if starts[i] < 0 {
			continue
		}
		from := starts[i] + len(label)

		// Capture ends at the nearest following label that is present.
		end := len(block)
		for j := range seq {
			if j == i || starts[j] < 0 {
				continue
			}
			if starts[j] > starts[i] && starts[j] < end {
				end = starts[j]
			}
		}

		captures[i] = cleanCapture(block[from:end])
	}

	return Fields{
		Description: captures[0],
		Tools:       captures[1],
		Inputs:      captures[2],
		Outputs:     captures[3],
		Duration:    captures[4],
		PainPoints:  captures[5],
	}
}

// cleanCapture strips the label's trailing punctuation and surrounding
// whitespace from a raw capture.
func cleanCapture(s string) string {
	s = strings.TrimLeft(s, " \t")
	for len(s) > 0 && (s[0] == ':' || s[0] == '?' || s[0] == '-') {
		s = strings.TrimLeft(s[1:], " \t")
	}
	return strings.TrimSpace(s)
}
