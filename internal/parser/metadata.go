package parser

import (
	"strings"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
)

// ParseMetadata extracts the document-level process fields. Each label
// captures the rest of its line. Category defaults to the general bucket
// and frequency falls back to the monthly default when the document
// declares nothing recognizable.
func ParseMetadata(text string, labels LabelSet) domain.ProcessMetadata {
	meta := domain.ProcessMetadata{
		Category:          domain.DefaultCategory,
		FrequencyPerMonth: domain.DefaultFrequencyPerMonth,
	}

	meta.Name = lineAfterLabel(text, labels.ProcessName)

	if cat := lineAfterLabel(text, labels.Category); cat != "" {
		meta.Category = cat
	}

	if freq := lineAfterLabel(text, labels.Frequency); freq != "" {
		meta.FrequencyPerMonth = FrequencyPerMonth(freq, labels)
	}

	return meta
}

// FrequencyPerMonth maps a recurrence expression to occurrences per
// month via the controlled vocabulary (stem containment,
// case-insensitive). Unrecognized input yields the monthly default.
func FrequencyPerMonth(text string, labels LabelSet) int {
	lower := strings.ToLower(text)
	for _, entry := range labels.FrequencyVocabulary {
		if entry.Stem != "" && strings.Contains(lower, entry.Stem) {
			return entry.PerMonth
		}
	}
	return domain.DefaultFrequencyPerMonth
}

// lineAfterLabel finds the first case-insensitive occurrence of label
// and returns the cleaned remainder of that line, or "".
func lineAfterLabel(text, label string) string {
	if label == "" {
		return ""
	}
	// foldASCII keeps byte offsets valid in the original text.
	idx := strings.Index(foldASCII(text), foldASCII(label))
	if idx < 0 {
		return ""
	}
	rest := text[idx+len(label):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return cleanCapture(rest)
}
