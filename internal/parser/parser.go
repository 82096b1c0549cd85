// Package parser converts loosely structured workshop transcripts into
// canonical process-step records. All functions are pure and perform
// single forward scans, so cost stays linear in the input size.
package parser

import (
	"fmt"
	"strings"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
)

// titleMaxLen is how much of the description is carried into the
// synthesized step title before truncation.
const titleMaxLen = 50

// Document is the outcome of parsing one transcript.
type Document struct {
	Metadata domain.ProcessMetadata

	// Steps holds the assembled records in document order. IDs and
	// timestamps are left for the persistence layer to assign.
	Steps []*domain.ProcessStep

	// SkippedOrdinals lists the blocks rejected by the completeness
	// gate (no description), in document order.
	SkippedOrdinals []int
}

// Parse runs the full pipeline: segment, extract, normalize, assemble.
//
// Failure taxonomy: a document without step markers returns
// domain.ErrNoStepsFound; a document where every block is rejected
// returns domain.ErrEmptyImport. Individual rejected blocks are reported
// through SkippedOrdinals and never abort the batch.
func Parse(text string, labels LabelSet) (*Document, error) {
	text = NormalizeText(text)

	blocks := Segment(text, labels)
	if len(blocks) == 0 {
		return nil, domain.ErrNoStepsFound
	}

	doc := &Document{Metadata: ParseMetadata(text, labels)}

	ordinal := 0
	for _, block := range blocks {
		fields := ExtractFields(block.Raw, labels)
		if !fields.Complete() {
			doc.SkippedOrdinals = append(doc.SkippedOrdinals, block.Ordinal)
			continue
		}
		ordinal++
		doc.Steps = append(doc.Steps, assembleStep(ordinal, block, fields, doc.Metadata, labels))
	}

	if len(doc.Steps) == 0 {
		return nil, domain.ErrEmptyImport
	}
	return doc, nil
}

// assembleStep combines document metadata with one block's extracted
// fields into a canonical record.
func assembleStep(ordinal int, block Block, fields Fields, meta domain.ProcessMetadata, labels LabelSet) *domain.ProcessStep {
	return &domain.ProcessStep{
		Ordinal:           ordinal,
		DeclaredNumber:    block.DeclaredNumber,
		Title:             makeTitle(ordinal, fields.Description),
		Description:       fields.Description,
		Tools:             SplitList(fields.Tools),
		Inputs:            SplitList(fields.Inputs),
		Outputs:           SplitList(fields.Outputs),
		DurationMinutes:   ParseDurationMinutes(fields.Duration, labels),
		FrequencyPerMonth: meta.FrequencyPerMonth,
		PainPoints:        fields.PainPoints,
		Provenance:        fmt.Sprintf("blocco %d, step dichiarato %d", block.Ordinal, block.DeclaredNumber),
	}
}

// makeTitle synthesizes the step title from the description, truncated
// to its first characters with an ellipsis marker.
func makeTitle(ordinal int, description string) string {
	runes := []rune(description)
	if len(runes) > titleMaxLen {
		return fmt.Sprintf("Step %d: %s...", ordinal, string(runes[:titleMaxLen]))
	}
	return fmt.Sprintf("Step %d: %s", ordinal, description)
}

// SplitList turns a comma-separated capture into an ordered list:
// entries trimmed, empties dropped. An empty result is replaced by the
// single-entry placeholder list so downstream consumers never see an
// empty list.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{domain.ListPlaceholder}
	}
	return out
}

// NormalizeText canonicalizes line endings and collapses runs of three
// or more blank lines, mirroring what the text-extraction collaborator
// hands us.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}
