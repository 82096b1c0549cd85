package domain

import "time"

// DefaultCategory is assigned when the source document declares no category.
const DefaultCategory = "Generale"

// DefaultFrequencyPerMonth is assigned when the source document declares
// no recognizable frequency keyword.
const DefaultFrequencyPerMonth = 12

// ListPlaceholder is the sentinel entry substituted for an empty
// tools/inputs/outputs list. Downstream consumers assume those lists are
// never empty.
const ListPlaceholder = "N/A"

// Process represents a mapped business process
type Process struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	FrequencyPerMonth int       `json:"frequency_per_month"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ProcessStep is the canonical record for one step of a process,
// independent of its textual or diagrammatic representation.
type ProcessStep struct {
	ID        string `json:"id"`
	ProcessID string `json:"process_id"`

	// Ordinal is the step position in document order (1-based).
	Ordinal int `json:"ordinal"`

	// DeclaredNumber is the step number as written in the source text.
	// Display-only: ordering always follows Ordinal.
	DeclaredNumber int `json:"declared_number"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// Tools, Inputs and Outputs are ordered and never empty; an empty
	// source list is replaced by the ListPlaceholder sentinel.
	Tools   []string `json:"tools"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`

	DurationMinutes   int    `json:"duration_minutes"`
	FrequencyPerMonth int    `json:"frequency_per_month"`
	PainPoints        string `json:"pain_points,omitempty"`

	// Provenance records where the step came from (e.g. which text block
	// of which import).
	Provenance string `json:"provenance,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ProcessMetadata holds the document-level fields parsed once per import.
type ProcessMetadata struct {
	Name              string `json:"name"`
	Category          string `json:"category"`
	FrequencyPerMonth int    `json:"frequency_per_month"`
}

// ProcessWithSteps combines a process with its steps in ordinal order.
type ProcessWithSteps struct {
	Process *Process       `json:"process"`
	Steps   []*ProcessStep `json:"steps"`
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Process       *Process       `json:"process"`
	Steps         []*ProcessStep `json:"steps"`
	SkippedBlocks int            `json:"skipped_blocks"`
}

// IsValid reports whether the step satisfies the record invariants:
// non-empty description and non-empty list fields.
func (s *ProcessStep) IsValid() bool {
	return s.Description != "" &&
		len(s.Tools) > 0 &&
		len(s.Inputs) > 0 &&
		len(s.Outputs) > 0
}
