package domain

import "testing"

func TestProcessStepIsValid(t *testing.T) {
	step := &ProcessStep{
		Description: "Raccolgo documenti",
		Tools:       []string{"Email"},
		Inputs:      []string{ListPlaceholder},
		Outputs:     []string{ListPlaceholder},
	}
	if !step.IsValid() {
		t.Error("expected step with description and non-empty lists to be valid")
	}

	step.Description = ""
	if step.IsValid() {
		t.Error("expected step without description to be invalid")
	}

	step.Description = "Archivio documenti"
	step.Tools = nil
	if step.IsValid() {
		t.Error("expected step with empty tools list to be invalid")
	}
}

func TestDefaults(t *testing.T) {
	if DefaultCategory != "Generale" {
		t.Errorf("expected default category Generale, got %s", DefaultCategory)
	}
	if DefaultFrequencyPerMonth != 12 {
		t.Errorf("expected default frequency 12, got %d", DefaultFrequencyPerMonth)
	}
	if ListPlaceholder != "N/A" {
		t.Errorf("expected list placeholder N/A, got %s", ListPlaceholder)
	}
}
