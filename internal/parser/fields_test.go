package parser

import "testing"

func TestExtractFields_AllPresent(t *testing.T) {
	block := `
Cosa faccio: Controllo le fatture
Che tool uso: Excel, SAP
Cosa ricevo: fattura PDF
Cosa produco: registrazione contabile
Quanto tempo impiego: 30 minuti
Cosa mi fa perdere tempo: fatture senza numero ordine`

	f := ExtractFields(block, DefaultLabelSet())
	if f.Description != "Controllo le fatture" {
		t.Errorf("description: got %q", f.Description)
	}
	if f.Tools != "Excel, SAP" {
		t.Errorf("tools: got %q", f.Tools)
	}
	if f.Inputs != "fattura PDF" {
		t.Errorf("inputs: got %q", f.Inputs)
	}
	if f.Outputs != "registrazione contabile" {
		t.Errorf("outputs: got %q", f.Outputs)
	}
	if f.Duration != "30 minuti" {
		t.Errorf("duration: got %q", f.Duration)
	}
	if f.PainPoints != "fatture senza numero ordine" {
		t.Errorf("pain points: got %q", f.PainPoints)
	}
}

func TestExtractFields_MissingIntermediateLabel(t *testing.T) {
	// No tools label: the description capture must run through to the
	// next label that actually appears.
	block := "Cosa faccio: Valido la richiesta\nCosa ricevo: modulo firmato"

	f := ExtractFields(block, DefaultLabelSet())
	if f.Description != "Valido la richiesta" {
		t.Errorf("description: got %q", f.Description)
	}
	if f.Tools != "" {
		t.Errorf("tools: expected empty, got %q", f.Tools)
	}
	if f.Inputs != "modulo firmato" {
		t.Errorf("inputs: got %q", f.Inputs)
	}
}

func TestExtractFields_MissingAll(t *testing.T) {
	f := ExtractFields("testo libero senza etichette", DefaultLabelSet())
	if f != (Fields{}) {
		t.Errorf("expected zero fields, got %+v", f)
	}
	if f.Complete() {
		t.Error("expected incomplete fields")
	}
}

func TestExtractFields_MultibyteText(t *testing.T) {
	// Characters whose lowercase form has a different byte length must
	// not shift the captures that follow them.
	block := "Ⱥ premessa\nCosa faccio: Verifica fatture\nChe tool uso: Excel"

	f := ExtractFields(block, DefaultLabelSet())
	if f.Description != "Verifica fatture" {
		t.Errorf("description: got %q", f.Description)
	}
	if f.Tools != "Excel" {
		t.Errorf("tools: got %q", f.Tools)
	}
}

func TestFieldsComplete(t *testing.T) {
	if (Fields{Duration: "5 minuti"}).Complete() {
		t.Error("block without description must be incomplete")
	}
	if !(Fields{Description: "x"}).Complete() {
		t.Error("description alone makes the block complete")
	}
}

func TestCleanCapture(t *testing.T) {
	cases := map[string]string{
		": valore":      "valore",
		"? valore ":     "valore",
		" - valore":     "valore",
		"\tvalore\n":    "valore",
		":- : valore":   "valore",
		"senza simboli": "senza simboli",
	}
	for in, want := range cases {
		if got := cleanCapture(in); got != want {
			t.Errorf("cleanCapture(%q) = %q, want %q", in, got, want)
		}
	}
}
