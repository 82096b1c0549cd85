package parser

// FrequencyEntry binds one recurrence stem to its occurrences per month.
type FrequencyEntry struct {
	Stem     string `yaml:"stem"`
	PerMonth int    `yaml:"per_month"`
}

// LabelSet defines the vocabulary used to segment a workshop transcript
// and extract per-step fields. Matching is case-insensitive everywhere.
// The zero value is unusable; start from DefaultLabelSet and override.
type LabelSet struct {
	// StepMarker introduces a step block when followed by an integer.
	StepMarker string

	// Field labels, in the fixed scan order. Each field's capture runs
	// from its label to the next label that actually appears in the block.
	Description string
	Tools       string
	Inputs      string
	Outputs     string
	Duration    string
	PainPoints  string

	// Document-level labels, parsed once per import.
	ProcessName string
	Category    string
	Frequency   string

	// FrequencyVocabulary maps recurrence keywords (matched by
	// case-insensitive containment, stems allowed) to occurrences per
	// month. Checked in order; the first matching stem wins.
	FrequencyVocabulary []FrequencyEntry

	// Duration unit keywords, checked in priority order:
	// hours, then days, then weeks. First match wins.
	HourKeywords []string
	DayKeywords  []string
	WeekKeywords []string
}

// DefaultLabelSet returns the Italian workshop vocabulary the mapping
// sessions are run with.
func DefaultLabelSet() LabelSet {
	return LabelSet{
		StepMarker: "step",

		Description: "cosa faccio",
		Tools:       "che tool uso",
		Inputs:      "cosa ricevo",
		Outputs:     "cosa produco",
		Duration:    "quanto tempo impiego",
		PainPoints:  "cosa mi fa perdere tempo",

		ProcessName: "quale processo sto mappando",
		Category:    "categoria",
		Frequency:   "frequenza",

		FrequencyVocabulary: []FrequencyEntry{
			{Stem: "giornalier", PerMonth: 365},
			{Stem: "quotidian", PerMonth: 365},
			{Stem: "daily", PerMonth: 365},
			{Stem: "settimanal", PerMonth: 52},
			{Stem: "weekly", PerMonth: 52},
			{Stem: "trimestral", PerMonth: 4},
			{Stem: "quarterly", PerMonth: 4},
			{Stem: "mensil", PerMonth: 12},
			{Stem: "monthly", PerMonth: 12},
			{Stem: "annual", PerMonth: 1},
			{Stem: "yearly", PerMonth: 1},
		},

		HourKeywords: []string{"ora", "ore", "hour"},
		DayKeywords:  []string{"giorno", "giorni", "day"},
		WeekKeywords: []string{"settiman", "week"},
	}
}

// fieldLabels returns the per-step labels in scan order.
func (l LabelSet) fieldLabels() []string {
	return []string{
		l.Description,
		l.Tools,
		l.Inputs,
		l.Outputs,
		l.Duration,
		l.PainPoints,
	}
}
