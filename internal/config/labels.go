package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/procmap-labs/procmap-core/internal/parser"
)

// labelsFile mirrors the YAML vocabulary override file. Every field is
// optional; absent fields keep their default value.
type labelsFile struct {
	StepMarker *string `yaml:"step_marker"`

	Description *string `yaml:"description"`
	Tools       *string `yaml:"tools"`
	Inputs      *string `yaml:"inputs"`
	Outputs     *string `yaml:"outputs"`
	Duration    *string `yaml:"duration"`
	PainPoints  *string `yaml:"pain_points"`

	ProcessName *string `yaml:"process_name"`
	Category    *string `yaml:"category"`
	Frequency   *string `yaml:"frequency"`

	FrequencyVocabulary []parser.FrequencyEntry `yaml:"frequency_vocabulary"`

	HourKeywords []string `yaml:"hour_keywords"`
	DayKeywords  []string `yaml:"day_keywords"`
	WeekKeywords []string `yaml:"week_keywords"`
}

// LoadLabelSet returns the parsing vocabulary, merging an optional YAML
// override file over the built-in defaults. An empty path returns the
// defaults unchanged.
func LoadLabelSet(path string) (parser.LabelSet, error) {
	labels := parser.DefaultLabelSet()
	if path == "" {
		return labels, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return labels, fmt.Errorf("read labels file: %w", err)
	}

	var file labelsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return labels, fmt.Errorf("parse labels file: %w", err)
	}

	applyString := func(dst *string, src *string) {
		if src != nil && *src != "" {
			*dst = *src
		}
	}

	applyString(&labels.StepMarker, file.StepMarker)
	applyString(&labels.Description, file.Description)
	applyString(&labels.Tools, file.Tools)
	applyString(&labels.Inputs, file.Inputs)
	applyString(&labels.Outputs, file.Outputs)
	applyString(&labels.Duration, file.Duration)
	applyString(&labels.PainPoints, file.PainPoints)
	applyString(&labels.ProcessName, file.ProcessName)
	applyString(&labels.Category, file.Category)
	applyString(&labels.Frequency, file.Frequency)

	if len(file.FrequencyVocabulary) > 0 {
		labels.FrequencyVocabulary = file.FrequencyVocabulary
	}
	if len(file.HourKeywords) > 0 {
		labels.HourKeywords = file.HourKeywords
	}
	if len(file.DayKeywords) > 0 {
		labels.DayKeywords = file.DayKeywords
	}
	if len(file.WeekKeywords) > 0 {
		labels.WeekKeywords = file.WeekKeywords
	}

	return labels, nil
}
