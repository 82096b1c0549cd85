// procmapctl is an offline companion tool for procmap-core. It runs the
// same document parser and BPMN compiler as the server, without needing
// a database or a running API.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/procmap-labs/procmap-core/internal/bpmn"
	"github.com/procmap-labs/procmap-core/internal/config"
	"github.com/procmap-labs/procmap-core/internal/core/domain"
	"github.com/procmap-labs/procmap-core/internal/parser"
)

var version = "dev"

var labelsPath string

func main() {
	rootCmd := &cobra.Command{
		Use:     "procmapctl",
		Short:   "Convert workshop transcripts into step records and BPMN diagrams",
		Version: version,
		Long: `procmapctl turns transcribed process-mapping workshop documents into
structured step records and BPMN 2.0 diagrams, using the same parsing
vocabulary as the procmap-core server.`,
	}

	rootCmd.PersistentFlags().StringVar(&labelsPath, "labels", "",
		"path to a YAML file overriding the parsing vocabulary")

	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newInspectCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newConvertCmd() *cobra.Command {
	var output string
	var name string

	cmd := &cobra.Command{
		Use:   "convert <document.txt>",
		Short: "Compile a workshop document into a BPMN 2.0 diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parseDocument(args[0])
			if err != nil {
				return err
			}

			process := &domain.Process{
				Name:              resolveName(doc.Metadata.Name, name),
				Category:          doc.Metadata.Category,
				FrequencyPerMonth: doc.Metadata.FrequencyPerMonth,
			}
			xml := bpmn.Compile(process, doc.Steps)

			if output == "" {
				base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
				output = base + ".bpmn"
			}
			if output == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), xml)
				return nil
			}

			if err := os.WriteFile(output, []byte(xml), 0o644); err != nil {
				return fmt.Errorf("write diagram: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d steps", output, len(doc.Steps))
			if len(doc.SkippedOrdinals) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), ", %d blocks skipped", len(doc.SkippedOrdinals))
			}
			fmt.Fprintln(cmd.OutOrStdout(), ")")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "",
		`output file (default: input name with .bpmn extension, "-" for stdout)`)
	cmd.Flags().StringVarP(&name, "name", "n", "",
		"override the process name declared in the document")
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <document.txt>",
		Short: "Parse a workshop document and print the step records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parseDocument(args[0])
			if err != nil {
				return err
			}

			out := struct {
				Metadata      domain.ProcessMetadata `json:"metadata"`
				Steps         []*domain.ProcessStep  `json:"steps"`
				SkippedBlocks []int                  `json:"skipped_blocks,omitempty"`
			}{
				Metadata:      doc.Metadata,
				Steps:         doc.Steps,
				SkippedBlocks: doc.SkippedOrdinals,
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	return cmd
}

// parseDocument reads and parses a transcript file with the configured
// vocabulary.
func parseDocument(path string) (*parser.Document, error) {
	labels, err := config.LoadLabelSet(labelsPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	doc, err := parser.Parse(string(data), labels)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func resolveName(declared, override string) string {
	if override != "" {
		return override
	}
	if declared != "" {
		return declared
	}
	return "Processo senza nome"
}
