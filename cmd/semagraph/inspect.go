// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/semagraph/internal/did"
	"github.com/pdiddy/semagraph/internal/graph"
	"github.com/pdiddy/semagraph/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <subject>",
	Short: "Report everything known about one subject",
	Long: `Inspect resolves a subject by IRI, label, or IRI tail and prints a
sectioned analysis (basic information, dates, participants, other wiki
properties) followed by every property with cleaned names and values.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := agentConfig(cmd)

	g, err := loadGraph(cmd, cfg)
	if err != nil {
		return err
	}

	subject, ok := g.LookupSubject(args[0])
	if !ok {
		return fmt.Errorf("subject %q not found", args[0])
	}

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(struct {
			Report     types.SubjectReport `yaml:"report"`
			Properties map[string]any      `yaml:"properties"`
		}{g.Report(subject), g.Detail(subject).Properties})
	}

	writeSubjectReport(cmd.OutOrStdout(), g, subject)
	return nil
}

func writeSubjectReport(out io.Writer, g *graph.Graph, subject types.Term) {
	report := g.Report(subject)

	fmt.Fprintf(out, "=== Subject Information (%s) ===\n", report.Subject)
	fmt.Fprintf(out, "did: %s\n", did.Mint(subject.Value))

	section(out, "Basic Information")
	field(out, "Name", report.Names)
	field(out, "Type", report.Types)
	field(out, "Description", report.Descriptions)

	section(out, "Dates")
	field(out, "Creation Date", report.CreationDates)
	field(out, "Last Modified", report.ModificationDates)
	field(out, "End Date", report.EndDates)

	section(out, "Participants")
	if len(report.Participants) == 0 {
		fmt.Fprintln(out, "No participants specified")
	}
	for _, p := range report.Participants {
		fmt.Fprintf(out, "- %s\n", p)
	}

	section(out, "Other Properties")
	field(out, "Geographic Scope", report.GeographicScopes)
	field(out, "Repository", report.Repositories)
	field(out, "Partner Institution", report.PartnerInstitutions)
	field(out, "Last Editor", report.LastEditors)

	fmt.Fprintln(out, "\n=== All Properties (Cleaned) ===")
	fmt.Fprintln(out, strings.Repeat("-", 50))

	props := g.Detail(subject).Properties
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		switch v := props[name].(type) {
		case []string:
			fmt.Fprintf(out, "%s:\n", name)
			for _, item := range v {
				fmt.Fprintf(out, "  - %s\n", item)
			}
		default:
			fmt.Fprintf(out, "%s: %v\n", name, v)
		}
	}
}

func section(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s:\n", title)
	fmt.Fprintln(out, strings.Repeat("-", 50))
}

func field(out io.Writer, label string, values []string) {
	if len(values) == 0 {
		fmt.Fprintf(out, "%s: Not specified\n", label)
		return
	}
	for _, v := range values {
		fmt.Fprintf(out, "%s: %s\n", label, v)
	}
}

func init() {
	inspectCmd.Flags().String("input", "", "dump file to inspect (default: configured dump file)")
	inspectCmd.Flags().Bool("yaml", false, "print the full report as YAML")

	rootCmd.AddCommand(inspectCmd)
}
