// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/semagraph/internal/rdf"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Serialize the graph to Turtle, N-Triples, or JSON-LD",
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := agentConfig(cmd)

	formatName, _ := cmd.Flags().GetString("format")
	format, err := rdf.ParseFormat(formatName)
	if err != nil {
		return err
	}

	g, err := loadGraph(cmd, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	prefixes := rdf.DefaultPrefixes(cfg.Graph.BaseIRI)
	return rdf.Write(out, g.All(), format, prefixes)
}

func init() {
	exportCmd.Flags().String("input", "", "dump file to export (default: configured dump file)")
	exportCmd.Flags().StringP("format", "f", "turtle", "output format: turtle, ntriples, or jsonld")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
