// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/semagraph/internal/graph"
	"github.com/pdiddy/semagraph/pkg/types"
)

var loadCmd = &cobra.Command{
	Use:   "load <dump-file>",
	Short: "Parse an RDF/XML dump and snapshot it as Turtle",
	Long: `Load parses a Semantic MediaWiki RDF/XML dump, reports the graph size,
and writes a Turtle snapshot to <data-dir>/` + graph.DynamicGraphFile + `.
Bare filenames are resolved against the data directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := agentConfig(cmd)

	g, err := graph.Load(cfg.Graph, args[0], os.Stderr)
	if err != nil {
		return err
	}

	stats := g.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "triples: %d\nsubjects: %d\npredicates: %d\nobjects: %d\n",
		stats.Triples, stats.Subjects, stats.Predicates, stats.Objects)

	if skip, _ := cmd.Flags().GetBool("no-snapshot"); skip {
		return nil
	}
	if err := graph.Snapshot(g, cfg.Graph); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	fmt.Fprintf(os.Stderr, "snapshot written to %s\n", graph.DynamicGraphFile)
	return nil
}

// loadGraph parses the dump named by --input, falling back to the configured
// dump file. Shared by the subcommands that read the graph without serving it.
func loadGraph(cmd *cobra.Command, cfg types.AgentConfig) (*graph.Graph, error) {
	path, _ := cmd.Flags().GetString("input")
	if path == "" {
		path = cfg.Graph.DumpFile
	}
	if path == "" {
		return nil, fmt.Errorf("no dump file: pass --input or set DUMP_FILE")
	}
	return graph.Load(cfg.Graph, path, os.Stderr)
}

func init() {
	loadCmd.Flags().Bool("no-snapshot", false, "skip writing the Turtle snapshot")

	rootCmd.AddCommand(loadCmd)
}
