// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/semagraph/internal/sparql"
)

var queryCmd = &cobra.Command{
	Use:   "query [sparql]",
	Short: "Run a SPARQL SELECT query against a dump",
	Long: `Query evaluates a SPARQL SELECT query against the graph parsed from
--input. The query is taken from the argument or from --query-file. Results
print as tab-separated rows, or JSON with --json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := agentConfig(cmd)

	queryText := ""
	if len(args) == 1 {
		queryText = args[0]
	}
	if path, _ := cmd.Flags().GetString("query-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading query file: %w", err)
		}
		queryText = string(data)
	}
	if strings.TrimSpace(queryText) == "" {
		return fmt.Errorf("no query: pass it as an argument or with --query-file")
	}

	g, err := loadGraph(cmd, cfg)
	if err != nil {
		return err
	}

	rows, err := sparql.QueryGraph(queryText, g)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	// Stable column order across rows.
	cols := map[string]bool{}
	for _, row := range rows {
		for v := range row {
			cols[v] = true
		}
	}
	header := make([]string, 0, len(cols))
	for v := range cols {
		header = append(header, v)
	}
	sort.Strings(header)

	fmt.Fprintln(out, strings.Join(header, "\t"))
	for _, row := range rows {
		fields := make([]string, len(header))
		for i, v := range header {
			fields[i] = row[v]
		}
		fmt.Fprintln(out, strings.Join(fields, "\t"))
	}
	return nil
}

func init() {
	queryCmd.Flags().String("input", "", "dump file to query (default: configured dump file)")
	queryCmd.Flags().String("query-file", "", "read the query from a file")
	queryCmd.Flags().Bool("json", false, "print results as JSON")

	rootCmd.AddCommand(queryCmd)
}
