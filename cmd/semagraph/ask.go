// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/semagraph/internal/answer"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a natural-language question about the graph",
	Long: `Ask flattens the graph into a local SQL table, has the configured
model write a query for the question, runs it, and has the model explain
the result in plain language.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := agentConfig(cmd)
	question := strings.Join(args, " ")

	llm, err := answer.NewLLM(cfg.Answer, &http.Client{Timeout: 120 * time.Second})
	if err != nil {
		return err
	}

	g, err := loadGraph(cmd, cfg)
	if err != nil {
		return err
	}

	store, err := answer.NewStore(cfg.Answer.DBFile)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	rebuild, _ := cmd.Flags().GetBool("rebuild")
	if !rebuild {
		populated, err := store.Populated(ctx)
		if err != nil {
			return err
		}
		rebuild = !populated
	}
	if rebuild {
		if err := store.Populate(ctx, g.All()); err != nil {
			return err
		}
	}

	machine := &answer.Machine{
		LLM:        llm,
		Store:      store,
		MaxRetries: cfg.Answer.MaxRetries,
	}

	request, _ := cmd.Flags().GetString("request")
	reply, err := machine.Answer(ctx, question, request)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}

func init() {
	askCmd.Flags().String("input", "", "dump file to question (default: configured dump file)")
	askCmd.Flags().String("request", "", "override the phrasing sent to the SQL generator")
	askCmd.Flags().Bool("rebuild", false, "rebuild the local SQL table even when it already has rows")

	rootCmd.AddCommand(askCmd)
}
