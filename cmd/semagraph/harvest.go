// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/semagraph/internal/harvest"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest <url>...",
	Short: "Download RDF dumps into the data directory",
	Long: `Harvest downloads each dump URL into the data directory, skipping
files that already exist and pausing between downloads to stay polite.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHarvest,
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg := agentConfig(cmd)

	if delay, _ := cmd.Flags().GetDuration("delay"); delay > 0 {
		cfg.Harvest.DownloadDelay = delay
	}

	timeout := cfg.Harvest.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	client := &http.Client{Timeout: timeout}
	result, err := harvest.FetchAll(cmd.Context(), client, args, cfg.Harvest, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d of %d downloads failed", result.Failed, result.Total())
	}
	return nil
}

func init() {
	harvestCmd.Flags().Duration("delay", 0, "pause between downloads (default 1s)")

	rootCmd.AddCommand(harvestCmd)
}
