// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/semagraph/internal/feed"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Render the graph's recently modified subjects as RSS",
	RunE:  runFeed,
}

func runFeed(cmd *cobra.Command, args []string) error {
	cfg := agentConfig(cmd)

	if n, _ := cmd.Flags().GetInt("max-items"); n > 0 {
		cfg.Feed.MaxItems = n
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

	return feed.Write(out, feed.Build(g, cfg.Feed))
}

func init() {
	feedCmd.Flags().String("input", "", "dump file to render (default: configured dump file)")
	feedCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	feedCmd.Flags().Int("max-items", 0, "cap on feed items (default 20)")

	rootCmd.AddCommand(feedCmd)
}
