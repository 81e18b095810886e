// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/semagraph/internal/answer"
	"github.com/pdiddy/semagraph/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP query API",
	Long: `Serve runs the knowledge graph API on port 8000 (override with --port).
When DUMP_FILE is set the dump is loaded before the server accepts requests;
otherwise clients load data through POST /load.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := agentConfig(cmd)

	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}

	// A missing model is not fatal; only /ask needs it.
	llm, err := answer.NewLLM(cfg.Answer, &http.Client{Timeout: 120 * time.Second})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: answering machine disabled: %v\n", err)
		llm = nil
	}

	srv := server.New(cfg, llm)

	if err := srv.LoadStartupDump(os.Stderr); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "listening on %s\n", srv.Addr())
	return srv.Start()
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (default 8000)")
	serveCmd.Flags().String("host", "", "listen address (default 0.0.0.0)")

	rootCmd.AddCommand(serveCmd)
}
