// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the semagraph CLI: a knowledge-graph
// agent that loads Semantic MediaWiki RDF dumps, serves them over HTTP, and
// answers questions about them.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/semagraph/internal/secrets"
	"github.com/pdiddy/semagraph/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from the secrets directory at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the semagraph CLI.
var rootCmd = &cobra.Command{
	Use:   "semagraph",
	Short: "Knowledge-graph agent for Semantic MediaWiki exports",
	Long: `semagraph loads RDF/XML dumps exported by Semantic MediaWiki into an
in-memory knowledge graph and exposes it through an HTTP API and this CLI.

Each surface is a subcommand: serve runs the API, load and export move data
in and out, query runs SPARQL SELECT queries, inspect reports on a subject,
ask routes a natural-language question through the answering machine, harvest
downloads dumps, and feed renders the graph as RSS.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./semagraph.yaml or ~/.config/semagraph/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for dumps and serialized output (default: $DATA_DIR or ./data)")
	rootCmd.PersistentFlags().String("base-iri", "", "wiki base IRI stripped from cleaned output")
}

func initConfig() {
	// A .env file supplies the compose contract locally.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("semagraph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "semagraph"))
		}
	}

	viper.SetEnvPrefix("SEMAGRAPH")
	viper.AutomaticEnv()

	// The container contract uses unprefixed names.
	_ = viper.BindEnv("data_dir", "SEMAGRAPH_DATA_DIR", "DATA_DIR")
	_ = viper.BindEnv("dump_file", "SEMAGRAPH_DUMP_FILE", "DUMP_FILE")
	_ = viper.BindEnv("ollama_host", "SEMAGRAPH_OLLAMA_HOST", "OLLAMA_HOST")
	_ = viper.BindEnv("model", "SEMAGRAPH_MODEL", "MODEL")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// agentConfig assembles the full configuration from flags, config file,
// environment, and secrets, in that precedence order.
func agentConfig(cmd *cobra.Command) types.AgentConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("data_dir")
	}
	if dataDir == "" {
		dataDir = "data"
	}

	baseIRI, _ := cmd.Flags().GetString("base-iri")
	if baseIRI == "" {
		baseIRI = viper.GetString("base_iri")
	}

	cfg := types.AgentConfig{
		Graph: types.GraphConfig{
			DataDir:  dataDir,
			DumpFile: viper.GetString("dump_file"),
			BaseIRI:  baseIRI,
		},
		Server: types.ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
		},
		Answer: types.AnswerConfig{
			Backend:    types.AnswerBackend(viper.GetString("answer.backend")),
			Model:      loadedSecrets.Get(secrets.KeyModel, viper.GetString("model")),
			OllamaHost: loadedSecrets.Get(secrets.KeyOllamaHost, viper.GetString("ollama_host")),
			APIKey:     loadedSecrets.Get(secrets.KeyAnthropicAPIKey, viper.GetString("answer.api_key")),
			MaxRetries: viper.GetInt("answer.max_retries"),
			DBFile:     viper.GetString("answer.db_file"),
		},
		Harvest: types.HarvestConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   10 * time.Minute,
				UserAgent: "semagraph/" + version,
			},
			DataDir: dataDir,
		},
		Feed: types.FeedConfig{
			Title:       viper.GetString("feed.title"),
			SiteLink:    viper.GetString("feed.site_link"),
			Description: viper.GetString("feed.description"),
			MaxItems:    viper.GetInt("feed.max_items"),
		},
	}

	if cfg.Feed.Title == "" {
		cfg.Feed.Title = "Knowledge Graph Updates"
	}
	if cfg.Feed.SiteLink == "" && baseIRI != "" {
		cfg.Feed.SiteLink = baseIRI
	}
	if cfg.Feed.Description == "" {
		cfg.Feed.Description = "Recently modified subjects in the knowledge graph"
	}
	if cfg.Answer.DBFile == "" {
		cfg.Answer.DBFile = filepath.Join(dataDir, "tempodata.db")
	}

	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
