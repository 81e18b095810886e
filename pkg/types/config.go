// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "semagraph/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GraphConfig holds settings for loading and cleaning the knowledge graph.
type GraphConfig struct {
	// DataDir is the directory holding RDF dumps and serialized output.
	// Bare filenames passed to the loader resolve against it.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DumpFile is an optional dump to load at startup. It is passed
	// through unvalidated and has no default.
	DumpFile string `json:"dump_file,omitempty" yaml:"dump_file,omitempty"`

	// BaseIRI is the wiki's base IRI; objects and properties under it
	// are rewritten to absolute paths (e.g. "http://kb.dansdemo.nl/").
	BaseIRI string `json:"base_iri" yaml:"base_iri"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Host is the listen address (default "0.0.0.0").
	Host string `json:"host" yaml:"host"`

	// Port is the listen port (default 8000).
	Port int `json:"port" yaml:"port"`

	// ReadTimeout and WriteTimeout bound request handling (default 15s).
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

// AnswerBackend identifies the LLM used by the answering machine.
type AnswerBackend string

const (
	BackendOllama AnswerBackend = "ollama"
	BackendClaude AnswerBackend = "claude"
)

// AnswerConfig holds settings for the answering machine.
type AnswerConfig struct {
	// Backend selects the LLM: ollama or claude.
	Backend AnswerBackend `json:"backend" yaml:"backend"`

	// Model is the model identifier (e.g. "llama3.1" or a Claude model name).
	Model string `json:"model" yaml:"model"`

	// OllamaHost is the base URL of the Ollama server.
	OllamaHost string `json:"ollama_host,omitempty" yaml:"ollama_host,omitempty"`

	// APIKey authenticates against the Claude API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed LLM calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// DBFile is the SQLite file the graph is flattened into
	// (default DataDir/tempodata.db).
	DBFile string `json:"db_file,omitempty" yaml:"db_file,omitempty"`
}

// HarvestConfig holds settings for the dump harvester.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// DataDir is where downloaded dumps land.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// FeedConfig holds settings for RSS feed generation.
type FeedConfig struct {
	// Title is the channel title.
	Title string `json:"title" yaml:"title"`

	// SiteLink is the channel link and the base for relative item links.
	SiteLink string `json:"site_link" yaml:"site_link"`

	// Description is the channel description.
	Description string `json:"description" yaml:"description"`

	// MaxItems caps the number of feed items (default 20).
	MaxItems int `json:"max_items" yaml:"max_items"`
}

// AgentConfig groups all stage configurations.
type AgentConfig struct {
	Graph   GraphConfig   `json:"graph" yaml:"graph"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Answer  AnswerConfig  `json:"answer" yaml:"answer"`
	Harvest HarvestConfig `json:"harvest" yaml:"harvest"`
	Feed    FeedConfig    `json:"feed" yaml:"feed"`
}
