// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/semagraph/internal/httputil"
	"github.com/pdiddy/semagraph/pkg/types"
)

// LLM abstracts the chat model so tests can supply a mock. Each
// implementation sends one prompt and returns the model's text reply.
type LLM interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// NewLLM builds the backend selected by the configuration.
func NewLLM(cfg types.AnswerConfig, client *http.Client) (LLM, error) {
	switch cfg.Backend {
	case types.BackendOllama, "":
		host := cfg.OllamaHost
		if host == "" {
			return nil, fmt.Errorf("ollama backend requires an ollama host")
		}
		return &OllamaBackend{Host: host, Model: cfg.Model, Client: client}, nil
	case types.BackendClaude:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("claude backend requires an API key")
		}
		return &ClaudeBackend{APIKey: cfg.APIKey, Model: cfg.Model, Client: client}, nil
	}
	return nil, fmt.Errorf("unknown answer backend %q: use ollama or claude", cfg.Backend)
}

// OllamaBackend calls a local or remote Ollama server's chat API.
type OllamaBackend struct {
	Host   string
	Model  string
	Client *http.Client
}

type ollamaRequest struct {
	Model    string       `json:"model"`
	Messages []xchMessage `json:"messages"`
	Stream   bool         `json:"stream"`
}

type ollamaResponse struct {
	Message xchMessage `json:"message"`
}

// xchMessage is a single chat exchange message; both backends share the shape.
type xchMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat sends one user message to Ollama's /api/chat and returns the reply.
func (b *OllamaBackend) Chat(ctx context.Context, prompt string) (string, error) {
	reqBody := ollamaRequest{
		Model:    b.Model,
		Messages: []xchMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimSuffix(b.Host, "/") + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, b.client(), req, 0)
	if err != nil {
		return "", fmt.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Ollama returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", fmt.Errorf("decoding Ollama response: %w", err)
	}
	if oResp.Message.Content == "" {
		return "", fmt.Errorf("no valid answer in Ollama response")
	}
	return oResp.Message.Content, nil
}

func (b *OllamaBackend) client() *http.Client {
	if b.Client != nil {
		return b.Client
	}
	return http.DefaultClient
}

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend calls the Claude Messages API.
type ClaudeBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

type claudeRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []xchMessage `json:"messages"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Chat sends one user message to the Claude API and returns the reply text.
func (b *ClaudeBackend) Chat(ctx context.Context, prompt string) (string, error) {
	reqBody := claudeRequest{
		Model:     b.Model,
		MaxTokens: 4096,
		Messages:  []xchMessage{{Role: "user", Content: prompt}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Claude API response")
}
