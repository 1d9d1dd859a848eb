package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jmorganca/ollama/api"

	"cinewire/internal/config"
	"cinewire/internal/ports"
)

// OllamaClient implements ports.Completer against a local or remote
// Ollama server.
type OllamaClient struct {
	client *api.Client
	model  string
}

var _ ports.Completer = (*OllamaClient)(nil)

// NewOllama connects to cfg.Host, or to the OLLAMA_HOST environment
// default when the host is unset.
func NewOllama(cfg config.OllamaConfig, model string, client *http.Client) (*OllamaClient, error) {
	if model == "" {
		model = cfg.Model
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model is not configured")
	}
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	if cfg.Host == "" {
		apiClient, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("ollama client from environment: %w", err)
		}
		return &OllamaClient{client: apiClient, model: model}, nil
	}

	base, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host %q: %w", cfg.Host, err)
	}
	return &OllamaClient{client: api.NewClient(base, client), model: model}, nil
}

func (c *OllamaClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	req := &api.GenerateRequest{
		Model:  c.model,
		System: system,
		Prompt: user,
	}
	if maxTokens > 0 {
		req.Options = map[string]any{"num_predict": maxTokens}
	}

	var out strings.Builder
	err := c.client.Generate(ctx, req, func(res api.GenerateResponse) error {
		out.WriteString(res.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("ollama returned empty completion")
	}
	return text, nil
}
