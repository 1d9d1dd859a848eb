package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cinewire/internal/config"
	"cinewire/internal/ports"
)

// anthropicDefaultMaxTokens applies when the caller passes no limit;
// the messages API rejects requests without max_tokens.
const anthropicDefaultMaxTokens = 1024

// AnthropicClient implements ports.Completer against the Anthropic
// messages API.
type AnthropicClient struct {
	endpoint   string
	version    string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.Completer = (*AnthropicClient)(nil)

func NewAnthropic(cfg config.AnthropicConfig, model string, client *http.Client) *AnthropicClient {
	if model == "" {
		model = cfg.Model
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &AnthropicClient{
		endpoint:   cfg.Endpoint,
		version:    cfg.Version,
		model:      model,
		apiKey:     cfg.APIKey,
		httpClient: client,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *AnthropicClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("anthropic client misconfigured")
	}
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     c.model,
		System:    system,
		MaxTokens: maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: user}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal anthropic payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", c.version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic complete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("anthropic error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("anthropic returned no content")
	}

	text := strings.TrimSpace(parsed.Content[0].Text)
	if text == "" {
		return "", fmt.Errorf("anthropic returned empty completion")
	}
	return text, nil
}
