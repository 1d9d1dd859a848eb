package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cinewire/internal/config"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	cases := []struct {
		model string
		want  Provider
	}{
		{"gpt-4o-mini", ProviderOpenAI},
		{"o3-mini", ProviderOpenAI},
		{"gemini-2.0-flash", ProviderGemini},
		{"Imagen-3", ProviderGemini},
		{"claude-3-5-sonnet-20241022", ProviderAnthropic},
		{"claude-opus-4", ProviderAnthropic},
		{"llama3.1", ProviderOllama},
		{"mistral-nemo", ProviderOllama},
		{"qwen2.5:14b", ProviderOllama},
		{"gemma2:9b", ProviderOllama},
		{"deepseek-r1", ProviderOllama},
		{"", ProviderOpenAI},
		{"some-unknown-model", ProviderOpenAI},
	}
	for _, tc := range cases {
		if got := Detect(tc.model); got != tc.want {
			t.Errorf("Detect(%q) = %v, want %v", tc.model, got, tc.want)
		}
	}
}

func TestNewCompleterRouting(t *testing.T) {
	t.Parallel()

	providers := config.ProvidersConfig{
		OpenAI:    config.OpenAIConfig{Endpoint: "https://api.openai.com/v1/chat/completions", Model: "gpt-4o-mini", APIKey: "k"},
		Gemini:    config.GeminiConfig{Endpoint: "https://generativelanguage.googleapis.com", Model: "gemini-2.0-flash", APIKey: "k"},
		Anthropic: config.AnthropicConfig{Endpoint: "https://api.anthropic.com/v1/messages", Version: "2023-06-01", Model: "claude-3-5-sonnet-20241022", APIKey: "k"},
		Ollama:    config.OllamaConfig{Host: "http://127.0.0.1:11434", Model: "llama3.1"},
	}

	cases := []struct {
		model string
		check func(any) bool
	}{
		{"gpt-4o", func(c any) bool { _, ok := c.(*OpenAIClient); return ok }},
		{"gemini-1.5-pro", func(c any) bool { _, ok := c.(*GeminiClient); return ok }},
		{"claude-3-haiku", func(c any) bool { _, ok := c.(*AnthropicClient); return ok }},
		{"llama3.2:3b", func(c any) bool { _, ok := c.(*OllamaClient); return ok }},
	}
	for _, tc := range cases {
		completer, err := NewCompleter(tc.model, providers, nil)
		if err != nil {
			t.Fatalf("NewCompleter(%q): %v", tc.model, err)
		}
		if !tc.check(completer) {
			t.Errorf("NewCompleter(%q) returned %T", tc.model, completer)
		}
	}
}

func TestOpenAIComplete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}
		if req.MaxTokens != 500 {
			t.Errorf("max_tokens = %d", req.MaxTokens)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  Generated review.  "}},
			},
		})
	}))
	defer server.Close()

	client := NewOpenAI(config.OpenAIConfig{Endpoint: server.URL, Model: "gpt-4o-mini", APIKey: "test-key"}, "", nil)
	got, err := client.Complete(context.Background(), "You write reviews.", "Write one.", 500)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Generated review." {
		t.Errorf("Complete = %q", got)
	}
}

func TestOpenAICompleteErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := NewOpenAI(config.OpenAIConfig{Endpoint: server.URL, Model: "gpt-4o-mini", APIKey: "k"}, "", nil)
	_, err := client.Complete(context.Background(), "s", "u", 0)
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error %q does not carry response detail", err)
	}
}

func TestOpenAIMisconfigured(t *testing.T) {
	t.Parallel()

	client := NewOpenAI(config.OpenAIConfig{Endpoint: "https://example.com", Model: "gpt-4o-mini"}, "", nil)
	if _, err := client.Complete(context.Background(), "s", "u", 0); err == nil {
		t.Fatal("expected error when api key is missing")
	}
}

func TestGeminiComplete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/v1beta/models/gemini-2.0-flash:generateContent"
		if r.URL.Path != wantPath {
			t.Errorf("path = %q, want %q", r.URL.Path, wantPath)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q", got)
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "Write one." {
			t.Errorf("contents = %+v", req.Contents)
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "You write reviews." {
			t.Errorf("systemInstruction = %+v", req.SystemInstruction)
		}
		if req.GenerationConfig == nil || req.GenerationConfig.MaxOutputTokens != 800 {
			t.Errorf("generationConfig = %+v", req.GenerationConfig)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "Gemini review."}}}},
			},
		})
	}))
	defer server.Close()

	client := NewGemini(config.GeminiConfig{Endpoint: server.URL, Model: "gemini-2.0-flash", APIKey: "test-key"}, "", nil)
	got, err := client.Complete(context.Background(), "You write reviews.", "Write one.", 800)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Gemini review." {
		t.Errorf("Complete = %q", got)
	}
}

func TestAnthropicComplete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.MaxTokens != anthropicDefaultMaxTokens {
			t.Errorf("max_tokens = %d, want default %d", req.MaxTokens, anthropicDefaultMaxTokens)
		}
		if req.System != "You write reviews." {
			t.Errorf("system = %q", req.System)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "Claude review."}},
		})
	}))
	defer server.Close()

	cfg := config.AnthropicConfig{Endpoint: server.URL, Version: "2023-06-01", Model: "claude-3-5-sonnet-20241022", APIKey: "test-key"}
	client := NewAnthropic(cfg, "", nil)
	got, err := client.Complete(context.Background(), "You write reviews.", "Write one.", 0)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Claude review." {
		t.Errorf("Complete = %q", got)
	}
}

func TestOllamaComplete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["model"] != "llama3.1" {
			t.Errorf("model = %v", req["model"])
		}
		if req["system"] != "You write reviews." {
			t.Errorf("system = %v", req["system"])
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Write([]byte(`{"model":"llama3.1","response":"Local ","done":false}` + "\n"))
		w.Write([]byte(`{"model":"llama3.1","response":"review.","done":true}` + "\n"))
	}))
	defer server.Close()

	client, err := NewOllama(config.OllamaConfig{Host: server.URL, Model: "llama3.1"}, "", nil)
	if err != nil {
		t.Fatalf("NewOllama: %v", err)
	}
	got, err := client.Complete(context.Background(), "You write reviews.", "Write one.", 400)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Local review." {
		t.Errorf("Complete = %q", got)
	}
}
