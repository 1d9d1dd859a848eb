// Package llm holds the model provider clients behind ports.Completer.
// The provider is resolved once per run from the configured model name;
// everything downstream talks to the single Complete interface.
package llm

import (
	"fmt"
	"net/http"
	"strings"

	"cinewire/internal/config"
	"cinewire/internal/ports"
)

// Provider enumerates the supported model backends.
type Provider int

const (
	ProviderOpenAI Provider = iota
	ProviderGemini
	ProviderAnthropic
	ProviderOllama
)

func (p Provider) String() string {
	switch p {
	case ProviderGemini:
		return "gemini"
	case ProviderAnthropic:
		return "anthropic"
	case ProviderOllama:
		return "ollama"
	default:
		return "openai"
	}
}

// geminiFragments, anthropicFragments and ollamaFragments route model
// names to their backend; anything unmatched goes to OpenAI.
var (
	geminiFragments    = []string{"gemini", "imagen"}
	anthropicFragments = []string{"claude", "sonnet", "opus", "haiku"}
	ollamaFragments    = []string{"llama", "mistral", "qwen", "gemma", "deepseek"}
)

// Detect resolves the provider for a model name.
func Detect(model string) Provider {
	name := strings.ToLower(model)
	for _, fragment := range geminiFragments {
		if strings.Contains(name, fragment) {
			return ProviderGemini
		}
	}
	for _, fragment := range anthropicFragments {
		if strings.Contains(name, fragment) {
			return ProviderAnthropic
		}
	}
	for _, fragment := range ollamaFragments {
		if strings.Contains(name, fragment) {
			return ProviderOllama
		}
	}
	return ProviderOpenAI
}

// NewCompleter builds the client for the model's provider. An empty model
// defers to the provider's configured default.
func NewCompleter(model string, providers config.ProvidersConfig, httpClient *http.Client) (ports.Completer, error) {
	switch Detect(model) {
	case ProviderGemini:
		return NewGemini(providers.Gemini, model, httpClient), nil
	case ProviderAnthropic:
		return NewAnthropic(providers.Anthropic, model, httpClient), nil
	case ProviderOllama:
		client, err := NewOllama(providers.Ollama, model, httpClient)
		if err != nil {
			return nil, fmt.Errorf("llm: ollama client: %w", err)
		}
		return client, nil
	default:
		return NewOpenAI(providers.OpenAI, model, httpClient), nil
	}
}
