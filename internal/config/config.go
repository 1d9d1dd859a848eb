package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone    = "UTC"
	configPathEnv      = "CINEWIRE_CONFIG"
	databaseDSNEnv     = "DATABASE_DSN"
	openAIKeyEnv       = "OPENAI_API_KEY"
	geminiKeyEnv       = "GEMINI_API_KEY"
	anthropicKeyEnv    = "ANTHROPIC_API_KEY"
	ollamaHostEnv      = "OLLAMA_HOST"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
	defaultMaxBodySize = 5 << 20
	defaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Store         StoreConfig        `yaml:"store"`
	Fetch         FetchConfig        `yaml:"fetch"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Providers     ProvidersConfig    `yaml:"providers"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sweeper       SweeperConfig      `yaml:"sweeper"`
	Verdicts      []VerdictConfig    `yaml:"verdicts"`
	Agents        []AgentConfig      `yaml:"agents"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StoreConfig selects the content store backend: "postgres" uses DSN,
// "sqlite" uses Path.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Path   string `yaml:"path"`
}

// FetchConfig tunes the outbound page fetcher.
type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	MaxBodyBytes   int64  `yaml:"maxBodyBytes"`
	UserAgent      string `yaml:"userAgent"`
}

// Timeout resolves the configured fetch timeout.
func (f FetchConfig) Timeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// PipelineConfig tunes run behavior shared by all agents.
type PipelineConfig struct {
	ItemDelaySeconds int `yaml:"itemDelaySeconds"`
	DefaultMaxItems  int `yaml:"defaultMaxItems"`
}

// ItemDelay is the pause between consecutive items of a bulk run.
func (p PipelineConfig) ItemDelay() time.Duration {
	if p.ItemDelaySeconds <= 0 {
		return 0
	}
	return time.Duration(p.ItemDelaySeconds) * time.Second
}

// ProvidersConfig groups credentials and defaults for every model provider.
type ProvidersConfig struct {
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Ollama    OllamaConfig    `yaml:"ollama"`
}

// OpenAIConfig defines how to contact an OpenAI-compatible chat API.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// GeminiConfig defines how to contact the Gemini generateContent API.
type GeminiConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// AnthropicConfig defines how to contact the Anthropic messages API.
type AnthropicConfig struct {
	Endpoint string `yaml:"endpoint"`
	Version  string `yaml:"version"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// OllamaConfig points at a local model server. An empty host defers to
// the OLLAMA_HOST environment convention.
type OllamaConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to post run digests.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SweeperConfig defines when expired top stories are demoted.
type SweeperConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the sweeper timezone string to a time.Location.
func (s SweeperConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// VerdictConfig overrides one bucket of the verdict table.
type VerdictConfig struct {
	Value  float64 `yaml:"value"`
	Tag    string  `yaml:"tag"`
	Phrase string  `yaml:"phrase"`
}

// ReferenceConfig is one reference source for an agent. Type is "listing",
// "direct" or "auto" (the default, meaning classify by URL shape).
type ReferenceConfig struct {
	URL  string `yaml:"url"`
	Type string `yaml:"type"`
}

// TopStoryConfig marks an agent's output as a time-bounded top story.
type TopStoryConfig struct {
	Enabled       bool `yaml:"enabled"`
	DurationHours int  `yaml:"durationHours"`
}

// AgentConfig describes one ingestion agent: where it looks, what kind of
// content it produces and how the result enters the publishing workflow.
type AgentConfig struct {
	Name         string            `yaml:"name"`
	References   []ReferenceConfig `yaml:"references"`
	Category     string            `yaml:"category"`
	ContentType  string            `yaml:"contentType"`
	Workflow     string            `yaml:"workflow"`
	Language     string            `yaml:"language"`
	States       []string          `yaml:"states"`
	WordCount    int               `yaml:"wordCount"`
	SplitContent bool              `yaml:"splitContent"`
	MaxItems     int               `yaml:"maxItems"`
	Model        string            `yaml:"model"`
	TopStory     TopStoryConfig    `yaml:"topStory"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Store.Driver = "postgres"
		c.Store.DSN = v
	}

	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.Providers.OpenAI.APIKey = v
	}

	if v := os.Getenv(geminiKeyEnv); v != "" {
		c.Providers.Gemini.APIKey = v
	}

	if v := os.Getenv(anthropicKeyEnv); v != "" {
		c.Providers.Anthropic.APIKey = v
	}

	if v := os.Getenv(ollamaHostEnv); v != "" {
		c.Providers.Ollama.Host = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Sweeper.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Sweeper.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Store.Driver != "" {
		base.Store.Driver = override.Store.Driver
	}
	if override.Store.DSN != "" {
		base.Store.DSN = override.Store.DSN
	}
	if override.Store.Path != "" {
		base.Store.Path = override.Store.Path
	}

	if override.Fetch.TimeoutSeconds != 0 {
		base.Fetch.TimeoutSeconds = override.Fetch.TimeoutSeconds
	}
	if override.Fetch.MaxBodyBytes != 0 {
		base.Fetch.MaxBodyBytes = override.Fetch.MaxBodyBytes
	}
	if override.Fetch.UserAgent != "" {
		base.Fetch.UserAgent = override.Fetch.UserAgent
	}

	if override.Pipeline.ItemDelaySeconds != 0 {
		base.Pipeline.ItemDelaySeconds = override.Pipeline.ItemDelaySeconds
	}
	if override.Pipeline.DefaultMaxItems != 0 {
		base.Pipeline.DefaultMaxItems = override.Pipeline.DefaultMaxItems
	}

	base.Providers = mergeProviders(base.Providers, override.Providers)

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Sweeper.CronExpression != "" {
		base.Sweeper.CronExpression = override.Sweeper.CronExpression
	}
	if override.Sweeper.Timezone != "" {
		base.Sweeper.Timezone = override.Sweeper.Timezone
	}

	if len(override.Verdicts) > 0 {
		base.Verdicts = override.Verdicts
	}

	if len(override.Agents) > 0 {
		base.Agents = override.Agents
	}

	return base
}

func mergeProviders(base, override ProvidersConfig) ProvidersConfig {
	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}

	if override.Gemini.Endpoint != "" {
		base.Gemini.Endpoint = override.Gemini.Endpoint
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}

	if override.Anthropic.Endpoint != "" {
		base.Anthropic.Endpoint = override.Anthropic.Endpoint
	}
	if override.Anthropic.Version != "" {
		base.Anthropic.Version = override.Anthropic.Version
	}
	if override.Anthropic.Model != "" {
		base.Anthropic.Model = override.Anthropic.Model
	}
	if override.Anthropic.APIKey != "" {
		base.Anthropic.APIKey = override.Anthropic.APIKey
	}

	if override.Ollama.Host != "" {
		base.Ollama.Host = override.Ollama.Host
	}
	if override.Ollama.Model != "" {
		base.Ollama.Model = override.Ollama.Model
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Store:   StoreConfig{Driver: "sqlite", Path: "./cinewire.db"},
		Fetch: FetchConfig{
			TimeoutSeconds: 20,
			MaxBodyBytes:   defaultMaxBodySize,
			UserAgent:      defaultUserAgent,
		},
		Pipeline: PipelineConfig{ItemDelaySeconds: 2, DefaultMaxItems: 1},
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{
				Endpoint: "https://api.openai.com/v1/chat/completions",
				Model:    "gpt-4o-mini",
			},
			Gemini: GeminiConfig{
				Endpoint: "https://generativelanguage.googleapis.com",
				Model:    "gemini-2.0-flash",
			},
			Anthropic: AnthropicConfig{
				Endpoint: "https://api.anthropic.com/v1/messages",
				Version:  "2023-06-01",
				Model:    "claude-3-5-sonnet-20241022",
			},
			Ollama: OllamaConfig{Model: "llama3.1"},
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Sweeper: SweeperConfig{CronExpression: "*/10 * * * *", Timezone: defaultTimezone, location: tz},
	}
}
