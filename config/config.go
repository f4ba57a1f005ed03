package config

import (
	"fmt"
	"strings"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/credentials"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/llm"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	RouterHost     string `envconfig:"ROUTER_HOST"`
	RouterUser     string `envconfig:"ROUTER_USER" default:"admin"`
	RouterPassword string `envconfig:"ROUTER_PASSWORD"`

	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	GeminiModel     string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	ClaudeModel     string `envconfig:"CLAUDE_MODEL"`
	OllamaURL       string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	OllamaModel     string `envconfig:"OLLAMA_MODEL" default:"qwen2.5:7b"`
	PreferLocal     bool   `envconfig:"PREFER_LOCAL" default:"false"`
	LLMProvider     string `envconfig:"LLM_PROVIDER" default:"gemini"`

	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort     int    `envconfig:"SERVER_PORT" default:"8080"`
	APIKeyRequired bool   `envconfig:"API_KEY_REQUIRED" default:"false"`
	APIKeys        string `envconfig:"API_KEYS"`
}

func Load() (*Config, error) {
	cfg, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	cfg.GeminiAPIKey = credentials.GetOrEnv(credentials.KeyGemini, cfg.GeminiAPIKey)
	cfg.AnthropicAPIKey = credentials.GetOrEnv(credentials.KeyAnthropic, cfg.AnthropicAPIKey)
	cfg.RouterPassword = credentials.GetOrEnv(credentials.KeyRouterPassword, cfg.RouterPassword)

	return cfg, nil
}

// LoadEnv reads the environment only, without consulting the keychain.
func LoadEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	switch cfg.LLMProvider {
	case llm.ProviderAuto, llm.ProviderGemini, llm.ProviderClaude, llm.ProviderOllama:
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER: %s (valid: auto, gemini, claude, ollama)", cfg.LLMProvider)
	}

	return &cfg, nil
}

func (c *Config) RouterConfig() llm.RouterConfig {
	return llm.RouterConfig{
		GeminiModel: c.GeminiModel,
		ClaudeModel: c.ClaudeModel,
		OllamaURL:   c.OllamaURL,
		OllamaModel: c.OllamaModel,
		PreferLocal: c.PreferLocal,
	}
}

// CredentialFor returns the API key the named provider needs, or "" when it
// needs none or none is configured.
func (c *Config) CredentialFor(provider string) string {
	switch provider {
	case llm.ProviderGemini:
		return c.GeminiAPIKey
	case llm.ProviderClaude:
		return c.AnthropicAPIKey
	default:
		return ""
	}
}

func (c *Config) ValidateRouter() error {
	if c.RouterHost == "" {
		return fmt.Errorf("router host required: set ROUTER_HOST or pass --host")
	}
	if c.RouterUser == "" {
		return fmt.Errorf("router user required: set ROUTER_USER or pass --user")
	}
	return nil
}

func (c *Config) GetAPIKeys() map[string]bool {
	keys := make(map[string]bool)
	if c.APIKeys == "" {
		return keys
	}
	for _, key := range strings.Split(c.APIKeys, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			keys[key] = true
		}
	}
	return keys
}

func (c *Config) ValidateAPIKey(key string) bool {
	if !c.APIKeyRequired {
		return true
	}
	keys := c.GetAPIKeys()
	if len(keys) == 0 {
		return true
	}
	return keys[key]
}
