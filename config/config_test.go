package config

import (
	"testing"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("ROUTER_HOST", "192.168.88.1")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, "192.168.88.1", cfg.RouterHost)
	assert.Equal(t, "admin", cfg.RouterUser)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, llm.ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "g-key", cfg.CredentialFor(llm.ProviderGemini))
	assert.Equal(t, "", cfg.CredentialFor(llm.ProviderOllama))
	assert.NoError(t, cfg.ValidateRouter())
}

func TestLoadEnvProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", " Claude ")
	t.Setenv("ANTHROPIC_API_KEY", "a-key")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderClaude, cfg.LLMProvider)
	assert.Equal(t, "a-key", cfg.CredentialFor(cfg.LLMProvider))

	t.Setenv("LLM_PROVIDER", "gpt")
	_, err = LoadEnv()
	assert.Error(t, err)
}

func TestValidateRouter(t *testing.T) {
	cfg := &Config{RouterUser: "admin"}
	assert.Error(t, cfg.ValidateRouter())

	cfg.RouterHost = "router.lan"
	cfg.RouterUser = ""
	assert.Error(t, cfg.ValidateRouter())
}

func TestValidateAPIKey(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.ValidateAPIKey(""))

	cfg.APIKeyRequired = true
	assert.True(t, cfg.ValidateAPIKey("anything"), "no keys configured")

	cfg.APIKeys = "one, two ,,"
	assert.Equal(t, map[string]bool{"one": true, "two": true}, cfg.GetAPIKeys())
	assert.True(t, cfg.ValidateAPIKey("two"))
	assert.False(t, cfg.ValidateAPIKey("three"))
}
