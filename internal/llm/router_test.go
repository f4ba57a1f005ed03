package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterRoute(t *testing.T) {
	r := NewRouter(RouterConfig{})

	tests := []struct {
		name     string
		input    string
		expected string
		needsKey bool
	}{
		{name: "auto defaults to gemini", input: "auto", expected: ProviderGemini, needsKey: true},
		{name: "empty defaults to gemini", input: "", expected: ProviderGemini, needsKey: true},
		{name: "claude", input: "Claude", expected: ProviderClaude, needsKey: true},
		{name: "ollama", input: " ollama ", expected: ProviderOllama, needsKey: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Route(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Name())
			assert.Equal(t, tt.needsKey, p.RequiresKey())
		})
	}
}

func TestRouterRouteUnknown(t *testing.T) {
	r := NewRouter(RouterConfig{})

	_, err := r.Route("gpt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM provider")
}

func TestRouterAutoPrefersReachableLocal(t *testing.T) {
	r := NewRouterWithProviders(NewGeminiProvider(""), NewOllamaProvider("", ""))
	r.preferLocal = true
	r.localAvail = true

	p, err := r.Route(ProviderAuto)
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, p.Name())

	r.localAvail = false
	p, err = r.Route(ProviderAuto)
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, p.Name())
}
