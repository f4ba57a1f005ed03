package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	ProviderAuto   = "auto"
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
	ProviderOllama = "ollama"
)

type RouterConfig struct {
	GeminiModel string
	ClaudeModel string
	OllamaURL   string
	OllamaModel string
	PreferLocal bool
}

// Router picks the provider a turn's translation goes to. It never switches
// provider mid-turn: a failed call is reported, not retried elsewhere.
type Router struct {
	providers   map[string]Provider
	preferLocal bool
	localAvail  bool
}

func NewRouter(cfg RouterConfig) *Router {
	local := NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel)

	r := &Router{
		providers: map[string]Provider{
			ProviderGemini: NewGeminiProvider(cfg.GeminiModel),
			ProviderClaude: NewClaudeProvider(cfg.ClaudeModel),
			ProviderOllama: &ollamaProvider{client: local},
		},
		preferLocal: cfg.PreferLocal,
	}

	if cfg.PreferLocal {
		r.localAvail = local.IsAvailable(context.Background())
	}

	return r
}

func NewRouterWithProviders(providers ...Provider) *Router {
	r := &Router{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Router) Route(name string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == ProviderAuto {
		name = ProviderGemini
		if r.preferLocal && r.localAvail {
			name = ProviderOllama
		}
	}

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %s (valid: auto, gemini, claude, ollama)", name)
	}
	return p, nil
}

func (r *Router) LocalAvailable() bool {
	return r.localAvail
}
