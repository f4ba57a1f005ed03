package llm

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned by clients when the provider rejects the API key.
var ErrUnauthorized = errors.New("credential rejected by provider")

type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

type Provider interface {
	Name() string
	RequiresKey() bool
	NewClient(apiKey string) (Client, error)
}
