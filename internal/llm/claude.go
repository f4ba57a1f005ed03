package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultClaudeModel = "claude-sonnet-4-20250514"

type ClaudeClient struct {
	client anthropic.Client
	model  string
}

func NewClaudeClient(apiKey, model string, opts ...option.RequestOption) *ClaudeClient {
	if model == "" {
		model = defaultClaudeModel
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)

	return &ClaudeClient{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (c *ClaudeClient) Name() string {
	return fmt.Sprintf("claude/%s", c.model)
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 512,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) &&
			(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
			return "", fmt.Errorf("Claude API error: %w: %v", ErrUnauthorized, err)
		}
		return "", fmt.Errorf("Claude API error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return text, nil
}

type claudeProvider struct {
	model string
}

func NewClaudeProvider(model string) Provider {
	return &claudeProvider{model: model}
}

func (p *claudeProvider) Name() string      { return "claude" }
func (p *claudeProvider) RequiresKey() bool { return true }

func (p *claudeProvider) NewClient(apiKey string) (Client, error) {
	return NewClaudeClient(apiKey, p.model), nil
}
