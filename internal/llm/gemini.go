package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-1.5-flash"

type GeminiClient struct {
	client *genai.Client
	model  string
}

// baseURL may be empty for the public endpoint.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string) (*GeminiClient, error) {
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Name() string {
	return fmt.Sprintf("gemini/%s", c.model)
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		if isGeminiAuthError(err) {
			return "", fmt.Errorf("Gemini API error: %w: %v", ErrUnauthorized, err)
		}
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return resp.Text(), nil
}

func isGeminiAuthError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			return true
		}
		for _, detail := range apiErr.Details {
			if reason, _ := detail["reason"].(string); reason == "API_KEY_INVALID" {
				return true
			}
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "API_KEY_INVALID") || strings.Contains(msg, "API key not valid")
}

type geminiProvider struct {
	model string
}

func NewGeminiProvider(model string) Provider {
	return &geminiProvider{model: model}
}

func (p *geminiProvider) Name() string      { return "gemini" }
func (p *geminiProvider) RequiresKey() bool { return true }

func (p *geminiProvider) NewClient(apiKey string) (Client, error) {
	return NewGeminiClient(context.Background(), apiKey, p.model, "")
}
