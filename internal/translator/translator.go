package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/llm"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/pkg/models"
	"github.com/rs/zerolog"
)

type Translator struct {
	provider llm.Provider
	logger   zerolog.Logger
}

func New(provider llm.Provider, logger zerolog.Logger) *Translator {
	return &Translator{
		provider: provider,
		logger:   logger,
	}
}

func (t *Translator) Provider() string {
	return t.provider.Name()
}

// Translate makes exactly one call to the provider. On failure the
// descriptor is nil and the error is a *Error.
func (t *Translator) Translate(ctx context.Context, userText, credential string) (*models.CommandDescriptor, error) {
	if t.provider.RequiresKey() && strings.TrimSpace(credential) == "" {
		return nil, newError(KindConfig, fmt.Errorf("no credential configured for %s", t.provider.Name()))
	}

	client, err := t.provider.NewClient(credential)
	if err != nil {
		return nil, newError(KindService, err)
	}

	t.logger.Debug().Str("client", client.Name()).Str("query", truncate(userText, 50)).Msg("translating request")

	reply, err := client.Generate(ctx, BuildPrompt(userText))
	if err != nil {
		t.logger.Error().Err(err).Str("client", client.Name()).Msg("error during AI processing")
		if errors.Is(err, llm.ErrUnauthorized) {
			return nil, newError(KindAuth, err)
		}
		return nil, newError(KindService, err)
	}

	return t.parseReply(reply)
}

func (t *Translator) parseReply(reply string) (*models.CommandDescriptor, error) {
	object, ok := ExtractObject(reply)
	if !ok {
		t.logger.Debug().Str("reply", reply).Msg("AI reply contained no command object")
		return nil, newError(KindMalformedReply, fmt.Errorf("no JSON object in reply"))
	}

	desc, err := parseCommand(object)
	if err != nil {
		t.logger.Debug().Err(err).Str("reply", reply).Msg("AI reply rejected")
		return nil, err
	}

	t.logger.Debug().Str("path", desc.Path).Int("params", len(desc.Params)).Msg("translated request")
	return desc, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
