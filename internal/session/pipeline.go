package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/executor"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/format"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/metrics"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/translator"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/pkg/models"
	"github.com/rs/zerolog"
)

var (
	ErrEmptyInput   = errors.New("message is empty")
	ErrNotConnected = errors.New("please connect to a router first")
)

type Translator interface {
	Translate(ctx context.Context, userText, credential string) (*models.CommandDescriptor, error)
}

type Pipeline struct {
	translator Translator
	executor   *executor.Executor
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

func NewPipeline(tr Translator, exec *executor.Executor, logger zerolog.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		translator: tr,
		executor:   exec,
		logger:     logger,
		metrics:    m,
	}
}

// Turn runs Translate, Execute and Format for one user message and records
// both sides in the transcript. Gate failures return an error and record
// nothing; every other failure becomes the assistant's reply.
func (p *Pipeline) Turn(ctx context.Context, s *Session, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyInput
	}

	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	router := s.Router()
	if router == nil || router.State() != models.Connected {
		p.metrics.TurnCompleted("not_connected")
		return "", ErrNotConnected
	}

	s.Transcript.Append(models.RoleUser, text)
	s.touch()

	start := time.Now()
	desc, err := p.translator.Translate(ctx, text, s.Credential())
	p.metrics.ObserveStage("translate", start)

	var notice string
	if err != nil {
		notice = p.translationNotice(s, err)
	}

	result := p.executor.Execute(ctx, desc, router)

	start = time.Now()
	reply := format.Format(result, desc)
	p.metrics.ObserveStage("format", start)

	if notice != "" {
		reply = notice + "\n\n" + reply
	}

	s.Transcript.Append(models.RoleAssistant, reply)
	s.touch()

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "translation_error"
	case result.Err != nil:
		outcome = "query_error"
	case result.IsMessage():
		outcome = "advisory"
	}
	p.metrics.TurnCompleted(outcome)

	p.logger.Info().
		Str("session", s.ID).
		Str("outcome", outcome).
		Msg("turn completed")

	return reply, nil
}

func (p *Pipeline) translationNotice(s *Session, err error) string {
	var terr *translator.Error
	if !errors.As(err, &terr) {
		p.metrics.TranslationFailed("unknown")
		p.logger.Error().Err(err).Str("session", s.ID).Msg("translation failed")
		return "An unexpected AI error occurred. Please check the logs for details."
	}

	p.metrics.TranslationFailed(terr.Kind.String())
	p.logger.Warn().Err(err).Str("session", s.ID).Str("kind", terr.Kind.String()).Msg("translation failed")
	return terr.UserMessage()
}

// Reboot is the explicit confirmation control for /system/reboot. The
// connection is closed afterwards since the router drops it anyway.
func (p *Pipeline) Reboot(ctx context.Context, s *Session) error {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	router := s.Router()
	if router == nil || router.State() != models.Connected {
		return ErrNotConnected
	}

	if err := router.Reboot(ctx); err != nil {
		p.logger.Error().Err(err).Str("session", s.ID).Msg("reboot failed")
		return err
	}

	p.logger.Warn().Str("session", s.ID).Msg("reboot command sent")
	s.Transcript.Append(models.RoleAssistant, "Reboot command sent successfully!")

	return s.Disconnect()
}
