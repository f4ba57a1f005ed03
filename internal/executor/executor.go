package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/metrics"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/pkg/models"
	"github.com/rs/zerolog"
)

//go:generate mockgen -source=executor.go -destination=mock_executor.go -package=executor

const (
	MsgNoCommand   = "The AI could not determine a valid command for your request. Please try rephrasing it."
	MsgRebootGuard = "Reboot command received. Please use the explicit reboot control ('mikrotik-chat reboot', '/reboot' in chat, or the reboot API endpoint) to confirm the reboot."
)

type RouterResource interface {
	Query(ctx context.Context, path string, params map[string]string) ([]models.Record, error)
}

type RouterQueryError struct {
	Path string
	Err  error
}

func (e *RouterQueryError) Error() string {
	return fmt.Sprintf("query %s failed: %v", e.Path, e.Err)
}

func (e *RouterQueryError) Unwrap() error {
	return e.Err
}

// Result is either an advisory Message or the Records of a query.
type Result struct {
	Message string
	Records []models.Record
	Err     error
}

func (r Result) IsMessage() bool {
	return r.Message != ""
}

type Executor struct {
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func New(logger zerolog.Logger, m *metrics.Metrics) *Executor {
	return &Executor{
		logger:  logger,
		metrics: m,
	}
}

// Execute issues at most one query. Failures are folded into the Result.
func (e *Executor) Execute(ctx context.Context, desc *models.CommandDescriptor, resource RouterResource) Result {
	if desc == nil {
		return Result{Message: MsgNoCommand}
	}

	if desc.IsReboot() {
		e.logger.Warn().Str("path", desc.Path).Msg("reboot requested through chat, confirmation required")
		return Result{Message: MsgRebootGuard}
	}

	e.logger.Debug().
		Str("path", desc.Path).
		Interface("params", desc.Params).
		Msg("executing router query")

	start := time.Now()
	records, err := resource.Query(ctx, desc.Path, desc.Params)
	e.metrics.ObserveStage("execute", start)

	if err != nil {
		qerr := &RouterQueryError{Path: desc.Path, Err: err}
		e.metrics.RouterQuery("error")
		e.logger.Error().Err(err).Str("path", desc.Path).Msg("router query failed")
		return Result{
			Message: fmt.Sprintf("An error occurred while executing the command: %v", err),
			Err:     qerr,
		}
	}

	e.metrics.RouterQuery("ok")
	e.logger.Debug().
		Str("path", desc.Path).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("router query completed")

	if records == nil {
		records = []models.Record{}
	}
	return Result{Records: records}
}
