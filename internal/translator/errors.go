package translator

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindConfig Kind = iota + 1
	KindAuth
	KindService
	KindMalformedReply
	KindParse
	KindSchema
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAuth:
		return "auth"
	case KindService:
		return "service"
	case KindMalformedReply:
		return "malformed_reply"
	case KindParse:
		return "parse"
	case KindSchema:
		return "schema"
	default:
		return "unknown"
	}
}

var (
	ErrConfig         = &Error{Kind: KindConfig}
	ErrAuth           = &Error{Kind: KindAuth}
	ErrService        = &Error{Kind: KindService}
	ErrMalformedReply = &Error{Kind: KindMalformedReply}
	ErrParse          = &Error{Kind: KindParse}
	ErrSchema         = &Error{Kind: KindSchema}
)

type Error struct {
	Kind Kind
	Err  error
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("translation %s error", e.Kind)
	}
	return fmt.Sprintf("translation %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can use errors.Is(err, translator.ErrParse).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindConfig:
		return "Configuration Error: no API key is configured. Set it in the environment or run 'mikrotik-chat config setup'."
	case KindAuth:
		return "Authentication Error: your AI API key is invalid. Please check it and try again."
	case KindService:
		return "An unexpected AI error occurred. Please check the logs for details."
	case KindMalformedReply:
		return "AI Response Error: The model did not return a valid command object."
	case KindParse:
		return "AI Response Error: Failed to parse the command from the model's response."
	case KindSchema:
		return "AI Response Error: The returned command is missing required keys."
	default:
		return e.Error()
	}
}
