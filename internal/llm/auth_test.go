package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const geminiInvalidKeyBody = `{
  "error": {
    "code": 400,
    "message": "API key not valid. Please pass a valid API key.",
    "status": "INVALID_ARGUMENT",
    "details": [
      {
        "@type": "type.googleapis.com/google.rpc.ErrorInfo",
        "reason": "API_KEY_INVALID",
        "domain": "googleapis.com"
      }
    ]
  }
}`

func jsonServer(t *testing.T, status int, body string) (*httptest.Server, *int) {
	t.Helper()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func TestGeminiInvalidKey(t *testing.T) {
	srv, calls := jsonServer(t, http.StatusBadRequest, geminiInvalidKeyBody)

	client, err := NewGeminiClient(context.Background(), "bad-key", "", srv.URL)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "show logs")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, *calls)
}

func TestGeminiServiceError(t *testing.T) {
	srv, _ := jsonServer(t, http.StatusBadRequest,
		`{"error": {"code": 400, "message": "model not found", "status": "INVALID_ARGUMENT"}}`)

	client, err := NewGeminiClient(context.Background(), "key", "", srv.URL)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "show logs")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestClaudeUnauthorized(t *testing.T) {
	srv, calls := jsonServer(t, http.StatusUnauthorized,
		`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`)

	client := NewClaudeClient("bad-key", "", option.WithBaseURL(srv.URL))

	_, err := client.Generate(context.Background(), "show logs")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, *calls)
}

func TestClaudeServiceError(t *testing.T) {
	srv, _ := jsonServer(t, http.StatusBadRequest,
		`{"type": "error", "error": {"type": "invalid_request_error", "message": "max_tokens too large"}}`)

	client := NewClaudeClient("key", "", option.WithBaseURL(srv.URL))

	_, err := client.Generate(context.Background(), "show logs")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}
