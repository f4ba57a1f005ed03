package session

import (
	"context"
	"sync"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/pkg/models"
)

type fakeRouter struct {
	mu       sync.Mutex
	records  []models.Record
	err      error
	queries  []string
	reboots  int
	closed   bool
	rebootFn func() error
}

func (r *fakeRouter) Query(_ context.Context, path string, _ map[string]string) ([]models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, path)
	return r.records, r.err
}

func (r *fakeRouter) Reboot(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reboots++
	if r.rebootFn != nil {
		return r.rebootFn()
	}
	return nil
}

func (r *fakeRouter) State() models.ConnectionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return models.Disconnected
	}
	return models.Connected
}

func (r *fakeRouter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

type fakeTranslator struct {
	desc  *models.CommandDescriptor
	err   error
	calls int
	creds []string
}

func (t *fakeTranslator) Translate(_ context.Context, _ string, credential string) (*models.CommandDescriptor, error) {
	t.calls++
	t.creds = append(t.creds, credential)
	return t.desc, t.err
}

// blockingTranslator parks inside Translate until release is closed.
type blockingTranslator struct {
	entered chan struct{}
	release chan struct{}
	desc    *models.CommandDescriptor
}

func (t *blockingTranslator) Translate(_ context.Context, _ string, _ string) (*models.CommandDescriptor, error) {
	close(t.entered)
	<-t.release
	return t.desc, nil
}

func (r *fakeRouter) rebootCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reboots
}
