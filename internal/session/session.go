package session

import (
	"context"
	"sync"
	"time"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/executor"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/pkg/models"
)

const Greeting = "Hello! Connect to a router and configure your AI API key to get started."

type Router interface {
	executor.RouterResource
	Reboot(ctx context.Context) error
	State() models.ConnectionState
	Close() error
}

// Transcript is append-only. Turns are never edited or removed.
type Transcript struct {
	mu    sync.RWMutex
	turns []models.ChatTurn
}

func NewTranscript() *Transcript {
	t := &Transcript{}
	t.Append(models.RoleAssistant, Greeting)
	return t
}

func (t *Transcript) Append(role models.Role, content string) models.ChatTurn {
	turn := models.ChatTurn{
		Role:    role,
		Content: content,
		Time:    time.Now(),
	}

	t.mu.Lock()
	t.turns = append(t.turns, turn)
	t.mu.Unlock()

	return turn
}

func (t *Transcript) Turns() []models.ChatTurn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.ChatTurn, len(t.turns))
	copy(out, t.turns)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// Session carries everything one conversation needs: the transcript, the
// router handle and the AI credential. It replaces implicit global state.
type Session struct {
	ID         string
	Transcript *Transcript
	CreatedAt  time.Time

	mu         sync.Mutex
	turnMu     sync.Mutex
	router     Router
	credential string
	updatedAt  time.Time
}

func New(id string, router Router, credential string) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Transcript: NewTranscript(),
		CreatedAt:  now,
		router:     router,
		credential: credential,
		updatedAt:  now,
	}
}

func (s *Session) Router() Router {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router
}

func (s *Session) SetRouter(r Router) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.router = r
}

func (s *Session) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

func (s *Session) SetCredential(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
}

func (s *Session) State() models.ConnectionState {
	r := s.Router()
	if r == nil {
		return models.Disconnected
	}
	return r.State()
}

func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) touch() {
	s.mu.Lock()
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

// Disconnect closes and forgets the router handle.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	r := s.router
	s.router = nil
	s.mu.Unlock()

	if r == nil {
		return nil
	}
	return r.Close()
}
