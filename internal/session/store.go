package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	logger   zerolog.Logger
}

func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

func (s *Store) Add(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
}

func (s *Store) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessions[id]
}

// Delete ends a session and closes its router connection.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	if err := sess.Disconnect(); err != nil {
		s.logger.Warn().Err(err).Str("session", id).Msg("failed to close router connection")
	}
	return true
}

func (s *Store) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	return list
}

func (s *Store) Cleanup(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	var expired []string
	for _, sess := range s.List() {
		if sess.UpdatedAt().Before(cutoff) {
			expired = append(expired, sess.ID)
		}
	}

	for _, id := range expired {
		s.Delete(id)
	}
	return len(expired)
}

func (s *Store) CloseAll() {
	for _, sess := range s.List() {
		s.Delete(sess.ID)
	}
}
