package memory

import (
	"context"
	"sync"

	"mechina-chat-service/internal/domain"
)

// SessionStore is a process-local session store keyed by respondent id. It
// is not durable and not shared across instances; use the redis store when
// more than one instance serves the same respondents.
type SessionStore struct {
	mu     sync.RWMutex
	states map[string]domain.SessionState
}

func NewSessionStore() *SessionStore {
	return &SessionStore{states: make(map[string]domain.SessionState)}
}

// Get returns the stored state, or the zeroed inactive default for an
// unknown respondent.
func (s *SessionStore) Get(_ context.Context, respondentID string) (domain.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.states[respondentID]; ok {
		return state, nil
	}
	return domain.NewSessionState(), nil
}

func (s *SessionStore) Set(_ context.Context, respondentID string, state domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[respondentID] = state
	return nil
}

// Clear drops every stored session. Administrative use only.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[string]domain.SessionState)
}
