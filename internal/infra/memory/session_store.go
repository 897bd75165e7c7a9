package memory

import (
	"context"
	"sync"

	"quiz-portal/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions live for the process lifetime; Save is a no-op.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(sid string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sid]; ok {
		return session
	}
	session := app.NewSession()
	s.sessions[sid] = session
	return session
}

func (s *SessionStore) Get(sid string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sid]
	return session, ok
}

func (s *SessionStore) Save(_ context.Context, _ string, _ *app.Session) error {
	return nil
}

func (s *SessionStore) Delete(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
}
