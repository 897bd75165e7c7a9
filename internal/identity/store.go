package identity

import (
	"sync"

	"quiz-portal/internal/domain"
)

// AuthState is what the guard and handlers read for a browser session. The
// principal is only set while Status is authenticated.
type AuthState struct {
	Status    domain.AuthStatus
	Principal *domain.Principal
}

// Store keeps per-session auth state. It is the single owner of that state;
// nothing outside the sign-in/sign-out flow mutates it.
type Store struct {
	mu     sync.RWMutex
	states map[string]AuthState
}

func NewStore() *Store {
	return &Store{states: make(map[string]AuthState)}
}

// State returns the current auth state for a session, defaulting to
// unauthenticated for unknown sessions.
func (s *Store) State(sid string) AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.states[sid]; ok {
		return state
	}
	return AuthState{Status: domain.AuthUnauthenticated}
}

// SetLoading marks a session as mid sign-in.
func (s *Store) SetLoading(sid string) {
	s.set(sid, AuthState{Status: domain.AuthLoading})
}

// SetAuthenticated records a completed sign-in.
func (s *Store) SetAuthenticated(sid string, principal domain.Principal) {
	s.set(sid, AuthState{Status: domain.AuthAuthenticated, Principal: &principal})
}

// SetError records an identity-provider failure; recovery requires a fresh
// sign-in.
func (s *Store) SetError(sid string) {
	s.set(sid, AuthState{Status: domain.AuthError})
}

// Clear signs the session out.
func (s *Store) Clear(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sid)
}

func (s *Store) set(sid string, state AuthState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sid] = state
}
