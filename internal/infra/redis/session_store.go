package redis

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-portal/internal/app"
)

// SessionStore is a Redis-backed implementation of app.SessionRepository.
// Notes:
//   - Live sessions stay in a local map so subscribers keep working; Redis
//     holds the serialized state of each session with a TTL.
//   - A local miss falls back to the persisted state, so a portal restart
//     does not lose in-progress attempts.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(sid string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sid]; ok {
		return session
	}
	if session, ok := s.restore(sid); ok {
		s.sessions[sid] = session
		return session
	}
	session := app.NewSession()
	s.sessions[sid] = session
	return session
}

func (s *SessionStore) Get(sid string) (*app.Session, bool) {
	s.mu.RLock()
	if session, ok := s.sessions[sid]; ok {
		s.mu.RUnlock()
		return session, true
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sid]; ok {
		return session, true
	}
	if session, ok := s.restore(sid); ok {
		s.sessions[sid] = session
		return session, true
	}
	return nil, false
}

// Save persists the serializable session state. Failures are returned but
// never fatal to the caller; the in-memory session stays authoritative.
func (s *SessionStore) Save(ctx context.Context, sid string, session *app.Session) error {
	data, err := json.Marshal(session.State())
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(sid), data, s.ttl).Err()
}

func (s *SessionStore) Delete(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	_ = s.client.Del(context.Background(), s.key(sid)).Err()
}

func (s *SessionStore) restore(sid string) (*app.Session, bool) {
	data, err := s.client.Get(context.Background(), s.key(sid)).Bytes()
	if err != nil {
		return nil, false
	}
	var state app.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false
	}
	return app.RestoreSession(state), true
}

func (s *SessionStore) key(sid string) string {
	return "quiz:session:" + sid
}
