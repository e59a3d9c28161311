// Package memory provides an in-process SessionStore for tests and
// single-node deployments without Redis.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

// SessionStore keeps sessions in a mutex-guarded map. The token/user pair of
// a session is stored as one value, so readers always observe a consistent
// pair regardless of interleaved logins and logouts.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

func clone(s domain.Session) *domain.Session {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return &out
}

// Put stores the session, replacing any session with the same ID.
func (m *SessionStore) Put(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *clone(*s)
	return nil
}

// Find returns the session or domain.ErrSessionNotFound.
func (m *SessionStore) Find(_ context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return clone(s), nil
}

// Touch advances the session's last-seen instant. Touching an absent
// session is a no-op: it raced an explicit logout or an idle expiry.
func (m *SessionStore) Touch(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	if at.After(s.LastSeen) {
		s.LastSeen = at
		m.sessions[id] = s
	}
	return nil
}

// Delete removes the session. Deleting an absent session is a no-op.
func (m *SessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// All snapshots every stored session.
func (m *SessionStore) All(_ context.Context) ([]*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, clone(s))
	}
	return out, nil
}
