package session

import (
	"context"
	"sync"
)

// Session binds an issued token to the account it authenticates.
type Session struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// ContextStore holds the server-side session context keyed by token. The
// authoritative single-session lock lives on the users row in the store;
// this is the lookup table that turns a presented token back into a user.
type ContextStore interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, bool, error)
	Delete(ctx context.Context, token string) error
}

// MemoryContexts is an in-memory ContextStore for tests and single-node
// deployments.
type MemoryContexts struct {
	sessions map[string]Session
	mu       sync.RWMutex
}

// NewMemoryContexts creates an empty in-memory context store.
func NewMemoryContexts() *MemoryContexts {
	return &MemoryContexts{sessions: make(map[string]Session)}
}

func (m *MemoryContexts) Put(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *MemoryContexts) Get(_ context.Context, token string) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	return s, ok, nil
}

func (m *MemoryContexts) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
