package service

import (
	"sync"

	"concierge/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionManager is the registry of live sessions. All sessions share one
// EnhancementCache.
type SessionManager struct {
	deps   SessionDeps
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates an empty registry
func NewSessionManager(deps SessionDeps) *SessionManager {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &SessionManager{
		deps:     deps,
		logger:   deps.Logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session
func (m *SessionManager) Create() *Session {
	id := uuid.NewString()
	session := NewSession(id, m.deps)

	m.mu.Lock()
	m.sessions[id] = session
	count := len(m.sessions)
	m.mu.Unlock()

	m.logger.Info("Session created", zap.String("session_id", id), zap.Int("active_sessions", count))
	return session
}

// Get returns the session with id
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete drops the session. In-flight work still completes and fills the shared cache.
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)

	m.logger.Info("Session deleted", zap.String("session_id", id))
	return nil
}

// Len returns the number of live sessions
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Job reads the shared cache entry for key
func (m *SessionManager) Job(key model.JobKey) model.EnhancementJob {
	return m.deps.Cache.Get(key)
}
