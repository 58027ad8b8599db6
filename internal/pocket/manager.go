package pocket

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mbtrace/mbcheckgo/internal/models"
	"github.com/mbtrace/mbcheckgo/internal/store"
)

// Manager tracks live sessions by id. One session per login; logout or
// token expiry drops it.
type Manager struct {
	store *store.Store

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager backed by st.
func NewManager(st *store.Store) *Manager {
	return &Manager{
		store:    st,
		sessions: make(map[string]*Session),
	}
}

// Create opens a session for an authenticated user and returns it.
func (m *Manager) Create(user models.User) *Session {
	s := NewSession(uuid.New().String(), user, m.store)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session for an id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Drop removes a session.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
