package cart

import "sync"

// Manager owns one cart per register session. Only the map itself is
// guarded; each cart still expects a single control flow per session.
type Manager struct {
	mu       sync.Mutex
	catalog  Catalog
	sessions map[string]*Cart
}

// NewManager creates a session manager backed by the given catalog
func NewManager(catalog Catalog) *Manager {
	return &Manager{
		catalog:  catalog,
		sessions: make(map[string]*Cart),
	}
}

// Get returns the cart for a session, creating an empty one on first use
func (m *Manager) Get(sessionID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.sessions[sessionID]
	if !ok {
		c = New(m.catalog)
		m.sessions[sessionID] = c
	}
	return c
}

// Drop discards a session and its cart
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
