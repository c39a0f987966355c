// Package session issues the anonymous browser sessions that scope
// carts. A session may later be upgraded with the platform access
// token obtained at login; the cart key stays the same across the
// upgrade so the guest cart survives signing in.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID          string
	Token       string
	AccessToken string
	Customer    string
	ExpiresAt   time.Time
}

// CartKey is the storage key of the session's cart.
func (s *Session) CartKey() string {
	return "guest:" + s.ID
}

// Authenticated reports whether the session carries a platform token.
func (s *Session) Authenticated() bool {
	return s.AccessToken != ""
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue creates a fresh anonymous session.
func (m *Manager) Issue() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		ExpiresAt: m.now().Add(m.ttl),
	}
	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()
	return s
}

// Get resolves a bearer token to its session, expiring lazily.
func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().After(s.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, false
	}
	return s, true
}

// Authenticate attaches the platform access token and customer id to
// the session.
func (m *Manager) Authenticate(token, accessToken, customerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return false
	}
	s.AccessToken = accessToken
	s.Customer = customerID
	return true
}

// Logout drops the platform token but keeps the session and its cart.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok {
		s.AccessToken = ""
		s.Customer = ""
	}
}

// TTLSeconds exposes the session lifetime for the issue response.
func (m *Manager) TTLSeconds() int {
	return int(m.ttl.Seconds())
}
