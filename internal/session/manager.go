// Package session holds the signed-in user of the console. The access token
// is issued elsewhere; the console decodes its payload for display and
// expiry, and keeps the raw token in a TokenStore between runs.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/normanking/oficina/internal/logging"
)

// Manager tracks the current session.
type Manager struct {
	store TokenStore
	skew  time.Duration
	now   func() time.Time
	log   *logging.Logger

	mu      sync.RWMutex
	token   string
	claims  *Claims
	loading bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithClockSkew tolerates tokens that expired less than skew ago.
func WithClockSkew(skew time.Duration) Option {
	return func(m *Manager) { m.skew = skew }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a manager in the loading state; call Restore to leave it.
func NewManager(store TokenStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		now:     time.Now,
		log:     logging.Global().WithComponent("session"),
		loading: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore loads a previously stored token. A stored token that cannot be
// decoded, or that already expired, is discarded.
func (m *Manager) Restore() error {
	defer m.setLoading(false)

	token, err := m.store.Load()
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	claims, err := Decode(token)
	if err == nil && claims.ExpiredAt(m.now(), m.skew) {
		err = ErrExpired
	}
	if err != nil {
		m.log.Warn("discarding stored token: %v", err)
		if clearErr := m.store.Clear(); clearErr != nil {
			return fmt.Errorf("discard stored token: %w", clearErr)
		}
		return nil
	}

	m.set(token, claims)
	m.log.Info("session restored for %s", claims.DisplayName())
	return nil
}

// Login decodes and stores token as the current session.
func (m *Manager) Login(token string) error {
	claims, err := Decode(token)
	if err != nil {
		return err
	}
	if claims.ExpiredAt(m.now(), m.skew) {
		return ErrExpired
	}
	if err := m.store.Save(token); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	m.set(token, claims)
	m.log.Info("logged in as %s", claims.DisplayName())
	return nil
}

// Logout clears the session from memory and from the store.
func (m *Manager) Logout() error {
	m.set("", nil)
	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	m.log.Info("logged out")
	return nil
}

// User returns the decoded claims of the current session.
func (m *Manager) User() (Claims, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.claims == nil {
		return Claims{}, false
	}
	return *m.claims, true
}

// Token returns the raw token, or "" when signed out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// IsLoading reports whether Restore has not finished yet.
func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Valid reports whether a session exists and is unexpired at now.
func (m *Manager) Valid(now time.Time) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.claims != nil && !m.claims.ExpiredAt(now, m.skew)
}

func (m *Manager) set(token string, claims *Claims) {
	m.mu.Lock()
	m.token = token
	m.claims = claims
	m.mu.Unlock()
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}
