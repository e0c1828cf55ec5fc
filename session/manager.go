// Package session holds the single source of truth for "who is logged
// in". The gate it provides is presentational only: the client sends
// cookies on every request regardless, and real authorization is enforced
// server-side.
package session

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/industrialmart/storefront-go/client"
	"github.com/industrialmart/storefront-go/core"
)

// State is the session lifecycle state
type State int

const (
	// StateUnknown is the initial state before the first status check
	StateUnknown State = iota
	// StateAuthenticated means a server-validated session is active
	StateAuthenticated
	// StateAnonymous means there is no active session
	StateAnonymous
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "invalid"
	}
}

// prefRememberMe is the persisted remember-me preference key
const prefRememberMe = "remember_me"

// AuthAPI is the slice of the auth facade the manager needs. Satisfied by
// client.AuthService.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*client.User, error)
	Register(ctx context.Context, reg client.Registration) (*client.User, error)
	Logout(ctx context.Context) error
	Status(ctx context.Context) (*client.User, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
}

// Manager tracks the authenticated user and the persisted remember-me
// preference. State transitions are exactly: Unknown→Authenticated on a
// successful status check or login, Unknown→Anonymous on a failed status
// check, Authenticated→Anonymous on logout or an observed session-expired
// classification. There is no token-refresh sub-state; the backend session
// is cookie-based and refreshed implicitly server-side.
type Manager struct {
	auth   AuthAPI
	prefs  PreferenceStore
	logger core.Logger
	id     string

	mu         sync.RWMutex
	state      State
	user       *client.User
	rememberMe bool
	listeners  []func(State, *client.User)
}

// ManagerOption customizes a Manager
type ManagerOption func(*Manager)

// WithPreferenceStore replaces the default in-memory preference store
func WithPreferenceStore(store PreferenceStore) ManagerOption {
	return func(m *Manager) {
		if store != nil {
			m.prefs = store
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger core.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a session manager in the Unknown state
func NewManager(auth AuthAPI, opts ...ManagerOption) *Manager {
	m := &Manager{
		auth:   auth,
		prefs:  NewMemoryPreferenceStore(),
		logger: &core.NoOpLogger{},
		id:     uuid.NewString(),
		state:  StateUnknown,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start silently restores a session from the server-set cookie. Any
// failure, including a session-expired classification, lands in
// Anonymous. Returns the resulting state.
func (m *Manager) Start(ctx context.Context) State {
	m.mu.Lock()
	if v, err := m.prefs.Get(ctx, prefRememberMe); err == nil && v != "" {
		if remembered, err := strconv.ParseBool(v); err == nil {
			m.rememberMe = remembered
		}
	}
	m.mu.Unlock()

	user, err := m.auth.Status(ctx)
	if err != nil || user == nil {
		if err != nil {
			m.logger.Debug("Session restore failed", map[string]interface{}{
				"operation":  "session_restore",
				"session_id": m.id,
				"error":      err.Error(),
			})
		}
		m.setState(StateAnonymous, nil)
		return StateAnonymous
	}

	m.logger.Info("Session restored", map[string]interface{}{
		"operation":  "session_restore",
		"session_id": m.id,
		"user_id":    user.ID,
	})
	m.setState(StateAuthenticated, user)
	return StateAuthenticated
}

// Login authenticates and records the remember-me preference. The four
// classified error kinds are returned verbatim so forms can branch on
// them (e.g. offer registration on ErrAccountNotFound).
func (m *Manager) Login(ctx context.Context, email, password string, rememberMe bool) error {
	user, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.rememberMe = rememberMe
	m.mu.Unlock()
	if err := m.prefs.Set(ctx, prefRememberMe, strconv.FormatBool(rememberMe)); err != nil {
		m.logger.Warn("Failed to persist remember-me preference", map[string]interface{}{
			"operation":  "preference_set",
			"session_id": m.id,
			"error":      err.Error(),
		})
	}

	m.setState(StateAuthenticated, user)
	return nil
}

// Register creates an account and then logs in with the same credentials
func (m *Manager) Register(ctx context.Context, reg client.Registration) error {
	if _, err := m.auth.Register(ctx, reg); err != nil {
		return err
	}
	return m.Login(ctx, reg.Email, reg.Password, m.RememberMe())
}

// Logout tears down the session. The local user is cleared even when the
// backend call fails; the server-side session may linger but the
// presentation layer treats the user as signed out.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.auth.Logout(ctx)
	m.setState(StateAnonymous, nil)
	if derr := m.prefs.Delete(ctx, prefRememberMe); derr == nil {
		m.mu.Lock()
		m.rememberMe = false
		m.mu.Unlock()
	}
	return err
}

// CheckEmailExists reports whether an account exists for the address
func (m *Manager) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	return m.auth.CheckEmail(ctx, email)
}

// ObserveError transitions to Anonymous when a request elsewhere in the
// application surfaced a session-expired classification.
func (m *Manager) ObserveError(err error) {
	if err == nil || !errors.Is(err, core.ErrSessionExpired) {
		return
	}
	if m.State() != StateAuthenticated {
		return
	}
	m.logger.Info("Session expired, signing out", map[string]interface{}{
		"operation":  "session_expired",
		"session_id": m.id,
	})
	m.setState(StateAnonymous, nil)
}

// User returns the authenticated user, nil when anonymous or unknown
func (m *Manager) User() *client.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// State returns the current session state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsLoading reports whether the initial status check has not completed
func (m *Manager) IsLoading() bool {
	return m.State() == StateUnknown
}

// RememberMe returns the persisted remember-me preference
func (m *Manager) RememberMe() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rememberMe
}

// OnChange registers a listener invoked after every state transition.
// Listeners run synchronously on the transitioning goroutine.
func (m *Manager) OnChange(fn func(State, *client.User)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Manager) setState(state State, user *client.User) {
	m.mu.Lock()
	changed := m.state != state || m.user != user
	m.state = state
	m.user = user
	listeners := make([]func(State, *client.User), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(state, user)
	}
}
