package oauth

import (
	"context"

	"wayfarer/pkg/logging"
)

// Manager sequences the OAuth components into the user-visible flow.
// Tools and web routes go through the Manager; they never touch the
// stores or the Exchanger directly.
type Manager struct {
	states    *StateStore
	sessions  *SessionStore
	exchanger *Exchanger
	guard     *Guard
}

// NewManager wires a Manager from its collaborators.
func NewManager(states *StateStore, sessions *SessionStore, exchanger *Exchanger) *Manager {
	return &Manager{
		states:    states,
		sessions:  sessions,
		exchanger: exchanger,
		guard:     NewGuard(sessions),
	}
}

// Guard returns the Guard bound to this manager's session store.
func (m *Manager) Guard() *Guard {
	return m.guard
}

// Sessions exposes the session store for read-side consumers such as
// status resources.
func (m *Manager) Sessions() *SessionStore {
	return m.sessions
}

// StartLogin begins a login attempt: it issues a state token and builds
// the authorization URL the user must visit. A ConfigurationError means
// OAuth credentials are missing; no state is issued in that case.
func (m *Manager) StartLogin() (*LoginChallenge, error) {
	// Validate credentials before issuing state so a misconfigured
	// server does not accumulate orphan tokens.
	if err := m.exchanger.config.Validate(); err != nil {
		return nil, err
	}

	state, err := m.states.Issue()
	if err != nil {
		return nil, err
	}

	authURL, err := m.exchanger.AuthorizationURL(state)
	if err != nil {
		return nil, err
	}

	logging.Info("OAuthManager", "Login flow started")

	return &LoginChallenge{AuthURL: authURL, State: state}, nil
}

// CompleteLogin finishes the flow with the (code, state) pair from the
// provider callback. The state is validated and consumed before any
// network call is made. On success the new session becomes current and
// is returned; on any failure the stores are left with no new session
// and no current session change, with the consumed state token as the
// only side effect.
func (m *Manager) CompleteLogin(ctx context.Context, code, state string) (*Session, error) {
	if !m.states.Validate(state) {
		logging.Warn("OAuthManager", "Callback rejected: invalid state token")
		return nil, ErrInvalidState
	}

	token, err := m.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		logging.Warn("OAuthManager", "Token exchange failed: %v", err)
		return nil, err
	}

	identity, err := m.exchanger.FetchIdentity(ctx, token)
	if err != nil {
		logging.Warn("OAuthManager", "Identity fetch failed: %v", err)
		return nil, err
	}

	session := m.sessions.Create(identity, token)
	m.sessions.SetCurrent(session.ID)

	logging.Info("OAuthManager", "User %s authenticated (session %s)",
		identity.Login, logging.TruncateSessionID(session.ID))

	return session, nil
}

// Logout removes every session and clears the current pointer. It
// returns the number of sessions removed; logging out while anonymous is
// a no-op returning zero.
func (m *Manager) Logout() int {
	n := m.sessions.DeleteAll()
	if n > 0 {
		logging.Info("OAuthManager", "Logged out, removed %d sessions", n)
	}
	return n
}

// Status reports the current authentication state without exposing the
// access token.
func (m *Manager) Status() *Status {
	session := m.sessions.Current()
	if !session.IsValid() {
		return &Status{Authenticated: false}
	}

	return &Status{
		Authenticated: true,
		Identity:      session.Identity,
		TokenType:     session.TokenType,
		Scope:         session.Scope,
		CreatedAt:     session.CreatedAt,
	}
}

// Configured reports whether OAuth credentials are present. The
// returned error, when non-nil, is a ConfigurationError naming the
// missing fields.
func (m *Manager) Configured() error {
	return m.exchanger.config.Validate()
}

// Stop releases background resources (the state store sweep).
func (m *Manager) Stop() {
	m.states.Stop()
}
