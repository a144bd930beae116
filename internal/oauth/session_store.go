package oauth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"wayfarer/pkg/logging"
)

// SessionStore holds all authenticated sessions in memory plus the
// single-slot pointer to the current one. All access is serialized
// through a mutex; callers receive the stored *Session and must treat it
// as read-only.
//
// The store is the only place an access token is retained after login.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	currentID string
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

// Create builds a session for the given identity and token, stores it,
// and returns it. The session ID is a fresh UUID.
func (s *SessionStore) Create(identity *Identity, token *Token) *Session {
	session := &Session{
		ID:          uuid.New().String(),
		Identity:    identity,
		AccessToken: NewRedactedToken(token.AccessToken),
		TokenType:   token.TokenType,
		Scope:       token.Scope,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	logging.Debug("OAuthSessionStore", "Created session %s for user %s",
		logging.TruncateSessionID(session.ID), identity.Login)

	return session
}

// Get returns the session with the given ID, or nil if none exists.
func (s *SessionStore) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// Delete removes the session with the given ID. Deleting the current
// session clears the current pointer. Deleting a session that does not
// exist is a no-op.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	if s.currentID == id {
		s.currentID = ""
	}
}

// DeleteAll removes every session and clears the current pointer. It
// returns the number of sessions removed.
func (s *SessionStore) DeleteAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.sessions)
	s.sessions = make(map[string]*Session)
	s.currentID = ""

	if n > 0 {
		logging.Debug("OAuthSessionStore", "Deleted %d sessions", n)
	}
	return n
}

// SetCurrent marks the session with the given ID as current. It returns
// false if no such session exists, leaving the current pointer
// unchanged.
func (s *SessionStore) SetCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	s.currentID = id
	return true
}

// Current returns the current session, or nil when no session is
// current.
func (s *SessionStore) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentID == "" {
		return nil
	}
	return s.sessions[s.currentID]
}

// ClearCurrent unsets the current pointer without deleting the session.
func (s *SessionStore) ClearCurrent() {
	s.mu.Lock()
	s.currentID = ""
	s.mu.Unlock()
}

// All returns a snapshot of every stored session, in no particular
// order.
func (s *SessionStore) All() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}

// Count returns the number of stored sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
