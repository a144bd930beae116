package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"wayfarer/pkg/logging"
)

// StateStore manages OAuth state tokens for CSRF protection. Each token
// is issued with a TTL and validates at most once: Validate consumes the
// token regardless of whether it has expired.
type StateStore struct {
	mu     sync.Mutex
	states map[string]time.Time

	ttl         time.Duration
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewStateStore creates a state store whose tokens expire after ttl.
// A non-positive ttl falls back to 10 minutes. The store runs a
// background sweep for tokens that were issued but never validated;
// call Stop when the store is no longer needed.
func NewStateStore(ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	s := &StateStore{
		states:      make(map[string]time.Time),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	go s.cleanupLoop()

	return s
}

// Issue generates a new state token and records its expiry. The token is
// 32 bytes of crypto/rand output, base64url encoded.
func (s *StateStore) Issue() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	state := base64.RawURLEncoding.EncodeToString(b)

	s.mu.Lock()
	s.states[state] = time.Now().Add(s.ttl)
	s.mu.Unlock()

	logging.Debug("OAuthStateStore", "Issued state token (ttl: %s)", s.ttl)
	return state, nil
}

// Validate checks a state token and consumes it. It returns true only if
// the token was issued by this store, has not been validated before, and
// has not expired. The token is removed in every case, so a second call
// with the same token always returns false.
func (s *StateStore) Validate(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.states[state]
	if !ok {
		logging.Debug("OAuthStateStore", "Rejected unknown state token")
		return false
	}

	delete(s.states, state)

	if time.Now().After(expiry) {
		logging.Debug("OAuthStateStore", "Rejected expired state token")
		return false
	}

	return true
}

// Count returns the number of outstanding (unvalidated) state tokens.
func (s *StateStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// Stop terminates the background cleanup goroutine. Safe to call more
// than once.
func (s *StateStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCleanup)
	})
}

// cleanupLoop periodically removes expired tokens that were never
// presented for validation, so abandoned login attempts do not pile up.
func (s *StateStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupExpired()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *StateStore) cleanupExpired() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for state, expiry := range s.states {
		if now.After(expiry) {
			delete(s.states, state)
			removed++
		}
	}

	if removed > 0 {
		logging.Debug("OAuthStateStore", "Cleaned up %d expired state tokens", removed)
	}
}
