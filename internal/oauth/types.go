package oauth

import (
	"time"
)

// Identity represents the authenticated principal as returned by the
// provider. It is immutable once constructed from a provider response
// and is reconstructed fresh on every login.
type Identity struct {
	// ID is the provider-scoped unique identifier.
	ID int64 `json:"id"`

	// Login is the handle the user signs in with.
	Login string `json:"login"`

	// Name is the display name (optional).
	Name string `json:"name,omitempty"`

	// Email is the public email address (optional).
	Email string `json:"email,omitempty"`

	// AvatarURL points at the profile picture.
	AvatarURL string `json:"avatar_url,omitempty"`

	// Bio, Company and Location are optional profile metadata.
	Bio      string `json:"bio,omitempty"`
	Company  string `json:"company,omitempty"`
	Location string `json:"location,omitempty"`

	// CreatedAt is the account creation timestamp as reported by the
	// provider (RFC 3339).
	CreatedAt string `json:"created_at,omitempty"`
}

// ProfileURL returns the public profile URL for the identity.
func (i *Identity) ProfileURL() string {
	return "https://github.com/" + i.Login
}

// Token is the credential set returned by the provider's token endpoint.
type Token struct {
	// AccessToken is the bearer token used for authorization.
	AccessToken string `json:"access_token"`

	// TokenType is typically "bearer".
	TokenType string `json:"token_type"`

	// Scope is the granted scope(s).
	Scope string `json:"scope,omitempty"`
}

// Session represents one authenticated tool-use context. Sessions are
// owned exclusively by the SessionStore; no other component retains a
// copy of the access token beyond the short-lived exchange.
type Session struct {
	// ID is the opaque session identifier.
	ID string `json:"id"`

	// Identity is the authenticated user.
	Identity *Identity `json:"identity"`

	// AccessToken is the provider credential. The RedactedToken wrapper
	// guarantees it never appears in logs or serialized output.
	AccessToken RedactedToken `json:"access_token"`

	// TokenType and Scope mirror the token response.
	TokenType string `json:"token_type"`
	Scope     string `json:"scope"`

	// CreatedAt is when the session was established.
	CreatedAt time.Time `json:"created_at"`
}

// IsValid reports whether the session carries both a credential and an
// identity. Sessions produced by SessionStore.Create always do; the
// check guards against zero values sneaking in from callers.
func (s *Session) IsValid() bool {
	return s != nil && !s.AccessToken.IsEmpty() && s.Identity != nil
}

// Status is the caller-facing view of the current session: identity and
// session metadata, never the access token.
type Status struct {
	Authenticated bool      `json:"authenticated"`
	Identity      *Identity `json:"identity,omitempty"`
	TokenType     string    `json:"token_type,omitempty"`
	Scope         string    `json:"scope,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// LoginChallenge is returned when a login flow is started: the URL the
// user must visit and the state token bound to this attempt.
type LoginChallenge struct {
	// AuthURL is the provider authorization URL to open in a browser.
	AuthURL string `json:"auth_url"`

	// State is the anti-CSRF token embedded in AuthURL.
	State string `json:"state"`
}
