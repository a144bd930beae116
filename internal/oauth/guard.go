package oauth

import (
	"context"
)

// identityKey is the context key under which the Guard stores the
// authenticated identity. The unexported type keeps other packages from
// colliding with or forging the value.
type identityKey struct{}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity a Guard bound into the
// context, or nil when the context is unauthenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey{}).(*Identity)
	return identity
}

// Guard gates operations on the presence of a current session. It reads
// the session store on every call, so a logout between calls takes
// effect immediately.
type Guard struct {
	sessions *SessionStore
}

// NewGuard creates a Guard over the given session store.
func NewGuard(sessions *SessionStore) *Guard {
	return &Guard{sessions: sessions}
}

// Check returns the identity of the current session, or
// ErrAuthenticationRequired when no session is current.
func (g *Guard) Check() (*Identity, error) {
	session := g.sessions.Current()
	if !session.IsValid() {
		return nil, ErrAuthenticationRequired
	}
	return session.Identity, nil
}

// Guarded wraps an operation so it only runs for an authenticated
// caller. The check happens at call time, not wrap time: wrapping is
// free and the wrapped operation always sees the session state of the
// moment it is invoked. On success the identity is bound into the
// context passed to op; on failure op never runs and the zero value of T
// is returned with ErrAuthenticationRequired.
func Guarded[T any](g *Guard, op func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		identity, err := g.Check()
		if err != nil {
			var zero T
			return zero, err
		}
		return op(WithIdentity(ctx, identity))
	}
}
