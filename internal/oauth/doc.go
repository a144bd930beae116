// Package oauth implements the GitHub OAuth login flow that gates
// wayfarer's protected tools and resources.
//
// # Components
//
// The package is organized around a small set of collaborators:
//
//   - StateStore issues and single-use-validates the anti-CSRF state
//     tokens embedded in authorization URLs. A state token validates at
//     most once and expires after a configurable TTL.
//   - Exchanger talks to the provider: it builds authorization URLs,
//     trades an authorization code for an access token, and fetches the
//     authenticated identity with the bearer token.
//   - SessionStore owns every Session and the single-slot "current
//     session" pointer. The access token lives only here, wrapped in a
//     RedactedToken so it cannot leak through logs or JSON.
//   - Guard wraps operations that require an authenticated caller and
//     binds the current identity into their context.
//   - Manager sequences the above into the login/callback/status/logout
//     flow. It is the only entry point web routes and tools should use.
//   - Handler exposes the flow over HTTP (/auth/login, /auth/callback,
//     /auth/status, /auth/logout) for the browser half of the dance.
//
// # Flow
//
// A login starts with Manager.StartLogin, which issues a state token and
// returns the provider authorization URL. The browser callback carries
// (code, state) into Manager.CompleteLogin: the state is validated and
// consumed first (no network involved, so CSRF failures are cheap), then
// the code is exchanged and the identity fetched, and only then is a
// session created and made current. A failed callback leaves the stores
// exactly as if it had never been attempted; the consumed state token is
// the sole exception, since authorization codes and states are single-use
// by contract.
//
// # Limitations
//
// Sessions are held in memory and die with the process, and the current
// session pointer assumes a single logical user per process. A
// multi-tenant deployment must key sessions by a request-scoped
// identifier and back the stores with shared storage. Token refresh is
// likewise not implemented; GitHub user tokens do not expire.
package oauth
