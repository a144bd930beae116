package oauth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidState indicates the callback carried a state token that is
// unknown, already consumed, or expired. The caller must restart the
// login flow from the beginning.
var ErrInvalidState = errors.New("invalid or expired state token")

// ErrAuthenticationRequired is returned by the Guard when a protected
// operation is invoked without a current session.
var ErrAuthenticationRequired = errors.New("authentication required")

// ConfigurationError reports missing OAuth credentials. It is surfaced to
// the caller with remediation instructions instead of crashing the
// process: the server is fully usable without OAuth until a login is
// attempted.
type ConfigurationError struct {
	// Missing lists the names of the absent settings.
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing GitHub OAuth configuration: %s", strings.Join(e.Missing, ", "))
}

// Remediation returns setup instructions suitable for showing to the
// user verbatim.
func (e *ConfigurationError) Remediation() string {
	return "Set the following environment variables (or the matching oauth fields in config.yaml):\n" +
		"- GITHUB_CLIENT_ID\n" +
		"- GITHUB_CLIENT_SECRET\n" +
		"- GITHUB_REDIRECT_URI"
}

// ExchangeError reports a failed code-for-token exchange with the
// provider. The authorization code is single-use, so the exchange is
// never retried; the user has to restart the login flow.
type ExchangeError struct {
	// StatusCode is the HTTP status returned by the token endpoint,
	// or 0 when the request never completed.
	StatusCode int

	// Reason is the proximate cause, safe to show to the user.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

func (e *ExchangeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("token exchange failed with status %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("token exchange failed: %s", e.Reason)
}

func (e *ExchangeError) Unwrap() error { return e.Err }

// FetchError reports a failure to fetch the authenticated identity from
// the provider's user endpoint.
type FetchError struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("identity fetch failed with status %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("identity fetch failed: %s", e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }
