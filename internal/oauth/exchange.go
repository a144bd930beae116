package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/github"

	"wayfarer/pkg/logging"
)

const (
	// userAgent identifies wayfarer on outbound provider requests.
	// GitHub rejects requests without a User-Agent header.
	userAgent = "wayfarer-mcp-server"

	// githubUserURL is the endpoint that resolves a bearer token to the
	// authenticated user.
	githubUserURL = "https://api.github.com/user"

	// exchangeTimeout bounds each provider round-trip so a hung token
	// endpoint cannot stall a callback forever.
	exchangeTimeout = 10 * time.Second
)

// Config carries the provider credentials the Exchanger needs. All three
// fields are required before a login flow can start.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// Scope is the space-separated OAuth scope string requested at
	// authorization time.
	Scope string
}

// Validate returns a ConfigurationError listing any missing credential
// fields, or nil when the config is complete.
func (c Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "clientID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "clientSecret")
	}
	if c.RedirectURI == "" {
		missing = append(missing, "redirectURI")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// Exchanger performs the provider-facing half of the OAuth flow: it
// builds authorization URLs, exchanges authorization codes for access
// tokens, and resolves tokens to identities. It holds no state between
// calls and never retains tokens.
type Exchanger struct {
	config Config

	authURL  string
	tokenURL string
	userURL  string

	httpClient *http.Client
}

// ExchangerOption customizes an Exchanger, primarily for tests that
// point it at a stub provider.
type ExchangerOption func(*Exchanger)

// WithEndpoints overrides the provider endpoint URLs.
func WithEndpoints(authURL, tokenURL, userURL string) ExchangerOption {
	return func(e *Exchanger) {
		e.authURL = authURL
		e.tokenURL = tokenURL
		e.userURL = userURL
	}
}

// WithHTTPClient overrides the HTTP client used for provider requests.
func WithHTTPClient(client *http.Client) ExchangerOption {
	return func(e *Exchanger) {
		e.httpClient = client
	}
}

// NewExchanger creates an Exchanger against the public GitHub endpoints.
func NewExchanger(cfg Config, opts ...ExchangerOption) *Exchanger {
	e := &Exchanger{
		config:   cfg,
		authURL:  github.Endpoint.AuthURL,
		tokenURL: github.Endpoint.TokenURL,
		userURL:  githubUserURL,
		httpClient: &http.Client{
			Timeout: exchangeTimeout,
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// AuthorizationURL builds the provider authorization URL for the given
// state token. It fails with a ConfigurationError when credentials are
// missing, so the caller can surface remediation instead of sending the
// user to a broken URL.
func (e *Exchanger) AuthorizationURL(state string) (string, error) {
	if err := e.config.Validate(); err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("client_id", e.config.ClientID)
	params.Set("redirect_uri", e.config.RedirectURI)
	params.Set("state", state)
	if e.config.Scope != "" {
		params.Set("scope", e.config.Scope)
	}

	return e.authURL + "?" + params.Encode(), nil
}

// tokenResponse mirrors GitHub's token endpoint body. GitHub reports
// errors with HTTP 200 and an error field, so both shapes share one
// struct.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode trades an authorization code for an access token.
// Authorization codes are single-use, so failures are never retried.
func (e *Exchanger) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	if err := e.config.Validate(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("client_id", e.config.ClientID)
	form.Set("client_secret", e.config.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", e.config.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ExchangeError{Reason: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &ExchangeError{Reason: "token endpoint unreachable", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &ExchangeError{StatusCode: resp.StatusCode, Reason: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ExchangeError{
			StatusCode: resp.StatusCode,
			Reason:     "unexpected status from token endpoint",
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &ExchangeError{StatusCode: resp.StatusCode, Reason: "malformed token response", Err: err}
	}

	// GitHub signals bad_verification_code and friends in a 200 body.
	if tr.Error != "" {
		reason := tr.Error
		if tr.ErrorDescription != "" {
			reason = fmt.Sprintf("%s: %s", tr.Error, tr.ErrorDescription)
		}
		return nil, &ExchangeError{StatusCode: resp.StatusCode, Reason: reason}
	}

	if tr.AccessToken == "" {
		return nil, &ExchangeError{StatusCode: resp.StatusCode, Reason: "token response carried no access token"}
	}

	logging.Debug("OAuthExchanger", "Exchanged authorization code for token (scope: %s)", tr.Scope)

	return &Token{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
		Scope:       tr.Scope,
	}, nil
}

// FetchIdentity resolves an access token to the authenticated user via
// the provider's user endpoint.
func (e *Exchanger) FetchIdentity(ctx context.Context, token *Token) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.userURL, nil)
	if err != nil {
		return nil, &FetchError{Reason: "failed to build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Reason: "user endpoint unreachable", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Reason: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Reason:     "unexpected status from user endpoint",
		}
	}

	var identity Identity
	if err := json.Unmarshal(body, &identity); err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Reason: "malformed user response", Err: err}
	}

	if identity.Login == "" {
		return nil, &FetchError{StatusCode: resp.StatusCode, Reason: "user response carried no login"}
	}

	logging.Debug("OAuthExchanger", "Fetched identity for user %s", identity.Login)

	return &identity, nil
}
