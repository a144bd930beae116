package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"

	"wayfarer/pkg/logging"
)

// Handler exposes the login flow over HTTP for the browser half of the
// dance. It delegates all decisions to the Manager and only renders
// results.
type Handler struct {
	manager *Manager
}

// NewHandler creates a Handler over the given manager.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes mounts the auth endpoints on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/auth/callback", h.handleCallback)
	mux.HandleFunc("/auth/status", h.handleStatus)
	mux.HandleFunc("/auth/logout", h.handleLogout)
}

// handleLogin starts a login flow and redirects the browser to the
// provider.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	setSecurityHeaders(w)

	challenge, err := h.manager.StartLogin()
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			h.renderError(w, http.StatusServiceUnavailable,
				"OAuth Not Configured",
				cfgErr.Error()+"\n\n"+cfgErr.Remediation())
			return
		}
		h.renderError(w, http.StatusInternalServerError, "Login Failed", err.Error())
		return
	}

	http.Redirect(w, r, challenge.AuthURL, http.StatusFound)
}

// handleCallback receives the provider redirect and completes the flow.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	setSecurityHeaders(w)

	query := r.URL.Query()

	// The provider reports user denial and its own errors via an error
	// query parameter instead of a code.
	if provErr := query.Get("error"); provErr != "" {
		desc := query.Get("error_description")
		logging.Warn("OAuthHandler", "Provider returned error: %s", provErr)
		h.renderError(w, http.StatusBadRequest, "Authorization Failed",
			fmt.Sprintf("%s: %s", provErr, desc))
		return
	}

	code := query.Get("code")
	state := query.Get("state")
	if code == "" || state == "" {
		h.renderError(w, http.StatusBadRequest, "Authorization Failed",
			"callback is missing the code or state parameter")
		return
	}

	session, err := h.manager.CompleteLogin(r.Context(), code, state)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, ErrInvalidState) {
			status = http.StatusBadRequest
		}
		h.renderError(w, status, "Authorization Failed", err.Error())
		return
	}

	h.renderSuccess(w, session.Identity)
}

// handleStatus reports the current authentication state as JSON.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	setSecurityHeaders(w)
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.manager.Status()); err != nil {
		logging.Error("OAuthHandler", err, "Failed to encode status response")
	}
}

// handleLogout removes all sessions.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	setSecurityHeaders(w)
	w.Header().Set("Content-Type", "application/json")

	n := h.manager.Logout()
	if err := json.NewEncoder(w).Encode(map[string]int{"sessions_removed": n}); err != nil {
		logging.Error("OAuthHandler", err, "Failed to encode logout response")
	}
}

// setSecurityHeaders applies conservative browser security headers to
// auth responses.
func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")
}

func (h *Handler) renderSuccess(w http.ResponseWriter, identity *Identity) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	name := identity.Name
	if name == "" {
		name = identity.Login
	}

	fmt.Fprintf(w, successPage, html.EscapeString(name), html.EscapeString(identity.Login))
}

func (h *Handler) renderError(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	fmt.Fprintf(w, errorPage, html.EscapeString(title), html.EscapeString(title), html.EscapeString(detail))
}

const successPage = `<!DOCTYPE html>
<html>
<head>
  <title>Login Successful</title>
  <style>
    body { font-family: sans-serif; max-width: 480px; margin: 80px auto; text-align: center; }
    .check { font-size: 48px; color: #2da44e; }
    .login { color: #57606a; }
  </style>
</head>
<body>
  <div class="check">&#10004;</div>
  <h1>Welcome, %s!</h1>
  <p class="login">Signed in as @%s</p>
  <p>You can close this window and return to your MCP client.</p>
</body>
</html>
`

const errorPage = `<!DOCTYPE html>
<html>
<head>
  <title>%s</title>
  <style>
    body { font-family: sans-serif; max-width: 480px; margin: 80px auto; text-align: center; }
    .cross { font-size: 48px; color: #cf222e; }
    .detail { color: #57606a; white-space: pre-wrap; text-align: left; }
  </style>
</head>
<body>
  <div class="cross">&#10008;</div>
  <h1>%s</h1>
  <p class="detail">%s</p>
  <p>Please restart the login flow and try again.</p>
</body>
</html>
`
