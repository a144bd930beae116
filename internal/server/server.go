// Package server wires the travel tools, the OAuth flow, and the MCP
// protocol endpoints into one process.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"wayfarer/internal/config"
	"wayfarer/internal/oauth"
	"wayfarer/internal/travel"
	"wayfarer/pkg/logging"
)

const serverName = "wayfarer"

// Server is the wayfarer MCP server: travel planning tools for one
// destination, gated behind a GitHub login where it matters.
type Server struct {
	cfg *config.WayfarerConfig

	mcp     *server.MCPServer
	oauth   *oauth.Manager
	weather *travel.WeatherClient
	planner *travel.Planner

	httpServer *http.Server
}

// Option customizes a Server, primarily for tests.
type Option func(*Server)

// WithOAuthManager replaces the OAuth manager built from config.
func WithOAuthManager(m *oauth.Manager) Option {
	return func(s *Server) {
		s.oauth = m
	}
}

// WithWeatherClient replaces the weather client built from config.
func WithWeatherClient(c *travel.WeatherClient) Option {
	return func(s *Server) {
		s.weather = c
	}
}

// New assembles a Server from configuration. The server starts in the
// anonymous state; OAuth credentials may be absent, in which case the
// public tools work and login attempts report what is missing.
func New(cfg *config.WayfarerConfig, version string, opts ...Option) *Server {
	s := &Server{cfg: cfg}

	for _, opt := range opts {
		opt(s)
	}

	if s.oauth == nil {
		exchanger := oauth.NewExchanger(oauth.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURI:  cfg.OAuth.RedirectURI,
			Scope:        cfg.OAuth.Scope,
		})
		s.oauth = oauth.NewManager(
			oauth.NewStateStore(cfg.OAuth.StateTTL),
			oauth.NewSessionStore(),
			exchanger,
		)
	}

	if s.weather == nil {
		s.weather = travel.NewWeatherClient(travel.Destination{
			Name:      cfg.Destination.Name,
			Latitude:  cfg.Destination.Latitude,
			Longitude: cfg.Destination.Longitude,
			Timezone:  cfg.Destination.Timezone,
		})
	}
	s.planner = travel.NewPlanner(s.weather)

	s.mcp = server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// MCPServer exposes the underlying MCP server for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// OAuth exposes the OAuth manager, for the serve command's shutdown
// path and for tests.
func (s *Server) OAuth() *oauth.Manager {
	return s.oauth
}

// Start runs the configured transport until ctx is cancelled or the
// transport fails. For HTTP transports the OAuth endpoints are served
// on the same listener as the MCP endpoint.
func (s *Server) Start(ctx context.Context) error {
	transport := s.cfg.Server.Transport
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	switch transport {
	case config.MCPTransportStdio:
		logging.Info("Server", "Starting MCP server on stdio")
		return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)

	case config.MCPTransportSSE:
		baseURL := fmt.Sprintf("http://%s", addr)
		sse := server.NewSSEServer(s.mcp,
			server.WithBaseURL(baseURL),
			server.WithSSEEndpoint("/sse"),
			server.WithMessageEndpoint("/message"),
			server.WithKeepAlive(true),
			server.WithKeepAliveInterval(30*time.Second),
		)

		mux := http.NewServeMux()
		mux.Handle("/sse", sse)
		mux.Handle("/message", sse)
		oauth.NewHandler(s.oauth).RegisterRoutes(mux)

		logging.Info("Server", "Starting MCP server on %s (sse)", addr)
		return s.serveHTTP(ctx, addr, mux)

	case config.MCPTransportStreamableHTTP:
		streamable := server.NewStreamableHTTPServer(s.mcp)

		mux := http.NewServeMux()
		mux.Handle("/mcp", streamable)
		oauth.NewHandler(s.oauth).RegisterRoutes(mux)

		logging.Info("Server", "Starting MCP server on %s (streamable-http)", addr)
		return s.serveHTTP(ctx, addr, mux)

	default:
		return fmt.Errorf("unknown transport %q", transport)
	}
}

func (s *Server) serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Stop(context.Background())
	}
}

// Stop shuts the server down: the HTTP listener drains and background
// OAuth resources are released.
func (s *Server) Stop(ctx context.Context) error {
	s.oauth.Stop()

	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	logging.Info("Server", "Shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}
