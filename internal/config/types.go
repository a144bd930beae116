package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MCPTransportStreamableHTTP is the streamable HTTP transport.
	MCPTransportStreamableHTTP = "streamable-http"
	// MCPTransportSSE is the Server-Sent Events transport.
	MCPTransportSSE = "sse"
	// MCPTransportStdio is the standard I/O transport.
	MCPTransportStdio = "stdio"
)

// WayfarerConfig is the top-level configuration structure for wayfarer.
type WayfarerConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Destination DestinationConfig `yaml:"destination"`
	OAuth       OAuthConfig       `yaml:"oauth"`
}

// ServerConfig defines how the MCP server is exposed.
type ServerConfig struct {
	Port      int    `yaml:"port,omitempty"`      // Port for the HTTP transports (default: 8080)
	Host      string `yaml:"host,omitempty"`      // Host to bind to (default: localhost)
	Transport string `yaml:"transport,omitempty"` // Transport to use (default: streamable-http)
}

// DestinationConfig describes the travel destination the server plans for.
// Weather lookups and itinerary text are generated for these coordinates.
type DestinationConfig struct {
	Name      string  `yaml:"name,omitempty"`
	Latitude  float64 `yaml:"latitude,omitempty"`
	Longitude float64 `yaml:"longitude,omitempty"`
	Timezone  string  `yaml:"timezone,omitempty"`
}

// OAuthConfig holds the GitHub OAuth application credentials and flow
// tuning. The three credential fields may also be supplied through the
// GITHUB_CLIENT_ID, GITHUB_CLIENT_SECRET and GITHUB_REDIRECT_URI
// environment variables, which take precedence over the file.
type OAuthConfig struct {
	ClientID     string `yaml:"clientID,omitempty"`
	ClientSecret string `yaml:"clientSecret,omitempty"`
	RedirectURI  string `yaml:"redirectURI,omitempty"`
	Scope        string `yaml:"scope,omitempty"` // Space-separated OAuth scopes (default: "read:user user:email")

	// StateTTL bounds how long an issued state token stays valid.
	// Defaults to 10 minutes.
	StateTTL time.Duration `yaml:"stateTTL,omitempty"`
}

// UnmarshalYAML decodes the stateTTL field from duration strings like
// "10m", which the yaml package does not handle for time.Duration.
func (c *OAuthConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ClientID     string `yaml:"clientID"`
		ClientSecret string `yaml:"clientSecret"`
		RedirectURI  string `yaml:"redirectURI"`
		Scope        string `yaml:"scope"`
		StateTTL     string `yaml:"stateTTL"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.ClientID = raw.ClientID
	c.ClientSecret = raw.ClientSecret
	c.RedirectURI = raw.RedirectURI
	c.Scope = raw.Scope

	if raw.StateTTL != "" {
		ttl, err := time.ParseDuration(raw.StateTTL)
		if err != nil {
			return fmt.Errorf("invalid stateTTL %q: %w", raw.StateTTL, err)
		}
		c.StateTTL = ttl
	}
	return nil
}

// IsConfigured reports whether all required OAuth credentials are present.
func (c OAuthConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURI != ""
}
