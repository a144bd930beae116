package config

import "time"

const (
	// DefaultOAuthScope is the scope requested from GitHub when none is
	// configured. It covers the profile and email fields shown by the
	// auth status surfaces.
	DefaultOAuthScope = "read:user user:email"

	// DefaultStateTTL is how long an anti-CSRF state token stays valid.
	DefaultStateTTL = 10 * time.Minute
)

// GetDefaultConfig returns the default configuration: a streamable-http
// server on localhost planning trips for Cox's Bazar, Bangladesh, with
// OAuth credentials left for the environment to supply.
func GetDefaultConfig() WayfarerConfig {
	return WayfarerConfig{
		Server: ServerConfig{
			Port:      8080,
			Host:      "localhost",
			Transport: MCPTransportStreamableHTTP,
		},
		Destination: DestinationConfig{
			Name:      "Cox's Bazar, Bangladesh",
			Latitude:  21.4272,
			Longitude: 92.0058,
			Timezone:  "Asia/Dhaka",
		},
		OAuth: OAuthConfig{
			Scope:    DefaultOAuthScope,
			StateTTL: DefaultStateTTL,
		},
	}
}
