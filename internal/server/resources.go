package server

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"wayfarer/internal/oauth"
	"wayfarer/pkg/logging"
)

const (
	// WeatherCurrentResourceURI serves the latest observation as JSON.
	WeatherCurrentResourceURI = "weather://current"

	// WeatherForecastResourceURI serves the 7-day forecast as JSON.
	WeatherForecastResourceURI = "weather://forecast"

	// TemperatureSummaryResourceURI serves a three day min/max/average
	// temperature overview as JSON.
	TemperatureSummaryResourceURI = "weather://temperature-summary"

	// SessionInfoResourceURI reports authentication state without
	// identity details, safe to read while anonymous.
	SessionInfoResourceURI = "auth://session/info"

	// UserProfileResourceURI serves the logged-in user's profile. Reads
	// while anonymous fail with an authentication error.
	UserProfileResourceURI = "auth://user/profile"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(
		mcp.NewResource(WeatherCurrentResourceURI,
			"Current weather at the destination."),
		s.handleWeatherCurrentResource,
	)

	s.mcp.AddResource(
		mcp.NewResource(WeatherForecastResourceURI,
			"Seven day weather forecast for the destination."),
		s.handleWeatherForecastResource,
	)

	s.mcp.AddResource(
		mcp.NewResource(TemperatureSummaryResourceURI,
			"Temperature summary for the next three days: daily highs/lows and their averages."),
		s.handleTemperatureSummaryResource,
	)

	s.mcp.AddResource(
		mcp.NewResource(SessionInfoResourceURI,
			"Authentication session state: whether a user is logged in and session metadata."),
		s.handleSessionInfoResource,
	)

	s.mcp.AddResource(
		mcp.NewResource(UserProfileResourceURI,
			"Profile of the logged-in GitHub user. Requires login."),
		s.handleUserProfileResource,
	)

	logging.Info("Server", "Registered MCP resources")
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleWeatherCurrentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	current, err := s.weather.CurrentWeather(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(WeatherCurrentResourceURI, current)
}

func (s *Server) handleWeatherForecastResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	forecast, err := s.weather.Forecast(ctx, 7)
	if err != nil {
		return nil, err
	}
	return jsonContents(WeatherForecastResourceURI, forecast)
}

func (s *Server) handleTemperatureSummaryResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	summary, err := s.weather.TemperatureSummary(ctx, 3)
	if err != nil {
		return nil, err
	}
	return jsonContents(TemperatureSummaryResourceURI, summary)
}

func (s *Server) handleSessionInfoResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(SessionInfoResourceURI, s.oauth.Status())
}

func (s *Server) handleUserProfileResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	identity, err := s.oauth.Guard().Check()
	if err != nil {
		return nil, err
	}

	profile := struct {
		*oauth.Identity
		ProfileURL string `json:"profile_url"`
	}{
		Identity:   identity,
		ProfileURL: identity.ProfileURL(),
	}
	return jsonContents(UserProfileResourceURI, profile)
}
