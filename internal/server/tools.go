package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"wayfarer/internal/oauth"
	"wayfarer/internal/travel"
	"wayfarer/pkg/logging"
)

// registerTools wires every tool onto the MCP server. Weather and auth
// management tools are public; itinerary and activity tools require a
// login so plans can be tied to a known user.
func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("weather_current",
			mcp.WithDescription(fmt.Sprintf("Get the current weather in %s.", s.cfg.Destination.Name)),
		),
		s.handleWeatherCurrent,
	)

	s.mcp.AddTool(
		mcp.NewTool("weather_forecast",
			mcp.WithDescription(fmt.Sprintf("Get the daily weather forecast for %s.", s.cfg.Destination.Name)),
			mcp.WithNumber("days",
				mcp.Description("Number of days to forecast (1-14, default 7)."),
			),
		),
		s.handleWeatherForecast,
	)

	s.mcp.AddTool(
		mcp.NewTool("plan_itinerary",
			mcp.WithDescription(fmt.Sprintf("Build a day-by-day itinerary for a trip to %s, shaped by the live forecast. Requires login.", s.cfg.Destination.Name)),
			mcp.WithNumber("days",
				mcp.Required(),
				mcp.Description("Trip length in days (1-14)."),
			),
			mcp.WithString("start_date",
				mcp.Description("Trip start date: YYYY-MM-DD, today, or tomorrow (default today)."),
			),
		),
		s.guarded(s.handlePlanItinerary),
	)

	s.mcp.AddTool(
		mcp.NewTool("suggest_activities",
			mcp.WithDescription(fmt.Sprintf("Suggest activities in %s that fit the current weather. Requires login.", s.cfg.Destination.Name)),
			mcp.WithString("time_of_day",
				mcp.Description("Part of the day: morning, afternoon, evening, or any (default any)."),
			),
		),
		s.guarded(s.handleSuggestActivities),
	)

	s.mcp.AddTool(
		mcp.NewTool("github_login",
			mcp.WithDescription("Start the GitHub login flow. Returns a URL to open in a browser."),
		),
		s.handleLogin,
	)

	s.mcp.AddTool(
		mcp.NewTool("github_logout",
			mcp.WithDescription("Log out, removing all sessions."),
		),
		s.handleLogout,
	)

	s.mcp.AddTool(
		mcp.NewTool("github_auth_status",
			mcp.WithDescription("Report whether a user is currently logged in, and who."),
		),
		s.handleAuthStatus,
	)

	s.mcp.AddTool(
		mcp.NewTool("github_config_check",
			mcp.WithDescription("Check whether GitHub OAuth credentials are configured."),
		),
		s.handleConfigCheck,
	)

	s.mcp.AddTool(
		mcp.NewTool("github_debug_sessions",
			mcp.WithDescription("List all active sessions and the current session pointer. Tokens are never shown."),
		),
		s.handleDebugSessions,
	)

	logging.Info("Server", "Registered MCP tools")
}

// guarded wraps a tool handler so it only runs for a logged-in user.
// An anonymous call comes back as a tool error telling the user how to
// log in, not as a protocol failure.
func (s *Server) guarded(handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		op := oauth.Guarded(s.oauth.Guard(), func(ctx context.Context) (*mcp.CallToolResult, error) {
			return handler(ctx, req)
		})

		result, err := op(ctx)
		if errors.Is(err, oauth.ErrAuthenticationRequired) {
			return mcp.NewToolResultError(
				"Authentication required. Run the github_login tool and complete the browser flow, then try again."), nil
		}
		return result, err
	}
}

// toolArgs extracts the arguments map from a tool call. Calls without
// arguments yield an empty map.
func toolArgs(req mcp.CallToolRequest) map[string]interface{} {
	if req.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	args, ok := req.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a numeric argument, tolerating the float64 JSON numbers
// arrive as.
func intArg(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func (s *Server) handleWeatherCurrent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current, err := s.weather.CurrentWeather(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Weather lookup failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current weather in %s:\n", s.cfg.Destination.Name)
	fmt.Fprintf(&b, "- Conditions: %s\n", current.Description)
	fmt.Fprintf(&b, "- Temperature: %s (feels like %s)\n",
		travel.FormatTemperature(current.Temperature),
		travel.FormatTemperature(current.ApparentTemperature))
	fmt.Fprintf(&b, "- Humidity: %d%%\n", current.Humidity)
	fmt.Fprintf(&b, "- Wind: %.1f km/h\n", current.WindSpeed)

	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleWeatherForecast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := intArg(toolArgs(req), "days", 7)

	table, err := s.planner.ForecastTable(ctx, days)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Forecast lookup failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Forecast for %s:\n\n%s", s.cfg.Destination.Name, table)), nil
}

func (s *Server) handlePlanItinerary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(req)
	if _, ok := args["days"]; !ok {
		return mcp.NewToolResultError("days is required"), nil
	}
	days := intArg(args, "days", 0)

	startDate, err := travel.FormatDate(stringArg(args, "start_date"), time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	identity := oauth.IdentityFromContext(ctx)
	plan := s.planner.PlanItinerary(ctx, days)

	header := fmt.Sprintf("Trip starts %s.\n\n", startDate)
	if identity != nil {
		header = fmt.Sprintf("Prepared for @%s. %s", identity.Login, header)
	}
	return mcp.NewToolResultText(header + plan), nil
}

func (s *Server) handleSuggestActivities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	when := travel.ParseTimeOfDay(stringArg(toolArgs(req), "time_of_day"))

	// Weather steers the suggestions but must not block them.
	temp, precip := 24.0, 0
	weatherLine := "Live weather unavailable, assuming pleasant conditions."
	if current, err := s.weather.CurrentWeather(ctx); err == nil {
		temp, precip = current.Temperature, 0
		weatherLine = fmt.Sprintf("Current conditions: %s, %s.",
			current.Description, travel.FormatTemperature(current.Temperature))
	}

	suggestions := travel.SuggestActivities(temp, precip, when)

	var b strings.Builder
	fmt.Fprintf(&b, "Activity suggestions for %s (%s):\n", s.cfg.Destination.Name, when)
	fmt.Fprintf(&b, "%s\n\n", weatherLine)
	for _, suggestion := range suggestions {
		fmt.Fprintf(&b, "- %s\n", suggestion)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleLogin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	challenge, err := s.oauth.StartLogin()
	if err != nil {
		var cfgErr *oauth.ConfigurationError
		if errors.As(err, &cfgErr) {
			return mcp.NewToolResultError(cfgErr.Error() + "\n\n" + cfgErr.Remediation()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to start login: %v", err)), nil
	}

	text := fmt.Sprintf(
		"To log in with GitHub:\n\n"+
			"1. Open this URL in your browser:\n   %s\n"+
			"2. Authorize the application.\n"+
			"3. You will be redirected back and the session starts automatically.\n\n"+
			"Then run github_auth_status to confirm.",
		challenge.AuthURL)

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleLogout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := s.oauth.Logout()
	if n == 0 {
		return mcp.NewToolResultText("No active sessions to remove."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Logged out. Removed %d session(s).", n)), nil
}

func (s *Server) handleAuthStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := s.oauth.Status()

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleConfigCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.oauth.Configured(); err != nil {
		var cfgErr *oauth.ConfigurationError
		if errors.As(err, &cfgErr) {
			return mcp.NewToolResultText("GitHub OAuth is NOT configured.\n\n" +
				cfgErr.Error() + "\n\n" + cfgErr.Remediation()), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("GitHub OAuth is configured. Run github_login to authenticate."), nil
}

func (s *Server) handleDebugSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions := s.oauth.Sessions().All()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "**Total Active Sessions:** %d\n\n", len(sessions))

	for _, session := range sessions {
		valid := "no"
		if session.IsValid() {
			valid = "yes"
		}
		fmt.Fprintf(&b, "- `%s` @%s\n", logging.TruncateSessionID(session.ID), session.Identity.Login)
		fmt.Fprintf(&b, "  - Name: %s\n", session.Identity.Name)
		fmt.Fprintf(&b, "  - Created: %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "  - Valid: %s\n", valid)
	}

	b.WriteString("\n**Current Session:**\n")
	if current := s.oauth.Sessions().Current(); current != nil {
		fmt.Fprintf(&b, "- @%s, created %s\n",
			current.Identity.Login, current.CreatedAt.Format("2006-01-02 15:04:05"))
	} else {
		b.WriteString("- No current session active.\n")
	}

	if len(sessions) == 0 {
		b.WriteString("\nUse github_login to authenticate.\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}
