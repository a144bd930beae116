package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/config"
	"wayfarer/internal/oauth"
	"wayfarer/internal/travel"
)

const weatherAPIBody = `{
	"current": {
		"time": "2026-08-25T14:00",
		"temperature_2m": 28.3,
		"relative_humidity_2m": 74,
		"apparent_temperature": 32.0,
		"weather_code": 2,
		"wind_speed_10m": 12.0
	},
	"daily": {
		"time": ["2026-08-25", "2026-08-26", "2026-08-27"],
		"temperature_2m_max": [30.1, 29.5, 28.8],
		"temperature_2m_min": [25.0, 24.8, 24.5],
		"precipitation_probability_max": [10, 30, 70],
		"weather_code": [1, 2, 80]
	}
}`

// testHarness bundles a Server with the fakes behind it.
type testHarness struct {
	server  *Server
	manager *oauth.Manager
}

// login drives a full OAuth flow against the stub provider.
func (h *testHarness) login(t *testing.T) {
	t.Helper()
	challenge, err := h.manager.StartLogin()
	require.NoError(t, err)
	_, err = h.manager.CompleteLogin(context.Background(), "auth-code", challenge.State)
	require.NoError(t, err)
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	github := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			w.Write([]byte(`{"access_token":"gho_stub","token_type":"bearer","scope":"read:user"}`))
		case "/user":
			w.Write([]byte(`{"id":583231,"login":"octocat","name":"The Octocat"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(github.Close)

	weatherAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(weatherAPIBody))
	}))
	t.Cleanup(weatherAPI.Close)

	cfg := config.GetDefaultConfig()

	exchanger := oauth.NewExchanger(oauth.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:8080/auth/callback",
		Scope:        "read:user",
	}, oauth.WithEndpoints(github.URL+"/authorize", github.URL+"/token", github.URL+"/user"))

	states := oauth.NewStateStore(10 * time.Minute)
	t.Cleanup(states.Stop)
	manager := oauth.NewManager(states, oauth.NewSessionStore(), exchanger)

	weather := travel.NewWeatherClient(travel.Destination{
		Name:      cfg.Destination.Name,
		Latitude:  cfg.Destination.Latitude,
		Longitude: cfg.Destination.Longitude,
		Timezone:  cfg.Destination.Timezone,
	}, travel.WithWeatherBaseURL(weatherAPI.URL))

	srv := New(&cfg, "test", WithOAuthManager(manager), WithWeatherClient(weather))

	return &testHarness{server: srv, manager: manager}
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	if args != nil {
		req.Params.Arguments = args
	}
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is not text")
	return text.Text
}

func TestWeatherCurrentTool(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.server.handleWeatherCurrent(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Partly cloudy")
	assert.Contains(t, text, "28.3°C (Warm)")
	assert.Contains(t, text, "Humidity: 74%")
}

func TestWeatherForecastTool(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.server.handleWeatherForecast(context.Background(),
		callRequest(map[string]interface{}{"days": float64(3)}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "2026-08-26")
	assert.Contains(t, text, "70%")
}

func TestPlanItineraryRequiresLogin(t *testing.T) {
	h := newTestHarness(t)

	handler := h.server.guarded(h.server.handlePlanItinerary)
	result, err := handler(context.Background(),
		callRequest(map[string]interface{}{"days": float64(3)}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "github_login")
}

func TestPlanItineraryAfterLogin(t *testing.T) {
	h := newTestHarness(t)
	h.login(t)

	handler := h.server.guarded(h.server.handlePlanItinerary)
	result, err := handler(context.Background(),
		callRequest(map[string]interface{}{"days": float64(3)}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Prepared for @octocat")
	assert.Contains(t, text, "Trip starts "+time.Now().Format("2006-01-02"))
	assert.Contains(t, text, "3-Day Itinerary")
}

func TestPlanItineraryStartDate(t *testing.T) {
	h := newTestHarness(t)
	h.login(t)

	handler := h.server.guarded(h.server.handlePlanItinerary)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"days":       float64(2),
		"start_date": "2026-09-01",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Trip starts 2026-09-01")

	result, err = handler(context.Background(), callRequest(map[string]interface{}{
		"days":       float64(2),
		"start_date": "next week",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestPlanItineraryZeroDays(t *testing.T) {
	h := newTestHarness(t)
	h.login(t)

	handler := h.server.guarded(h.server.handlePlanItinerary)

	// An explicit zero clamps to the one-day minimum rather than being
	// mistaken for a missing argument.
	result, err := handler(context.Background(),
		callRequest(map[string]interface{}{"days": float64(0)}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "1-Day Itinerary")

	result, err = handler(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "days is required")
}

func TestGuardedToolAfterLogout(t *testing.T) {
	h := newTestHarness(t)
	h.login(t)
	h.manager.Logout()

	handler := h.server.guarded(h.server.handleSuggestActivities)
	result, err := handler(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSuggestActivitiesTool(t *testing.T) {
	h := newTestHarness(t)
	h.login(t)

	handler := h.server.guarded(h.server.handleSuggestActivities)
	result, err := handler(context.Background(),
		callRequest(map[string]interface{}{"time_of_day": "evening"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "evening")
	assert.Contains(t, text, "Current conditions: Partly cloudy")
	assert.Contains(t, text, "- ")
}

func TestLoginTool(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.server.handleLogin(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Open this URL")
	assert.Contains(t, text, "state=")
}

func TestLoginToolUnconfigured(t *testing.T) {
	cfg := config.GetDefaultConfig()
	srv := New(&cfg, "test")
	t.Cleanup(srv.OAuth().Stop)

	result, err := srv.handleLogin(context.Background(), callRequest(nil))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "GITHUB_CLIENT_ID")
}

func TestLogoutTool(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.server.handleLogout(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "No active sessions")

	h.login(t)
	result, err = h.server.handleLogout(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Removed 1 session")
}

func TestAuthStatusTool(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.server.handleAuthStatus(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), `"authenticated": false`)

	h.login(t)
	result, err = h.server.handleAuthStatus(context.Background(), callRequest(nil))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, `"authenticated": true`)
	assert.Contains(t, text, "octocat")
	assert.NotContains(t, text, "gho_stub")
}

func TestConfigCheckTool(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.server.handleConfigCheck(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "is configured")

	cfg := config.GetDefaultConfig()
	bare := New(&cfg, "test")
	t.Cleanup(bare.OAuth().Stop)

	result, err = bare.handleConfigCheck(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "NOT configured")
}

func TestDebugSessionsTool(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.server.handleDebugSessions(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "**Total Active Sessions:** 0")
	assert.Contains(t, text, "No current session active")
	assert.Contains(t, text, "github_login")

	h.login(t)
	result, err = h.server.handleDebugSessions(context.Background(), callRequest(nil))
	require.NoError(t, err)

	text = resultText(t, result)
	assert.Contains(t, text, "**Total Active Sessions:** 1")
	assert.Contains(t, text, "@octocat")
	assert.Contains(t, text, "The Octocat")
	assert.Contains(t, text, "Valid: yes")
	assert.Contains(t, text, "**Current Session:**")
	assert.NotContains(t, text, "gho_stub")

	// Session IDs appear truncated, never in full.
	session := h.manager.Sessions().Current()
	require.NotNil(t, session)
	assert.NotContains(t, text, session.ID)
}

func TestUserProfileResource(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.server.handleUserProfileResource(context.Background(), mcp.ReadResourceRequest{})
	assert.ErrorIs(t, err, oauth.ErrAuthenticationRequired)

	h.login(t)
	contents, err := h.server.handleUserProfileResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text := contents[0].(mcp.TextResourceContents).Text
	assert.Contains(t, text, "octocat")
	assert.Contains(t, text, "https://github.com/octocat")
	assert.NotContains(t, text, "gho_stub")
}

func TestSessionInfoResource(t *testing.T) {
	h := newTestHarness(t)

	contents, err := h.server.handleSessionInfoResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	assert.Contains(t, contents[0].(mcp.TextResourceContents).Text, `"authenticated": false`)
}

func TestWeatherResources(t *testing.T) {
	h := newTestHarness(t)

	contents, err := h.server.handleWeatherCurrentResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	assert.Contains(t, contents[0].(mcp.TextResourceContents).Text, "28.3")

	contents, err = h.server.handleWeatherForecastResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	assert.Contains(t, contents[0].(mcp.TextResourceContents).Text, "2026-08-27")
}

func TestTemperatureSummaryResource(t *testing.T) {
	h := newTestHarness(t)

	contents, err := h.server.handleTemperatureSummaryResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text := contents[0].(mcp.TextResourceContents).Text
	assert.Contains(t, text, `"period": "Next 3 days"`)
	assert.Contains(t, text, `"average_max_c": 29.5`)
	assert.Contains(t, text, `"average_min_c": 24.8`)
	assert.Contains(t, text, "2026-08-26")
}

func TestItineraryPromptHandler(t *testing.T) {
	h := newTestHarness(t)

	var req mcp.GetPromptRequest
	req.Params.Arguments = map[string]string{"days": "3"}

	result, err := h.server.handleItineraryPrompt(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)

	text := result.Messages[0].Content.(mcp.TextContent).Text
	assert.Contains(t, text, "Cox's Bazar")
	assert.Contains(t, text, "3-day itinerary")
	assert.Contains(t, text, "2026-08-25")
}

func TestDetailedItineraryPromptHandler(t *testing.T) {
	h := newTestHarness(t)

	var req mcp.GetPromptRequest
	req.Params.Arguments = map[string]string{"days": "2", "budget": "luxury"}

	result, err := h.server.handleDetailedItineraryPrompt(context.Background(), req)
	require.NoError(t, err)

	text := result.Messages[0].Content.(mcp.TextContent).Text
	assert.Contains(t, text, "luxury")
	assert.Contains(t, text, "BDT")
}

func TestActivitiesPromptHandler(t *testing.T) {
	h := newTestHarness(t)

	var req mcp.GetPromptRequest
	req.Params.Arguments = map[string]string{"time_of_day": "morning"}

	result, err := h.server.handleActivitiesPrompt(context.Background(), req)
	require.NoError(t, err)

	text := result.Messages[0].Content.(mcp.TextContent).Text
	assert.Contains(t, text, "morning")
	assert.Contains(t, text, "Partly cloudy")
}

func TestServeHTTPMountsAuthRoutes(t *testing.T) {
	h := newTestHarness(t)

	mux := http.NewServeMux()
	oauth.NewHandler(h.manager).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "authenticated"))
}
