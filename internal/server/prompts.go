package server

import (
	"context"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"wayfarer/internal/travel"
	"wayfarer/pkg/logging"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(
		mcp.NewPrompt("generate_itinerary",
			mcp.WithPromptDescription("Prompt the model to write an itinerary for the destination."),
			mcp.WithArgument("days",
				mcp.RequiredArgument(),
				mcp.ArgumentDescription("Trip length in days (1-14)."),
			),
		),
		s.handleItineraryPrompt,
	)

	s.mcp.AddPrompt(
		mcp.NewPrompt("generate_detailed_itinerary",
			mcp.WithPromptDescription("Prompt the model to write a budget-aware itinerary with cost estimates in BDT."),
			mcp.WithArgument("days",
				mcp.RequiredArgument(),
				mcp.ArgumentDescription("Trip length in days (1-14)."),
			),
			mcp.WithArgument("budget",
				mcp.ArgumentDescription("Spending tier: budget, moderate, or luxury (default moderate)."),
			),
		),
		s.handleDetailedItineraryPrompt,
	)

	s.mcp.AddPrompt(
		mcp.NewPrompt("suggest_activities",
			mcp.WithPromptDescription("Prompt the model to suggest weather-appropriate activities."),
			mcp.WithArgument("time_of_day",
				mcp.ArgumentDescription("Part of the day: morning, afternoon, evening, or any."),
			),
		),
		s.handleActivitiesPrompt,
	)

	logging.Info("Server", "Registered MCP prompts")
}

// promptDays parses the days prompt argument, defaulting to a week.
func promptDays(args map[string]string) int {
	if raw, ok := args["days"]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			return travel.ValidateDays(n)
		}
	}
	return 7
}

// forecastContext fetches the forecast table for prompt embedding. An
// outage degrades to a prompt without forecast context.
func (s *Server) forecastContext(ctx context.Context, days int) string {
	table, err := s.planner.ForecastTable(ctx, days)
	if err != nil {
		logging.Warn("Server", "Forecast unavailable for prompt: %v", err)
		return ""
	}
	return table
}

func userPromptResult(description, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	})
}

func (s *Server) handleItineraryPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	days := promptDays(req.Params.Arguments)

	text, err := travel.ItineraryPrompt(s.cfg.Destination.Name, days, s.forecastContext(ctx, days))
	if err != nil {
		return nil, err
	}
	return userPromptResult("Itinerary generation prompt", text), nil
}

func (s *Server) handleDetailedItineraryPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	days := promptDays(req.Params.Arguments)
	budget := travel.ParseBudgetLevel(req.Params.Arguments["budget"])

	text, err := travel.DetailedItineraryPrompt(s.cfg.Destination.Name, days, budget, s.forecastContext(ctx, days))
	if err != nil {
		return nil, err
	}
	return userPromptResult("Detailed itinerary generation prompt", text), nil
}

func (s *Server) handleActivitiesPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	when := travel.ParseTimeOfDay(req.Params.Arguments["time_of_day"])

	temp, weatherLine := 24.0, ""
	if current, err := s.weather.CurrentWeather(ctx); err == nil {
		temp = current.Temperature
		weatherLine = current.Description + ", " + travel.FormatTemperature(current.Temperature)
	}

	suggestions := travel.SuggestActivities(temp, 0, when)

	text, err := travel.ActivitiesPrompt(s.cfg.Destination.Name, when, weatherLine, suggestions)
	if err != nil {
		return nil, err
	}
	return userPromptResult("Activity suggestion prompt", text), nil
}
