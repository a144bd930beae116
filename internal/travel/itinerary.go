package travel

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"wayfarer/pkg/logging"
)

// Planner builds day-by-day itineraries for the destination, shaped by
// the live forecast when one is available.
type Planner struct {
	weather *WeatherClient
}

// NewPlanner creates a Planner over the given weather client.
func NewPlanner(weather *WeatherClient) *Planner {
	return &Planner{weather: weather}
}

// PlanItinerary renders a markdown itinerary for a trip of the given
// length. Trip length is clamped to the supported range. A weather
// fetch failure degrades to a weather-free plan instead of failing the
// whole request.
func (p *Planner) PlanItinerary(ctx context.Context, days int) string {
	days = ValidateDays(days)
	dest := p.weather.Destination()

	var b strings.Builder
	fmt.Fprintf(&b, "# %d-Day Itinerary for %s\n\n", days, dest.Name)

	if days == 1 {
		b.WriteString("A single day is tight for this destination. ")
		b.WriteString("Consider extending the trip to fit the beach, the hills, and the islands.\n\n")
	}

	forecast, err := p.weather.Forecast(ctx, days)
	if err != nil {
		logging.Warn("Planner", "Forecast unavailable, planning without weather: %v", err)
		b.WriteString("_Live forecast unavailable; plan assumes typical coastal weather._\n\n")
		p.writeDays(&b, days, nil)
		return b.String()
	}

	b.WriteString("## Forecast\n\n")
	b.WriteString(renderForecastTable(forecast))
	b.WriteString("\n\n")

	p.writeDays(&b, days, forecast)
	return b.String()
}

// writeDays emits the per-day schedule. When forecast is nil the plan
// falls back to pleasant-weather defaults.
func (p *Planner) writeDays(b *strings.Builder, days int, forecast []DailyForecast) {
	b.WriteString("## Day by Day\n\n")

	for day := 0; day < days; day++ {
		temp, precip := 24.0, 0
		header := fmt.Sprintf("### Day %d", day+1)
		if day < len(forecast) {
			f := forecast[day]
			temp, precip = f.MaxTemp, f.Precipitation
			header = fmt.Sprintf("### Day %d — %s (%s, high %s)",
				day+1, f.Date, f.Description, FormatTemperature(f.MaxTemp))
		}
		b.WriteString(header + "\n\n")

		for _, when := range []TimeOfDay{TimeMorning, TimeAfternoon, TimeEvening} {
			suggestions := SuggestActivities(temp, precip, when)
			if len(suggestions) == 0 {
				continue
			}
			// Rotate through the pool so consecutive days differ.
			pick := suggestions[day%len(suggestions)]
			fmt.Fprintf(b, "- **%s**: %s\n", titleCase(string(when)), pick)
		}
		b.WriteString("\n")
	}
}

// ForecastTable renders the daily forecast as a markdown table.
func (p *Planner) ForecastTable(ctx context.Context, days int) (string, error) {
	forecast, err := p.weather.Forecast(ctx, days)
	if err != nil {
		return "", err
	}
	return renderForecastTable(forecast), nil
}

func renderForecastTable(forecast []DailyForecast) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Date", "Conditions", "Low", "High", "Rain"})
	for _, day := range forecast {
		t.AppendRow(table.Row{
			day.Date,
			day.Description,
			fmt.Sprintf("%.1f°C", day.MinTemp),
			fmt.Sprintf("%.1f°C", day.MaxTemp),
			fmt.Sprintf("%d%%", day.Precipitation),
		})
	}
	return t.RenderMarkdown()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
