package travel

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// BudgetLevel selects the spending tier for detailed itinerary prompts.
type BudgetLevel string

const (
	BudgetLow      BudgetLevel = "budget"
	BudgetModerate BudgetLevel = "moderate"
	BudgetLuxury   BudgetLevel = "luxury"
)

// ParseBudgetLevel normalizes user input, defaulting to moderate.
func ParseBudgetLevel(input string) BudgetLevel {
	switch BudgetLevel(strings.ToLower(strings.TrimSpace(input))) {
	case BudgetLow:
		return BudgetLow
	case BudgetLuxury:
		return BudgetLuxury
	default:
		return BudgetModerate
	}
}

// budgetGuidelines gives the model concrete local price anchors per tier.
var budgetGuidelines = map[BudgetLevel]string{
	BudgetLow:      "Guesthouses under 2,000 BDT/night, street food and local canteens (100-300 BDT/meal), shared transport.",
	BudgetModerate: "Mid-range hotels 3,000-8,000 BDT/night, sit-down restaurants (400-1,000 BDT/meal), reserved CNG or car for day trips.",
	BudgetLuxury:   "Five-star beachfront resorts 15,000+ BDT/night, fine dining and resort spas, private car with driver throughout.",
}

var itineraryPrompt = mustPrompt("itinerary", `
You are a travel planner for {{ .Destination }}.
Create a {{ .Days }}-day itinerary{{ if gt .Days 1 }} with a distinct theme for each day{{ end }}.

Cover for each day:
- Morning, afternoon and evening activities
- Where to eat, favoring local seafood
- Travel time between stops

{{- if .Forecast }}

Work around this forecast:
{{ .Forecast }}
{{- end }}

Keep the tone practical and specific. Use local place names.
`)

var detailedItineraryPrompt = mustPrompt("detailed_itinerary", `
You are a travel planner for {{ .Destination }}.
Create a detailed {{ .Days }}-day itinerary for a {{ .Budget }} traveler.

Budget guidance: {{ .Guidelines }}

For each day include:
- A theme and a one-line summary
- Morning, afternoon and evening blocks with named venues
- Estimated costs in BDT per block and a daily total
- One backup indoor option in case of rain

{{- if .Forecast }}

Work around this forecast:
{{ .Forecast }}
{{- end }}

Present each day under a level-2 heading. Finish with a trip total in BDT.
`)

var activitiesPrompt = mustPrompt("activities", `
You are a local guide in {{ .Destination }}.
Suggest activities for the {{ .TimeOfDay }}{{ if .Weather }} given the current weather: {{ .Weather }}{{ end }}.

Some fitting options:
{{- range .Suggestions }}
- {{ . }}
{{- end }}

Expand each with practical detail: how to get there, what it costs, and
how long to allow. Add {{ max 2 (sub 5 (len .Suggestions)) }} more ideas of your own.
`)

func mustPrompt(name, text string) *template.Template {
	return template.Must(template.New(name).
		Funcs(sprig.FuncMap()).
		Parse(strings.TrimSpace(text)))
}

func renderPrompt(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", t.Name(), err)
	}
	return b.String(), nil
}

// ItineraryPrompt renders the basic itinerary-generation prompt.
func ItineraryPrompt(destination string, days int, forecast string) (string, error) {
	return renderPrompt(itineraryPrompt, map[string]any{
		"Destination": destination,
		"Days":        ValidateDays(days),
		"Forecast":    forecast,
	})
}

// DetailedItineraryPrompt renders the budget-aware itinerary prompt.
func DetailedItineraryPrompt(destination string, days int, budget BudgetLevel, forecast string) (string, error) {
	return renderPrompt(detailedItineraryPrompt, map[string]any{
		"Destination": destination,
		"Days":        ValidateDays(days),
		"Budget":      string(budget),
		"Guidelines":  budgetGuidelines[budget],
		"Forecast":    forecast,
	})
}

// ActivitiesPrompt renders the activity-suggestion prompt.
func ActivitiesPrompt(destination string, when TimeOfDay, weather string, suggestions []string) (string, error) {
	return renderPrompt(activitiesPrompt, map[string]any{
		"Destination": destination,
		"TimeOfDay":   string(when),
		"Weather":     weather,
		"Suggestions": suggestions,
	})
}
