package travel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBudgetLevel(t *testing.T) {
	assert.Equal(t, BudgetLow, ParseBudgetLevel("budget"))
	assert.Equal(t, BudgetLuxury, ParseBudgetLevel(" Luxury "))
	assert.Equal(t, BudgetModerate, ParseBudgetLevel("moderate"))
	assert.Equal(t, BudgetModerate, ParseBudgetLevel(""))
	assert.Equal(t, BudgetModerate, ParseBudgetLevel("platinum"))
}

func TestItineraryPrompt(t *testing.T) {
	prompt, err := ItineraryPrompt("Cox's Bazar, Bangladesh", 3, "| Date | Rain |")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Cox's Bazar, Bangladesh")
	assert.Contains(t, prompt, "3-day itinerary")
	assert.Contains(t, prompt, "distinct theme")
	assert.Contains(t, prompt, "| Date | Rain |")
}

func TestItineraryPromptSingleDay(t *testing.T) {
	prompt, err := ItineraryPrompt("Cox's Bazar, Bangladesh", 1, "")
	require.NoError(t, err)

	assert.Contains(t, prompt, "1-day itinerary")
	assert.NotContains(t, prompt, "distinct theme")
	assert.NotContains(t, prompt, "forecast")
}

func TestDetailedItineraryPrompt(t *testing.T) {
	for _, budget := range []BudgetLevel{BudgetLow, BudgetModerate, BudgetLuxury} {
		prompt, err := DetailedItineraryPrompt("Cox's Bazar, Bangladesh", 5, budget, "")
		require.NoError(t, err)

		assert.Contains(t, prompt, string(budget))
		assert.Contains(t, prompt, "BDT")
		assert.Contains(t, prompt, budgetGuidelines[budget])
	}
}

func TestActivitiesPrompt(t *testing.T) {
	suggestions := SuggestActivities(22, 0, TimeMorning)
	prompt, err := ActivitiesPrompt("Cox's Bazar, Bangladesh", TimeMorning, "22°C, partly cloudy", suggestions)
	require.NoError(t, err)

	assert.Contains(t, prompt, "morning")
	assert.Contains(t, prompt, "22°C, partly cloudy")
	for _, s := range suggestions {
		assert.Contains(t, prompt, s)
	}
}
