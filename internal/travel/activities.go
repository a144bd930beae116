package travel

import (
	"strings"
)

// TimeOfDay selects which part of the day activity suggestions target.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeAny       TimeOfDay = "any"
)

// ParseTimeOfDay normalizes user input to a TimeOfDay, defaulting to
// TimeAny for unrecognized values.
func ParseTimeOfDay(input string) TimeOfDay {
	switch TimeOfDay(strings.ToLower(strings.TrimSpace(input))) {
	case TimeMorning:
		return TimeMorning
	case TimeAfternoon:
		return TimeAfternoon
	case TimeEvening:
		return TimeEvening
	default:
		return TimeAny
	}
}

// activity pairs a suggestion with when it works best.
type activity struct {
	name  string
	times []TimeOfDay
}

// Activity pools by comfort band. Cox's Bazar is a beach destination, so
// hot weather favors water and shade, and cooler weather opens up the
// hills and longer walks.
var (
	coolActivities = []activity{
		{"Sunrise walk along Laboni Beach", []TimeOfDay{TimeMorning}},
		{"Hike the trails of Himchari National Park", []TimeOfDay{TimeMorning, TimeAfternoon}},
		{"Day trip to Inani Beach and its coral stones", []TimeOfDay{TimeMorning, TimeAfternoon}},
		{"Visit the Aggmeda Khyang Buddhist monastery", []TimeOfDay{TimeAfternoon}},
		{"Browse the Burmese Market for handicrafts", []TimeOfDay{TimeAfternoon, TimeEvening}},
		{"Beach bonfire and barbecue", []TimeOfDay{TimeEvening}},
	}

	pleasantActivities = []activity{
		{"Surfing lesson at the Cox's Bazar surf club", []TimeOfDay{TimeMorning}},
		{"Walk the full stretch of the world's longest sea beach", []TimeOfDay{TimeMorning, TimeAfternoon}},
		{"Speedboat ride to Maheshkhali Island", []TimeOfDay{TimeMorning, TimeAfternoon}},
		{"Explore Himchari waterfall", []TimeOfDay{TimeAfternoon}},
		{"Sunset watching at Laboni Point", []TimeOfDay{TimeEvening}},
		{"Fresh seafood dinner at a beachfront restaurant", []TimeOfDay{TimeEvening}},
	}

	warmActivities = []activity{
		{"Early beach swim before the heat builds", []TimeOfDay{TimeMorning}},
		{"Parasailing over the bay", []TimeOfDay{TimeMorning}},
		{"Visit Radiant Fish World aquarium", []TimeOfDay{TimeAfternoon}},
		{"Relax at a beachside café with fresh coconut water", []TimeOfDay{TimeAfternoon}},
		{"Evening stroll on Sugandha Beach", []TimeOfDay{TimeEvening}},
		{"Night market food tour", []TimeOfDay{TimeEvening}},
	}

	hotActivities = []activity{
		{"Dawn swim while the sand is still cool", []TimeOfDay{TimeMorning}},
		{"Indoor visit to Radiant Fish World aquarium", []TimeOfDay{TimeMorning, TimeAfternoon}},
		{"Siesta and spa time at the hotel", []TimeOfDay{TimeAfternoon}},
		{"Air-conditioned shopping at a local mall", []TimeOfDay{TimeAfternoon}},
		{"Sunset beach walk once the heat breaks", []TimeOfDay{TimeEvening}},
		{"Open-air seafood dinner under the stars", []TimeOfDay{TimeEvening}},
	}

	rainyActivities = []activity{
		{"Watch the monsoon sea from a covered beachfront café", []TimeOfDay{TimeMorning, TimeAfternoon, TimeEvening}},
		{"Visit Radiant Fish World aquarium", []TimeOfDay{TimeMorning, TimeAfternoon}},
		{"Browse the Burmese Market arcades", []TimeOfDay{TimeAfternoon}},
		{"Long lunch of local chingri and rupchanda dishes", []TimeOfDay{TimeAfternoon}},
		{"Tea and board games at the hotel lounge", []TimeOfDay{TimeEvening}},
	}
)

// SuggestActivities returns suggestions fitting the temperature, the
// chance of rain, and the requested part of the day.
func SuggestActivities(tempC float64, precipitationChance int, when TimeOfDay) []string {
	var pool []activity
	switch {
	case precipitationChance >= 60:
		pool = rainyActivities
	case tempC < 20:
		pool = coolActivities
	case tempC < 25:
		pool = pleasantActivities
	case tempC < 30:
		pool = warmActivities
	default:
		pool = hotActivities
	}

	var out []string
	for _, a := range pool {
		if when == TimeAny || matchesTime(a, when) {
			out = append(out, a.name)
		}
	}
	return out
}

func matchesTime(a activity, when TimeOfDay) bool {
	for _, t := range a.times {
		if t == when {
			return true
		}
	}
	return false
}
