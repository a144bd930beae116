package travel

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MinTripDays and MaxTripDays bound the supported trip length,
	// matching the forecast window the weather API serves.
	MinTripDays = 1
	MaxTripDays = 14
)

// ValidateDays clamps a requested trip length into the supported range.
func ValidateDays(days int) int {
	if days < MinTripDays {
		return MinTripDays
	}
	if days > MaxTripDays {
		return MaxTripDays
	}
	return days
}

// FormatDate normalizes a user-supplied date to YYYY-MM-DD. It accepts
// "today", "tomorrow", and dates already in YYYY-MM-DD form.
func FormatDate(input string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "today":
		return now.Format("2006-01-02"), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02"), nil
	}

	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(input))
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD, today, or tomorrow", input)
	}
	return parsed.Format("2006-01-02"), nil
}

// FormatTemperature renders a temperature with its comfort band.
func FormatTemperature(celsius float64) string {
	var band string
	switch {
	case celsius < 20:
		band = "Cool"
	case celsius < 25:
		band = "Pleasant"
	case celsius < 30:
		band = "Warm"
	case celsius < 35:
		band = "Hot"
	default:
		band = "Very Hot"
	}
	return fmt.Sprintf("%.1f°C (%s)", celsius, band)
}
