package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"wayfarer/pkg/logging"
)

const (
	// openMeteoBaseURL is the public forecast API. No key required.
	openMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

	// weatherCacheTTL bounds how stale a served observation may be.
	// Open-Meteo updates hourly, so a short cache only absorbs bursts.
	weatherCacheTTL = 5 * time.Minute

	weatherTimeout = 10 * time.Second
)

// Destination is the place all weather and itinerary operations target.
type Destination struct {
	Name      string
	Latitude  float64
	Longitude float64
	Timezone  string
}

// Current is a single weather observation.
type Current struct {
	Time                string  `json:"time"`
	Temperature         float64 `json:"temperature_c"`
	ApparentTemperature float64 `json:"feels_like_c"`
	Humidity            int     `json:"humidity_percent"`
	WindSpeed           float64 `json:"wind_speed_kmh"`
	Code                int     `json:"weather_code"`
	Description         string  `json:"description"`
}

// DailyForecast is one day of the forecast window.
type DailyForecast struct {
	Date          string  `json:"date"`
	MinTemp       float64 `json:"min_temp_c"`
	MaxTemp       float64 `json:"max_temp_c"`
	Precipitation int     `json:"precipitation_chance_percent"`
	WindSpeedMax  float64 `json:"wind_speed_max_kmh,omitempty"`
	Sunrise       string  `json:"sunrise,omitempty"`
	Sunset        string  `json:"sunset,omitempty"`
	Code          int     `json:"weather_code"`
	Description   string  `json:"description"`
}

// WeatherClient fetches observations and forecasts for one destination
// from Open-Meteo. Concurrent requests for the same data collapse into a
// single upstream call, and responses are cached briefly.
type WeatherClient struct {
	destination Destination
	baseURL     string
	httpClient  *http.Client

	group singleflight.Group

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	value  any
	expiry time.Time
}

// WeatherOption customizes a WeatherClient, primarily for tests.
type WeatherOption func(*WeatherClient)

// WithWeatherBaseURL points the client at an alternate API endpoint.
func WithWeatherBaseURL(baseURL string) WeatherOption {
	return func(c *WeatherClient) {
		c.baseURL = baseURL
	}
}

// WithWeatherHTTPClient overrides the HTTP client.
func WithWeatherHTTPClient(client *http.Client) WeatherOption {
	return func(c *WeatherClient) {
		c.httpClient = client
	}
}

// NewWeatherClient creates a client for the given destination.
func NewWeatherClient(dest Destination, opts ...WeatherOption) *WeatherClient {
	c := &WeatherClient{
		destination: dest,
		baseURL:     openMeteoBaseURL,
		httpClient: &http.Client{
			Timeout: weatherTimeout,
		},
		cache: make(map[string]cacheEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Destination returns the destination this client reports on.
func (c *WeatherClient) Destination() Destination {
	return c.destination
}

// CurrentWeather returns the latest observation for the destination.
func (c *WeatherClient) CurrentWeather(ctx context.Context) (*Current, error) {
	v, err := c.cached(ctx, "current", func(ctx context.Context) (any, error) {
		return c.fetchCurrent(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Current), nil
}

// Forecast returns the daily forecast for the next days days. The value
// is clamped to the supported 1..14 window.
func (c *WeatherClient) Forecast(ctx context.Context, days int) ([]DailyForecast, error) {
	days = ValidateDays(days)

	v, err := c.cached(ctx, "forecast:"+strconv.Itoa(days), func(ctx context.Context) (any, error) {
		return c.fetchForecast(ctx, days)
	})
	if err != nil {
		return nil, err
	}
	return v.([]DailyForecast), nil
}

// cached serves key from the short-lived cache, collapsing concurrent
// misses for the same key into one fetch.
func (c *WeatherClient) cached(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if entry, ok := c.cache[key]; ok && time.Now().Before(entry.expiry) {
		c.mu.Unlock()
		return entry.value, nil
	}
	c.mu.Unlock()

	// The fetch is shared between every caller waiting on this key, so
	// it must not die with the first caller's context. The HTTP client
	// timeout still bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key, func() (any, error) {
		value, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[key] = cacheEntry{value: value, expiry: time.Now().Add(weatherCacheTTL)}
		c.mu.Unlock()

		return value, nil
	})
	return v, err
}

type currentResponse struct {
	Current struct {
		Time                string  `json:"time"`
		Temperature         float64 `json:"temperature_2m"`
		Humidity            int     `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed           float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

func (c *WeatherClient) fetchCurrent(ctx context.Context) (*Current, error) {
	params := c.baseParams()
	params.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m")

	var resp currentResponse
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return nil, err
	}

	logging.Debug("WeatherClient", "Fetched current weather for %s: %.1f°C code %d",
		c.destination.Name, resp.Current.Temperature, resp.Current.WeatherCode)

	return &Current{
		Time:                resp.Current.Time,
		Temperature:         resp.Current.Temperature,
		ApparentTemperature: resp.Current.ApparentTemperature,
		Humidity:            resp.Current.Humidity,
		WindSpeed:           resp.Current.WindSpeed,
		Code:                resp.Current.WeatherCode,
		Description:         DescribeWeatherCode(resp.Current.WeatherCode),
	}, nil
}

type forecastResponse struct {
	Daily struct {
		Time                     []string  `json:"time"`
		TemperatureMax           []float64 `json:"temperature_2m_max"`
		TemperatureMin           []float64 `json:"temperature_2m_min"`
		PrecipitationProbability []int     `json:"precipitation_probability_max"`
		WindSpeedMax             []float64 `json:"wind_speed_10m_max"`
		Sunrise                  []string  `json:"sunrise"`
		Sunset                   []string  `json:"sunset"`
		WeatherCode              []int     `json:"weather_code"`
	} `json:"daily"`
}

func (c *WeatherClient) fetchForecast(ctx context.Context, days int) ([]DailyForecast, error) {
	params := c.baseParams()
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_probability_max,wind_speed_10m_max,sunrise,sunset,weather_code")
	params.Set("forecast_days", strconv.Itoa(days))

	var resp forecastResponse
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return nil, err
	}

	forecast := make([]DailyForecast, 0, len(resp.Daily.Time))
	for i, date := range resp.Daily.Time {
		day := DailyForecast{Date: date}
		if i < len(resp.Daily.TemperatureMin) {
			day.MinTemp = resp.Daily.TemperatureMin[i]
		}
		if i < len(resp.Daily.TemperatureMax) {
			day.MaxTemp = resp.Daily.TemperatureMax[i]
		}
		if i < len(resp.Daily.PrecipitationProbability) {
			day.Precipitation = resp.Daily.PrecipitationProbability[i]
		}
		if i < len(resp.Daily.WindSpeedMax) {
			day.WindSpeedMax = resp.Daily.WindSpeedMax[i]
		}
		if i < len(resp.Daily.Sunrise) {
			day.Sunrise = resp.Daily.Sunrise[i]
		}
		if i < len(resp.Daily.Sunset) {
			day.Sunset = resp.Daily.Sunset[i]
		}
		if i < len(resp.Daily.WeatherCode) {
			day.Code = resp.Daily.WeatherCode[i]
			day.Description = DescribeWeatherCode(day.Code)
		}
		forecast = append(forecast, day)
	}

	logging.Debug("WeatherClient", "Fetched %d-day forecast for %s", len(forecast), c.destination.Name)

	return forecast, nil
}

func (c *WeatherClient) baseParams() url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(c.destination.Latitude, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(c.destination.Longitude, 'f', 4, 64))
	params.Set("timezone", c.destination.Timezone)
	return params
}

func (c *WeatherClient) getJSON(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather service unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather service returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed weather response: %w", err)
	}
	return nil
}

// TemperatureDay is one day within a TemperatureSummary.
type TemperatureDay struct {
	Date    string  `json:"date"`
	Day     int     `json:"day"`
	MaxTemp float64 `json:"max_temp_c"`
	MinTemp float64 `json:"min_temp_c"`
}

// TemperatureSummary condenses the next few days of forecast into
// per-day highs/lows and their averages.
type TemperatureSummary struct {
	Location   string           `json:"location"`
	Period     string           `json:"period"`
	AverageMax float64          `json:"average_max_c"`
	AverageMin float64          `json:"average_min_c"`
	Days       []TemperatureDay `json:"daily_temperatures"`
}

// TemperatureSummary builds a quick temperature overview for the next
// days days.
func (c *WeatherClient) TemperatureSummary(ctx context.Context, days int) (*TemperatureSummary, error) {
	days = ValidateDays(days)

	forecast, err := c.Forecast(ctx, days)
	if err != nil {
		return nil, err
	}

	summary := &TemperatureSummary{
		Location: c.destination.Name,
		Period:   fmt.Sprintf("Next %d days", days),
		Days:     make([]TemperatureDay, 0, len(forecast)),
	}

	var sumMax, sumMin float64
	for i, day := range forecast {
		summary.Days = append(summary.Days, TemperatureDay{
			Date:    day.Date,
			Day:     i + 1,
			MaxTemp: roundTenth(day.MaxTemp),
			MinTemp: roundTenth(day.MinTemp),
		})
		sumMax += day.MaxTemp
		sumMin += day.MinTemp
	}

	if n := len(forecast); n > 0 {
		summary.AverageMax = roundTenth(sumMax / float64(n))
		summary.AverageMin = roundTenth(sumMin / float64(n))
	}

	return summary, nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// weatherCodeDescriptions maps WMO weather interpretation codes to
// human-readable text.
var weatherCodeDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// DescribeWeatherCode translates a WMO weather code into text.
func DescribeWeatherCode(code int) string {
	if desc, ok := weatherCodeDescriptions[code]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown conditions (code %d)", code)
}
