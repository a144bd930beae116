package travel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDestination() Destination {
	return Destination{
		Name:      "Cox's Bazar, Bangladesh",
		Latitude:  21.4272,
		Longitude: 92.0058,
		Timezone:  "Asia/Dhaka",
	}
}

const currentBody = `{
	"current": {
		"time": "2026-08-25T14:00",
		"temperature_2m": 31.4,
		"relative_humidity_2m": 78,
		"apparent_temperature": 36.2,
		"weather_code": 2,
		"wind_speed_10m": 14.3
	}
}`

const forecastBody = `{
	"daily": {
		"time": ["2026-08-25", "2026-08-26", "2026-08-27"],
		"temperature_2m_max": [31.4, 30.2, 29.8],
		"temperature_2m_min": [26.1, 25.8, 25.5],
		"precipitation_probability_max": [20, 65, 80],
		"wind_speed_10m_max": [18.4, 22.0, 31.7],
		"sunrise": ["2026-08-25T05:42", "2026-08-26T05:42", "2026-08-27T05:43"],
		"sunset": ["2026-08-25T18:27", "2026-08-26T18:26", "2026-08-27T18:25"],
		"weather_code": [2, 80, 95]
	}
}`

func TestCurrentWeather(t *testing.T) {
	var calls atomic.Int64
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		assert.Equal(t, "21.4272", q.Get("latitude"))
		assert.Equal(t, "92.0058", q.Get("longitude"))
		assert.Equal(t, "Asia/Dhaka", q.Get("timezone"))
		assert.Contains(t, q.Get("current"), "temperature_2m")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(currentBody))
	}))
	defer api.Close()

	client := NewWeatherClient(testDestination(), WithWeatherBaseURL(api.URL))

	current, err := client.CurrentWeather(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 31.4, current.Temperature, 0.01)
	assert.InDelta(t, 36.2, current.ApparentTemperature, 0.01)
	assert.Equal(t, 78, current.Humidity)
	assert.Equal(t, "Partly cloudy", current.Description)

	// A second call within the cache TTL must not hit the API again.
	_, err = client.CurrentWeather(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())
}

func TestForecast(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("forecast_days"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(forecastBody))
	}))
	defer api.Close()

	client := NewWeatherClient(testDestination(), WithWeatherBaseURL(api.URL))

	forecast, err := client.Forecast(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, forecast, 3)

	assert.Equal(t, "2026-08-25", forecast[0].Date)
	assert.InDelta(t, 26.1, forecast[0].MinTemp, 0.01)
	assert.InDelta(t, 31.4, forecast[0].MaxTemp, 0.01)
	assert.Equal(t, 65, forecast[1].Precipitation)
	assert.InDelta(t, 22.0, forecast[1].WindSpeedMax, 0.01)
	assert.Equal(t, "2026-08-25T05:42", forecast[0].Sunrise)
	assert.Equal(t, "2026-08-27T18:25", forecast[2].Sunset)
	assert.Equal(t, "Thunderstorm", forecast[2].Description)
}

func TestForecastClampsDays(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "14", r.URL.Query().Get("forecast_days"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(forecastBody))
	}))
	defer api.Close()

	client := NewWeatherClient(testDestination(), WithWeatherBaseURL(api.URL))

	_, err := client.Forecast(context.Background(), 90)
	require.NoError(t, err)
}

func TestWeatherServiceError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer api.Close()

	client := NewWeatherClient(testDestination(), WithWeatherBaseURL(api.URL))

	_, err := client.CurrentWeather(context.Background())
	assert.ErrorContains(t, err, "status 502")
}

func TestWeatherErrorNotCached(t *testing.T) {
	var calls atomic.Int64
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(currentBody))
	}))
	defer api.Close()

	client := NewWeatherClient(testDestination(), WithWeatherBaseURL(api.URL))

	_, err := client.CurrentWeather(context.Background())
	require.Error(t, err)

	current, err := client.CurrentWeather(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 31.4, current.Temperature, 0.01)
}

func TestTemperatureSummary(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(forecastBody))
	}))
	defer api.Close()

	client := NewWeatherClient(testDestination(), WithWeatherBaseURL(api.URL))

	summary, err := client.TemperatureSummary(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "Cox's Bazar, Bangladesh", summary.Location)
	assert.Equal(t, "Next 3 days", summary.Period)
	assert.InDelta(t, 30.5, summary.AverageMax, 0.001)
	assert.InDelta(t, 25.8, summary.AverageMin, 0.001)

	require.Len(t, summary.Days, 3)
	assert.Equal(t, "2026-08-25", summary.Days[0].Date)
	assert.Equal(t, 1, summary.Days[0].Day)
	assert.InDelta(t, 31.4, summary.Days[0].MaxTemp, 0.001)
	assert.InDelta(t, 25.5, summary.Days[2].MinTemp, 0.001)
}

func TestTemperatureSummaryServiceError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer api.Close()

	client := NewWeatherClient(testDestination(), WithWeatherBaseURL(api.URL))

	_, err := client.TemperatureSummary(context.Background(), 3)
	assert.Error(t, err)
}

func TestWeatherFetchSurvivesCallerCancel(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(currentBody))
	}))
	defer api.Close()

	client := NewWeatherClient(testDestination(), WithWeatherBaseURL(api.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	current, err := client.CurrentWeather(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 31.4, current.Temperature, 0.01)
}

func TestDescribeWeatherCode(t *testing.T) {
	assert.Equal(t, "Clear sky", DescribeWeatherCode(0))
	assert.Equal(t, "Heavy rain", DescribeWeatherCode(65))
	assert.Contains(t, DescribeWeatherCode(42), "code 42")
}
