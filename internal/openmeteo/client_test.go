package openmeteo

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ngmaloney/meteo-terminal/internal/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const colmarResponse = `{
  "latitude": 48.08,
  "longitude": 7.36,
  "timezone": "Europe/Paris",
  "utc_offset_seconds": 7200,
  "current": {
    "time": "2025-10-19T14:00",
    "temperature_2m": 14.2,
    "relative_humidity_2m": 71,
    "apparent_temperature": 12.9,
    "is_day": 1,
    "precipitation": 0.0,
    "weather_code": 2,
    "wind_speed_10m": 11.5,
    "wind_direction_10m": 225,
    "visibility": 24140
  },
  "hourly": {
    "time": ["2025-10-19T14:00", "2025-10-19T15:00", "2025-10-19T16:00"],
    "temperature_2m": [14.2, null, 13.1],
    "relative_humidity_2m": [71, 73, 75],
    "apparent_temperature": [12.9, 12.5, 11.8],
    "precipitation": [0, 0.2, 0.4],
    "weather_code": [2, null, 61],
    "visibility": [24140, 22000],
    "wind_speed_10m": [11.5, 12.0, 12.4],
    "wind_direction_10m": [225, 230, 240],
    "is_day": [1, 1, null]
  },
  "daily": {
    "time": ["2025-10-19", "2025-10-20"],
    "weather_code": [2, 80],
    "temperature_2m_max": [15.1, 13.4],
    "temperature_2m_min": [6.2, 3.9],
    "apparent_temperature_max": [13.9, 11.0],
    "apparent_temperature_min": [4.1, 1.2],
    "sunrise": ["2025-10-19T08:02", null],
    "sunset": ["2025-10-19T18:41", "2025-10-20T18:39"],
    "precipitation_sum": [0.0, 6.3],
    "wind_speed_10m_max": [14.8, 22.1],
    "wind_direction_10m_dominant": [220, 250]
  }
}`

func newTestClient(t *testing.T, opts Options) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	opts.HTTPClient = &http.Client{Transport: transport}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 1000
	}
	return NewClient(opts), transport
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Options{})

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultForecastDays, client.forecastDays)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.NotNil(t, client.logger)
}

func TestGetForecast_Success(t *testing.T) {
	client, transport := newTestClient(t, Options{})
	transport.RegisterResponder(http.MethodGet, DefaultBaseURL,
		httpmock.NewStringResponder(http.StatusOK, colmarResponse))

	f, err := client.GetForecast(context.Background(), 48.0833, 7.3667)
	require.NoError(t, err)

	assert.Equal(t, "Europe/Paris", f.Timezone)
	assert.Equal(t, 7200, f.UTCOffsetSeconds)
	assert.InDelta(t, 14.2, f.Current.Temperature, 0.001)
	assert.Equal(t, 2, f.Current.WeatherCode)
	assert.Equal(t, 1, f.Current.IsDay)

	require.Len(t, f.Hourly.Time, 3)
	assert.True(t, math.IsNaN(f.Hourly.Temperature[1]), "null temperature becomes NaN")
	assert.Equal(t, []int{2, -1, 61}, f.Hourly.WeatherCode)
	assert.Equal(t, []int{1, 1, -1}, f.Hourly.IsDay)
	assert.Len(t, f.Hourly.Visibility, 2, "short arrays stay short")

	require.Len(t, f.Daily.Time, 2)
	assert.Equal(t, "2025-10-19T08:02", string(f.Daily.Sunrise[0]))
	assert.Empty(t, f.Daily.Sunrise[1])
	assert.InDelta(t, 6.3, f.Daily.PrecipitationSum[1], 0.001)
}

func TestGetForecast_Query(t *testing.T) {
	client, transport := newTestClient(t, Options{ForecastDays: 7})

	var query map[string]string
	transport.RegisterResponder(http.MethodGet, DefaultBaseURL,
		func(req *http.Request) (*http.Response, error) {
			query = map[string]string{}
			for k, v := range req.URL.Query() {
				query[k] = v[0]
			}
			assert.NotEmpty(t, req.Header.Get("User-Agent"))
			return httpmock.NewStringResponse(http.StatusOK, colmarResponse), nil
		})

	_, err := client.GetForecast(context.Background(), 48.0833, 7.3667)
	require.NoError(t, err)

	assert.Equal(t, "48.0833", query["latitude"])
	assert.Equal(t, "7.3667", query["longitude"])
	assert.Equal(t, "auto", query["timezone"])
	assert.Equal(t, "iso8601", query["timeformat"])
	assert.Equal(t, "kmh", query["wind_speed_unit"])
	assert.Equal(t, "0", query["past_days"])
	assert.Equal(t, "7", query["forecast_days"])
	assert.Contains(t, query["hourly"], "is_day")
	assert.Contains(t, query["daily"], "wind_direction_10m_dominant")
	assert.Contains(t, query["current"], "visibility")
}

func TestGetForecast_CachesByRoundedCoordinate(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	client, transport := newTestClient(t, Options{Metrics: collector})
	transport.RegisterResponder(http.MethodGet, DefaultBaseURL,
		httpmock.NewStringResponder(http.StatusOK, colmarResponse))

	ctx := context.Background()
	_, err := client.GetForecast(ctx, 48.0833, 7.3667)
	require.NoError(t, err)
	_, err = client.GetForecast(ctx, 48.0811, 7.3649)
	require.NoError(t, err)

	assert.Equal(t, 1, transport.GetTotalCallCount())
	assert.InDelta(t, 1, testutil.ToFloat64(collector.CacheHitsTotal.WithLabelValues(clientName)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.CacheMissTotal.WithLabelValues(clientName)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.RequestsTotal.WithLabelValues(clientName, "200")), 0)

	client.Invalidate(48.0833, 7.3667)
	_, err = client.GetForecast(ctx, 48.0833, 7.3667)
	require.NoError(t, err)
	assert.Equal(t, 2, transport.GetTotalCallCount())
}

func TestGetForecast_HTTPError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"bad_request", http.StatusBadRequest},
		{"too_many_requests", http.StatusTooManyRequests},
		{"internal_server_error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, transport := newTestClient(t, Options{})
			transport.RegisterResponder(http.MethodGet, DefaultBaseURL,
				httpmock.NewStringResponder(tt.status, `{"error":true,"reason":"nope"}`))

			f, err := client.GetForecast(context.Background(), 48.08, 7.36)
			require.Error(t, err)
			assert.Nil(t, f)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestGetForecast_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>`},
		{"missing current", `{"hourly":{"time":[]},"daily":{"time":[]}}`},
		{"missing hourly time", `{"current":{"time":"2025-10-19T14:00"},"hourly":{},"daily":{"time":[]}}`},
		{"missing daily", `{"current":{"time":"2025-10-19T14:00"},"hourly":{"time":[]}}`},
		{"hourly field longer than time", `{"current":{"time":"2025-10-19T14:00"},
			"hourly":{"time":["2025-10-19T14:00"],"temperature_2m":[1,2]},"daily":{"time":[]}}`},
		{"daily field longer than time", `{"current":{"time":"2025-10-19T14:00"},
			"hourly":{"time":[]},"daily":{"time":[],"sunset":["2025-10-19T18:41"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, transport := newTestClient(t, Options{})
			transport.RegisterResponder(http.MethodGet, DefaultBaseURL,
				httpmock.NewStringResponder(http.StatusOK, tt.body))

			_, err := client.GetForecast(context.Background(), 48.08, 7.36)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidResponse), "error %v should wrap ErrInvalidResponse", err)
		})
	}
}

func TestGetForecast_EmptySeriesAccepted(t *testing.T) {
	client, transport := newTestClient(t, Options{})
	transport.RegisterResponder(http.MethodGet, DefaultBaseURL,
		httpmock.NewStringResponder(http.StatusOK,
			`{"timezone":"GMT","current":{"time":"2025-10-19T14:00"},"hourly":{"time":[]},"daily":{"time":[]}}`))

	f, err := client.GetForecast(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, f.Hourly.Time)
	assert.True(t, math.IsNaN(f.Current.Temperature))
	assert.Equal(t, -1, f.Current.WeatherCode)
}

func TestGetForecast_TransportError(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	client, transport := newTestClient(t, Options{Metrics: collector})
	transport.RegisterResponder(http.MethodGet, DefaultBaseURL,
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := client.GetForecast(context.Background(), 48.08, 7.36)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.InDelta(t, 1, testutil.ToFloat64(collector.RequestsTotal.WithLabelValues(clientName, "error")), 0)
}

func TestGetForecast_CancelledContext(t *testing.T) {
	client, transport := newTestClient(t, Options{RequestsPerSecond: 0.001})
	transport.RegisterResponder(http.MethodGet, DefaultBaseURL,
		httpmock.NewStringResponder(http.StatusOK, colmarResponse))

	ctx := context.Background()
	_, err := client.GetForecast(ctx, 48.08, 7.36)
	require.NoError(t, err)

	// The limiter bucket is now empty, so a second uncached request must wait.
	ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = client.GetForecast(ctx, 10, 10)
	require.Error(t, err)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}
