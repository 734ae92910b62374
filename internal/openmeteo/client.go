// Package openmeteo fetches forecasts from the Open-Meteo API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/ngmaloney/meteo-terminal/internal/logging"
	"github.com/ngmaloney/meteo-terminal/internal/metrics"
	"github.com/ngmaloney/meteo-terminal/internal/models"
)

const (
	// DefaultBaseURL is the public forecast endpoint
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultForecastDays is today plus eight upcoming days
	DefaultForecastDays = 9

	clientName = "openmeteo"
	userAgent  = "MeteoTerminal/1.0 (github.com/ngmaloney/meteo-terminal)"
)

var (
	currentFields = []string{
		"temperature_2m", "relative_humidity_2m", "apparent_temperature", "is_day",
		"precipitation", "weather_code", "wind_speed_10m", "wind_direction_10m", "visibility",
	}
	hourlyFields = []string{
		"temperature_2m", "relative_humidity_2m", "apparent_temperature", "precipitation",
		"weather_code", "visibility", "wind_speed_10m", "wind_direction_10m", "is_day",
	}
	dailyFields = []string{
		"weather_code", "temperature_2m_max", "temperature_2m_min",
		"apparent_temperature_max", "apparent_temperature_min", "sunrise", "sunset",
		"precipitation_sum", "wind_speed_10m_max", "wind_direction_10m_dominant",
	}
)

// ForecastClient defines the interface for fetching forecasts
type ForecastClient interface {
	// GetForecast retrieves current, hourly and daily data for a coordinate
	GetForecast(ctx context.Context, lat, lon float64) (*models.RawForecast, error)
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL           string
	ForecastDays      int
	CacheTTL          time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *slog.Logger
	Metrics           *metrics.Collector
}

// Client implements ForecastClient against the Open-Meteo API
type Client struct {
	baseURL      string
	forecastDays int
	httpClient   *http.Client
	limiter      *rate.Limiter
	cache        *cache.Cache
	logger       *slog.Logger
	metrics      *metrics.Collector
}

// NewClient creates a new Open-Meteo client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = DefaultForecastDays
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:      opts.BaseURL,
		forecastDays: opts.ForecastDays,
		httpClient:   opts.HTTPClient,
		limiter:      rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		// No janitor goroutine; expired entries are dropped on read.
		cache:   cache.New(opts.CacheTTL, 0),
		logger:  logging.Module(opts.Logger, clientName),
		metrics: opts.Metrics,
	}
}

// GetForecast retrieves the forecast for a coordinate, serving repeated
// requests for the same rounded coordinate from the cache.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) (*models.RawForecast, error) {
	key := cacheKey(lat, lon)
	if cached, found := c.cache.Get(key); found {
		if f, ok := cached.(models.RawForecast); ok {
			c.metrics.CacheHit(clientName)
			c.logger.Debug("forecast cache hit", "key", key)
			return &f, nil
		}
	}
	c.metrics.CacheMiss(clientName)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.forecastURL(lat, lon), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(clientName, 0, time.Since(start))
		c.logger.Error("forecast request failed", "error", err)
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveRequest(clientName, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("forecast API error", "status", resp.StatusCode)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	forecast, err := payload.toModel()
	if err != nil {
		c.logger.Warn("rejected forecast payload", "error", err)
		return nil, err
	}

	c.cache.Set(key, *forecast, cache.DefaultExpiration)
	c.logger.Info("forecast fetched",
		"latitude", lat,
		"longitude", lon,
		"timezone", forecast.Timezone,
		"hours", len(forecast.Hourly.Time),
		"days", len(forecast.Daily.Time))

	return forecast, nil
}

// Invalidate drops any cached forecast for the coordinate
func (c *Client) Invalidate(lat, lon float64) {
	c.cache.Delete(cacheKey(lat, lon))
}

func (c *Client) forecastURL(lat, lon float64) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("current", strings.Join(currentFields, ","))
	q.Set("hourly", strings.Join(hourlyFields, ","))
	q.Set("daily", strings.Join(dailyFields, ","))
	q.Set("temperature_unit", "celsius")
	q.Set("wind_speed_unit", "kmh")
	q.Set("precipitation_unit", "mm")
	q.Set("timeformat", "iso8601")
	q.Set("timezone", "auto")
	q.Set("past_days", "0")
	q.Set("forecast_days", strconv.Itoa(c.forecastDays))
	return c.baseURL + "?" + q.Encode()
}

// cacheKey rounds to two decimals, roughly one kilometre
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}
