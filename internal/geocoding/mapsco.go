// Package geocoding resolves city names to coordinates and back.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ngmaloney/meteo-terminal/internal/logging"
	"github.com/ngmaloney/meteo-terminal/internal/metrics"
	"github.com/ngmaloney/meteo-terminal/internal/models"
)

const (
	// DefaultBaseURL is the geocode.maps.co API root
	DefaultBaseURL = "https://geocode.maps.co"

	// UnknownCity is returned by Reverse when the address has no settlement name
	UnknownCity = "Ville inconnue"

	clientName = "geocoding"
	userAgent  = "MeteoTerminal/1.0 (github.com/ngmaloney/meteo-terminal)"
)

// ErrCityNotFound is returned when a lookup yields no place
var ErrCityNotFound = errors.New("city not found")

// Options configures a Geocoder. Zero values select the defaults.
type Options struct {
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *slog.Logger
	Metrics           *metrics.Collector
}

// Geocoder converts city names to coordinates and coordinates to city names
type Geocoder struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *metrics.Collector
}

// NewGeocoder creates a new geocoder
func NewGeocoder(opts Options) *Geocoder {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RequestsPerSecond <= 0 {
		// The free plan allows one request per second
		opts.RequestsPerSecond = 1
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Geocoder{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		logger:     logging.Module(opts.Logger, clientName),
		metrics:    opts.Metrics,
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
	Address     *struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
}

// Search returns the best match for a free-text city query. The location's
// CityName is the full display name of the match.
func (g *Geocoder) Search(ctx context.Context, query string) (*models.Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	params := url.Values{}
	params.Set("q", query)

	var results []searchResult
	if err := g.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrCityNotFound, query)
	}

	result := results[0]
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude: %w", err)
	}

	g.logger.Info("city resolved", "query", query, "latitude", lat, "longitude", lon)
	return &models.Location{Latitude: lat, Longitude: lon, CityName: result.DisplayName}, nil
}

// Reverse returns the settlement name at a coordinate: the city, else the
// town, else the village, else UnknownCity.
func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var result reverseResult
	if err := g.get(ctx, "/reverse", params, &result); err != nil {
		return "", err
	}
	if result.Address == nil {
		return "", fmt.Errorf("%w at %.4f, %.4f", ErrCityNotFound, lat, lon)
	}

	for _, name := range []string{result.Address.City, result.Address.Town, result.Address.Village} {
		if name != "" {
			return name, nil
		}
	}
	return UnknownCity, nil
}

func (g *Geocoder) get(ctx context.Context, path string, params url.Values, out any) error {
	if g.apiKey != "" {
		params.Set("api_key", g.apiKey)
	}
	reqURL := fmt.Sprintf("%s%s?%s", g.baseURL, path, params.Encode())

	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.metrics.ObserveRequest(clientName, 0, time.Since(start))
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	g.metrics.ObserveRequest(clientName, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("geocoding API error", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
