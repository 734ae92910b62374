package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ngmaloney/meteo-terminal/internal/logging"
	"github.com/ngmaloney/meteo-terminal/internal/models"
)

// DefaultLocatorURL is the ip-api.com lookup for the caller's own address
const DefaultLocatorURL = "http://ip-api.com/json/"

// Locator estimates the machine's position from its public IP address
type Locator struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewLocator creates a locator querying url, or DefaultLocatorURL when empty
func NewLocator(url string, logger *slog.Logger) *Locator {
	if url == "" {
		url = DefaultLocatorURL
	}
	return &Locator{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.Module(logger, "locator"),
	}
}

type ipLookup struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
}

// Locate returns the estimated location. CityName is left empty so that it
// is resolved by reverse geocoding like a device position would be.
func (l *Locator) Locate(ctx context.Context) (*models.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var lookup ipLookup
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if lookup.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", lookup.Message)
	}

	loc := &models.Location{Latitude: lookup.Lat, Longitude: lookup.Lon}
	if !loc.Valid() {
		return nil, fmt.Errorf("geolocation returned invalid coordinates %.4f, %.4f", lookup.Lat, lookup.Lon)
	}

	l.logger.Info("position estimated", "latitude", loc.Latitude, "longitude", loc.Longitude, "city", lookup.City)
	return loc, nil
}
