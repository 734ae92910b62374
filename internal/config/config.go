// Package config loads application settings from file, environment and flags
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. METEO_GEOCODING_APIKEY
const EnvPrefix = "METEO"

// Config is the complete application configuration
type Config struct {
	Location  LocationConfig
	Forecast  ForecastConfig
	Geocoding GeocodingConfig
	IPLocate  IPLocateConfig
	Database  DatabaseConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

// LocationConfig pins the starting location. Nil coordinates mean "use the
// last saved location".
type LocationConfig struct {
	Latitude  *float64
	Longitude *float64
	CityName  string // searched on start when set
}

// ForecastConfig configures the Open-Meteo client
type ForecastConfig struct {
	BaseURL           string
	ForecastDays      int
	CacheTTL          time.Duration
	RequestsPerSecond float64
}

// GeocodingConfig configures the geocode.maps.co client
type GeocodingConfig struct {
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
}

// IPLocateConfig configures IP based geolocation
type IPLocateConfig struct {
	URL string
}

// DatabaseConfig locates the SQLite file
type DatabaseConfig struct {
	Path string
}

// LogConfig configures the file logger
type LogConfig struct {
	Path  string
	Level string
}

// MetricsConfig configures the Prometheus listener; empty Listen disables it
type MetricsConfig struct {
	Listen string
}

// New returns a viper instance with defaults, the environment binding and
// the config search path applied. configFile, when set, replaces the search.
func New(configFile string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Keys without a default are only visible to Unmarshal once bound
	for _, key := range []string{"location.latitude", "location.longitude", "location.cityname"} {
		_ = v.BindEnv(key)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		return v
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range DefaultConfigPaths() {
		v.AddConfigPath(path)
	}
	return v
}

// DefaultConfigPaths lists the directories searched for config.yaml
func DefaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "meteo-terminal"))
	}
	return paths
}

// Load reads the config file, if any, and decodes v into a validated Config
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing file is only fine when it was searched for, not named
		if !errors.As(err, &notFound) || v.ConfigFileUsed() != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	var errs []error

	lat, lon := c.Location.Latitude, c.Location.Longitude
	switch {
	case (lat == nil) != (lon == nil):
		errs = append(errs, errors.New("location.latitude and location.longitude must be set together"))
	case lat != nil:
		if *lat < -90 || *lat > 90 {
			errs = append(errs, fmt.Errorf("location.latitude %v out of range [-90, 90]", *lat))
		}
		if *lon < -180 || *lon > 180 {
			errs = append(errs, fmt.Errorf("location.longitude %v out of range [-180, 180]", *lon))
		}
	}

	if c.Forecast.ForecastDays < 1 || c.Forecast.ForecastDays > 16 {
		errs = append(errs, fmt.Errorf("forecast.forecastdays %d out of range [1, 16]", c.Forecast.ForecastDays))
	}
	if c.Forecast.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("forecast.cachettl must not be negative"))
	}
	if c.Forecast.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("forecast.requestspersecond must be positive"))
	}
	if c.Geocoding.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("geocoding.requestspersecond must be positive"))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}

	return errors.Join(errs...)
}

// HasFixedLocation reports whether coordinates were configured
func (c *Config) HasFixedLocation() bool {
	return c.Location.Latitude != nil && c.Location.Longitude != nil
}
