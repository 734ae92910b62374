package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ngmaloney/meteo-terminal/internal/config"
	"github.com/ngmaloney/meteo-terminal/internal/geocoding"
	"github.com/ngmaloney/meteo-terminal/internal/locations"
	"github.com/ngmaloney/meteo-terminal/internal/logging"
	"github.com/ngmaloney/meteo-terminal/internal/metrics"
	"github.com/ngmaloney/meteo-terminal/internal/models"
	"github.com/ngmaloney/meteo-terminal/internal/openmeteo"
	"github.com/ngmaloney/meteo-terminal/internal/ui"
)

// app wires the configured collaborators together
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	registry *prometheus.Registry

	forecast *openmeteo.Client
	geocoder *geocoding.Geocoder
	locator  *geocoding.Locator
	store    *locations.Repository
}

func newApp(cfg *config.Config) (*app, error) {
	logger, closeLog, err := logging.New(logging.Config{Path: cfg.Log.Path, Level: cfg.Log.Level})
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		registry: registry,
		forecast: openmeteo.NewClient(openmeteo.Options{
			BaseURL:           cfg.Forecast.BaseURL,
			ForecastDays:      cfg.Forecast.ForecastDays,
			CacheTTL:          cfg.Forecast.CacheTTL,
			RequestsPerSecond: cfg.Forecast.RequestsPerSecond,
			Logger:            logger,
			Metrics:           collector,
		}),
		geocoder: geocoding.NewGeocoder(geocoding.Options{
			BaseURL:           cfg.Geocoding.BaseURL,
			APIKey:            cfg.Geocoding.APIKey,
			RequestsPerSecond: cfg.Geocoding.RequestsPerSecond,
			Logger:            logger,
			Metrics:           collector,
		}),
		locator: geocoding.NewLocator(cfg.IPLocate.URL, logger),
		store:   locations.NewRepository(cfg.Database.Path),
	}

	logger.Info("meteo-terminal starting",
		"database", cfg.Database.Path,
		"forecast_days", cfg.Forecast.ForecastDays,
		"geocoding_key_configured", cfg.Geocoding.APIKey != "")

	return a, nil
}

// Close flushes and closes the log file
func (a *app) Close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

func (a *app) services() ui.Services {
	return ui.Services{
		Forecast: a.forecast,
		Geocoder: a.geocoder,
		Locator:  a.locator,
		Store:    a.store,
		Logger:   a.logger,
	}
}

// serveMetrics starts the Prometheus listener when one is configured
func (a *app) serveMetrics(ctx context.Context) {
	addr := a.cfg.Metrics.Listen
	if addr == "" {
		return
	}
	go func() {
		if err := metrics.Serve(ctx, addr, a.registry); err != nil {
			a.logger.Error("metrics listener stopped", "address", addr, "error", err)
		}
	}()
	a.logger.Info("serving metrics", "address", addr)
}

// startLocation picks what to show first: configured coordinates, then a
// configured city to search, then the last saved location or the default.
func (a *app) startLocation() (models.Location, string, error) {
	loc := a.cfg.Location
	if a.cfg.HasFixedLocation() {
		return models.Location{Latitude: *loc.Latitude, Longitude: *loc.Longitude, CityName: loc.CityName}, "", nil
	}

	last, err := a.store.LoadLastOrDefault()
	if err != nil {
		a.logger.Warn("could not load last location", "error", err)
		last = locations.DefaultLocation
	}
	return last, loc.CityName, nil
}

// resolve turns the start location and query into a named location without
// a UI, searching and reverse geocoding as needed.
func (a *app) resolve(ctx context.Context, start models.Location, query string) (models.Location, error) {
	if query != "" {
		found, err := a.geocoder.Search(ctx, query)
		if err != nil {
			return models.Location{}, err
		}
		start = *found
	}
	if start.CityName == "" {
		city, err := a.geocoder.Reverse(ctx, start.Latitude, start.Longitude)
		switch {
		case errors.Is(err, geocoding.ErrCityNotFound):
			start.CityName = geocoding.UnknownCity
		case err != nil:
			a.logger.Warn("reverse geocoding failed", "error", err)
		default:
			start.CityName = city
		}
	}
	return start, nil
}
