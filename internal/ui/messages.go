package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/meteo-terminal/internal/models"
)

// Message types for async operations

// forecastFetchedMsg is sent when a forecast request finishes
type forecastFetchedMsg struct {
	location models.Location
	forecast *models.RawForecast
	err      error
}

// geocodeMsg is sent when a city search finishes
type geocodeMsg struct {
	location *models.Location
	err      error
}

// locateMsg is sent when IP geolocation finishes
type locateMsg struct {
	location *models.Location
	err      error
}

// reverseGeocodeMsg carries the city name found for a coordinate
type reverseGeocodeMsg struct {
	latitude  float64
	longitude float64
	city      string
	err       error
}

// locationSavedMsg reports the outcome of persisting the location
type locationSavedMsg struct {
	err error
}

// tickMsg advances the clock
type tickMsg time.Time

// errMsg reports a failure that leaves nothing to display
type errMsg struct {
	err error
}

const (
	requestTimeout = 30 * time.Second
	tickInterval   = time.Minute
)

// fetchForecast retrieves the forecast for loc in the background
func fetchForecast(client ForecastClient, loc models.Location) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		forecast, err := client.GetForecast(ctx, loc.Latitude, loc.Longitude)
		return forecastFetchedMsg{location: loc, forecast: forecast, err: err}
	}
}

// searchCity performs geocoding in the background
func searchCity(geocoder Geocoder, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		location, err := geocoder.Search(ctx, query)
		return geocodeMsg{location: location, err: err}
	}
}

// locate estimates the machine's position in the background
func locate(locator Locator) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		location, err := locator.Locate(ctx)
		return locateMsg{location: location, err: err}
	}
}

// reverseGeocode names the settlement at a coordinate in the background
func reverseGeocode(geocoder Geocoder, lat, lon float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		city, err := geocoder.Reverse(ctx, lat, lon)
		return reverseGeocodeMsg{latitude: lat, longitude: lon, city: city, err: err}
	}
}

// saveLocation persists loc as the last known location
func saveLocation(store LocationStore, loc models.Location) tea.Cmd {
	return func() tea.Msg {
		return locationSavedMsg{err: store.SaveLast(loc)}
	}
}

// invalidLocation reports a start location that cannot be fetched
func invalidLocation(loc models.Location) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: fmt.Errorf("position invalide: %s", loc)}
	}
}

// tick fires once per interval so the dashboard follows the clock
func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
