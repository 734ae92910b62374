package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/meteo-terminal/internal/models"
)

// 2025-10-19 14:05 in Paris
var testNow = time.Date(2025, 10, 19, 12, 5, 0, 0, time.UTC)

var colmar = models.Location{Latitude: 48.0833, Longitude: 7.3667, CityName: "Colmar, Haut-Rhin, France"}

type fakeForecast struct {
	forecast    *models.RawForecast
	err         error
	invalidated int
}

func (f *fakeForecast) GetForecast(ctx context.Context, lat, lon float64) (*models.RawForecast, error) {
	return f.forecast, f.err
}

func (f *fakeForecast) Invalidate(lat, lon float64) {
	f.invalidated++
}

type fakeGeocoder struct {
	location *models.Location
	city     string
	err      error
	queries  []string
}

func (g *fakeGeocoder) Search(ctx context.Context, query string) (*models.Location, error) {
	g.queries = append(g.queries, query)
	return g.location, g.err
}

func (g *fakeGeocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	return g.city, g.err
}

type fakeLocator struct {
	location *models.Location
	err      error
}

func (l *fakeLocator) Locate(ctx context.Context) (*models.Location, error) {
	return l.location, l.err
}

type fakeStore struct {
	saved []models.Location
	err   error
}

func (s *fakeStore) SaveLast(loc models.Location) error {
	s.saved = append(s.saved, loc)
	return s.err
}

type testServices struct {
	forecast *fakeForecast
	geocoder *fakeGeocoder
	locator  *fakeLocator
	store    *fakeStore
	now      time.Time
}

func newTestServices() *testServices {
	return &testServices{
		forecast: &fakeForecast{forecast: testForecast()},
		geocoder: &fakeGeocoder{},
		locator:  &fakeLocator{},
		store:    &fakeStore{},
		now:      testNow,
	}
}

func (ts *testServices) services() Services {
	return Services{
		Forecast: ts.forecast,
		Geocoder: ts.geocoder,
		Locator:  ts.locator,
		Store:    ts.store,
		Now:      func() time.Time { return ts.now },
	}
}

func testForecast() *models.RawForecast {
	raw := &models.RawForecast{
		Latitude:  colmar.Latitude,
		Longitude: colmar.Longitude,
		Timezone:  "Europe/Paris",
		Current: models.CurrentConditions{
			Time:          "2025-10-19T14:00",
			Temperature:   14.2,
			Humidity:      71,
			WindSpeed:     11.5,
			WindDirection: 225,
			Visibility:    24140,
			WeatherCode:   2,
			IsDay:         1,
		},
	}
	for h := 0; h < 48; h++ {
		raw.Hourly.Time = append(raw.Hourly.Time, models.Timestamp(fmt.Sprintf("2025-10-%02dT%02d:00", 19+h/24, h%24)))
		raw.Hourly.Temperature = append(raw.Hourly.Temperature, 10+float64(h%12))
		raw.Hourly.WeatherCode = append(raw.Hourly.WeatherCode, 3)
		raw.Hourly.IsDay = append(raw.Hourly.IsDay, 1)
	}
	for d := 19; d <= 27; d++ {
		raw.Daily.Time = append(raw.Daily.Time, models.Timestamp(fmt.Sprintf("2025-10-%02d", d)))
		raw.Daily.WeatherCode = append(raw.Daily.WeatherCode, 61)
		raw.Daily.TemperatureMin = append(raw.Daily.TemperatureMin, 4)
		raw.Daily.TemperatureMax = append(raw.Daily.TemperatureMax, 15)
		raw.Daily.Sunrise = append(raw.Daily.Sunrise, models.Timestamp(fmt.Sprintf("2025-10-%02dT08:05", d)))
		raw.Daily.Sunset = append(raw.Daily.Sunset, models.Timestamp(fmt.Sprintf("2025-10-%02dT18:40", d)))
	}
	return raw
}

// update feeds msg to m and returns the updated model
func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// typeText sends each rune of s as a key press
func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// collect runs cmd and flattens batches into the messages they produce.
// Only call it on commands that do not contain the minute tick.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, collect(c)...)
	}
	return msgs
}

// displayed returns a model already showing the Colmar forecast
func displayed(ts *testServices) Model {
	m := NewModel(ts.services(), colmar, "")
	m, _ = update(m, forecastFetchedMsg{location: colmar, forecast: ts.forecast.forecast})
	return m
}
