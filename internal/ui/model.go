package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/meteo-terminal/internal/dashboard"
	"github.com/ngmaloney/meteo-terminal/internal/geocoding"
	"github.com/ngmaloney/meteo-terminal/internal/logging"
	"github.com/ngmaloney/meteo-terminal/internal/models"
)

// AppState represents the current state of the application
type AppState int

const (
	StateLoading AppState = iota // Fetching a forecast
	StateDisplay                 // Showing the dashboard
	StateSearch                  // Typing a city name
	StateError                   // Nothing to show but an error
)

// ForecastClient fetches forecasts
type ForecastClient interface {
	GetForecast(ctx context.Context, lat, lon float64) (*models.RawForecast, error)
}

// cacheInvalidator is implemented by forecast clients that cache responses
type cacheInvalidator interface {
	Invalidate(lat, lon float64)
}

// Geocoder resolves city names
type Geocoder interface {
	Search(ctx context.Context, query string) (*models.Location, error)
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// Locator estimates the machine's position
type Locator interface {
	Locate(ctx context.Context) (*models.Location, error)
}

// LocationStore persists the last known location
type LocationStore interface {
	SaveLast(loc models.Location) error
}

// Services are the collaborators the model calls out to
type Services struct {
	Forecast ForecastClient
	Geocoder Geocoder
	Locator  Locator
	Store    LocationStore
	Logger   *slog.Logger
	Now      func() time.Time // defaults to time.Now
}

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	svc    Services
	logger *slog.Logger

	// Search
	searchInput textinput.Model
	searchQuery string // Query to run on start, then the last search

	// Data
	location  models.Location
	forecast  *models.RawForecast
	dash      *dashboard.Dashboard
	fetchedAt time.Time
	status    string // Non-fatal problem shown under the dashboard

	spinner spinner.Model
}

// NewModel creates a model showing start. A non-empty query is searched on
// start instead.
func NewModel(svc Services, start models.Location, query string) Model {
	ti := textinput.New()
	ti.Placeholder = "Ville (ex. Colmar, Lyon, London)..."
	ti.CharLimit = 100
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	if svc.Now == nil {
		svc.Now = time.Now
	}

	return Model{
		state:       StateLoading,
		svc:         svc,
		logger:      logging.Module(svc.Logger, "ui"),
		searchInput: ti,
		searchQuery: query,
		location:    start,
		spinner:     s,
	}
}

// Init starts the first fetch and the clock. A start location outside the
// valid coordinate range is reported instead of fetched.
func (m Model) Init() tea.Cmd {
	var first tea.Cmd
	switch {
	case m.searchQuery != "":
		first = searchCity(m.svc.Geocoder, m.searchQuery)
	case !m.location.Valid():
		first = invalidLocation(m.location)
	default:
		first = fetchForecast(m.svc.Forecast, m.location)
	}
	return tea.Batch(m.spinner.Tick, first, tick())
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	case geocodeMsg:
		if msg.err != nil {
			return m.fail(fmt.Errorf("recherche impossible: %w", msg.err))
		}
		m.state = StateLoading
		return m, tea.Batch(m.spinner.Tick, fetchForecast(m.svc.Forecast, *msg.location))

	case locateMsg:
		if msg.err != nil {
			return m.fail(fmt.Errorf("géolocalisation impossible: %w", msg.err))
		}
		m.state = StateLoading
		return m, tea.Batch(m.spinner.Tick, fetchForecast(m.svc.Forecast, *msg.location))

	case forecastFetchedMsg:
		if msg.err != nil {
			return m.fail(fmt.Errorf("prévisions indisponibles: %w", msg.err))
		}
		m.location = msg.location
		m.forecast = msg.forecast
		m.fetchedAt = m.svc.Now()
		m.status = ""
		m.err = nil
		m.state = StateDisplay
		m.rebuild()

		cmds := []tea.Cmd{saveLocation(m.svc.Store, m.location)}
		if m.location.CityName == "" {
			cmds = append(cmds, reverseGeocode(m.svc.Geocoder, m.location.Latitude, m.location.Longitude))
		}
		return m, tea.Batch(cmds...)

	case reverseGeocodeMsg:
		if msg.latitude != m.location.Latitude || msg.longitude != m.location.Longitude {
			return m, nil // the location changed meanwhile
		}
		if msg.err != nil {
			m.logger.Warn("reverse geocoding failed", "error", msg.err)
			if !errors.Is(msg.err, geocoding.ErrCityNotFound) {
				return m, nil
			}
			msg.city = geocoding.UnknownCity
		}
		m.location.CityName = msg.city
		m.rebuild()
		return m, saveLocation(m.svc.Store, m.location)

	case locationSavedMsg:
		if msg.err != nil {
			m.logger.Error("saving location failed", "error", msg.err)
		}
		return m, nil

	case tickMsg:
		m.rebuild()
		return m, tick()

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks and other component messages
	if m.state == StateSearch {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// fail shows err. With a dashboard on screen the error is a status line and
// the dashboard stays.
func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.logger.Error("request failed", "error", err)
	if m.dash != nil {
		m.status = err.Error()
		m.state = StateDisplay
		return m, nil
	}
	m.err = err
	m.state = StateError
	return m, nil
}

// rebuild derives the dashboard from the held forecast at the current time
func (m *Model) rebuild() {
	if m.forecast == nil {
		return
	}
	d := dashboard.Build(*m.forecast, m.location, m.svc.Now())
	m.dash = &d
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.state {
	case StateSearch:
		return m.handleSearchInput(msg)

	case StateDisplay:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "/":
			return m.openSearch()
		case "g":
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, locate(m.svc.Locator))
		case "r":
			if inv, ok := m.svc.Forecast.(cacheInvalidator); ok {
				inv.Invalidate(m.location.Latitude, m.location.Longitude)
			}
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, fetchForecast(m.svc.Forecast, m.location))
		}
		return m, nil

	case StateError:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		// Any other key returns to search
		m.err = nil
		return m.openSearch()

	case StateLoading:
		if msg.String() == "q" {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) openSearch() (tea.Model, tea.Cmd) {
	m.state = StateSearch
	m.searchInput.SetValue("")
	m.searchInput.Focus()
	return m, textinput.Blink
}

// handleSearchInput handles keyboard input in search state
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		query := m.searchInput.Value()
		if query == "" {
			return m, nil
		}
		m.searchQuery = query
		m.searchInput.Blur()
		m.state = StateLoading
		return m, tea.Batch(m.spinner.Tick, searchCity(m.svc.Geocoder, query))

	case tea.KeyEsc:
		m.searchInput.Blur()
		if m.dash != nil {
			m.state = StateDisplay
		} else {
			m.state = StateError
			if m.err == nil {
				m.err = errors.New("aucune prévision chargée")
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	switch m.state {
	case StateLoading:
		return m.viewLoading()
	case StateSearch:
		return m.viewSearch()
	case StateDisplay:
		return m.viewDisplay()
	case StateError:
		return m.viewError()
	}
	return ""
}

// viewLoading renders the loading view
func (m Model) viewLoading() string {
	target := m.location.String()
	if m.searchQuery != "" && m.forecast == nil {
		target = m.searchQuery
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		fmt.Sprintf("%s Chargement de la météo pour %s...", m.spinner.View(), target),
		helpStyle.Render("Q: Quitter"),
	)
}

// viewSearch renders the search view
func (m Model) viewSearch() string {
	title := titleStyle.Render("☀ Météo Terminal")
	subtitle := mutedStyle.Render("Rechercher une ville")

	searchBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(64).
		Render(m.searchInput.View())

	help := helpStyle.Render("Entrée: Rechercher • Échap: Annuler • Ctrl+C: Quitter")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", searchBox, help)
}

// viewError renders the error view
func (m Model) viewError() string {
	title := errorStyle.Render("✗ Erreur")

	errorMsg := "Une erreur inconnue est survenue"
	if m.err != nil {
		errorMsg = m.err.Error()
	}

	help := helpStyle.Render("Appuyez sur une touche pour rechercher • Q: Quitter")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", errorMsg, "", help)
}

// viewDisplay renders the dashboard
func (m Model) viewDisplay() string {
	if m.dash == nil {
		return "Aucune prévision"
	}

	body := RenderDashboard(*m.dash, m.width)

	var sections []string
	sections = append(sections, body)
	if m.status != "" {
		sections = append(sections, errorStyle.Render("✗ "+m.status))
	}
	sections = append(sections,
		mutedStyle.Render(updatedLabel(m.fetchedAt, m.svc.Now())),
		helpStyle.Render("/: Rechercher • G: Me localiser • R: Actualiser • Q: Quitter"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
