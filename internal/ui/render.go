package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"

	"github.com/ngmaloney/meteo-terminal/internal/dashboard"
	"github.com/ngmaloney/meteo-terminal/internal/models"
	"github.com/ngmaloney/meteo-terminal/internal/timefmt"
)

// captions are the fixed words of the dashboard in one language
type captions struct {
	feelsLike     string
	humidity      string
	wind          string
	visibility    string
	precipitation string
	nextHours     string
	nextDays      string
	trend         string
	noData        string
}

var frenchCaptions = captions{
	feelsLike:     "Ressenti",
	humidity:      "Humidité",
	wind:          "Vent",
	visibility:    "Visibilité",
	precipitation: "Précipitations",
	nextHours:     "PROCHAINES HEURES",
	nextDays:      "PROCHAINS JOURS",
	trend:         "TEMPÉRATURE 24 H",
	noData:        "Aucune donnée",
}

var englishCaptions = captions{
	feelsLike:     "Feels like",
	humidity:      "Humidity",
	wind:          "Wind",
	visibility:    "Visibility",
	precipitation: "Precipitation",
	nextHours:     "NEXT HOURS",
	nextDays:      "NEXT DAYS",
	trend:         "24 H TEMPERATURE",
	noData:        "No data",
}

var frenchBase, _ = language.French.Base()

func captionsFor(tag language.Tag) captions {
	if base, _ := tag.Base(); base == frenchBase {
		return frenchCaptions
	}
	return englishCaptions
}

// RenderDashboard draws d. width is the terminal width, 0 when unknown.
func RenderDashboard(d dashboard.Dashboard, width int) string {
	c := captionsFor(d.Locale)

	sections := []string{
		renderHeader(d),
		renderCurrent(d, c),
		sectionHeaderStyle.Render(c.nextHours),
		renderHours(d, c),
	}
	if len(d.Temperatures) > 1 {
		sections = append(sections, sectionHeaderStyle.Render(c.trend), renderTrend(d.Temperatures, width))
	}
	sections = append(sections, sectionHeaderStyle.Render(c.nextDays), renderDays(d, c))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderHeader(d dashboard.Dashboard) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("📍 "+d.City),
		"   ",
		valueStyle.Render(d.Header.Date),
		"  ",
		clockStyle.Render(d.Header.Time),
	)
}

func renderCurrent(d dashboard.Dashboard, c captions) string {
	cur := d.Current
	glyph := glyphStyle(cur.Category.Color).Render(cur.Category.Glyph)
	temp := bigTempStyle.Render(temperature(d.Locale, cur.Temperature))

	headline := lipgloss.JoinHorizontal(lipgloss.Center, glyph, "  ", temp, valueStyle.Render(cur.Category.Text))

	details := []string{
		fmt.Sprintf("%s %s", labelStyle.Render(c.feelsLike), temperature(d.Locale, cur.ApparentTemperature)),
		fmt.Sprintf("%s %s", labelStyle.Render(c.humidity), percent(cur.Humidity)),
		fmt.Sprintf("%s %s %s", labelStyle.Render(c.wind), windLabel(cur.Wind), speed(d.Locale, cur.WindSpeed)),
		fmt.Sprintf("%s %s", labelStyle.Render(c.visibility), distance(cur.Visibility)),
		fmt.Sprintf("%s %s", labelStyle.Render(c.precipitation), millimetres(d.Locale, cur.Precipitation)),
	}

	return sectionBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, headline, "", strings.Join(details, "  ·  ")))
}

func renderHours(d dashboard.Dashboard, c captions) string {
	if len(d.Hours) == 0 {
		return mutedStyle.Render(c.noData)
	}

	columns := make([]string, 0, len(d.Hours))
	for _, h := range d.Hours {
		wind := "-"
		if h.Wind != nil {
			wind = h.Wind.Arrow
			if h.Forecast.Wind != nil {
				wind += " " + timefmt.Number(d.Locale, "%.0f", *h.Forecast.Wind)
			}
		}
		column := lipgloss.JoinVertical(lipgloss.Center,
			labelStyle.Render(h.Label),
			glyphStyle(h.Category.Color).Render(h.Category.Glyph),
			valueStyle.Render(optionalTemperature(d.Locale, h.Forecast.Temperature)),
			mutedStyle.Render(wind),
		)
		columns = append(columns, hourColumnStyle.Render(column))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderTrend(temps []float64, width int) string {
	w := len(temps) * 2
	if width > 0 && w > width-4 {
		w = width - 4
	}
	if w < len(temps) {
		w = len(temps)
	}

	// Sparkline bars start at zero, so shift the series above it
	low := math.Inf(1)
	for _, t := range temps {
		low = math.Min(low, t)
	}
	shifted := make([]float64, len(temps))
	for i, t := range temps {
		shifted[i] = t - low + 1
	}

	sl := sparkline.New(w, 3, sparkline.WithStyle(maxTempStyle))
	sl.PushAll(shifted)
	sl.Draw()
	return sl.View()
}

func renderDays(d dashboard.Dashboard, c captions) string {
	if len(d.Days) == 0 {
		return mutedStyle.Render(c.noData)
	}

	rows := make([]string, 0, len(d.Days))
	for _, day := range d.Days {
		wind := ""
		if day.Wind != nil {
			wind = day.Wind.Arrow + " " + day.Wind.Label
			if day.Forecast.Wind != nil {
				wind += " " + speed(d.Locale, *day.Forecast.Wind)
			}
		}
		row := fmt.Sprintf("%-14s %s %-18s %s / %s  %-24s ☼ %s  ☾ %s",
			day.Label,
			glyphStyle(day.Category.Color).Render(day.Category.Glyph),
			day.Category.Text,
			minTempStyle.Render(optionalTemperature(d.Locale, day.Forecast.TempMin)),
			maxTempStyle.Render(optionalTemperature(d.Locale, day.Forecast.TempMax)),
			wind,
			orDash(day.Sunrise),
			orDash(day.Sunset),
		)
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

// updatedLabel says how long ago the data was fetched, in French
func updatedLabel(fetched, now time.Time) string {
	if fetched.IsZero() {
		return ""
	}
	return "Mis à jour " + humanize.CustomRelTime(fetched, now, "il y a", "dans", frenchMagnitudes)
}

var frenchMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "à l'instant", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "%s 1 minute", DivBy: 1},
	{D: time.Hour, Format: "%s %d minutes", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "%s 1 heure", DivBy: 1},
	{D: humanize.Day, Format: "%s %d heures", DivBy: time.Hour},
	{D: math.MaxInt64, Format: "%s %d jours", DivBy: humanize.Day},
}

func temperature(tag language.Tag, v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return timefmt.Number(tag, "%.0f°", v)
}

func optionalTemperature(tag language.Tag, v *float64) string {
	if v == nil {
		return "-"
	}
	return temperature(tag, *v)
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.0f %%", v)
}

func windLabel(w *models.WindDirection) string {
	if w == nil {
		return "-"
	}
	return w.Arrow + " " + w.Label
}

func speed(tag language.Tag, v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return timefmt.Number(tag, "%.0f km/h", v)
}

func millimetres(tag language.Tag, v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return timefmt.Number(tag, "%.1f mm", v)
}

// distance renders metres with an SI prefix, e.g. 24140 → "24.1 km"
func distance(metres float64) string {
	if math.IsNaN(metres) {
		return "-"
	}
	return humanize.SIWithDigits(metres, 1, "m")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PlainDashboard renders d followed by the location's coordinates, for
// non-interactive output.
func PlainDashboard(d dashboard.Dashboard, loc models.Location) string {
	return RenderDashboard(d, 0) + "\n" + mutedStyle.Render(fmt.Sprintf("%.4f, %.4f", loc.Latitude, loc.Longitude)) + "\n"
}
