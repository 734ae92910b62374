package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ngmaloney/meteo-terminal/internal/dashboard"
	"github.com/ngmaloney/meteo-terminal/internal/models"
)

func TestRenderDashboard(t *testing.T) {
	d := dashboard.Build(*testForecast(), colmar, testNow)

	out := RenderDashboard(d, 120)

	for _, want := range []string{
		"Colmar",
		"PROCHAINES HEURES",
		"PROCHAINS JOURS",
		"15:00",
		"20 oct",
		"08:05",
		"18:40",
		"24.1 km",
		"Sud-Ouest",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDashboard() missing %q", want)
		}
	}
}

func TestRenderDashboard_English(t *testing.T) {
	raw := testForecast()
	raw.Timezone = "Europe/London"
	d := dashboard.Build(*raw, models.Location{Latitude: 51.5, Longitude: -0.12, CityName: "London"}, testNow)

	out := RenderDashboard(d, 0)

	if !strings.Contains(out, "NEXT DAYS") {
		t.Error("English dashboard should use English captions")
	}
	if !strings.Contains(out, "Mon 20 Oct") {
		t.Error("English dashboard should use English day labels")
	}
}

func TestRenderDashboard_Empty(t *testing.T) {
	raw := models.RawForecast{Timezone: "UTC"}
	d := dashboard.Build(raw, colmar, testNow)

	out := RenderDashboard(d, 80)

	if strings.Count(out, "No data") != 2 {
		t.Errorf("empty series should render placeholders, got:\n%s", out)
	}
}

func TestRenderDashboard_MissingCurrentWind(t *testing.T) {
	raw := testForecast()
	raw.Current.WindDirection = math.NaN()
	d := dashboard.Build(*raw, colmar, testNow)

	out := RenderDashboard(d, 120)

	if !strings.Contains(out, "Vent - ") {
		t.Errorf("missing wind direction should render as -, got:\n%s", out)
	}
}

func TestUpdatedLabel(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "Mis à jour à l'instant"},
		{90 * time.Second, "Mis à jour il y a 1 minute"},
		{25 * time.Minute, "Mis à jour il y a 25 minutes"},
		{90 * time.Minute, "Mis à jour il y a 1 heure"},
		{5 * time.Hour, "Mis à jour il y a 5 heures"},
		{50 * time.Hour, "Mis à jour il y a 2 jours"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := updatedLabel(testNow.Add(-tt.ago), testNow); got != tt.want {
				t.Errorf("updatedLabel() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := updatedLabel(time.Time{}, testNow); got != "" {
		t.Errorf("updatedLabel(zero) = %q, want empty", got)
	}
}

func TestDistance(t *testing.T) {
	if got := distance(24140); got != "24.1 km" {
		t.Errorf("distance(24140) = %q, want 24.1 km", got)
	}
	if got := distance(800); got != "800 m" {
		t.Errorf("distance(800) = %q, want 800 m", got)
	}
}
