// Package dashboard assembles a forecast into the values the screens draw.
package dashboard

import (
	"math"
	"time"

	"golang.org/x/text/language"

	"github.com/ngmaloney/meteo-terminal/internal/conditions"
	"github.com/ngmaloney/meteo-terminal/internal/forecast"
	"github.com/ngmaloney/meteo-terminal/internal/models"
	"github.com/ngmaloney/meteo-terminal/internal/sun"
	"github.com/ngmaloney/meteo-terminal/internal/timefmt"
)

const (
	upcomingHourCount = 8
	sparklineHours    = 24
)

// Dashboard is a fully derived view of one forecast at one instant
type Dashboard struct {
	Locale       language.Tag
	City         string
	Header       timefmt.DateTime
	Current      Current
	Hours        []Hour
	Days         []Day
	Temperatures []float64 // next 24 hourly temperatures, holes skipped
	GeneratedAt  time.Time
}

// Current is the "now" panel
type Current struct {
	Category            models.DisplayCategory
	Wind                *models.WindDirection // nil when the direction is missing
	Temperature         float64
	ApparentTemperature float64
	Humidity            float64
	Precipitation       float64
	WindSpeed           float64
	Visibility          float64
}

// Hour is one column of the hourly strip
type Hour struct {
	Label    string // "HH:MM" as read on a local clock
	Category models.DisplayCategory
	Wind     *models.WindDirection
	Forecast models.HourlyForecast
}

// Day is one row of the daily list
type Day struct {
	Label    string
	Category models.DisplayCategory
	Wind     *models.WindDirection
	Sunrise  string
	Sunset   string
	Forecast models.DailyForecast
}

// Build derives the dashboard for loc from raw as seen at now.
//
// Forecast series carry the location's wall clock without a zone suffix, so
// now is shifted to that wall clock before it is looked up in them.
func Build(raw models.RawForecast, loc models.Location, now time.Time) Dashboard {
	tag := timefmt.LocaleFor(raw.Timezone)
	zone := timefmt.Location(raw.Timezone)
	wall := wallClock(now, zone)

	d := Dashboard{
		Locale:      tag,
		City:        timefmt.FormatCityName(loc.CityName),
		Header:      timefmt.Format(now, raw.Timezone),
		Current:     buildCurrent(raw.Current, loc, now, tag),
		GeneratedAt: now,
	}
	if d.City == "" {
		d.City = loc.String()
	}

	hourly := forecast.ZipHourly(raw.Hourly)
	currentHour := forecast.FindCurrentHourIndex(raw.Hourly.Time, wall)
	for _, h := range forecast.UpcomingHours(hourly, currentHour, upcomingHourCount) {
		d.Hours = append(d.Hours, buildHour(h, loc, zone, tag))
	}
	for _, h := range forecast.UpcomingHours(hourly, currentHour, sparklineHours) {
		if h.Temperature != nil {
			d.Temperatures = append(d.Temperatures, *h.Temperature)
		}
	}

	daily := forecast.ZipDaily(raw.Daily)
	currentDay := forecast.FindCurrentDayIndex(raw.Daily.Time, wall)
	for _, day := range forecast.UpcomingDays(daily, currentDay) {
		d.Days = append(d.Days, buildDay(day, loc, zone, tag))
	}

	return d
}

func buildCurrent(c models.CurrentConditions, loc models.Location, now time.Time, tag language.Tag) Current {
	isDay := flag(c.IsDay)
	if isDay == nil {
		daylight := sun.IsDaylight(loc.Latitude, loc.Longitude, now)
		isDay = &daylight
	}
	cur := Current{
		Category: conditions.Categorize(c.WeatherCode, conditions.Context{
			Precipitation: present(c.Precipitation),
			IsDay:         isDay,
		}, tag),
		Temperature:         c.Temperature,
		ApparentTemperature: c.ApparentTemperature,
		Humidity:            c.Humidity,
		Precipitation:       c.Precipitation,
		WindSpeed:           c.WindSpeed,
		Visibility:          c.Visibility,
	}
	if angle := present(c.WindDirection); angle != nil {
		w := conditions.WindDirectionFor(*angle)
		cur.Wind = &w
	}
	return cur
}

func buildHour(h models.HourlyForecast, loc models.Location, zone *time.Location, tag language.Tag) Hour {
	hour := Hour{Forecast: h}

	clock, ok := h.Time.WallClock()
	if ok {
		hour.Label = timefmt.HourLabel(clock)
	}

	isDay := h.IsDay
	if isDay == nil && ok {
		daylight := sun.IsDaylight(loc.Latitude, loc.Longitude, inZone(clock, zone))
		isDay = &daylight
	}

	hour.Category = conditions.Categorize(codeOrUnknown(h.WeatherCode), conditions.Context{
		Precipitation: h.Precipitation,
		IsDay:         isDay,
	}, tag)
	if h.WindDirection != nil {
		w := conditions.WindDirectionFor(*h.WindDirection)
		hour.Wind = &w
	}
	return hour
}

func buildDay(f models.DailyForecast, loc models.Location, zone *time.Location, tag language.Tag) Day {
	night := false
	day := Day{
		Forecast: f,
		Category: conditions.Categorize(codeOrUnknown(f.WeatherCode), conditions.Context{
			Precipitation:  f.Precipitation,
			IsDay:          &night,
			MinTemperature: f.TempMin,
		}, tag),
	}

	date, ok := f.Time.WallClock()
	if ok {
		day.Label = timefmt.ShortDate(date, tag)
	}
	if f.WindDirection != nil {
		w := conditions.WindDirectionFor(*f.WindDirection)
		day.Wind = &w
	}

	day.Sunrise = clockLabel(f.Sunrise)
	day.Sunset = clockLabel(f.Sunset)
	if (day.Sunrise == "" || day.Sunset == "") && ok {
		if times, err := sun.TimesFor(loc.Latitude, loc.Longitude, date); err == nil {
			if day.Sunrise == "" {
				day.Sunrise = timefmt.HourLabel(times.Sunrise.In(zone))
			}
			if day.Sunset == "" {
				day.Sunset = timefmt.HourLabel(times.Sunset.In(zone))
			}
		}
	}
	return day
}

func clockLabel(ts models.Timestamp) string {
	t, ok := ts.WallClock()
	if !ok {
		return ""
	}
	return timefmt.HourLabel(t)
}

// wallClock relabels the clock reading of t in zone as UTC
func wallClock(t time.Time, zone *time.Location) time.Time {
	local := t.In(zone)
	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), local.Second(), 0, time.UTC)
}

// inZone is the inverse of wallClock
func inZone(wall time.Time, zone *time.Location) time.Time {
	return time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, zone)
}

func codeOrUnknown(code *int) int {
	if code == nil {
		return -1
	}
	return *code
}

func present(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func flag(v int) *bool {
	if v != 0 && v != 1 {
		return nil
	}
	b := v == 1
	return &b
}
