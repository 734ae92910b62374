// Package forecast turns parallel forecast series into per-instant records
// and locates "now" inside them.
package forecast

import (
	"math"
	"time"

	"github.com/ngmaloney/meteo-terminal/internal/models"
)

// NotFound is returned by the index lookups when no entry matches
const NotFound = -1

// ZipHourly builds one record per hourly timestamp. Fields whose slice is
// shorter than Time, or whose value is missing, are left nil.
func ZipHourly(s models.HourlySeries) []models.HourlyForecast {
	records := make([]models.HourlyForecast, len(s.Time))
	for i, ts := range s.Time {
		records[i] = models.HourlyForecast{
			Time:                ts,
			Temperature:         floatAt(s.Temperature, i),
			Wind:                floatAt(s.WindSpeed, i),
			WindDirection:       floatAt(s.WindDirection, i),
			Humidity:            floatAt(s.Humidity, i),
			Visibility:          floatAt(s.Visibility, i),
			Precipitation:       floatAt(s.Precipitation, i),
			WeatherCode:         codeAt(s.WeatherCode, i),
			TemperatureApparent: floatAt(s.ApparentTemperature, i),
			IsDay:               flagAt(s.IsDay, i),
		}
	}
	return records
}

// ZipDaily builds one record per daily timestamp, with the same hole rules
// as ZipHourly.
func ZipDaily(s models.DailySeries) []models.DailyForecast {
	records := make([]models.DailyForecast, len(s.Time))
	for i, ts := range s.Time {
		records[i] = models.DailyForecast{
			Time:            ts,
			Wind:            floatAt(s.WindSpeedMax, i),
			WindDirection:   floatAt(s.WindDirectionDominant, i),
			Precipitation:   floatAt(s.PrecipitationSum, i),
			WeatherCode:     codeAt(s.WeatherCode, i),
			TempMax:         floatAt(s.TemperatureMax, i),
			TempMin:         floatAt(s.TemperatureMin, i),
			TempApparentMax: floatAt(s.ApparentTemperatureMax, i),
			TempApparentMin: floatAt(s.ApparentTemperatureMin, i),
			Sunrise:         timestampAt(s.Sunrise, i),
			Sunset:          timestampAt(s.Sunset, i),
		}
	}
	return records
}

// FindCurrentHourIndex returns the first index whose (year, month, day, hour)
// equals now's, both taken in UTC. Timestamps without a zone suffix are read
// as UTC rather than local time.
func FindCurrentHourIndex(timestamps []models.Timestamp, now time.Time) int {
	now = now.UTC()
	for i, ts := range timestamps {
		t, err := ts.Parse()
		if err != nil {
			continue
		}
		t = t.UTC()
		if sameDay(t, now) && t.Hour() == now.Hour() {
			return i
		}
	}
	return NotFound
}

// FindCurrentDayIndex returns the first index whose calendar date, taken in
// now's location, equals now's date. Unlike FindCurrentHourIndex this
// compares local dates.
func FindCurrentDayIndex(timestamps []models.Timestamp, now time.Time) int {
	loc := now.Location()
	for i, ts := range timestamps {
		t, err := ts.Parse()
		if err != nil {
			continue
		}
		if sameDay(t.In(loc), now) {
			return i
		}
	}
	return NotFound
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func floatAt(s []float64, i int) *float64 {
	if i >= len(s) || math.IsNaN(s[i]) {
		return nil
	}
	v := s[i]
	return &v
}

func codeAt(s []int, i int) *int {
	if i >= len(s) || s[i] < 0 {
		return nil
	}
	v := s[i]
	return &v
}

func flagAt(s []int, i int) *bool {
	if i >= len(s) || (s[i] != 0 && s[i] != 1) {
		return nil
	}
	v := s[i] == 1
	return &v
}

func timestampAt(s []models.Timestamp, i int) models.Timestamp {
	if i >= len(s) {
		return ""
	}
	return s[i]
}
