package openmeteo

import (
	"errors"
	"fmt"
	"math"

	"github.com/ngmaloney/meteo-terminal/internal/models"
)

// ErrInvalidResponse is wrapped by every payload validation failure
var ErrInvalidResponse = errors.New("invalid forecast response")

// forecastResponse mirrors the API payload. Series values are pointers
// because the API reports unknown values as null.
type forecastResponse struct {
	Latitude         float64       `json:"latitude"`
	Longitude        float64       `json:"longitude"`
	Timezone         string        `json:"timezone"`
	UTCOffsetSeconds int           `json:"utc_offset_seconds"`
	Current          *currentBlock `json:"current"`
	Hourly           *hourlyBlock  `json:"hourly"`
	Daily            *dailyBlock   `json:"daily"`
}

type currentBlock struct {
	Time                string   `json:"time"`
	Temperature         *float64 `json:"temperature_2m"`
	Humidity            *float64 `json:"relative_humidity_2m"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
	IsDay               *int     `json:"is_day"`
	Precipitation       *float64 `json:"precipitation"`
	WeatherCode         *int     `json:"weather_code"`
	WindSpeed           *float64 `json:"wind_speed_10m"`
	WindDirection       *float64 `json:"wind_direction_10m"`
	Visibility          *float64 `json:"visibility"`
}

type hourlyBlock struct {
	Time                []string   `json:"time"`
	Temperature         []*float64 `json:"temperature_2m"`
	Humidity            []*float64 `json:"relative_humidity_2m"`
	ApparentTemperature []*float64 `json:"apparent_temperature"`
	Precipitation       []*float64 `json:"precipitation"`
	WeatherCode         []*int     `json:"weather_code"`
	Visibility          []*float64 `json:"visibility"`
	WindSpeed           []*float64 `json:"wind_speed_10m"`
	WindDirection       []*float64 `json:"wind_direction_10m"`
	IsDay               []*int     `json:"is_day"`
}

type dailyBlock struct {
	Time                   []string   `json:"time"`
	WeatherCode            []*int     `json:"weather_code"`
	TemperatureMax         []*float64 `json:"temperature_2m_max"`
	TemperatureMin         []*float64 `json:"temperature_2m_min"`
	ApparentTemperatureMax []*float64 `json:"apparent_temperature_max"`
	ApparentTemperatureMin []*float64 `json:"apparent_temperature_min"`
	Sunrise                []*string  `json:"sunrise"`
	Sunset                 []*string  `json:"sunset"`
	PrecipitationSum       []*float64 `json:"precipitation_sum"`
	WindSpeedMax           []*float64 `json:"wind_speed_10m_max"`
	WindDirectionDominant  []*float64 `json:"wind_direction_10m_dominant"`
}

// toModel validates the payload and converts it to the domain model.
// Field arrays may be shorter than their time axis but never longer.
func (r *forecastResponse) toModel() (*models.RawForecast, error) {
	if r.Current == nil || r.Current.Time == "" {
		return nil, fmt.Errorf("%w: current.time missing", ErrInvalidResponse)
	}
	if r.Hourly == nil || r.Hourly.Time == nil {
		return nil, fmt.Errorf("%w: hourly.time missing", ErrInvalidResponse)
	}
	if r.Daily == nil || r.Daily.Time == nil {
		return nil, fmt.Errorf("%w: daily.time missing", ErrInvalidResponse)
	}
	if err := r.Hourly.check(); err != nil {
		return nil, err
	}
	if err := r.Daily.check(); err != nil {
		return nil, err
	}

	c := r.Current
	return &models.RawForecast{
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		Timezone:         r.Timezone,
		UTCOffsetSeconds: r.UTCOffsetSeconds,
		Current: models.CurrentConditions{
			Time:                models.Timestamp(c.Time),
			Temperature:         float(c.Temperature),
			ApparentTemperature: float(c.ApparentTemperature),
			Humidity:            float(c.Humidity),
			Precipitation:       float(c.Precipitation),
			WindSpeed:           float(c.WindSpeed),
			WindDirection:       float(c.WindDirection),
			Visibility:          float(c.Visibility),
			WeatherCode:         code(c.WeatherCode),
			IsDay:               code(c.IsDay),
		},
		Hourly: models.HourlySeries{
			Time:                timestamps(r.Hourly.Time),
			Temperature:         floats(r.Hourly.Temperature),
			ApparentTemperature: floats(r.Hourly.ApparentTemperature),
			Humidity:            floats(r.Hourly.Humidity),
			Precipitation:       floats(r.Hourly.Precipitation),
			Visibility:          floats(r.Hourly.Visibility),
			WindSpeed:           floats(r.Hourly.WindSpeed),
			WindDirection:       floats(r.Hourly.WindDirection),
			WeatherCode:         codes(r.Hourly.WeatherCode),
			IsDay:               codes(r.Hourly.IsDay),
		},
		Daily: models.DailySeries{
			Time:                   timestamps(r.Daily.Time),
			WeatherCode:            codes(r.Daily.WeatherCode),
			TemperatureMax:         floats(r.Daily.TemperatureMax),
			TemperatureMin:         floats(r.Daily.TemperatureMin),
			ApparentTemperatureMax: floats(r.Daily.ApparentTemperatureMax),
			ApparentTemperatureMin: floats(r.Daily.ApparentTemperatureMin),
			PrecipitationSum:       floats(r.Daily.PrecipitationSum),
			WindSpeedMax:           floats(r.Daily.WindSpeedMax),
			WindDirectionDominant:  floats(r.Daily.WindDirectionDominant),
			Sunrise:                nullableTimestamps(r.Daily.Sunrise),
			Sunset:                 nullableTimestamps(r.Daily.Sunset),
		},
	}, nil
}

func (h *hourlyBlock) check() error {
	n := len(h.Time)
	fields := []fieldLength{
		{"temperature_2m", len(h.Temperature)},
		{"relative_humidity_2m", len(h.Humidity)},
		{"apparent_temperature", len(h.ApparentTemperature)},
		{"precipitation", len(h.Precipitation)},
		{"weather_code", len(h.WeatherCode)},
		{"visibility", len(h.Visibility)},
		{"wind_speed_10m", len(h.WindSpeed)},
		{"wind_direction_10m", len(h.WindDirection)},
		{"is_day", len(h.IsDay)},
	}
	return checkLengths("hourly", n, fields)
}

func (d *dailyBlock) check() error {
	n := len(d.Time)
	fields := []fieldLength{
		{"weather_code", len(d.WeatherCode)},
		{"temperature_2m_max", len(d.TemperatureMax)},
		{"temperature_2m_min", len(d.TemperatureMin)},
		{"apparent_temperature_max", len(d.ApparentTemperatureMax)},
		{"apparent_temperature_min", len(d.ApparentTemperatureMin)},
		{"sunrise", len(d.Sunrise)},
		{"sunset", len(d.Sunset)},
		{"precipitation_sum", len(d.PrecipitationSum)},
		{"wind_speed_10m_max", len(d.WindSpeedMax)},
		{"wind_direction_10m_dominant", len(d.WindDirectionDominant)},
	}
	return checkLengths("daily", n, fields)
}

// fieldLength is the value count of one named series field
type fieldLength struct {
	name string
	n    int
}

// checkLengths reports the first field, in request order, with more values
// than timestamps
func checkLengths(series string, n int, fields []fieldLength) error {
	for _, f := range fields {
		if f.n > n {
			return fmt.Errorf("%w: %s.%s has %d values for %d timestamps", ErrInvalidResponse, series, f.name, f.n, n)
		}
	}
	return nil
}

func float(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func code(v *int) int {
	if v == nil {
		return -1
	}
	return *v
}

func floats(vs []*float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = float(v)
	}
	return out
}

func codes(vs []*int) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = code(v)
	}
	return out
}

func timestamps(vs []string) []models.Timestamp {
	out := make([]models.Timestamp, len(vs))
	for i, v := range vs {
		out[i] = models.Timestamp(v)
	}
	return out
}

func nullableTimestamps(vs []*string) []models.Timestamp {
	out := make([]models.Timestamp, len(vs))
	for i, v := range vs {
		if v != nil {
			out[i] = models.Timestamp(*v)
		}
	}
	return out
}
