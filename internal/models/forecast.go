package models

// RawForecast is the validated forecast payload: one current instant plus
// hourly and daily series of parallel slices. Within a series every slice is
// index-aligned with Time. Missing floats are NaN; a missing weather code or
// is-day flag is -1.
type RawForecast struct {
	Latitude         float64
	Longitude        float64
	Timezone         string // IANA name, e.g. "Europe/Paris"
	UTCOffsetSeconds int
	Current          CurrentConditions
	Hourly           HourlySeries
	Daily            DailySeries
}

// CurrentConditions describes the single "now" instant of a forecast
type CurrentConditions struct {
	Time                Timestamp
	Temperature         float64 // °C
	ApparentTemperature float64 // °C
	Humidity            float64 // %
	Precipitation       float64 // mm
	WindSpeed           float64 // km/h
	WindDirection       float64 // degrees
	Visibility          float64 // metres
	WeatherCode         int
	IsDay               int // 1 day, 0 night, -1 unknown
}

// HourlySeries holds the hourly parallel slices
type HourlySeries struct {
	Time                []Timestamp
	Temperature         []float64
	ApparentTemperature []float64
	Humidity            []float64
	Precipitation       []float64
	Visibility          []float64
	WindSpeed           []float64
	WindDirection       []float64
	WeatherCode         []int
	IsDay               []int
}

// DailySeries holds the daily parallel slices
type DailySeries struct {
	Time                   []Timestamp
	WeatherCode            []int
	TemperatureMax         []float64
	TemperatureMin         []float64
	ApparentTemperatureMax []float64
	ApparentTemperatureMin []float64
	PrecipitationSum       []float64
	WindSpeedMax           []float64
	WindDirectionDominant  []float64
	Sunrise                []Timestamp
	Sunset                 []Timestamp
}

// HourlyForecast is one hour of a zipped hourly series. A nil field is a hole
// in the source data.
type HourlyForecast struct {
	Time                Timestamp
	Temperature         *float64
	Wind                *float64
	WindDirection       *float64
	Humidity            *float64
	Visibility          *float64
	Precipitation       *float64
	WeatherCode         *int
	TemperatureApparent *float64
	IsDay               *bool
}

// DailyForecast is one day of a zipped daily series. Sunrise and Sunset are
// empty when missing.
type DailyForecast struct {
	Time            Timestamp
	Wind            *float64
	WindDirection   *float64
	Precipitation   *float64
	WeatherCode     *int
	TempMax         *float64
	TempMin         *float64
	TempApparentMax *float64
	TempApparentMin *float64
	Sunrise         Timestamp
	Sunset          Timestamp
}
