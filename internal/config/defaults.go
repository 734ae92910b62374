package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default value of every configuration key.
// location.* has no default so that the last saved location wins.
func setDefaults(v *viper.Viper) {
	v.SetDefault("forecast.baseurl", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("forecast.forecastdays", 9)
	v.SetDefault("forecast.cachettl", 10*time.Minute)
	v.SetDefault("forecast.requestspersecond", 2.0)

	v.SetDefault("geocoding.baseurl", "https://geocode.maps.co")
	v.SetDefault("geocoding.apikey", "")
	v.SetDefault("geocoding.requestspersecond", 1.0)

	v.SetDefault("iplocate.url", "http://ip-api.com/json/")

	v.SetDefault("database.path", "data/meteo-terminal.db")

	v.SetDefault("log.path", "data/meteo-terminal.log")
	v.SetDefault("log.level", "info")

	v.SetDefault("metrics.listen", "")
}
