package models

import "fmt"

// Location represents the place the dashboard is showing weather for.
// It is replaced on every successful search, geolocation or reverse lookup
// and persisted as the last known location.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CityName  string  `json:"city_name"` // May be a full geocoder display name
}

// Valid reports whether the coordinates are within WGS84 bounds.
func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}

// String returns the city name, or the coordinates when no name is known
func (l Location) String() string {
	if l.CityName != "" {
		return l.CityName
	}
	return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
}
