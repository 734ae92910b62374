// Package locations persists the last location the dashboard showed
package locations

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ngmaloney/meteo-terminal/internal/database"
	"github.com/ngmaloney/meteo-terminal/internal/models"
	_ "modernc.org/sqlite"
)

// ErrNoLocation is returned by LoadLast before any location was saved
var ErrNoLocation = errors.New("no saved location")

// DefaultLocation is shown on first start
var DefaultLocation = models.Location{Latitude: 48.0833, Longitude: 7.3667, CityName: "Colmar"}

// Repository handles persistence of the last known location
type Repository struct {
	dbPath string
}

// NewRepository creates a repository backed by the SQLite file at dbPath,
// or database.DBPath() when empty.
func NewRepository(dbPath string) *Repository {
	if dbPath == "" {
		dbPath = database.DBPath()
	}
	return &Repository{dbPath: dbPath}
}

// SaveLast replaces the stored location
func (r *Repository) SaveLast(loc models.Location) error {
	if !loc.Valid() {
		return fmt.Errorf("refusing to save invalid location %s", loc)
	}

	db, err := database.Open(r.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`
		INSERT INTO last_location (id, latitude, longitude, city_name, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			city_name = excluded.city_name,
			updated_at = excluded.updated_at
	`, loc.Latitude, loc.Longitude, loc.CityName, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving location: %w", err)
	}

	return nil
}

// LoadLast returns the stored location or ErrNoLocation
func (r *Repository) LoadLast() (models.Location, error) {
	db, err := database.Open(r.dbPath)
	if err != nil {
		return models.Location{}, err
	}
	defer db.Close()

	var loc models.Location
	err = db.QueryRow("SELECT latitude, longitude, city_name FROM last_location WHERE id = 1").
		Scan(&loc.Latitude, &loc.Longitude, &loc.CityName)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Location{}, ErrNoLocation
	}
	if err != nil {
		return models.Location{}, fmt.Errorf("loading location: %w", err)
	}

	return loc, nil
}

// LoadLastOrDefault returns the stored location, falling back to
// DefaultLocation when nothing was saved yet.
func (r *Repository) LoadLastOrDefault() (models.Location, error) {
	loc, err := r.LoadLast()
	if errors.Is(err, ErrNoLocation) {
		return DefaultLocation, nil
	}
	return loc, err
}
