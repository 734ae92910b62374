package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the default path of the application database
func DBPath() string {
	return filepath.Join("data", "meteo-terminal.db")
}

// Open ensures the schema exists at dbPath and returns a handle to it
func Open(dbPath string) (*sql.DB, error) {
	if err := EnsureSchema(dbPath); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	return db, nil
}

// EnsureSchema creates the database file and its tables if they are missing.
// Existing rows are left untouched.
func EnsureSchema(dbPath string) error {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database to ensure schema: %w", err)
	}
	defer db.Close()

	// last_location holds at most one row, pinned to id 1
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS last_location (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			city_name TEXT NOT NULL DEFAULT '',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating last_location table: %w", err)
	}

	return nil
}
