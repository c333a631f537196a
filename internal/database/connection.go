package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DriverFor maps a storage kind from the configuration to a driver name
func DriverFor(kind string) (string, error) {
	switch kind {
	case "sqlite", DriverSQLite:
		return DriverSQLite, nil
	case DriverPostgres:
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database type %q", kind)
	}
}

// Connect opens the database and creates the schema if needed.
// For SQLite dsn is a file path; its directory is created.
func Connect(driver, dsn string) (*sqlx.DB, error) {
	if driver == DriverSQLite {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates the progress table if it doesn't exist
func initializeSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS progress_record (
			id INTEGER PRIMARY KEY,
			document TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create progress_record table: %w", err)
	}
	return nil
}
