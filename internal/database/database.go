// Package database persists the audit trail. The directory itself is purely
// in-memory; only the record of who did what survives a restart.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB is the global database connection
var DB *sql.DB

// Config holds database configuration
type Config struct {
	Path string
}

// Open initializes the database connection and runs migrations. Path may be
// ":memory:" for a throwaway database.
func Open(cfg Config) error {
	if cfg.Path != ":memory:" {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	var err error
	DB, err = sql.Open("sqlite", cfg.Path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; cap the pool so every
	// statement sees the same one.
	if cfg.Path == ":memory:" {
		DB.SetMaxOpenConns(1)
	}

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// migrate creates the audit schema
func migrate() error {
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS audit_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			username TEXT NOT NULL,
			action TEXT NOT NULL,
			target TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			ip_address TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}
