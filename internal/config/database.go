package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDatabasePath is the SQLite file used when DB_CONNECTION_STRING is unset
const DefaultDatabasePath = "./data/posts.db"

// DatabaseConfig holds relational store configuration. ConnectionString is a file path
// for SQLite and a DSN for PostgreSQL.
type DatabaseConfig struct {
	ConnectionString string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	AutoMigrate      bool
}

// Validate validates the database configuration
func (c *DatabaseConfig) Validate() error {
	if c.ConnectionString == "" {
		return fmt.Errorf("database connection string cannot be empty")
	}

	if c.MaxOpenConns < 1 {
		return fmt.Errorf("max open connections must be at least 1")
	}

	if c.MaxIdleConns < 1 {
		return fmt.Errorf("max idle connections must be at least 1")
	}

	if c.ConnMaxLifetime < time.Minute {
		return fmt.Errorf("connection max lifetime must be at least 1 minute")
	}

	return nil
}

// IsPostgresDSN reports whether the connection string is a PostgreSQL URL
func (c *DatabaseConfig) IsPostgresDSN() bool {
	return strings.HasPrefix(c.ConnectionString, "postgres://") ||
		strings.HasPrefix(c.ConnectionString, "postgresql://")
}

// EnsureDirectories creates the directory holding the SQLite file
func (c *DatabaseConfig) EnsureDirectories() error {
	if c.ConnectionString == ":memory:" {
		return nil
	}

	dbDir := filepath.Dir(c.ConnectionString)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	return nil
}

// AbsolutePath returns the absolute SQLite file path
func (c *DatabaseConfig) AbsolutePath() (string, error) {
	if c.ConnectionString == ":memory:" {
		return c.ConnectionString, nil
	}

	dbPath, err := filepath.Abs(c.ConnectionString)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute database path: %w", err)
	}
	return dbPath, nil
}
