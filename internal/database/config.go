package database

import (
	"fmt"
	"net/url"
)

// Driver names the storage backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

const defaultSQLitePath = "expenses.db"

// Config holds database configuration
type Config struct {
	Driver     Driver
	URL        string
	SQLitePath string
}

// NewConfig selects PostgreSQL when databaseURL is set and the embedded
// SQLite file otherwise.
func NewConfig(databaseURL, sqlitePath string) (*Config, error) {
	if databaseURL != "" {
		u, err := url.Parse(databaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		switch u.Scheme {
		case "postgres", "postgresql":
		default:
			return nil, fmt.Errorf("unsupported DATABASE_URL scheme %q", u.Scheme)
		}
		return &Config{Driver: DriverPostgres, URL: databaseURL}, nil
	}

	if sqlitePath == "" {
		sqlitePath = defaultSQLitePath
	}
	return &Config{Driver: DriverSQLite, SQLitePath: sqlitePath}, nil
}

// DSN returns the connection string handed to the GORM dialector.
func (c *Config) DSN() string {
	if c.Driver == DriverPostgres {
		return c.URL
	}
	return c.SQLitePath
}

// String describes the backend without exposing credentials.
func (c *Config) String() string {
	if c.Driver == DriverPostgres {
		if u, err := url.Parse(c.URL); err == nil {
			return fmt.Sprintf("postgres %s%s", u.Host, u.Path)
		}
		return "postgres"
	}
	return "sqlite " + c.SQLitePath
}
