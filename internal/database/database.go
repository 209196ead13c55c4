package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"pocketbook/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	config *Config
}

// NewManager opens the configured backend and applies pool limits.
func NewManager(config *Config) (*Manager, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  config.DSN(),
			PreferSimpleProtocol: true, // needed behind transaction-mode poolers
		})
	case DriverSQLite:
		dialector = gormsqlite.Open(config.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if config.Driver == DriverSQLite {
		// One writer at a time keeps SQLite free of "database is locked" errors.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &Manager{db: db, config: config}, nil
}

// Migrator returns a migrate instance over the embedded migrations for the
// configured backend. The caller must Close it. It uses its own connection,
// so closing it leaves the GORM pool intact.
func (m *Manager) Migrator() (*migrate.Migrate, error) {
	return NewMigrator(m.config)
}

// NewMigrator builds a migrate instance for config without opening GORM.
func NewMigrator(config *Config) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+string(config.Driver))
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	switch config.Driver {
	case DriverPostgres:
		mig, err := migrate.NewWithSourceInstance("iofs", src, config.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
		return mig, nil
	case DriverSQLite:
		migrateDB, err := sql.Open("sqlite", config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open migration database: %w", err)
		}
		driver, err := migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
		if err != nil {
			_ = migrateDB.Close()
			return nil, fmt.Errorf("failed to create sqlite migration driver: %w", err)
		}
		mig, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
		if err != nil {
			_ = driver.Close()
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
		return mig, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

// RunMigrations applies pending SQL migrations for the configured backend.
func (m *Manager) RunMigrations() error {
	logger.Get().Infow("Running database migrations...", "backend", m.config.String())

	mig, err := m.Migrator()
	if err != nil {
		return err
	}
	defer closeMigrator(mig)

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeMigrator(mig *migrate.Migrate) {
	srcErr, dbErr := mig.Close()
	if srcErr != nil {
		logger.Get().Warnf("migrate source close error: %v", srcErr)
	}
	if dbErr != nil {
		logger.Get().Warnf("migrate database close error: %v", dbErr)
	}
}
