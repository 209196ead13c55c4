package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env      string
	Port     string
	LogLevel string

	// Database. DatabaseURL selects PostgreSQL; when empty the embedded
	// SQLite file at SQLitePath is used.
	DatabaseURL string
	SQLitePath  string

	// Passcode gate. An empty passcode disables the gate.
	AppPasscode      string
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Reports and seeding
	BudgetSeedFile string
	TrendMonths    int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		LogLevel: os.Getenv("LOG_LEVEL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "expenses.db"),

		AppPasscode: os.Getenv("APP_PASSCODE"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		BudgetSeedFile: os.Getenv("BUDGET_SEED_FILE"),
	}

	// Without JWT_SECRET sessions are signed with a key that lives only as
	// long as the process.
	if config.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		config.JWTSecret = secret
		if config.AppPasscode != "" {
			log.Println("Warning: JWT_SECRET not set, using a random secret; sessions end on restart")
		}
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil || expDur <= 0 {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	trendStr := getEnv("TREND_MONTHS", "6")
	trend, err := strconv.Atoi(trendStr)
	if err != nil || trend <= 0 {
		log.Printf("Warning: invalid TREND_MONTHS value '%s', falling back to 6\n", trendStr)
		trend = 6
	}
	config.TrendMonths = trend

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// randomSecret returns 32 random bytes, hex encoded.
func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
