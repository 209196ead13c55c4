package main

import (
	"fmt"
	"os"

	"pocketbook/internal/config"
	"pocketbook/internal/database"
	"pocketbook/internal/logger"
	"pocketbook/internal/seed"
	"pocketbook/internal/server"
	"pocketbook/internal/services"
	"pocketbook/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           Pocketbook API
// @version         1.0
// @description     Pocketbook is a single-user personal finance tracker: monthly transactions, category budgets, recurring subscriptions and CSV import/export.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token from /unlock.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.SetLevel(appConfig.LogLevel); err != nil {
		log.Warnf("%v; keeping %s", err, logger.Level())
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig(appConfig.DatabaseURL, appConfig.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	log.Infow("Using database", "backend", dbConfig.String())

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	if err := seedBudgets(dbManager, appConfig.BudgetSeedFile); err != nil {
		return err
	}

	validator.Register()

	router, err := server.NewRouter(dbManager.DB(), server.Options{
		Passcode:    appConfig.AppPasscode,
		JWTSecret:   appConfig.JWTSecret,
		TokenTTL:    appConfig.JWTExpirationDur,
		TrendMonths: appConfig.TrendMonths,
		Swagger:     appConfig.Env != "production",
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	if appConfig.AppPasscode == "" {
		log.Warn("APP_PASSCODE is not set; the API is open to anyone who can reach it")
	}
	log.Infof("Starting Pocketbook server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// seedBudgets fills an empty budgets table from the configured YAML file,
// or the built-in defaults when none is set.
func seedBudgets(dbManager *database.Manager, path string) error {
	var (
		defaults []seed.BudgetDefault
		err      error
	)
	if path != "" {
		defaults, err = seed.LoadBudgets(path)
	} else {
		defaults, err = seed.DefaultBudgets()
	}
	if err != nil {
		return fmt.Errorf("failed to load budget defaults: %w", err)
	}

	if _, err := services.NewBudgetService(dbManager.DB()).SeedDefaults(defaults); err != nil {
		return fmt.Errorf("failed to seed budgets: %w", err)
	}
	return nil
}
