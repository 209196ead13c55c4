// Package server wires services, handlers and middleware into the HTTP router.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"pocketbook/internal/handlers"
	"pocketbook/internal/middleware"
	"pocketbook/internal/services"

	_ "pocketbook/internal/docs" // swagger docs
)

// Options configures the router.
type Options struct {
	// Passcode enables the passcode gate when non-empty.
	Passcode    string
	JWTSecret   string
	TokenTTL    time.Duration
	TrendMonths int
	// Swagger mounts the API docs at /swagger.
	Swagger bool
}

// NewRouter builds the application router on db.
func NewRouter(db *gorm.DB, opts Options) (*gin.Engine, error) {
	if opts.Passcode != "" && opts.JWTSecret == "" {
		return nil, errors.New("a session secret is required when a passcode is set")
	}

	// Services
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db)
	subscriptionService := services.NewSubscriptionService(db)
	importService := services.NewImportService(db)
	reportService := services.NewReportService(db)

	// Handlers
	authHandler, err := handlers.NewAuthHandler(opts.Passcode, opts.JWTSecret, opts.TokenTTL)
	if err != nil {
		return nil, err
	}
	transactionHandler := handlers.NewTransactionHandler(transactionService, importService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	reportHandler := handlers.NewReportHandler(reportService, opts.TrendMonths)
	metaHandler := handlers.NewMetaHandler(budgetService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.PasscodeHeader+", "+middleware.RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", middleware.RequestIDHeader+", Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.POST("/unlock", authHandler.Unlock)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.PasscodeGate(opts.Passcode, opts.JWTSecret))

	protected.GET("/meta", metaHandler.GetMeta)
	protected.GET("/months", transactionHandler.GetMonths)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/delete", transactionHandler.DeleteTransactions)
	transactions.POST("/import", transactionHandler.ImportTransactions)
	transactions.GET("/export", transactionHandler.ExportTransactions)

	budgets := protected.Group("/budgets")
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.PUT("/:category", budgetHandler.UpsertBudget)

	subscriptions := protected.Group("/subscriptions")
	subscriptions.POST("", subscriptionHandler.CreateSubscription)
	subscriptions.GET("", subscriptionHandler.GetSubscriptions)
	subscriptions.PATCH("/:id", subscriptionHandler.UpdateSubscription)
	subscriptions.POST("/post", subscriptionHandler.PostSubscriptions)

	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetSummary)
	reports.GET("/categories", reportHandler.GetCategories)
	reports.GET("/trend", reportHandler.GetTrend)
	reports.GET("/dashboard", reportHandler.GetDashboard)

	return router, nil
}
