package main

import (
	"context"
	"fmt"
	"os"

	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/report"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

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

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Optional collaborators
	reportClient := report.NewClient(appConfig.ReportServiceURL)
	redisCache := cache.New(context.Background(), appConfig.RedisURL)
	if redisCache != nil {
		defer func() { _ = redisCache.Close() }()
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, redisCache)
	budgetService := services.NewBudgetService(db, reportClient, redisCache)
	predictionService := services.NewPredictionService(db, redisCache)
	reportingService := services.NewReportingService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, categoryService)
	accountHandler := handlers.NewAccountHandler(accountService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	reportingHandler := handlers.NewReportingHandler(reportingService)
	healthHandler := handlers.NewHealthHandler(db, redisCache, reportClient)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Metrics())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{appConfig.AllowedOrigins}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoints
	router.GET("/api/health", healthHandler.Health)
	router.GET("/api/health/live", healthHandler.Live)
	router.GET("/api/health/ready", healthHandler.Ready)
	router.GET("/api/health/detailed", healthHandler.Detailed)

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/tree", categoryHandler.GetCategoryTree)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.GET("/:id/usage", categoryHandler.GetCategoryUsage)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/current", budgetHandler.GetCurrentBudget)
	budgets.GET("/dashboard", budgetHandler.GetDashboard)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	// Prediction routes
	protected.GET("/predictions/next-budget", predictionHandler.PredictNextBudget)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/spend-summary", reportingHandler.GetSpendSummary)
	reports.GET("/cashflow", reportingHandler.GetCashflow)
	reports.GET("/account-balances", reportingHandler.GetAccountBalances)
	reports.GET("/monthly-trends", reportingHandler.GetMonthlyTrends)
	reports.GET("/top-merchants", reportingHandler.GetTopMerchants)

	log.Infof("Starting fintrack API server on port %s", appConfig.Port)
	if reportClient.Enabled() {
		log.Infof("Report service configured at %s", appConfig.ReportServiceURL)
	}
	return router.Run(":" + appConfig.Port)
}
