package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"coinbuddy/internal/config"
	"coinbuddy/internal/database"
	"coinbuddy/internal/handlers"
	"coinbuddy/internal/logger"
	"coinbuddy/internal/middleware"
	"coinbuddy/internal/services"
	"coinbuddy/internal/validator"
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

	router := newRouter(dbManager.DB())

	log.Infof("Starting CoinBuddy backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// newRouter wires services, handlers, middleware, and routes onto a Gin
// engine. Custom binding validators are registered here so every caller of
// the router, the serving binary included, gets them.
func newRouter(db *gorm.DB) *gin.Engine {
	validator.Register()

	// Initialize services
	userService := services.NewUserService(db)
	walletService := services.NewWalletService(db)
	transactionService := services.NewTransactionService(db, walletService)
	backupService := services.NewBackupService(db)
	qrTokenService := services.NewQRTokenService(db)
	progressService := services.NewProgressService(db, userService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	walletHandler := handlers.NewWalletHandler(walletService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	backupHandler := handlers.NewBackupHandler(backupService, auditService)
	qrHandler := handlers.NewQRHandler(qrTokenService, auditService)
	progressHandler := handlers.NewProgressHandler(progressService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// QR login routes reachable by a device that has no session yet
	qr := v1.Group("/qr")
	qr.POST("/redeem", qrHandler.RedeemToken)
	qr.GET("/tokens/:id/profile", qrHandler.PeekProfile)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)
	protected.GET("/profile/notifications", authHandler.GetNotificationPreferences)
	protected.PUT("/profile/notifications", authHandler.UpdateNotificationPreferences)
	protected.PUT("/profile/goals", authHandler.UpdateGoals)

	// Wallet routes
	wallets := protected.Group("/wallets")
	wallets.POST("", walletHandler.CreateWallet)
	wallets.GET("", walletHandler.GetUserWallets)
	wallets.GET("/:id", walletHandler.GetWalletByID)
	wallets.PUT("/:id", walletHandler.UpdateWallet)
	wallets.DELETE("/:id", walletHandler.DeleteWallet)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Backup routes
	backupRoutes := protected.Group("/backup")
	backupRoutes.GET("", backupHandler.CreateBackup)
	backupRoutes.POST("/restore", backupHandler.RestoreBackup)

	// Session-side QR token minting
	protected.POST("/qr/tokens", qrHandler.CreateToken)

	// Savings progress
	protected.GET("/progress", progressHandler.GetProgress)

	return router
}
