package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"cashmesh/internal/config"
	"cashmesh/internal/database"
	"cashmesh/internal/logger"
	"cashmesh/internal/middleware"
	"cashmesh/internal/router"
)

// @title           Cash Mesh API
// @version         1.0
// @description     Cash Mesh is a personal bookkeeping service for recording income and expenses against user-defined categories.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	resolver, err := middleware.NewActorResolver(appConfig)
	if err != nil {
		return fmt.Errorf("failed to configure actor resolution: %w", err)
	}

	engine := router.New(appConfig, dbManager.DB(), resolver)

	log.Infof("Starting %s on port %s", appConfig.AppName, appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return engine.Run(":" + appConfig.Port)
}
