package main

import (
	"fmt"
	"log"

	"github.com/architect/studyquest/internal/common/database"
	commonHandlers "github.com/architect/studyquest/internal/common/handlers"
	"github.com/architect/studyquest/internal/common/health"
	"github.com/architect/studyquest/internal/common/middleware"
	"github.com/architect/studyquest/internal/study/engine"
	studyHandlers "github.com/architect/studyquest/internal/study/handlers"
	"github.com/architect/studyquest/internal/study/repository"
	"github.com/architect/studyquest/pkg/config"
	"github.com/architect/studyquest/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database (SQLite for development, PostgreSQL for production)
	if err := database.InitWithType(cfg.Database.Type, cfg.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed the static achievement catalog (no-op for existing keys)
	if err := repository.SeedAchievements(engine.Definitions()); err != nil {
		log.Fatalf("Failed to seed achievements: %v", err)
	}

	// Create Gin engine
	router := gin.Default()

	// Apply middleware
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.ErrorHandler())

	// Health check endpoints
	healthHandler := commonHandlers.NewHealthHandler(health.NewHealthChecker(database.GetDB(), version))
	router.GET("/health", healthHandler.Health)
	router.GET("/health/liveness", healthHandler.Liveness)
	router.GET("/health/readiness", healthHandler.Readiness)
	router.GET("/health/metrics", healthHandler.Metrics)
	router.GET("/health/detailed", healthHandler.Detailed)

	// API v1 routes
	v1 := router.Group("/api/v1")
	studyHandlers.RegisterRoutes(v1, cfg.Study.DailyQuizLimit)

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting StudyQuest server",
		zap.String("address", address),
		zap.String("env", cfg.Server.Env),
		zap.String("db_type", cfg.Database.Type),
	)

	if err := router.Run(address); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
