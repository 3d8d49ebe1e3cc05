package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/talentiq/recommender/internal/api/handlers"
	"github.com/talentiq/recommender/internal/chroma"
	"github.com/talentiq/recommender/internal/config"
	"github.com/talentiq/recommender/internal/database"
	"github.com/talentiq/recommender/internal/embedding"
	"github.com/talentiq/recommender/internal/health"
	"github.com/talentiq/recommender/internal/middleware"
	"github.com/talentiq/recommender/internal/repository"
	"github.com/talentiq/recommender/internal/services"
	"github.com/talentiq/recommender/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	logger.Info("Starting assessment recommendation server...")

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := cfg.ValidateEmbeddings(); err != nil {
		logger.WithError(err).Fatal("Embeddings configuration validation failed")
	}
	if err := cfg.ValidateChroma(); err != nil {
		logger.WithError(err).Fatal("Chroma configuration validation failed")
	}

	dbConfig := &database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}

	dbManager, err := database.NewManager(dbConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	repoManager := repository.NewRepositoryManager(dbManager.DB)
	cache := database.NewCache(dbManager.Redis, logger)

	chromaClient := chroma.NewClient(cfg.Chroma.BaseURL, logger)
	chromaService := chroma.NewService(chromaClient, cfg.Chroma.Collection, logger)
	embeddingClient := embedding.NewClient(cfg.Embeddings.BaseURL, cfg.Embeddings.APIKey, cfg.Embeddings.Model, logger)

	recommendService := services.NewRecommendService(embeddingClient, chromaService, cfg.Retrieval.CandidateCount, logger)

	healthChecker := health.NewHealthChecker(dbManager, chromaClient, repoManager.SystemHealth, logger)

	recommendHandler := handlers.NewRecommendHandler(recommendService, repoManager, cache, logger)
	healthHandler := handlers.NewHealthHandler(healthChecker, logger)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())

	router.POST("/recommend", recommendHandler.HandleRecommend)
	router.GET("/health", healthHandler.HandleHealth)
	router.GET("/health/detailed", healthHandler.HandleDetailedHealth)
	router.GET("/queries/recent", recommendHandler.HandleRecentQueries)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	healthCtx, cancelHealth := context.WithCancel(context.Background())
	defer cancelHealth()
	go healthChecker.PeriodicHealthCheck(healthCtx, 30*time.Second)

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}

	logger.Info("Server stopped")
}
