package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawrns/flavatix/internal/api"
	"github.com/lawrns/flavatix/internal/config"
	"github.com/lawrns/flavatix/internal/logger"
	"github.com/lawrns/flavatix/internal/repository"
	"github.com/lawrns/flavatix/internal/service"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// Initialize repositories
	descriptorRepo := repository.NewDescriptorRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	wheelRepo := repository.NewWheelRepository(db)
	logRepo := repository.NewExtractionLogRepository(db)

	// Initialize services
	taxonomyService := service.NewTaxonomyService(taxonomyRepo, &service.TaxonomyConfig{
		Model:     cfg.Taxonomy.Model,
		APIKey:    cfg.AI.APIKey,
		BaseURL:   cfg.AI.BaseURL,
		Timeout:   cfg.AI.Timeout,
		CacheSize: cfg.Taxonomy.CacheSize,
		CacheTTL:  cfg.Taxonomy.CacheTTL,
	})

	aiService := service.NewAIExtractionService(&service.AIExtractionConfig{
		Provider:  cfg.AI.Provider,
		Model:     cfg.AI.Model,
		APIKey:    cfg.AI.APIKey,
		BaseURL:   cfg.AI.BaseURL,
		Timeout:   cfg.AI.Timeout,
		MaxTokens: cfg.AI.MaxTokens,
	})

	if aiService.IsConfigured() && cfg.Extraction.AIEnabled {
		logger.Info("AI extraction enabled: model=%s", cfg.AI.Model)
	} else {
		logger.Info("AI extraction disabled, using keyword matching only")
	}

	extractionService := service.NewExtractionService(
		descriptorRepo,
		logRepo,
		service.NewKeywordExtractor(),
		aiService,
		taxonomyService,
		cfg.Extraction.AIEnabled,
	)

	wheelService := service.NewWheelService(descriptorRepo, wheelRepo)

	// Setup router
	router := api.SetupRouter(&api.RouterDeps{
		ExtractionService: extractionService,
		TaxonomyService:   taxonomyService,
		WheelService:      wheelService,
		DescriptorRepo:    descriptorRepo,
		TaxonomyRepo:      taxonomyRepo,
		WheelRepo:         wheelRepo,
		ExtractionLogRepo: logRepo,
	}, &cfg.Server, appLogger, cfg.Extraction.MaxTextLength)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting API server: port=%d, mode=%s", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
