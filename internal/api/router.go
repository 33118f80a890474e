package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lawrns/flavatix/internal/api/handler"
	"github.com/lawrns/flavatix/internal/api/middleware"
	"github.com/lawrns/flavatix/internal/config"
	"github.com/lawrns/flavatix/internal/logger"
	"github.com/lawrns/flavatix/internal/repository"
	"github.com/lawrns/flavatix/internal/service"
)

// RouterDeps bundles the services and stores the router exposes.
type RouterDeps struct {
	ExtractionService *service.ExtractionService
	TaxonomyService   *service.TaxonomyService
	WheelService      *service.WheelService
	DescriptorRepo    *repository.DescriptorRepository
	TaxonomyRepo      *repository.TaxonomyRepository
	WheelRepo         *repository.WheelRepository
	ExtractionLogRepo *repository.ExtractionLogRepository
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps *RouterDeps, cfg *config.ServerConfig, log *logger.Logger, maxTextLength int) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	extractionHandler := handler.NewExtractionHandler(deps.ExtractionService, maxTextLength)
	taxonomyHandler := handler.NewTaxonomyHandler(deps.TaxonomyService)
	wheelHandler := handler.NewWheelHandler(deps.WheelService)
	descriptorHandler := handler.NewDescriptorHandler(deps.DescriptorRepo, deps.TaxonomyRepo, deps.WheelRepo)
	extractionLogHandler := handler.NewExtractionLogHandler(deps.ExtractionLogRepo)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Extraction
		v1.POST("/extract", extractionHandler.Extract)

		// Taxonomies
		v1.POST("/taxonomy/resolve", taxonomyHandler.Resolve)

		// Wheels
		v1.POST("/wheels/generate", wheelHandler.Generate)

		// Descriptors
		v1.GET("/descriptors", descriptorHandler.List)

		// Extraction audit log
		v1.GET("/extractions", extractionLogHandler.List)

		// Stats
		v1.GET("/stats", descriptorHandler.GetStats)
	}

	return r
}
