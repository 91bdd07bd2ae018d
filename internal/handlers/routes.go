package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"image-transform-api/internal/metrics"
	"image-transform-api/internal/middleware"
	"image-transform-api/internal/services"
)

// Transform routes
const (
	CallablePath  = "/processImageWithNano"
	TransformPath = "/api/v1/images/transform"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	TransformService services.TransformService
	Metrics          *metrics.Collector
	EnableSwagger    bool
	Version          string
}

// MiddlewareConfig holds limits for the global middleware chain
type MiddlewareConfig struct {
	MaxRequestBytes   int64
	RequestsPerSecond float64
	Burst             int
	SlowThreshold     time.Duration
	Metrics           *metrics.Collector
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	transformHandler := NewTransformHandler(config.TransformService)

	version := config.Version
	if version == "" {
		version = "1.0.0"
	}

	if config.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "image-transform-api",
			"version":   version,
			"timestamp": time.Now().UTC(),
		})
	})

	if config.Metrics != nil {
		router.GET("/metrics", gin.WrapH(config.Metrics.Handler()))
	}

	// Callable endpoint
	router.POST(CallablePath, transformHandler.Callable)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		images := v1.Group("/images")
		{
			images.POST("/transform", transformHandler.Transform)
		}
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, config *MiddlewareConfig) {
	// Request ID
	router.Use(middleware.RequestID())

	router.Use(middleware.Recovery())

	router.Use(middleware.CORS())

	router.Use(middleware.SecurityHeaders())

	router.Use(middleware.Metrics(config.Metrics))

	router.Use(middleware.RequestSizeLimit(config.MaxRequestBytes, map[string]middleware.OversizeHandler{
		CallablePath:  rejectOversizeCallable,
		TransformPath: rejectOversize,
	}))

	router.Use(middleware.ContentTypeValidation("application/json"))

	router.Use(middleware.RateLimiter(config.RequestsPerSecond, config.Burst))

	router.Use(middleware.StructuredLogger())

	router.Use(middleware.PerformanceMonitor(config.SlowThreshold))

	router.Use(middleware.ErrorTracker())
}
