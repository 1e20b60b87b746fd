package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/shopbot/backend/config"
	"github.com/shopbot/backend/internal/observability"
)

// RouterDeps carries the observability collaborators of the router
type RouterDeps struct {
	Logger   zerolog.Logger
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer // nil disables GET /metrics
}

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, deps RouterDeps) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(deps.Logger))
	router.Use(LoggerMiddleware(deps.Logger, deps.Metrics))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	chatbot := router.Group("/api/chatbot")
	chatbot.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		chatbot.POST("/natural-query", handler.NaturalQuery)
		chatbot.POST("/search-by-image", handler.SearchByImage)
	}

	return router
}
