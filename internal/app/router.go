package app

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"tripsapi/internal/config"
	"tripsapi/internal/handler"
	"tripsapi/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler   *handler.TripHandler
	ClientHandler *handler.ClientHandler
	RedisClient   *redis.Client // optional
	NewRelicApp   *newrelic.Application
	Logger        logrus.FieldLogger
	Server        config.ServerConfig
	RateLimit     config.RateLimitConfig
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.Logging(deps.Logger))
	router.Use(cors.New(corsConfig(deps.Server.AllowedOrigins)))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(deps.RateLimit.RequestsPerMinute, deps.RateLimit.Burst)
		router.Use(middleware.RateLimit(limiter, deps.Logger))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.Idempotency(deps.RedisClient, deps.Logger))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		trips := api.Group("/trips")
		{
			trips.GET("", deps.TripHandler.GetAll)
			trips.DELETE("/:idClient", deps.ClientHandler.DeleteClient)
			trips.POST("/:idTrip/clients", deps.ClientHandler.RegisterClient)
		}
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader, "Idempotency-Key"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cfg
}
