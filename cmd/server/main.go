package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"tripsapi/internal/app"
	"tripsapi/internal/config"
	"tripsapi/internal/handler"
	"tripsapi/internal/logger"
	"tripsapi/internal/migrations"
	internalRedis "tripsapi/internal/redis"
	"tripsapi/internal/repository/postgres"
	"tripsapi/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	gin.SetMode(cfg.Server.Mode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logg.WithError(err).Warn("failed to initialize New Relic")
			nrApp = nil
		} else {
			logg.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logg.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	logg.Info("Connected to PostgreSQL")

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, db, logg); err != nil {
			logg.WithError(err).Fatal("failed to migrate database")
		}
	}

	// Redis is optional; without it there is no caching, Pesel locking or idempotency.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			logg.WithError(err).Fatal("failed to connect to redis")
		}
		defer redisClient.Close()
		logg.Info("Connected to Redis")
	}

	server := wireServer(db, redisClient, nrApp, cfg, logg)

	go func() {
		logg.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.WithError(err).Error("server forced to shutdown")
	}

	if nrApp != nil {
		nrApp.Shutdown(cfg.Server.ShutdownTimeout)
	}

	logg.Info("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, logg *logrus.Logger) *http.Server {
	var (
		pageCache internalRedis.TripPageCacheInterface
		peselLock internalRedis.PeselLockInterface
	)
	if redisClient != nil {
		pageCache = internalRedis.NewCacheStore(redisClient, cfg.Redis.TripCacheTTL)
		peselLock = internalRedis.NewLockStore(redisClient, cfg.Redis.PeselLockTTL)
	}

	// Initialize repositories.
	tripRepo := postgres.NewTripRepository(db)
	transactor := postgres.NewTransactor(db, logg)

	// Initialize services.
	notificationService := service.NewNotificationService(logg)
	tripService := service.NewTripService(tripRepo, pageCache, logg)
	clientService := service.NewClientService(transactor, pageCache, notificationService, logg)
	registrationService := service.NewRegistrationService(transactor, notificationService, logg,
		service.WithPeselLock(peselLock),
		service.WithTripPageCache(pageCache),
	)

	// Initialize handlers.
	tripHandler := handler.NewTripHandler(tripService, cfg.Pagination)
	clientHandler := handler.NewClientHandler(clientService, registrationService)

	router := app.NewRouter(app.RouterDeps{
		TripHandler:   tripHandler,
		ClientHandler: clientHandler,
		RedisClient:   redisClient,
		NewRelicApp:   nrApp,
		Logger:        logg,
		Server:        cfg.Server,
		RateLimit:     cfg.RateLimit,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
