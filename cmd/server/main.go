package main

import (
	"context"                          // context package is needed for Redis operations and shutdown
	"errors"                           // Error inspection
	"mobil_market/internal/api"        // Custom package for API handlers
	"mobil_market/internal/config"     // Custom package for configuration
	"mobil_market/internal/db"         // Custom package for database setup
	"mobil_market/internal/middleware" // Custom package for middleware
	"net/http"                         // HTTP server
	"os"                               // Signals
	"os/signal"                        // Signal handling
	"syscall"                          // SIGTERM
	"time"                             // Shutdown timeout

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Connect to the database
	database, err := db.Connect(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Migrate and seed on start when asked to (desktop builds use sqlite)
	if cfg.AutoMigrate {
		if err := db.Migrate(database); err != nil {
			logrus.Fatalf("failed to migrate: %v", err)
		}
		if err := db.Seed(database, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logrus.Fatalf("failed to seed: %v", err)
		}
	}

	// Setup Redis client, caching is disabled without REDIS_ADDR
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Warn("REDIS_ADDR not set, catalog cache disabled")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	feed := api.NewOrderFeed(cfg.CORSOrigins) // Admin order feed
	defer feed.Close()

	r := api.NewRouter(api.Deps{
		DB:          database,
		Redis:       redisClient,
		JWTSecret:   cfg.JWTSecret,
		UploadDir:   cfg.UploadDir,
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
		Feed:        feed,
		AuthLimiter: middleware.NewPerMinuteLimiter(20), // 20 auth attempts per minute per IP
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown: %v", err)
	}
}
