package main

import (
	"context"                       // Cancellation on exit
	"mobil_market/internal/config"  // Custom package for configuration
	"mobil_market/internal/desktop" // Backend launcher
	"os"                            // Signals
	"os/signal"                     // Signal handling
	"syscall"                       // SIGTERM

	"github.com/sirupsen/logrus" // Structured logging
)

// Main starts the backend and opens the storefront in a window
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shell := &desktop.Shell{
		Binary: cfg.BackendBin,   // Server binary next to this one
		Env:    backendEnv(cfg),  // Local database plus the secrets the server refuses to start without
		URL:    cfg.BackendURL,   // Window address
		Delay:  cfg.DesktopDelay, // Fixed wait before opening
		Open:   desktop.OpenBrowser,
	}
	if err := shell.Run(ctx); err != nil {
		logrus.Fatal(err)
	}
}

// backendEnv is the environment handed to the server child process.
// The desktop build always runs on a local SQLite file.
func backendEnv(cfg *config.Config) []string {
	env := []string{"DB_DRIVER=sqlite", "AUTO_MIGRATE=true"}
	if cfg.JWTSecret != "" {
		env = append(env, "JWT_SECRET="+cfg.JWTSecret)
	}
	if cfg.AdminPassword != "" {
		env = append(env, "ADMIN_USERNAME="+cfg.AdminUsername, "ADMIN_PASSWORD="+cfg.AdminPassword)
	}
	return env
}
