package main

import (
	"mobil_market/internal/config" // Custom import path (Config)
	"mobil_market/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Structured logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	database, err := db.Connect(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		logrus.Fatal(err)
	}
	if err := db.Seed(database, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logrus.Fatal(err)
	}
}
