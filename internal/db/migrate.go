package db

import (
	"errors"                       // Error inspection
	"fmt"                          // Error wrapping
	"mobil_market/internal/config" // Application configuration
	"mobil_market/internal/domain" // Importing domain models
	"strings"                      // Username normalisation

	"github.com/glebarez/sqlite"    // Pure Go SQLite driver for GORM
	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
	"golang.org/x/crypto/bcrypt"    // Password hashing
	"gorm.io/driver/mysql"          // MySQL driver for GORM
	"gorm.io/gorm"                  // GORM ORM library
)

// AdminID is the fixed ID of the seeded admin account
const AdminID = "admin_root"

// Connect opens the database selected by cfg.DBDriver
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DBName + ".db")
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return gorm.Open(dialector, GormConfig())
}

// GormConfig turns driver constraint errors into gorm.ErrDuplicatedKey and friends
func GormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.User{}, &domain.Product{}, &domain.Order{}, &domain.Favorite{}, &domain.Saved{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.")
	return nil
}

// sampleProducts fill an empty catalog
var sampleProducts = []domain.Product{
	{Name: "iPhone 14 Pro", Price: decimal.NewFromInt(74999), Category: "Elektronik", Image: domain.SingleImage("https://picsum.photos/400/400?random=1"), Description: "En yeni iPhone modeli."},
	{Name: "MacBook Air M2", Price: decimal.NewFromInt(42000), Category: "Bilgisayar", Image: domain.SingleImage("https://picsum.photos/400/400?random=2"), Description: "Hafif ve güçlü."},
	{Name: "Sony Kulaklık", Price: decimal.NewFromInt(4500), Category: "Aksesuar", Image: domain.SingleImage("https://picsum.photos/400/400?random=3"), Description: "Gürültü engelleyici."},
	{Name: "Logitech Mouse", Price: decimal.NewFromInt(800), Category: "Aksesuar", Image: domain.SingleImage("https://picsum.photos/400/400?random=4"), Description: "Kablosuz mouse."},
}

// Seed creates the admin account and sample products when they are missing
func Seed(db *gorm.DB, adminUsername, adminPassword string) error {
	if adminPassword == "" {
		logrus.Warn("ADMIN_PASSWORD not set, skipping admin seed")
	} else {
		var admin domain.User
		err := db.First(&admin, "id = ?", AdminID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			username := strings.ToLower(adminUsername)
			admin = domain.User{ID: AdminID, Username: username, Password: string(hash), Role: domain.RoleAdmin}
			if strings.Contains(username, "@") {
				admin.Email = username
			}
			if err := db.Create(&admin).Error; err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			logrus.WithField("username", admin.Username).Info("Admin account created")
		case err != nil:
			return fmt.Errorf("lookup admin: %w", err)
		}
	}

	var count int64
	if err := db.Model(&domain.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count == 0 {
		products := append([]domain.Product(nil), sampleProducts...)
		if err := db.Create(&products).Error; err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		logrus.WithField("count", len(products)).Info("Sample products created")
	}
	return nil
}
