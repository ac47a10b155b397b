package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort       string        // Application port
	DBDriver      string        // mysql or sqlite
	DBUser        string        // Database user
	DBPassword    string        // Database password
	DBHost        string        // Database host
	DBPort        string        // Database port
	DBName        string        // Database name (file path for sqlite)
	AutoMigrate   bool          // Migrate and seed on server start
	JWTSecret     string        // JWT secret key
	RedisAddr     string        // Redis server address, empty disables caching
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number
	IsProd        bool          // Is production environment
	UploadDir     string        // Directory for uploaded product files
	StaticDir     string        // Built web client, empty disables serving it
	CORSOrigins   []string      // Allowed browser origins
	AdminUsername string        // Seeded admin account
	AdminPassword string        // Seeded admin password, empty skips the seed
	BackendBin    string        // Server binary launched by the desktop shell
	DesktopDelay  time.Duration // Wait before the desktop shell opens the window
	BackendURL    string        // Backend address used by native clients
	SessionFile   string        // Where a client persists its session user
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	delayMS, err := strconv.Atoi(os.Getenv("DESKTOP_DELAY_MS"))
	if err != nil || delayMS < 0 {
		delayMS = 2000
	}
	port := getenv("APP_PORT", "5000")
	return &Config{
		AppPort:       port,
		DBDriver:      getenv("DB_DRIVER", "mysql"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        getenv("DB_HOST", "127.0.0.1"),
		DBPort:        getenv("DB_PORT", "3306"),
		DBName:        getenv("DB_NAME", "mobil_market"),
		AutoMigrate:   os.Getenv("AUTO_MIGRATE") == "true",
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPass:     os.Getenv("REDIS_PASS"),
		RedisDB:       redisDB,
		IsProd:        os.Getenv("IS_PROD") == "true",
		UploadDir:     getenv("UPLOAD_DIR", "product_images"),
		StaticDir:     os.Getenv("STATIC_DIR"),
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "*")),
		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		BackendBin:    getenv("BACKEND_BIN", "./server"),
		DesktopDelay:  time.Duration(delayMS) * time.Millisecond,
		BackendURL:    getenv("BACKEND_URL", "http://127.0.0.1:"+port),
		SessionFile:   os.Getenv("SESSION_FILE"),
	}
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

// getenv returns the variable or a fallback when unset
func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// splitList splits a comma separated list, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
