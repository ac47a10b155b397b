package api

import (
	"mobil_market/internal/domain"     // Importing domain models
	"mobil_market/internal/middleware" // Auth context helpers
	"net/http"                         // HTTP status codes
	"os"                               // Files
	"path/filepath"                    // Paths
	"strings"                          // String manipulation
	"time"                             // Time durations

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are the collaborators the HTTP layer needs
type Deps struct {
	DB          *gorm.DB                // Primary store
	Redis       *redis.Client           // Optional catalog/user cache
	JWTSecret   string                  // Token signing key
	UploadDir   string                  // Where uploads are written and served from
	StaticDir   string                  // Built web client, optional
	CORSOrigins []string                // Allowed browser origins
	Feed        *OrderFeed              // Admin order feed, optional
	AuthLimiter *middleware.RateLimiter // Login/register throttle, optional
}

// NewRouter wires every route of the storefront backend
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	if d.UploadDir != "" {
		r.Static(domain.UploadURLPrefix, d.UploadDir)
	}

	api := r.Group("/api")

	// Auth routes
	authGroup := api.Group("")
	if d.AuthLimiter != nil {
		authGroup.Use(d.AuthLimiter.Middleware())
	}
	authGroup.POST("/register", RegisterHandler(d.DB, d.Redis, d.JWTSecret))
	authGroup.POST("/login", LoginHandler(d.DB, d.JWTSecret))

	// Public catalog
	api.GET("/products", ListProductsHandler(d.DB, d.Redis))

	// Customer routes (protected by JWT)
	userGroup := api.Group("")
	userGroup.Use(middleware.JWTAuthMiddleware(d.JWTSecret), middleware.LoadUserMiddleware(d.DB))
	userGroup.GET("/favorites", ListMembershipHandler(d.DB, favoritesSet))
	userGroup.POST("/favorites", ToggleMembershipHandler(d.DB, favoritesSet))
	userGroup.GET("/saved", ListMembershipHandler(d.DB, savedSet))
	userGroup.POST("/saved", ToggleMembershipHandler(d.DB, savedSet))
	userGroup.POST("/orders", PlaceOrderHandler(d.DB, d.Feed))
	userGroup.GET("/orders", ListOrdersHandler(d.DB))

	// Admin routes (protected, admin only)
	adminGroup := api.Group("")
	adminGroup.Use(middleware.JWTAuthMiddleware(d.JWTSecret), middleware.LoadUserMiddleware(d.DB), middleware.AdminOnlyMiddleware(d.DB))
	adminGroup.POST("/products", CreateProductHandler(d.DB, d.Redis))
	adminGroup.PUT("/products/:id", UpdateProductHandler(d.DB, d.Redis))
	adminGroup.DELETE("/products/:id", DeleteProductHandler(d.DB, d.Redis))
	adminGroup.GET("/products/export", ExportProductsHandler(d.DB))
	adminGroup.POST("/orders/:id/status", UpdateOrderStatusHandler(d.DB, d.Feed))
	adminGroup.POST("/upload", UploadHandler(d.UploadDir))
	adminGroup.GET("/admin/users", ListUsersHandler(d.DB, d.Redis))
	adminGroup.PUT("/admin/users/:id/role", SetUserRoleHandler(d.DB, d.Redis))
	if d.Feed != nil {
		adminGroup.GET("/orders/feed", d.Feed.Handler())
	}

	r.NoRoute(spaFallback(d.StaticDir))
	return r
}

// corsConfig allows any origin for "*" and the listed ones otherwise.
// Capacitor apps send capacitor:// origins, hence the custom schema.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:      []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:      []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:     []string{"Content-Length", "Content-Disposition"},
		AllowCustomSchema: true,
		MaxAge:            12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// spaFallback serves the built web client, answering unknown paths with
// index.html so client-side routing works. API misses stay JSON 404s.
func spaFallback(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if staticDir == "" || strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		file := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		index := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(index)
	}
}
