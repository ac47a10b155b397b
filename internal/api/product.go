package api

import (
	"context"                      // Context for Redis operations
	"errors"                       // Error inspection
	"mobil_market/internal/domain" // Importing domain models
	"mobil_market/internal/utils"  // Utility functions
	"net/http"                     // HTTP status codes
	"strconv"                      // String conversion
	"strings"                      // String manipulation
	"time"                         // Time durations

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
	"gorm.io/gorm"                  // GORM ORM library
)

// productCachePrefix namespaces cached catalog listings
const productCachePrefix = "products:"

// productCacheTTL bounds how stale a cached listing can be
const productCacheTTL = 60 * time.Second

// allCategories are the labels clients send for "no category filter"
var allCategories = map[string]bool{"": true, "all": true, "Tümü": true}

// ProductRequest is the body of product create and update
type ProductRequest struct {
	Name        string               `json:"name" binding:"required"` // Display name
	Price       decimal.Decimal      `json:"price"`                   // Unit price, never negative
	Category    string               `json:"category"`                // Category label
	Image       domain.ProductImages `json:"image"`                   // URL or JSON array string
	VideoURL    string               `json:"videoUrl"`                // Optional video
	FileURL     string               `json:"fileUrl"`                 // Optional file
	Description string               `json:"description"`             // Free text
}

func (r ProductRequest) valid() bool {
	return strings.TrimSpace(r.Name) != "" && !r.Price.IsNegative()
}

func (r ProductRequest) apply(p *domain.Product) {
	p.Name = strings.TrimSpace(r.Name)
	p.Price = r.Price
	p.Category = strings.TrimSpace(r.Category)
	p.Image = r.Image
	p.VideoURL = strings.TrimSpace(r.VideoURL)
	p.FileURL = strings.TrimSpace(r.FileURL)
	p.Description = r.Description
}

// ListProductsHandler returns the catalog filtered by search text and category
func ListProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		search := strings.TrimSpace(c.Query("search"))
		category := strings.TrimSpace(c.Query("category"))
		cache := productCache(rdb)
		cacheKey := cache.Key(map[string]string{"search": strings.ToLower(search), "category": category})

		var products []domain.Product
		if found, err := cache.Get(ctx, cacheKey, &products); err == nil && found {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, products)
			return
		}

		query := db.Model(&domain.Product{})
		if search != "" {
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		if !allCategories[category] {
			query = query.Where("category = ?", category)
		}
		products = []domain.Product{}
		if err := query.Order("id asc").Find(&products).Error; err != nil {
			logrus.WithError(err).Error("Failed to list products")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		_ = cache.Set(ctx, cacheKey, products)
		c.Header("X-Cache", "MISS")
		c.JSON(http.StatusOK, products)
	}
}

// CreateProductHandler adds a product to the catalog
func CreateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil || !req.valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name and a non-negative price are required"})
			return
		}
		var product domain.Product
		req.apply(&product)
		if err := db.Create(&product).Error; err != nil {
			logrus.WithError(err).Error("Failed to create product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		invalidateProducts(c.Request.Context(), rdb)
		logrus.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("Product created")
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProductHandler replaces every editable field of a product
func UpdateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productIDParam(c)
		if !ok {
			return
		}
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil || !req.valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name and a non-negative price are required"})
			return
		}
		var product domain.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		req.apply(&product)
		if err := db.Save(&product).Error; err != nil {
			logrus.WithError(err).WithField("product_id", id).Error("Failed to update product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		invalidateProducts(c.Request.Context(), rdb)
		logrus.WithField("product_id", id).Info("Product updated")
		c.JSON(http.StatusOK, product)
	}
}

// DeleteProductHandler removes a product and every favorite or saved mark on it
func DeleteProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productIDParam(c)
		if !ok {
			return
		}
		var deleted int64
		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Delete(&domain.Product{}, id)
			if res.Error != nil {
				return res.Error
			}
			deleted = res.RowsAffected
			if err := tx.Where("product_id = ?", id).Delete(&domain.Favorite{}).Error; err != nil {
				return err
			}
			return tx.Where("product_id = ?", id).Delete(&domain.Saved{}).Error
		})
		if err != nil {
			logrus.WithError(err).WithField("product_id", id).Error("Failed to delete product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if deleted == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		invalidateProducts(c.Request.Context(), rdb)
		logrus.WithField("product_id", id).Info("Product deleted")
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// productIDParam parses :id, answering 400 itself when it is not a positive integer
func productIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return 0, false
	}
	return uint(id), true
}

func productCache(rdb *redis.Client) *utils.Cache {
	return utils.NewCache(rdb, productCachePrefix, productCacheTTL)
}

// invalidateProducts drops every cached listing after a catalog write
func invalidateProducts(ctx context.Context, rdb *redis.Client) {
	if err := productCache(rdb).Invalidate(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate product cache")
	}
}
