package api

import (
	"mobil_market/internal/domain"     // Importing domain models
	"mobil_market/internal/middleware" // Auth context helpers
	"mobil_market/internal/utils"      // Utility functions
	"net/http"                         // HTTP status codes
	"strconv"                          // String conversion
	"time"                             // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
	"gorm.io/gorm"                 // GORM ORM library
)

// userCachePrefix namespaces cached user pages
const userCachePrefix = "admin:users:"

// UserPage is one page of the admin user listing
type UserPage struct {
	Users      []UserResponse `json:"users"`       // List of users
	Page       int            `json:"page"`        // Current page
	PageSize   int            `json:"page_size"`   // Page size
	Total      int64          `json:"total"`       // Total number of users
	TotalPages int            `json:"total_pages"` // Total pages
	Cached     bool           `json:"cached"`      // Served from cache
}

// RoleRequest is the body of a role change
type RoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"` // New role
}

// ListUsersHandler returns a page of users
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := 1      // Default page number
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v
			}
		}
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v
			}
		}
		cache := utils.NewCache(rdb, userCachePrefix, 60*time.Second)
		cacheKey := cache.Key(map[string]string{"page": strconv.Itoa(page), "size": strconv.Itoa(pageSize)})
		var cached UserPage
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			cached.Cached = true
			c.JSON(http.StatusOK, cached)
			return
		}

		var total int64
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
			return
		}
		var users []domain.User
		offset := (page - 1) * pageSize
		if err := db.Order("created_at asc").Order("id asc").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		resp := UserPage{
			Users:      make([]UserResponse, len(users)),
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: (int(total) + pageSize - 1) / pageSize,
		}
		for i, u := range users {
			resp.Users[i] = toUserResponse(u)
		}
		_ = cache.Set(ctx, cacheKey, resp)
		c.JSON(http.StatusOK, resp)
	}
}

// SetUserRoleHandler promotes or demotes a user. Admins cannot demote themselves.
func SetUserRoleHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := middleware.CurrentUser(c)
		var req RoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be user or admin"})
			return
		}
		targetID := c.Param("id")
		if targetID == admin.ID && req.Role != domain.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot demote yourself"})
			return
		}
		res := db.Model(&domain.User{}).Where("id = ?", targetID).Update("role", req.Role)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
			return
		}
		if res.RowsAffected == 0 {
			var exists int64
			db.Model(&domain.User{}).Where("id = ?", targetID).Count(&exists)
			if exists == 0 {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
		}
		if err := utils.NewCache(rdb, userCachePrefix, 0).Invalidate(c.Request.Context()); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate user cache")
		}
		logrus.WithFields(logrus.Fields{"user_id": targetID, "role": req.Role, "admin_id": admin.ID}).Info("User role changed")
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
