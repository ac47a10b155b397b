package api

import (
	"errors"                           // Error inspection
	"mobil_market/internal/domain"     // Importing domain models
	"mobil_market/internal/middleware" // Auth context helpers
	"net/http"                         // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// legacyQueryID is the product id old clients send to read a set without toggling it
const legacyQueryID = -1

// membership describes one per-user product set (favorites, saved)
type membership struct {
	name  string                                  // Used in logs
	model func() any                              // Empty model for queries
	row   func(userID string, productID uint) any // Row to insert on toggle-on
}

var favoritesSet = membership{
	name:  "favorites",
	model: func() any { return &domain.Favorite{} },
	row: func(userID string, productID uint) any {
		return &domain.Favorite{UserID: userID, ProductID: productID}
	},
}

var savedSet = membership{
	name:  "saved",
	model: func() any { return &domain.Saved{} },
	row: func(userID string, productID uint) any {
		return &domain.Saved{UserID: userID, ProductID: productID}
	},
}

// ToggleRequest is the body of a favorite or saved toggle
type ToggleRequest struct {
	UserID    string `json:"userId"`                       // Must match the token when present
	ProductID int64  `json:"productId" binding:"required"` // Product to toggle
}

// list returns the product ids in the user's set, ascending
func (m membership) list(db *gorm.DB, userID string) ([]uint, error) {
	ids := []uint{}
	err := db.Model(m.model()).Where("user_id = ?", userID).Order("product_id asc").Pluck("product_id", &ids).Error
	return ids, err
}

// toggle flips membership of productID and reports whether it is now a member
func (m membership) toggle(db *gorm.DB, userID string, productID uint) (bool, error) {
	added := false
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND product_id = ?", userID, productID).Delete(m.model())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		added = true
		return tx.Create(m.row(userID, productID)).Error
	})
	return added, err
}

// ListMembershipHandler returns the caller's product id set
func ListMembershipHandler(db *gorm.DB, m membership) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		ids, err := m.list(db, userID)
		if err != nil {
			logrus.WithError(err).WithField("set", m.name).Error("Failed to list membership")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + m.name})
			return
		}
		c.JSON(http.StatusOK, ids)
	}
}

// ToggleMembershipHandler flips one product in the caller's set and returns the new set
func ToggleMembershipHandler(db *gorm.DB, m membership) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		var req ToggleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.UserID != "" && req.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot change another user's " + m.name})
			return
		}
		if req.ProductID != legacyQueryID {
			if req.ProductID <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
				return
			}
			productID := uint(req.ProductID)
			if err := db.Select("id").First(&domain.Product{}, productID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
				return
			}
			added, err := m.toggle(db, userID, productID)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{"set": m.name, "user_id": userID, "product_id": productID}).Error("Toggle failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update " + m.name})
				return
			}
			logrus.WithFields(logrus.Fields{"set": m.name, "user_id": userID, "product_id": productID, "added": added}).Info("Membership toggled")
		}
		ids, err := m.list(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + m.name})
			return
		}
		c.JSON(http.StatusOK, ids)
	}
}
