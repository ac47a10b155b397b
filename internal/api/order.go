package api

import (
	"errors"                           // Error inspection
	"mobil_market/internal/domain"     // Importing domain models
	"mobil_market/internal/middleware" // Auth context helpers
	"net/http"                         // HTTP status codes
	"strings"                          // String manipulation
	"time"                             // Timestamps

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
	"gorm.io/gorm"                  // GORM ORM library
)

// PlaceOrderRequest is the cart snapshot submitted at checkout
type PlaceOrderRequest struct {
	UserID     string            `json:"userId"`                   // Must match the token when present
	Username   string            `json:"username"`                 // Display name on the order
	Items      []domain.CartItem `json:"items" binding:"required"` // Cart snapshot
	TotalPrice decimal.Decimal   `json:"totalPrice"`               // Client computed total
}

// StatusRequest is the body of an order status change
type StatusRequest struct {
	Status string `json:"status" binding:"required"` // One of the declared statuses
}

// PlaceOrderHandler stores a PENDING order built from the caller's cart snapshot
func PlaceOrderHandler(db *gorm.DB, feed *OrderFeed) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.UserID != "" && req.UserID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot order for another user"})
			return
		}
		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}
		for _, it := range req.Items {
			if it.Quantity < 1 || it.Price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item"})
				return
			}
		}
		total := domain.CartTotal(req.Items)
		if !total.Equal(req.TotalPrice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Total price does not match cart contents"})
			return
		}
		username := strings.TrimSpace(req.Username)
		if username == "" {
			username = user.Username
		}
		order := domain.Order{
			ID:         domain.NewOrderID(),
			UserID:     user.ID,
			Username:   username,
			Items:      domain.OrderItems(req.Items),
			TotalPrice: total,
			Status:     domain.StatusPending,
			CreatedAt:  time.Now(),
		}
		if err := db.Create(&order).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"total":   total.String(),
				"error":   err.Error(),
			}).Error("Order placement failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Order placement failed"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"order_id": order.ID,
			"user_id":  user.ID,
			"items":    len(order.Items),
			"total":    total.String(),
		}).Info("Order placed")
		feed.Publish(OrderEvent{Type: EventOrderCreated, Order: order})
		c.JSON(http.StatusCreated, order)
	}
}

// ListOrdersHandler returns orders most recent first. Users only see their
// own; admins see everything unless userId narrows it.
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		query := db.Model(&domain.Order{})
		switch requested := c.Query("userId"); {
		case !user.IsAdmin():
			if requested != "" && requested != user.ID {
				c.JSON(http.StatusForbidden, gin.H{"error": "Cannot list another user's orders"})
				return
			}
			query = query.Where("user_id = ?", user.ID)
		case requested != "":
			query = query.Where("user_id = ?", requested)
		}
		if status := c.Query("status"); status != "" {
			st, err := domain.ParseOrderStatus(status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
				return
			}
			query = query.Where("status = ?", st)
		}
		orders := []domain.Order{}
		if err := query.Order("created_at desc").Order("id desc").Find(&orders).Error; err != nil {
			logrus.WithError(err).Error("Failed to list orders")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// UpdateOrderStatusHandler sets an order to any declared status
func UpdateOrderStatusHandler(db *gorm.DB, feed *OrderFeed) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := middleware.CurrentUser(c)
		var req StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		status, err := domain.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
			return
		}
		var order domain.Order
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&order, "id = ?", c.Param("id")).Error; err != nil {
				return err
			}
			now := time.Now()
			order.Status = status
			order.StatusUpdatedAt = &now
			return tx.Model(&order).Updates(map[string]any{"status": status, "status_updated_at": now}).Error
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			logrus.WithError(err).WithField("order_id", c.Param("id")).Error("Status update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Status update failed"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"order_id": order.ID,
			"status":   status,
			"admin_id": admin.ID,
		}).Info("Order status changed")
		feed.Publish(OrderEvent{Type: EventOrderStatusChanged, Order: order})
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}
