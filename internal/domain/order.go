package domain

import (
	"database/sql/driver" // Column values
	"encoding/json"       // JSON encoding/decoding
	"errors"              // Error inspection
	"fmt"                 // Error wrapping
	"strings"             // String manipulation
	"time"                // Time durations

	"github.com/google/uuid"        // Random IDs
	"github.com/shopspring/decimal" // Exact money arithmetic
)

// OrderStatus is the admin-driven state of an order
type OrderStatus string

// Declared order statuses
const (
	StatusPending   OrderStatus = "PENDING"
	StatusApproved  OrderStatus = "APPROVED"
	StatusRejected  OrderStatus = "REJECTED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
)

// OrderStatuses lists every declared status
var OrderStatuses = []OrderStatus{StatusPending, StatusApproved, StatusRejected, StatusShipped, StatusDelivered}

// ErrUnknownStatus is returned for a status outside OrderStatuses
var ErrUnknownStatus = errors.New("unknown order status")

// ParseOrderStatus validates s against the declared statuses
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// OrderItems is the cart snapshot, stored as a JSON column
type OrderItems []CartItem

// Value implements driver.Valuer
func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		o = OrderItems{}
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (o *OrderItems) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*o = nil
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("unsupported items column type %T", src)
	}
	return json.Unmarshal(b, o)
}

// Order Model
type Order struct {
	ID              string          `gorm:"primaryKey;size:32" json:"id"`                         // ORD-XXXXXX
	UserID          string          `gorm:"size:64;not null;index" json:"userId"`                 // Owner
	Username        string          `gorm:"size:191;not null" json:"username"`                    // Owner name at checkout
	Items           OrderItems      `gorm:"type:text;not null" json:"items"`                      // Cart snapshot
	TotalPrice      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"totalPrice"`        // Sum of item subtotals
	Status          OrderStatus     `gorm:"size:16;not null;default:PENDING;index" json:"status"` // Current status
	CreatedAt       time.Time       `gorm:"index" json:"createdAt"`                               // Checkout time
	StatusUpdatedAt *time.Time      `json:"statusUpdatedAt,omitempty"`                            // Last status change
}

// NewOrderID returns a short human-readable order ID
func NewOrderID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(hex[:6])
}
