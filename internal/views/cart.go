package views

import (
	"context"                       // Request cancellation
	"errors"                        // Error inspection
	"mobil_market/internal/domain"  // Importing domain models
	"mobil_market/internal/session" // Session state

	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
)

// MsgOrderFailed is the alert shown when an order cannot be placed
const MsgOrderFailed = "Sipariş verilirken bir hata oluştu."

var ErrEmptyCart = errors.New("cart is empty")

// Cart is the cart and checkout screen
type Cart struct {
	api  API
	sess *session.Session

	Placing   bool
	Confirmed bool
	LastOrder *domain.Order
	Alert     string
}

func NewCart(api API, sess *session.Session) *Cart {
	return &Cart{api: api, sess: sess}
}

// Items are the current cart lines
func (c *Cart) Items() []domain.CartItem { return c.sess.Cart() }

// Total of the cart
func (c *Cart) Total() decimal.Decimal { return c.sess.CartTotal() }

// Remove drops one line
func (c *Cart) Remove(productID uint) { c.sess.RemoveFromCart(productID) }

// Checkout places an order with the current cart. On success the cart is
// cleared and Confirmed is set; on failure Alert is set and the cart kept.
func (c *Cart) Checkout(ctx context.Context) error {
	user, ok := c.sess.User()
	if !ok {
		return session.ErrNotLoggedIn
	}
	items := c.sess.Cart()
	if len(items) == 0 {
		return ErrEmptyCart
	}
	c.Placing = true
	defer func() { c.Placing = false }()

	order, err := c.api.PlaceOrder(ctx, user.ID, user.Username, items, domain.CartTotal(items))
	if err != nil {
		c.Alert = MsgOrderFailed
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "items": len(items)}).WithError(err).Error("Order placement failed")
		return err
	}
	c.sess.ClearCart()
	c.LastOrder = &order
	c.Alert = ""
	c.Confirmed = true
	return nil
}

// Dismiss closes the confirmation screen or the alert
func (c *Cart) Dismiss() {
	c.Confirmed = false
	c.Alert = ""
}
