// Package views holds the headless controllers behind each screen of the
// storefront. A controller owns its screen's state and talks to the backend
// through API and to the shared state through *session.Session.
package views

import (
	"context"                       // Request cancellation
	"mobil_market/internal/client"  // REST client
	"mobil_market/internal/domain"  // Importing domain models
	"mobil_market/internal/session" // Session state

	"github.com/shopspring/decimal" // Exact money arithmetic
)

// API is the backend surface the screens use. *client.Client implements it.
type API interface {
	Products(ctx context.Context, search, category string) ([]domain.Product, error)
	AddProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id uint, p domain.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	PlaceOrder(ctx context.Context, userID, username string, items []domain.CartItem, total decimal.Decimal) (domain.Order, error)
	Orders(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	UploadFiles(ctx context.Context, files []client.UploadFile) ([]string, error)
}

var _ API = (*client.Client)(nil)

// App wires every screen to one session
type App struct {
	Session *session.Session
	Layout  *Layout
	Auth    *Auth
	Home    *Home
	Cart    *Cart
	Profile *Profile
	Admin   *Admin
}

// NewApp builds the screens around sess
func NewApp(api API, sess *session.Session, images ImageResolver) *App {
	return &App{
		Session: sess,
		Layout:  NewLayout(sess),
		Auth:    NewAuth(sess),
		Home:    NewHome(api, sess, images),
		Cart:    NewCart(api, sess),
		Profile: NewProfile(api, sess, images),
		Admin:   NewAdmin(api),
	}
}

// Start restores the persisted session. The login screen shows when it
// leaves the session logged out.
func (a *App) Start(ctx context.Context) error {
	return a.Session.Restore(ctx)
}

// ShowLogin reports whether the auth screen replaces the tabs
func (a *App) ShowLogin() bool {
	return !a.Session.Loading() && !a.Session.LoggedIn()
}
