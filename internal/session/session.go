// Package session holds the client-side state of one storefront user: who is
// logged in, the active tab, the cart and the favorite/saved sets.
package session

import (
	"context"                      // Request cancellation
	"errors"                       // Error inspection
	"fmt"                          // Error wrapping
	"mobil_market/internal/client" // REST client
	"mobil_market/internal/domain" // Importing domain models
	"slices"                       // Slice helpers
	"sync"                         // Locking

	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
	"golang.org/x/sync/errgroup"    // Parallel fetches
)

// Tab is a top-level view of the app
type Tab string

// Tabs of the app
const (
	TabHome    Tab = "home"
	TabSearch  Tab = "search"
	TabCart    Tab = "cart"
	TabProfile Tab = "profile"
	TabAdmin   Tab = "admin"
)

var (
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrTabNotAllowed = errors.New("tab not available")
)

// Backend is the part of the API client the session needs
type Backend interface {
	Login(ctx context.Context, username, password string) (*client.AuthResult, error)
	Register(ctx context.Context, username, password string) (*client.AuthResult, error)
	Favorites(ctx context.Context) ([]uint, error)
	Saved(ctx context.Context) ([]uint, error)
	ToggleFavorite(ctx context.Context, userID string, productID uint) ([]uint, error)
	ToggleSaved(ctx context.Context, userID string, productID uint) ([]uint, error)
	SetToken(token string)
}

// Session is the root state object passed to every view controller.
// All mutation goes through its methods.
type Session struct {
	backend Backend
	store   Store

	mu        sync.Mutex
	user      *domain.User
	token     string
	tab       Tab
	cart      []domain.CartItem
	favorites []uint
	saved     []uint
	loading   bool
}

// New returns a logged-out session that is loading until Restore runs
func New(backend Backend, store Store) *Session {
	if store == nil {
		store = &MemoryStore{}
	}
	return &Session{backend: backend, store: store, tab: TabHome, loading: true}
}

// Restore reloads the persisted user, if any. Corrupt data and a token the
// backend no longer accepts are discarded and the session stays logged out.
func (s *Session) Restore(ctx context.Context) error {
	defer s.setLoading(false)
	p, err := s.store.Load()
	if errors.Is(err, ErrCorrupt) {
		logrus.WithError(err).Warn("Discarding stored session")
		return s.store.Clear()
	}
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	s.mu.Lock()
	user := p.User
	s.user = &user
	s.token = p.Token
	s.mu.Unlock()
	s.backend.SetToken(p.Token)
	if err := s.refreshMemberships(ctx); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Stored session expired")
		return s.Logout()
	}
	return nil
}

// Login authenticates and starts a session
func (s *Session) Login(ctx context.Context, username, password string) error {
	res, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return s.begin(ctx, res)
}

// Register creates an account and starts a session
func (s *Session) Register(ctx context.Context, username, password string) error {
	res, err := s.backend.Register(ctx, username, password)
	if err != nil {
		return err
	}
	return s.begin(ctx, res)
}

func (s *Session) begin(ctx context.Context, res *client.AuthResult) error {
	s.mu.Lock()
	user := res.User
	s.user = &user
	s.token = res.Token
	s.tab = TabHome
	s.cart = nil
	s.favorites = nil
	s.saved = nil
	s.mu.Unlock()
	s.backend.SetToken(res.Token)

	if err := s.store.Save(Persisted{User: res.User, Token: res.Token}); err != nil {
		logrus.WithError(err).Warn("Failed to persist session")
	}
	if err := s.refreshMemberships(ctx); err != nil {
		logrus.WithError(err).Warn("Fresh token rejected")
	}
	return nil
}

// refreshMemberships fetches both sets side by side. A failed fetch leaves
// that set empty. The returned error is non-nil only when the backend
// rejected the token.
func (s *Session) refreshMemberships(ctx context.Context) error {
	var favs, saved []uint
	var favErr, savedErr error
	var g errgroup.Group
	g.Go(func() error {
		favs, favErr = s.backend.Favorites(ctx)
		return favErr
	})
	g.Go(func() error {
		saved, savedErr = s.backend.Saved(ctx)
		return savedErr
	})
	if err := g.Wait(); err != nil {
		logrus.WithError(err).Warn("Failed to load user interactions")
	}
	for _, err := range []error{favErr, savedErr} {
		if errors.Is(err, client.ErrUnauthorized) {
			return err
		}
	}
	s.mu.Lock()
	s.favorites = favs
	s.saved = saved
	s.mu.Unlock()
	return nil
}

// Logout forgets everything: user, token, cart, sets and the stored session
func (s *Session) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.tab = TabHome
	s.cart = nil
	s.favorites = nil
	s.saved = nil
	s.mu.Unlock()
	s.backend.SetToken("")
	return s.store.Clear()
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Loading reports whether Restore has not finished yet
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// User returns the logged-in user
func (s *Session) User() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// LoggedIn reports whether a user is logged in
func (s *Session) LoggedIn() bool {
	_, ok := s.User()
	return ok
}

// IsAdmin reports whether the logged-in user is an admin
func (s *Session) IsAdmin() bool {
	u, ok := s.User()
	return ok && u.IsAdmin()
}

// Tab returns the active tab
func (s *Session) Tab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// Tabs lists the tabs available to the current user
func (s *Session) Tabs() []Tab {
	tabs := []Tab{TabHome, TabSearch, TabCart, TabProfile}
	if s.IsAdmin() {
		tabs = append(tabs, TabAdmin)
	}
	return tabs
}

// SetTab switches the active tab
func (s *Session) SetTab(t Tab) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	if !slices.Contains(s.Tabs(), t) {
		return fmt.Errorf("%w: %s", ErrTabNotAllowed, t)
	}
	s.mu.Lock()
	s.tab = t
	s.mu.Unlock()
	return nil
}

// Cart returns a copy of the cart lines
func (s *Session) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cart)
}

// AddToCart bumps the quantity of an existing line or appends a new one
func (s *Session) AddToCart(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ID == p.ID {
			s.cart[i].Quantity++
			return
		}
	}
	s.cart = append(s.cart, domain.CartItem{Product: p, Quantity: 1})
}

// RemoveFromCart drops the line for productID
func (s *Session) RemoveFromCart(productID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = slices.DeleteFunc(s.cart, func(it domain.CartItem) bool { return it.ID == productID })
}

// ClearCart empties the cart
func (s *Session) ClearCart() {
	s.mu.Lock()
	s.cart = nil
	s.mu.Unlock()
}

// CartTotal is the sum of price times quantity
func (s *Session) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartTotal(s.cart)
}

// CartCount is the number of units in the cart
func (s *Session) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.cart {
		n += it.Quantity
	}
	return n
}

// Favorites returns the favorite product IDs
func (s *Session) Favorites() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.favorites)
}

// Saved returns the saved product IDs
func (s *Session) Saved() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.saved)
}

// IsFavorite reports whether productID is a favorite
func (s *Session) IsFavorite(productID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.favorites, productID)
}

// IsSaved reports whether productID is saved
func (s *Session) IsSaved(productID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.saved, productID)
}

// ToggleFavorite flips productID on the server and adopts the returned set
func (s *Session) ToggleFavorite(ctx context.Context, productID uint) error {
	u, ok := s.User()
	if !ok {
		return ErrNotLoggedIn
	}
	ids, err := s.backend.ToggleFavorite(ctx, u.ID, productID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.favorites = ids
	s.mu.Unlock()
	return nil
}

// ToggleSaved flips productID on the server and adopts the returned set
func (s *Session) ToggleSaved(ctx context.Context, productID uint) error {
	u, ok := s.User()
	if !ok {
		return ErrNotLoggedIn
	}
	ids, err := s.backend.ToggleSaved(ctx, u.ID, productID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.saved = ids
	s.mu.Unlock()
	return nil
}
