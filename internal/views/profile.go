package views

import (
	"context"                       // Request cancellation
	"mobil_market/internal/domain"  // Importing domain models
	"mobil_market/internal/session" // Session state
	"slices"                        // Slice helpers

	"golang.org/x/sync/errgroup" // Parallel fetches
)

// Style is the badge colouring of an order status
type Style struct {
	Background string
	Text       string
}

var statusStyles = map[domain.OrderStatus]Style{
	domain.StatusPending:   {"bg-yellow-100", "text-yellow-600"},
	domain.StatusApproved:  {"bg-blue-100", "text-blue-600"},
	domain.StatusRejected:  {"bg-red-100", "text-red-600"},
	domain.StatusShipped:   {"bg-purple-100", "text-purple-600"},
	domain.StatusDelivered: {"bg-green-100", "text-green-600"},
}

// StatusStyle maps a status to its badge style; unknown statuses are grey
func StatusStyle(s domain.OrderStatus) Style {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return Style{"bg-gray-100", "text-gray-600"}
}

// Profile shows the user's orders and favorites
type Profile struct {
	api    API
	sess   *session.Session
	images ImageResolver

	Orders   []domain.Order
	Products []domain.Product
	Error    string
}

func NewProfile(api API, sess *session.Session, images ImageResolver) *Profile {
	return &Profile{api: api, sess: sess, images: images}
}

// Load fetches the user's orders and the catalog
func (p *Profile) Load(ctx context.Context) error {
	user, ok := p.sess.User()
	if !ok {
		return session.ErrNotLoggedIn
	}
	var orders []domain.Order
	var products []domain.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		orders, err = p.api.Orders(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		products, err = p.api.Products(gctx, "", "")
		return err
	})
	if err := g.Wait(); err != nil {
		p.Error = err.Error()
		return err
	}
	SortRecentFirst(orders)
	p.Orders = orders
	p.Products = products
	p.Error = ""
	return nil
}

// FavoriteProducts is the catalog narrowed to the favorite set
func (p *Profile) FavoriteProducts() []domain.Product {
	var out []domain.Product
	for _, pr := range p.Products {
		if p.sess.IsFavorite(pr.ID) {
			out = append(out, pr)
		}
	}
	return out
}

// Thumbnail is the first resolved image of pr
func (p *Profile) Thumbnail(pr domain.Product) string {
	return p.images.Resolve(pr.Image.Primary())
}

// Logout ends the session
func (p *Profile) Logout() error {
	p.Orders = nil
	p.Products = nil
	return p.sess.Logout()
}

// SortRecentFirst orders by creation time, newest first
func SortRecentFirst(orders []domain.Order) {
	slices.SortStableFunc(orders, func(a, b domain.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
